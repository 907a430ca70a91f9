package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"propapi/internal/auth"
	"propapi/internal/model"
	repoMocks "propapi/internal/repository/mocks"
	storeMocks "propapi/internal/storage/mocks"
)

const (
	landlordUserID = "11111111-1111-4111-8111-111111111111"
	tenantUserID   = "22222222-2222-4222-8222-222222222222"
	strangerUserID = "33333333-3333-4333-8333-333333333333"
	propertyID     = "44444444-4444-4444-8444-444444444444"
	tenantID       = "55555555-5555-4555-8555-555555555555"
	leaseID        = "66666666-6666-4666-8666-666666666666"
	invoiceID      = "77777777-7777-4777-8777-777777777777"
	maintenanceID  = "88888888-8888-4888-8888-888888888888"
	requestID      = "99999999-9999-4999-8999-999999999999"
)

var (
	landlord         = auth.Principal{UserID: landlordUserID, Role: model.RoleLandlord}
	tenant           = auth.Principal{UserID: tenantUserID, Role: model.RoleTenant}
	strangerLandlord = auth.Principal{UserID: strangerUserID, Role: model.RoleLandlord}
	strangerTenant   = auth.Principal{UserID: strangerUserID, Role: model.RoleTenant}
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type testRepos struct {
	users         *repoMocks.MockUserRepository
	properties    *repoMocks.MockPropertyRepository
	tenants       *repoMocks.MockTenantRepository
	requests      *repoMocks.MockPropertyRequestRepository
	leases        *repoMocks.MockLeaseRepository
	invoices      *repoMocks.MockInvoiceRepository
	payments      *repoMocks.MockPaymentRepository
	maintenance   *repoMocks.MockMaintenanceRepository
	notifications *repoMocks.MockNotificationRepository
	store         *storeMocks.MockStorage
}

func newTestRepos() *testRepos {
	return &testRepos{
		users:         new(repoMocks.MockUserRepository),
		properties:    new(repoMocks.MockPropertyRepository),
		tenants:       new(repoMocks.MockTenantRepository),
		requests:      new(repoMocks.MockPropertyRequestRepository),
		leases:        new(repoMocks.MockLeaseRepository),
		invoices:      new(repoMocks.MockInvoiceRepository),
		payments:      new(repoMocks.MockPaymentRepository),
		maintenance:   new(repoMocks.MockMaintenanceRepository),
		notifications: new(repoMocks.MockNotificationRepository),
		store:         new(storeMocks.MockStorage),
	}
}

func (r *testRepos) notifier() Notifier {
	svc := NewNotificationService(r.notifications).(*notificationService)
	svc.now = fixedNow
	return svc
}

func (r *testRepos) assertExpectations(t *testing.T) {
	t.Helper()
	r.users.AssertExpectations(t)
	r.properties.AssertExpectations(t)
	r.tenants.AssertExpectations(t)
	r.requests.AssertExpectations(t)
	r.leases.AssertExpectations(t)
	r.invoices.AssertExpectations(t)
	r.payments.AssertExpectations(t)
	r.maintenance.AssertExpectations(t)
	r.notifications.AssertExpectations(t)
	r.store.AssertExpectations(t)
}

// expectNotification expects one notification of typ addressed to userID.
func (r *testRepos) expectNotification(userID string, typ model.NotificationType) *mock.Call {
	return r.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.UserID == userID && n.Type == typ
	})).Return(&model.Notification{ID: "n1"}, nil).Once()
}

func (r *testRepos) withProperty() {
	r.properties.On("FindByID", mock.Anything, propertyID).Return(sampleProperty(), nil)
}

func (r *testRepos) withTenant() {
	r.tenants.On("FindByID", mock.Anything, tenantID).Return(sampleTenant(), nil)
}

func sampleProperty() *model.Property {
	return &model.Property{
		ID:         propertyID,
		LandlordID: landlordUserID,
		Name:       "Maple Court 4B",
		Address:    "12 Maple St",
		City:       "Springfield",
		Country:    "US",
		Currency:   "USD",
	}
}

func sampleTenant() *model.Tenant {
	return &model.Tenant{ID: tenantID, UserID: tenantUserID, PropertyID: propertyID}
}

func sampleLease(status model.LeaseStatus) *model.Lease {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &model.Lease{
		ID:         leaseID,
		PropertyID: propertyID,
		TenantID:   tenantID,
		StartDate:  start,
		EndDate:    start.AddDate(1, 0, -1),
		RentAmount: 150000,
		Currency:   "USD",
		BillingDay: 5,
		Status:     status,
	}
}

func sampleInvoice(status model.InvoiceStatus) *model.Invoice {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Invoice{
		ID:          invoiceID,
		Number:      "INV-001042",
		LeaseID:     leaseID,
		TenantID:    tenantID,
		PropertyID:  propertyID,
		Amount:      150000,
		Currency:    "USD",
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, -1),
		DueDate:     start.AddDate(0, 0, 4),
		Status:      status,
		CreatedAt:   start,
	}
}

func errNoRows() error { return sql.ErrNoRows }
