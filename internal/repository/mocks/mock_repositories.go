package mocks

import (
	"context"
	"time"

	"propapi/internal/model"
	"propapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, p *model.Property) (*model.Property, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListByLandlord(ctx context.Context, landlordID string, pq repository.PageQuery) (*repository.PageResult[model.Property], error) {
	args := m.Called(ctx, landlordID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Property]), args.Error(1)
}

func (m *MockPropertyRepository) ListByTenantUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Property], error) {
	args := m.Called(ctx, userID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Property]), args.Error(1)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, t *model.Tenant) (*model.Tenant, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id string) (*model.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID string) (*model.Tenant, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListByProperty(ctx context.Context, propertyID string) ([]model.Tenant, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tenant), args.Error(1)
}

type MockPropertyRequestRepository struct {
	mock.Mock
}

func (m *MockPropertyRequestRepository) Create(ctx context.Context, r *model.PropertyRequest) (*model.PropertyRequest, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PropertyRequest), args.Error(1)
}

func (m *MockPropertyRequestRepository) FindByID(ctx context.Context, id string) (*model.PropertyRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PropertyRequest), args.Error(1)
}

func (m *MockPropertyRequestRepository) ListByProperty(ctx context.Context, propertyID string, pq repository.PageQuery) (*repository.PageResult[model.PropertyRequest], error) {
	args := m.Called(ctx, propertyID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.PropertyRequest]), args.Error(1)
}

func (m *MockPropertyRequestRepository) Decide(ctx context.Context, id string, status model.PropertyRequestStatus, reason string, decidedAt time.Time) error {
	args := m.Called(ctx, id, status, reason, decidedAt)
	return args.Error(0)
}

func (m *MockPropertyRequestRepository) Approve(ctx context.Context, id string, tenant *model.Tenant, decidedAt time.Time) (*model.Tenant, error) {
	args := m.Called(ctx, id, tenant, decidedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) Create(ctx context.Context, l *model.Lease) (*model.Lease, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindByID(ctx context.Context, id string) (*model.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lease), args.Error(1)
}

func (m *MockLeaseRepository) List(ctx context.Context, f repository.LeaseFilter, pq repository.PageQuery) (*repository.PageResult[model.Lease], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Lease]), args.Error(1)
}

func (m *MockLeaseRepository) UpdateStatus(ctx context.Context, id string, from, to model.LeaseStatus, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}

func (m *MockLeaseRepository) SetDocument(ctx context.Context, id, path, name string, at time.Time) error {
	args := m.Called(ctx, id, path, name, at)
	return args.Error(0)
}

func (m *MockLeaseRepository) ListActive(ctx context.Context) ([]model.Lease, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lease), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	args := m.Called(ctx, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, f repository.InvoiceFilter, pq repository.PageQuery) (*repository.PageResult[model.Invoice], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, id string, from, to model.InvoiceStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ListOverdueCandidates(ctx context.Context, now time.Time) ([]model.Invoice, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsForPeriod(ctx context.Context, leaseID string, periodStart time.Time) (bool, error) {
	args := m.Called(ctx, leaseID, periodStart)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPaymentRepository simulates Record by applying the callback to a copy of the
// invoice passed as the first return value.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Record(ctx context.Context, invoiceID string, apply repository.PaymentApplier) (*model.Payment, *model.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if err := args.Error(1); err != nil {
		return nil, nil, err
	}
	locked := *args.Get(0).(*model.Invoice)
	p, err := apply(&locked)
	if err != nil {
		return nil, nil, err
	}
	return p, &locked, nil
}

func (m *MockPaymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) Create(ctx context.Context, r *model.MaintenanceRequest) (*model.MaintenanceRequest, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) FindByID(ctx context.Context, id string) (*model.MaintenanceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) List(ctx context.Context, f repository.MaintenanceFilter, pq repository.PageQuery) (*repository.PageResult[model.MaintenanceRequest], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.MaintenanceRequest]), args.Error(1)
}

func (m *MockMaintenanceRepository) UpdateStatus(ctx context.Context, id string, from, to model.MaintenanceStatus, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}

func (m *MockMaintenanceRepository) SetPhoto(ctx context.Context, id, path string, at time.Time) error {
	args := m.Called(ctx, id, path, at)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
