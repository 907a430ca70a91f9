package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/text/language"

	"propapi/internal/auth"
	"propapi/internal/exchange"
	"propapi/internal/model"
	"propapi/internal/service"
	"propapi/internal/storage"
)

type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, p auth.Principal, in service.PropertyInput) (*model.Property, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyService) Get(ctx context.Context, p auth.Principal, id string) (*model.Property, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyService) ListMine(ctx context.Context, p auth.Principal, limit, offset int) (*service.ListResult[model.Property], error) {
	args := m.Called(ctx, p, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Property]), args.Error(1)
}

func (m *MockPropertyService) ListTenants(ctx context.Context, p auth.Principal, propertyID string) ([]model.Tenant, error) {
	args := m.Called(ctx, p, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tenant), args.Error(1)
}

type MockPropertyRequestService struct {
	mock.Mock
}

func (m *MockPropertyRequestService) Submit(ctx context.Context, p auth.Principal, propertyID, message string) (*model.PropertyRequest, error) {
	args := m.Called(ctx, p, propertyID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PropertyRequest), args.Error(1)
}

func (m *MockPropertyRequestService) List(ctx context.Context, p auth.Principal, propertyID string, limit, offset int) (*service.ListResult[model.PropertyRequest], error) {
	args := m.Called(ctx, p, propertyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.PropertyRequest]), args.Error(1)
}

func (m *MockPropertyRequestService) Approve(ctx context.Context, p auth.Principal, id string) (*model.Tenant, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockPropertyRequestService) Reject(ctx context.Context, p auth.Principal, id, reason string) (*model.PropertyRequest, error) {
	args := m.Called(ctx, p, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PropertyRequest), args.Error(1)
}

type MockLeaseService struct {
	mock.Mock
}

func (m *MockLeaseService) Create(ctx context.Context, p auth.Principal, in service.LeaseInput) (*model.Lease, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lease), args.Error(1)
}

func (m *MockLeaseService) Get(ctx context.Context, p auth.Principal, id string) (*model.Lease, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lease), args.Error(1)
}

func (m *MockLeaseService) List(ctx context.Context, p auth.Principal, f service.LeaseListFilter) (*service.ListResult[model.Lease], error) {
	args := m.Called(ctx, p, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Lease]), args.Error(1)
}

func (m *MockLeaseService) Transition(ctx context.Context, p auth.Principal, id string, to model.LeaseStatus) (*model.Lease, error) {
	args := m.Called(ctx, p, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lease), args.Error(1)
}

func (m *MockLeaseService) UploadDocument(ctx context.Context, p auth.Principal, id string, f service.FileUpload) (*model.Lease, error) {
	args := m.Called(ctx, p, id, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lease), args.Error(1)
}

func (m *MockLeaseService) DownloadDocument(ctx context.Context, p auth.Principal, id string) (io.ReadCloser, storage.ObjectInfo, *model.Lease, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, nil, args.Error(3)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Get(2).(*model.Lease), args.Error(3)
}

func (m *MockLeaseService) PresignDocument(ctx context.Context, p auth.Principal, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, p, id, expiry)
	return args.String(0), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, p auth.Principal, in service.InvoiceInput) (*model.Invoice, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, p auth.Principal, f service.InvoiceListFilter) (*service.ListResult[model.Invoice], error) {
	args := m.Called(ctx, p, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Invoice]), args.Error(1)
}

func (m *MockInvoiceService) RenderPDF(ctx context.Context, p auth.Principal, id string, locale language.Tag) ([]byte, *model.Invoice, error) {
	args := m.Called(ctx, p, id, locale)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(*model.Invoice), args.Error(2)
}

func (m *MockInvoiceService) Send(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Void(ctx context.Context, p auth.Principal, id string) (*model.Invoice, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GenerateForPeriod(ctx context.Context, month time.Time) (service.GenerateResult, error) {
	args := m.Called(ctx, month)
	return args.Get(0).(service.GenerateResult), args.Error(1)
}

func (m *MockInvoiceService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Record(ctx context.Context, p auth.Principal, invoiceID string, in service.PaymentInput) (*model.Payment, *model.Invoice, error) {
	args := m.Called(ctx, p, invoiceID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Payment), args.Get(1).(*model.Invoice), args.Error(2)
}

func (m *MockPaymentService) ListByInvoice(ctx context.Context, p auth.Principal, invoiceID string) ([]model.Payment, error) {
	args := m.Called(ctx, p, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) Create(ctx context.Context, p auth.Principal, in service.MaintenanceInput) (*model.MaintenanceRequest, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceService) Get(ctx context.Context, p auth.Principal, id string) (*model.MaintenanceRequest, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceService) List(ctx context.Context, p auth.Principal, f service.MaintenanceListFilter) (*service.ListResult[model.MaintenanceRequest], error) {
	args := m.Called(ctx, p, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.MaintenanceRequest]), args.Error(1)
}

func (m *MockMaintenanceService) UpdateStatus(ctx context.Context, p auth.Principal, id string, to model.MaintenanceStatus) (*model.MaintenanceRequest, error) {
	args := m.Called(ctx, p, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceService) AttachPhoto(ctx context.Context, p auth.Principal, id string, f service.FileUpload) (*model.MaintenanceRequest, error) {
	args := m.Called(ctx, p, id, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MaintenanceRequest), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, userID string, typ model.NotificationType, title, message, link string) (*model.Notification, error) {
	args := m.Called(ctx, userID, typ, title, message, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, p auth.Principal, unreadOnly bool, limit, offset int) (*service.ListResult[model.Notification], error) {
	args := m.Called(ctx, p, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Notification]), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, p auth.Principal, id string) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, p auth.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, p auth.Principal) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

type MockExchangeService struct {
	mock.Mock
}

func (m *MockExchangeService) Rate(ctx context.Context, base, target string) (exchange.Rate, error) {
	args := m.Called(ctx, base, target)
	return args.Get(0).(exchange.Rate), args.Error(1)
}

func (m *MockExchangeService) Convert(ctx context.Context, amountMinor int64, base, target string) (exchange.Conversion, error) {
	args := m.Called(ctx, amountMinor, base, target)
	return args.Get(0).(exchange.Conversion), args.Error(1)
}
