package repository

import (
	"context"
	"errors"
	"time"

	"propapi/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) and hold no business logic.
// Lookups of missing rows return sql.ErrNoRows unchanged; services translate it.

// ErrStaleState is returned by conditional updates when the row is no longer in the expected state.
var ErrStaleState = errors.New("row not in expected state")

// ErrDuplicate is returned by Create when a unique constraint rejects the row.
var ErrDuplicate = errors.New("duplicate row")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// UserRepository persists portal accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// PropertyRepository persists properties.
type PropertyRepository interface {
	Create(ctx context.Context, p *model.Property) (*model.Property, error)
	FindByID(ctx context.Context, id string) (*model.Property, error)
	// ListByLandlord returns the properties owned by landlordID.
	ListByLandlord(ctx context.Context, landlordID string, pq PageQuery) (*PageResult[model.Property], error)
	// ListByTenantUser returns the properties userID is a tenant of.
	ListByTenantUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Property], error)
}

// TenantRepository persists tenant memberships.
type TenantRepository interface {
	Create(ctx context.Context, t *model.Tenant) (*model.Tenant, error)
	FindByID(ctx context.Context, id string) (*model.Tenant, error)
	FindByUserAndProperty(ctx context.Context, userID, propertyID string) (*model.Tenant, error)
	ListByProperty(ctx context.Context, propertyID string) ([]model.Tenant, error)
}

// PropertyRequestRepository persists requests to join a property.
type PropertyRequestRepository interface {
	Create(ctx context.Context, r *model.PropertyRequest) (*model.PropertyRequest, error)
	FindByID(ctx context.Context, id string) (*model.PropertyRequest, error)
	ListByProperty(ctx context.Context, propertyID string, pq PageQuery) (*PageResult[model.PropertyRequest], error)
	// Decide moves a pending request to status. It returns ErrStaleState if the request is no longer pending.
	Decide(ctx context.Context, id string, status model.PropertyRequestStatus, reason string, decidedAt time.Time) error
	// Approve marks a pending request approved and creates tenant in one transaction.
	// It returns ErrStaleState if the request is no longer pending and ErrDuplicate if the tenancy exists.
	Approve(ctx context.Context, id string, tenant *model.Tenant, decidedAt time.Time) (*model.Tenant, error)
}

// LeaseFilter narrows lease listings. Empty fields are ignored.
type LeaseFilter struct {
	PropertyID string
	TenantID   string
	Status     model.LeaseStatus
	// LandlordID restricts results to properties owned by that user.
	LandlordID string
	// TenantUserID restricts results to tenancies held by that user.
	TenantUserID string
}

// LeaseRepository persists leases.
type LeaseRepository interface {
	Create(ctx context.Context, l *model.Lease) (*model.Lease, error)
	FindByID(ctx context.Context, id string) (*model.Lease, error)
	List(ctx context.Context, f LeaseFilter, pq PageQuery) (*PageResult[model.Lease], error)
	// UpdateStatus moves a lease from one status to another. It returns ErrStaleState if the
	// lease is not currently in status from.
	UpdateStatus(ctx context.Context, id string, from, to model.LeaseStatus, at time.Time) error
	SetDocument(ctx context.Context, id, path, name string, at time.Time) error
	ListActive(ctx context.Context) ([]model.Lease, error)
}

// InvoiceFilter narrows invoice listings. Empty fields are ignored.
type InvoiceFilter struct {
	LeaseID    string
	TenantID   string
	PropertyID string
	Status     model.InvoiceStatus
	// LandlordID restricts results to properties owned by that user.
	LandlordID string
	// TenantUserID restricts results to tenancies held by that user.
	TenantUserID string
}

// InvoiceRepository persists invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error)
	FindByID(ctx context.Context, id string) (*model.Invoice, error)
	List(ctx context.Context, f InvoiceFilter, pq PageQuery) (*PageResult[model.Invoice], error)
	// UpdateStatus moves an invoice from one status to another, returning ErrStaleState on mismatch.
	UpdateStatus(ctx context.Context, id string, from, to model.InvoiceStatus) error
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	// ListOverdueCandidates returns sent or partially paid invoices due before now.
	ListOverdueCandidates(ctx context.Context, now time.Time) ([]model.Invoice, error)
	ExistsForPeriod(ctx context.Context, leaseID string, periodStart time.Time) (bool, error)
	// NextNumber allocates the next human-readable invoice number.
	NextNumber(ctx context.Context) (string, error)
}

// PaymentApplier receives the locked invoice, mutates it, and returns the payment to insert.
type PaymentApplier func(inv *model.Invoice) (*model.Payment, error)

// PaymentRepository persists payments.
type PaymentRepository interface {
	// Record locks the invoice, lets apply update it, and stores the payment and the
	// updated invoice atomically.
	Record(ctx context.Context, invoiceID string, apply PaymentApplier) (*model.Payment, *model.Invoice, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]model.Payment, error)
}

// MaintenanceFilter narrows maintenance listings. Empty fields are ignored.
type MaintenanceFilter struct {
	PropertyID string
	TenantID   string
	Status     model.MaintenanceStatus
	// LandlordID restricts results to properties owned by that user.
	LandlordID string
	// TenantUserID restricts results to tenancies held by that user.
	TenantUserID string
}

// MaintenanceRepository persists maintenance requests.
type MaintenanceRepository interface {
	Create(ctx context.Context, m *model.MaintenanceRequest) (*model.MaintenanceRequest, error)
	FindByID(ctx context.Context, id string) (*model.MaintenanceRequest, error)
	List(ctx context.Context, f MaintenanceFilter, pq PageQuery) (*PageResult[model.MaintenanceRequest], error)
	UpdateStatus(ctx context.Context, id string, from, to model.MaintenanceStatus, at time.Time) error
	SetPhoto(ctx context.Context, id, path string, at time.Time) error
}

// NotificationRepository persists notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool, pq PageQuery) (*PageResult[model.Notification], error)
	// MarkRead flags a notification owned by userID as read. It returns sql.ErrNoRows if
	// no such notification exists for that user.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}
