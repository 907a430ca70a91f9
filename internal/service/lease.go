package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"propapi/internal/auth"
	"propapi/internal/model"
	"propapi/internal/repository"
	"propapi/internal/storage"
	"propapi/internal/upload"
)

// LeaseInput is the payload for creating a lease. Currency defaults to the property's.
type LeaseInput struct {
	PropertyID string    `json:"property_id"`
	TenantID   string    `json:"tenant_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	RentAmount int64     `json:"rent_amount"`
	Deposit    int64     `json:"deposit"`
	Currency   string    `json:"currency"`
	BillingDay int       `json:"billing_day"`
}

// LeaseListFilter narrows a lease listing for the caller.
type LeaseListFilter struct {
	PropertyID string
	Status     model.LeaseStatus
	Limit      int
	Offset     int
}

// FileUpload describes a streamed file. UploadID, when set, enables progress tracking.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	UploadID    string
}

// LeaseService defines the use cases for leases and their signed documents.
type LeaseService interface {
	Create(ctx context.Context, p auth.Principal, in LeaseInput) (*model.Lease, error)
	Get(ctx context.Context, p auth.Principal, id string) (*model.Lease, error)
	List(ctx context.Context, p auth.Principal, f LeaseListFilter) (*ListResult[model.Lease], error)
	Transition(ctx context.Context, p auth.Principal, id string, to model.LeaseStatus) (*model.Lease, error)

	// UploadDocument streams the lease document to object storage, records it on the lease,
	// and deletes the object again if the database update fails.
	UploadDocument(ctx context.Context, p auth.Principal, id string, f FileUpload) (*model.Lease, error)
	// DownloadDocument returns a streaming reader over the lease document. Callers must close it.
	DownloadDocument(ctx context.Context, p auth.Principal, id string) (io.ReadCloser, storage.ObjectInfo, *model.Lease, error)
	PresignDocument(ctx context.Context, p auth.Principal, id string, expiry time.Duration) (string, error)
}

type leaseService struct {
	access
	leases   repository.LeaseRepository
	store    storage.Storage
	tracker  *upload.Tracker
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewLeaseService constructs a new LeaseService. tracker may be nil.
func NewLeaseService(
	leases repository.LeaseRepository,
	properties repository.PropertyRepository,
	tenants repository.TenantRepository,
	store storage.Storage,
	tracker *upload.Tracker,
	notifier Notifier,
	logger zerolog.Logger,
) LeaseService {
	return &leaseService{
		access:   access{properties: properties, tenants: tenants},
		leases:   leases,
		store:    store,
		tracker:  tracker,
		notifier: notifier,
		log:      logger.With().Str("component", "leases").Logger(),
		now:      time.Now,
	}
}

func (s *leaseService) Create(ctx context.Context, p auth.Principal, in LeaseInput) (*model.Lease, error) {
	prop, err := s.ownedProperty(ctx, p, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if in.TenantID == "" {
		return nil, model.Invalid("TenantID", "required")
	}
	tenant, err := s.tenants.FindByID(ctx, in.TenantID)
	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, model.Invalid("TenantID", "unknown")
		}
		return nil, err
	}
	if tenant.PropertyID != prop.ID {
		return nil, model.Invalid("TenantID", "not_a_tenant_of_property")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = prop.Currency
	}
	now := s.now().UTC()
	lease := &model.Lease{
		ID:         uuid.NewString(),
		PropertyID: prop.ID,
		TenantID:   tenant.ID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		RentAmount: in.RentAmount,
		Deposit:    in.Deposit,
		Currency:   currency,
		BillingDay: in.BillingDay,
		Status:     model.LeaseDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := lease.Validate(); err != nil {
		return nil, err
	}
	return s.leases.Create(ctx, lease)
}

// load returns a lease visible to p along with the tenant record.
func (s *leaseService) load(ctx context.Context, p auth.Principal, id string) (*model.Lease, *model.Property, *model.Tenant, error) {
	if id == "" {
		return nil, nil, nil, ErrIDRequired
	}
	lease, err := s.leases.FindByID(ctx, id)
	if err != nil {
		return nil, nil, nil, translate(err)
	}
	prop, err := s.properties.FindByID(ctx, lease.PropertyID)
	if err != nil {
		return nil, nil, nil, translate(err)
	}
	tenant, err := s.tenants.FindByID(ctx, lease.TenantID)
	if err != nil {
		return nil, nil, nil, translate(err)
	}
	switch {
	case p.IsLandlord() && prop.LandlordID == p.UserID:
	case p.IsTenant() && tenant.UserID == p.UserID:
	default:
		return nil, nil, nil, ErrForbidden
	}
	return lease, prop, tenant, nil
}

func (s *leaseService) Get(ctx context.Context, p auth.Principal, id string) (*model.Lease, error) {
	lease, _, _, err := s.load(ctx, p, id)
	return lease, err
}

func (s *leaseService) List(ctx context.Context, p auth.Principal, f LeaseListFilter) (*ListResult[model.Lease], error) {
	landlordID, tenantUserID, err := scope(p)
	if err != nil {
		return nil, err
	}
	res, err := s.leases.List(ctx, repository.LeaseFilter{
		PropertyID:   f.PropertyID,
		Status:       f.Status,
		LandlordID:   landlordID,
		TenantUserID: tenantUserID,
	}, pageQuery(f.Limit, f.Offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

// Transition moves a lease along its lifecycle. Landlords drive every transition;
// a tenant may only sign a pending lease.
func (s *leaseService) Transition(ctx context.Context, p auth.Principal, id string, to model.LeaseStatus) (*model.Lease, error) {
	lease, prop, tenant, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if p.IsTenant() && !(lease.Status == model.LeasePending && to == model.LeaseSigned) {
		return nil, ErrForbidden
	}
	if !lease.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, lease.Status, to)
	}

	now := s.now().UTC()
	if err := s.leases.UpdateStatus(ctx, lease.ID, lease.Status, to, now); err != nil {
		return nil, translate(err)
	}
	lease.Status = to
	lease.UpdatedAt = now

	recipient := tenant.UserID
	if p.IsTenant() {
		recipient = prop.LandlordID
	}
	notify(ctx, s.notifier, s.log, recipient, model.NotifyLeaseStatus,
		"Lease "+string(to), fmt.Sprintf("The lease for %s is now %s.", prop.Name, to),
		"/leases/"+lease.ID)
	return lease, nil
}

func (s *leaseService) UploadDocument(ctx context.Context, p auth.Principal, id string, f FileUpload) (lease *model.Lease, err error) {
	if f.Reader == nil {
		return nil, ErrReaderNil
	}
	lease, prop, tenant, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}

	opts := storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: f.ContentType,
		Metadata: map[string]string{
			"original-filename": f.Filename,
			"lease-id":          lease.ID,
		},
	}
	if s.tracker != nil && f.UploadID != "" {
		opts.Progress = s.tracker.Start(f.UploadID, f.Size)
		defer func() { s.tracker.Finish(f.UploadID, err) }()
	}

	key := storage.ObjectKey("leases", lease.ID, f.Filename)
	objInfo, err := s.store.Put(ctx, key, f.Reader, opts)
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := s.now().UTC()
	if err := s.leases.SetDocument(ctx, lease.ID, objInfo.Key, f.Filename, now); err != nil {
		if delErr := s.store.Delete(ctx, objInfo.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	previous := lease.DocumentPath
	lease.DocumentPath = objInfo.Key
	lease.DocumentName = f.Filename
	lease.UpdatedAt = now

	if previous != "" && previous != objInfo.Key {
		if delErr := s.store.Delete(ctx, previous); delErr != nil {
			s.log.Warn().Str("event", "lease_document_cleanup_failed").
				Str("lease_id", lease.ID).
				Str("object_key", previous).
				Str("error_message", delErr.Error()).Msg("")
		}
	}

	recipient := tenant.UserID
	if p.IsTenant() {
		recipient = prop.LandlordID
	}
	notify(ctx, s.notifier, s.log, recipient, model.NotifyLeaseDocument,
		"Lease document uploaded", fmt.Sprintf("A new lease document is available for %s.", prop.Name),
		"/leases/"+lease.ID+"/document")
	return lease, nil
}

func (s *leaseService) DownloadDocument(ctx context.Context, p auth.Principal, id string) (io.ReadCloser, storage.ObjectInfo, *model.Lease, error) {
	lease, _, _, err := s.load(ctx, p, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}
	if !lease.HasDocument() {
		return nil, storage.ObjectInfo{}, nil, ErrDocumentMissing
	}
	rc, info, err := s.store.Get(ctx, lease.DocumentPath)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, fmt.Errorf("get from storage: %w", err)
	}
	return rc, info, lease, nil
}

func (s *leaseService) PresignDocument(ctx context.Context, p auth.Principal, id string, expiry time.Duration) (string, error) {
	lease, _, _, err := s.load(ctx, p, id)
	if err != nil {
		return "", err
	}
	if !lease.HasDocument() {
		return "", ErrDocumentMissing
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	url, err := s.store.PresignGet(ctx, lease.DocumentPath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return url, nil
}
