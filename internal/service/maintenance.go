package service

import (
	"context"
	"fmt"
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

// MaintenanceInput is the payload a tenant submits to report an issue.
type MaintenanceInput struct {
	PropertyID  string                    `json:"property_id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Priority    model.MaintenancePriority `json:"priority"`
}

// MaintenanceListFilter narrows a maintenance listing for the caller.
type MaintenanceListFilter struct {
	PropertyID string
	Status     model.MaintenanceStatus
	Limit      int
	Offset     int
}

// MaintenanceService defines the use cases for maintenance requests.
type MaintenanceService interface {
	Create(ctx context.Context, p auth.Principal, in MaintenanceInput) (*model.MaintenanceRequest, error)
	Get(ctx context.Context, p auth.Principal, id string) (*model.MaintenanceRequest, error)
	List(ctx context.Context, p auth.Principal, f MaintenanceListFilter) (*ListResult[model.MaintenanceRequest], error)
	UpdateStatus(ctx context.Context, p auth.Principal, id string, to model.MaintenanceStatus) (*model.MaintenanceRequest, error)
	AttachPhoto(ctx context.Context, p auth.Principal, id string, f FileUpload) (*model.MaintenanceRequest, error)
}

type maintenanceService struct {
	access
	requests repository.MaintenanceRepository
	store    storage.Storage
	tracker  *upload.Tracker
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewMaintenanceService constructs a new MaintenanceService. tracker may be nil.
func NewMaintenanceService(
	requests repository.MaintenanceRepository,
	properties repository.PropertyRepository,
	tenants repository.TenantRepository,
	store storage.Storage,
	tracker *upload.Tracker,
	notifier Notifier,
	logger zerolog.Logger,
) MaintenanceService {
	return &maintenanceService{
		access:   access{properties: properties, tenants: tenants},
		requests: requests,
		store:    store,
		tracker:  tracker,
		notifier: notifier,
		log:      logger.With().Str("component", "maintenance").Logger(),
		now:      time.Now,
	}
}

func (s *maintenanceService) Create(ctx context.Context, p auth.Principal, in MaintenanceInput) (*model.MaintenanceRequest, error) {
	if !p.IsTenant() {
		return nil, ErrForbidden
	}
	prop, tenant, err := s.property(ctx, p, in.PropertyID)
	if err != nil {
		return nil, err
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	now := s.now().UTC()
	req := &model.MaintenanceRequest{
		ID:          uuid.NewString(),
		PropertyID:  prop.ID,
		TenantID:    tenant.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Status:      model.MaintenanceOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	stored, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	notify(ctx, s.notifier, s.log, prop.LandlordID, model.NotifyMaintenanceCreated,
		fmt.Sprintf("Maintenance request (%s)", stored.Priority),
		fmt.Sprintf("%s at %s.", stored.Title, prop.Name),
		"/maintenance/"+stored.ID)
	return stored, nil
}

func (s *maintenanceService) load(ctx context.Context, p auth.Principal, id string) (*model.MaintenanceRequest, *model.Property, *model.Tenant, error) {
	if id == "" {
		return nil, nil, nil, ErrIDRequired
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, nil, nil, translate(err)
	}
	prop, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, nil, nil, translate(err)
	}
	tenant, err := s.tenants.FindByID(ctx, req.TenantID)
	if err != nil {
		return nil, nil, nil, translate(err)
	}
	switch {
	case p.IsLandlord() && prop.LandlordID == p.UserID:
	case p.IsTenant() && tenant.UserID == p.UserID:
	default:
		return nil, nil, nil, ErrForbidden
	}
	return req, prop, tenant, nil
}

func (s *maintenanceService) Get(ctx context.Context, p auth.Principal, id string) (*model.MaintenanceRequest, error) {
	req, _, _, err := s.load(ctx, p, id)
	return req, err
}

func (s *maintenanceService) List(ctx context.Context, p auth.Principal, f MaintenanceListFilter) (*ListResult[model.MaintenanceRequest], error) {
	landlordID, tenantUserID, err := scope(p)
	if err != nil {
		return nil, err
	}
	res, err := s.requests.List(ctx, repository.MaintenanceFilter{
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

// UpdateStatus lets the landlord progress a request. A tenant may only cancel their own open request.
func (s *maintenanceService) UpdateStatus(ctx context.Context, p auth.Principal, id string, to model.MaintenanceStatus) (*model.MaintenanceRequest, error) {
	req, prop, tenant, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if p.IsTenant() && (to != model.MaintenanceCancelled || req.Status != model.MaintenanceOpen) {
		return nil, ErrForbidden
	}
	if !req.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, req.Status, to)
	}
	now := s.now().UTC()
	if err := s.requests.UpdateStatus(ctx, req.ID, req.Status, to, now); err != nil {
		return nil, translate(err)
	}
	req.Status = to
	req.UpdatedAt = now

	recipient := tenant.UserID
	if p.IsTenant() {
		recipient = prop.LandlordID
	}
	notify(ctx, s.notifier, s.log, recipient, model.NotifyMaintenanceUpdated,
		"Maintenance request "+strings.ReplaceAll(string(to), "_", " "),
		fmt.Sprintf("%s at %s is now %s.", req.Title, prop.Name, to),
		"/maintenance/"+req.ID)
	return req, nil
}

func (s *maintenanceService) AttachPhoto(ctx context.Context, p auth.Principal, id string, f FileUpload) (req *model.MaintenanceRequest, err error) {
	if f.Reader == nil {
		return nil, ErrReaderNil
	}
	req, _, _, err = s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(f.ContentType, "image/") {
		return nil, model.Invalid("file", "image_required")
	}

	opts := storage.PutObjectOptions{
		Size:        f.Size,
		ContentType: f.ContentType,
		Metadata:    map[string]string{"original-filename": f.Filename},
	}
	if s.tracker != nil && f.UploadID != "" {
		opts.Progress = s.tracker.Start(f.UploadID, f.Size)
		defer func() { s.tracker.Finish(f.UploadID, err) }()
	}

	key := storage.ObjectKey("maintenance", req.ID, f.Filename)
	objInfo, err := s.store.Put(ctx, key, f.Reader, opts)
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	now := s.now().UTC()
	if err := s.requests.SetPhoto(ctx, req.ID, objInfo.Key, now); err != nil {
		if delErr := s.store.Delete(ctx, objInfo.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	req.PhotoPath = objInfo.Key
	req.UpdatedAt = now
	return req, nil
}
