package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"propapi/internal/auth"
	"propapi/internal/model"
	"propapi/internal/repository"
)

// maxRejectReason matches the reason column's validation limit, in runes.
const maxRejectReason = 2000

// PropertyRequestService handles prospective tenants asking to join a property.
type PropertyRequestService interface {
	Submit(ctx context.Context, p auth.Principal, propertyID, message string) (*model.PropertyRequest, error)
	List(ctx context.Context, p auth.Principal, propertyID string, limit, offset int) (*ListResult[model.PropertyRequest], error)
	// Approve accepts a pending request and creates the tenancy.
	Approve(ctx context.Context, p auth.Principal, id string) (*model.Tenant, error)
	Reject(ctx context.Context, p auth.Principal, id, reason string) (*model.PropertyRequest, error)
}

type propertyRequestService struct {
	access
	requests repository.PropertyRequestRepository
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewPropertyRequestService constructs a new PropertyRequestService.
func NewPropertyRequestService(
	requests repository.PropertyRequestRepository,
	properties repository.PropertyRepository,
	tenants repository.TenantRepository,
	notifier Notifier,
	logger zerolog.Logger,
) PropertyRequestService {
	return &propertyRequestService{
		access:   access{properties: properties, tenants: tenants},
		requests: requests,
		notifier: notifier,
		log:      logger.With().Str("component", "property_requests").Logger(),
		now:      time.Now,
	}
}

func (s *propertyRequestService) Submit(ctx context.Context, p auth.Principal, propertyID, message string) (*model.PropertyRequest, error) {
	if !p.IsTenant() {
		return nil, ErrForbidden
	}
	if propertyID == "" {
		return nil, ErrIDRequired
	}
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, translate(err)
	}
	if _, err := s.tenants.FindByUserAndProperty(ctx, p.UserID, propertyID); err == nil {
		return nil, fmt.Errorf("%w: already a tenant of this property", ErrConflict)
	} else if !errors.Is(translate(err), ErrNotFound) {
		return nil, err
	}

	req := &model.PropertyRequest{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		UserID:     p.UserID,
		Message:    strings.TrimSpace(message),
		Status:     model.PropertyRequestPending,
		CreatedAt:  s.now().UTC(),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	stored, err := s.requests.Create(ctx, req)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("%w: a request for this property is already pending", ErrConflict)
	}
	if err != nil {
		return nil, err
	}

	notify(ctx, s.notifier, s.log, prop.LandlordID, model.NotifyPropertyRequest,
		"New tenancy request", fmt.Sprintf("A user asked to join %s.", prop.Name),
		"/properties/"+prop.ID+"/requests")
	return stored, nil
}

func (s *propertyRequestService) List(ctx context.Context, p auth.Principal, propertyID string, limit, offset int) (*ListResult[model.PropertyRequest], error) {
	if _, err := s.ownedProperty(ctx, p, propertyID); err != nil {
		return nil, err
	}
	res, err := s.requests.ListByProperty(ctx, propertyID, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

// pending loads a request the landlord p may decide on.
func (s *propertyRequestService) pending(ctx context.Context, p auth.Principal, id string) (*model.PropertyRequest, *model.Property, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}
	if !p.IsLandlord() {
		return nil, nil, ErrForbidden
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, nil, translate(err)
	}
	prop, err := s.ownedProperty(ctx, p, req.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if req.Status != model.PropertyRequestPending {
		return nil, nil, fmt.Errorf("%w: request already %s", ErrInvalidTransition, req.Status)
	}
	return req, prop, nil
}

func (s *propertyRequestService) Approve(ctx context.Context, p auth.Principal, id string) (*model.Tenant, error) {
	req, prop, err := s.pending(ctx, p, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	tenant, err := s.requests.Approve(ctx, id, &model.Tenant{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
		CreatedAt:  now,
	}, now)
	if err != nil {
		return nil, translate(err)
	}

	notify(ctx, s.notifier, s.log, req.UserID, model.NotifyRequestApproved,
		"Request approved", fmt.Sprintf("You are now a tenant of %s.", prop.Name),
		"/properties/"+prop.ID)
	return tenant, nil
}

func (s *propertyRequestService) Reject(ctx context.Context, p auth.Principal, id, reason string) (*model.PropertyRequest, error) {
	req, prop, err := s.pending(ctx, p, id)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > maxRejectReason {
		return nil, model.Invalid("reason", "max")
	}
	now := s.now().UTC()
	if err := s.requests.Decide(ctx, id, model.PropertyRequestRejected, reason, now); err != nil {
		return nil, translate(err)
	}
	req.Status = model.PropertyRequestRejected
	req.Reason = reason
	req.DecidedAt = &now

	msg := fmt.Sprintf("Your request to join %s was declined.", prop.Name)
	if reason != "" {
		msg += " Reason: " + reason
	}
	notify(ctx, s.notifier, s.log, req.UserID, model.NotifyRequestRejected, "Request declined", msg, "")
	return req, nil
}
