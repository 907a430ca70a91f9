package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"propapi/internal/auth"
	"propapi/internal/model"
	"propapi/internal/repository"
)

// PropertyInput is the payload for creating a property.
type PropertyInput struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
}

// PropertyService defines the use cases for properties and their tenants.
type PropertyService interface {
	Create(ctx context.Context, p auth.Principal, in PropertyInput) (*model.Property, error)
	Get(ctx context.Context, p auth.Principal, id string) (*model.Property, error)
	// ListMine returns owned properties for landlords and rented properties for tenants.
	ListMine(ctx context.Context, p auth.Principal, limit, offset int) (*ListResult[model.Property], error)
	ListTenants(ctx context.Context, p auth.Principal, propertyID string) ([]model.Tenant, error)
}

type propertyService struct {
	access
	now func() time.Time
}

// NewPropertyService constructs a new PropertyService.
func NewPropertyService(properties repository.PropertyRepository, tenants repository.TenantRepository) PropertyService {
	return &propertyService{
		access: access{properties: properties, tenants: tenants},
		now:    time.Now,
	}
}

func (s *propertyService) Create(ctx context.Context, p auth.Principal, in PropertyInput) (*model.Property, error) {
	if !p.IsLandlord() {
		return nil, ErrForbidden
	}
	prop := &model.Property{
		ID:         uuid.NewString(),
		LandlordID: p.UserID,
		Name:       strings.TrimSpace(in.Name),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		Country:    strings.ToUpper(strings.TrimSpace(in.Country)),
		Currency:   strings.ToUpper(strings.TrimSpace(in.Currency)),
		CreatedAt:  s.now().UTC(),
	}
	if err := prop.Validate(); err != nil {
		return nil, err
	}
	return s.properties.Create(ctx, prop)
}

func (s *propertyService) Get(ctx context.Context, p auth.Principal, id string) (*model.Property, error) {
	prop, _, err := s.property(ctx, p, id)
	return prop, err
}

func (s *propertyService) ListMine(ctx context.Context, p auth.Principal, limit, offset int) (*ListResult[model.Property], error) {
	pq := pageQuery(limit, offset)
	var (
		res *repository.PageResult[model.Property]
		err error
	)
	switch p.Role {
	case model.RoleLandlord:
		res, err = s.properties.ListByLandlord(ctx, p.UserID, pq)
	case model.RoleTenant:
		res, err = s.properties.ListByTenantUser(ctx, p.UserID, pq)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *propertyService) ListTenants(ctx context.Context, p auth.Principal, propertyID string) ([]model.Tenant, error) {
	if _, err := s.ownedProperty(ctx, p, propertyID); err != nil {
		return nil, err
	}
	return s.tenants.ListByProperty(ctx, propertyID)
}
