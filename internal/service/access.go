package service

import (
	"context"

	"propapi/internal/auth"
	"propapi/internal/model"
	"propapi/internal/repository"
)

// access resolves whether a principal may act on a property.
type access struct {
	properties repository.PropertyRepository
	tenants    repository.TenantRepository
}

// property loads a property visible to p: owned by a landlord or rented by a tenant.
// The tenancy is returned for tenant callers.
func (a access) property(ctx context.Context, p auth.Principal, propertyID string) (*model.Property, *model.Tenant, error) {
	if propertyID == "" {
		return nil, nil, ErrIDRequired
	}
	prop, err := a.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, nil, translate(err)
	}
	switch p.Role {
	case model.RoleLandlord:
		if prop.LandlordID != p.UserID {
			return nil, nil, ErrForbidden
		}
		return prop, nil, nil
	case model.RoleTenant:
		t, err := a.tenants.FindByUserAndProperty(ctx, p.UserID, propertyID)
		if err != nil {
			if translate(err) == ErrNotFound {
				return nil, nil, ErrForbidden
			}
			return nil, nil, err
		}
		return prop, t, nil
	default:
		return nil, nil, ErrForbidden
	}
}

// ownedProperty loads a property only if p is its landlord.
func (a access) ownedProperty(ctx context.Context, p auth.Principal, propertyID string) (*model.Property, error) {
	if !p.IsLandlord() {
		return nil, ErrForbidden
	}
	prop, _, err := a.property(ctx, p, propertyID)
	return prop, err
}

// tenantRecord loads a tenant row and checks that it belongs to p when p is a tenant.
func (a access) tenantRecord(ctx context.Context, p auth.Principal, tenantID string) (*model.Tenant, error) {
	t, err := a.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translate(err)
	}
	if p.IsTenant() && t.UserID != p.UserID {
		return nil, ErrForbidden
	}
	return t, nil
}

// scope fills the caller restriction of a listing filter.
func scope(p auth.Principal) (landlordID, tenantUserID string, err error) {
	switch p.Role {
	case model.RoleLandlord:
		return p.UserID, "", nil
	case model.RoleTenant:
		return "", p.UserID, nil
	default:
		return "", "", ErrForbidden
	}
}
