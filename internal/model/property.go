package model

import "time"

// Property is a rentable building or unit owned by a landlord.
type Property struct {
	ID         string    `json:"id" validate:"required,uuid4"`
	LandlordID string    `json:"landlord_id" validate:"required,uuid4"`
	Name       string    `json:"name" validate:"required,min=1,max=200"`
	Address    string    `json:"address" validate:"required,max=500"`
	City       string    `json:"city" validate:"max=120"`
	Country    string    `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Currency   string    `json:"currency" validate:"required,iso4217"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *Property) Validate() error { return validateStruct(p) }

// Tenant links a user account to the property they rent.
type Tenant struct {
	ID         string    `json:"id" validate:"required,uuid4"`
	UserID     string    `json:"user_id" validate:"required,uuid4"`
	PropertyID string    `json:"property_id" validate:"required,uuid4"`
	Phone      string    `json:"phone,omitempty" validate:"max=40"`
	CreatedAt  time.Time `json:"created_at"`
}

func (t *Tenant) Validate() error { return validateStruct(t) }

// PropertyRequestStatus is the lifecycle state of a join request.
type PropertyRequestStatus string

const (
	PropertyRequestPending  PropertyRequestStatus = "pending"
	PropertyRequestApproved PropertyRequestStatus = "approved"
	PropertyRequestRejected PropertyRequestStatus = "rejected"
)

// PropertyRequest is a prospective tenant asking to be attached to a property.
type PropertyRequest struct {
	ID         string                `json:"id" validate:"required,uuid4"`
	PropertyID string                `json:"property_id" validate:"required,uuid4"`
	UserID     string                `json:"user_id" validate:"required,uuid4"`
	Message    string                `json:"message,omitempty" validate:"max=2000"`
	Status     PropertyRequestStatus `json:"status" validate:"required,oneof=pending approved rejected"`
	Reason     string                `json:"reason,omitempty" validate:"max=2000"`
	CreatedAt  time.Time             `json:"created_at"`
	DecidedAt  *time.Time            `json:"decided_at,omitempty"`
}

func (r *PropertyRequest) Validate() error { return validateStruct(r) }
