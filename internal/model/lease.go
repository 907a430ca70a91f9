package model

import "time"

// LeaseStatus is the lifecycle state of a lease.
type LeaseStatus string

const (
	LeaseDraft      LeaseStatus = "draft"
	LeasePending    LeaseStatus = "pending"
	LeaseSigned     LeaseStatus = "signed"
	LeaseActive     LeaseStatus = "active"
	LeaseTerminated LeaseStatus = "terminated"
	LeaseExpired    LeaseStatus = "expired"
)

var leaseTransitions = map[LeaseStatus][]LeaseStatus{
	LeaseDraft:   {LeasePending, LeaseSigned, LeaseTerminated},
	LeasePending: {LeaseSigned, LeaseTerminated},
	LeaseSigned:  {LeaseActive, LeaseTerminated},
	LeaseActive:  {LeaseTerminated, LeaseExpired},
}

// CanTransitionTo reports whether a lease in status s may move to next.
func (s LeaseStatus) CanTransitionTo(next LeaseStatus) bool {
	for _, allowed := range leaseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Lease is an agreement linking a tenant to a property.
// RentAmount and Deposit are in minor units of Currency.
type Lease struct {
	ID           string      `json:"id" validate:"required,uuid4"`
	PropertyID   string      `json:"property_id" validate:"required,uuid4"`
	TenantID     string      `json:"tenant_id" validate:"required,uuid4"`
	StartDate    time.Time   `json:"start_date" validate:"required"`
	EndDate      time.Time   `json:"end_date" validate:"required,gtfield=StartDate"`
	RentAmount   int64       `json:"rent_amount" validate:"gt=0,lte=1000000000000000"`
	Deposit      int64       `json:"deposit" validate:"gte=0"`
	Currency     string      `json:"currency" validate:"required,iso4217"`
	BillingDay   int         `json:"billing_day" validate:"min=1,max=28"`
	Status       LeaseStatus `json:"status" validate:"required,oneof=draft pending signed active terminated expired"`
	DocumentPath string      `json:"document_path,omitempty"`
	DocumentName string      `json:"document_name,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (l *Lease) Validate() error { return validateStruct(l) }

// HasDocument reports whether a signed lease document has been uploaded.
func (l *Lease) HasDocument() bool { return l.DocumentPath != "" }
