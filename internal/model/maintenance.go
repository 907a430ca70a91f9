package model

import "time"

// MaintenancePriority ranks how urgently a request needs attention.
type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "low"
	PriorityMedium MaintenancePriority = "medium"
	PriorityHigh   MaintenancePriority = "high"
	PriorityUrgent MaintenancePriority = "urgent"
)

// MaintenanceStatus is the workflow state of a maintenance request.
type MaintenanceStatus string

const (
	MaintenanceOpen       MaintenanceStatus = "open"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceResolved   MaintenanceStatus = "resolved"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceOpen:       {MaintenanceInProgress, MaintenanceResolved, MaintenanceCancelled},
	MaintenanceInProgress: {MaintenanceResolved, MaintenanceCancelled},
}

// CanTransitionTo reports whether a request in status s may move to next.
func (s MaintenanceStatus) CanTransitionTo(next MaintenanceStatus) bool {
	for _, allowed := range maintenanceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaintenanceRequest is a tenant-reported issue on a property.
type MaintenanceRequest struct {
	ID          string              `json:"id" validate:"required,uuid4"`
	PropertyID  string              `json:"property_id" validate:"required,uuid4"`
	TenantID    string              `json:"tenant_id" validate:"required,uuid4"`
	Title       string              `json:"title" validate:"required,min=3,max=200"`
	Description string              `json:"description" validate:"max=5000"`
	Priority    MaintenancePriority `json:"priority" validate:"required,oneof=low medium high urgent"`
	Status      MaintenanceStatus   `json:"status" validate:"required,oneof=open in_progress resolved cancelled"`
	PhotoPath   string              `json:"photo_path,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (m *MaintenanceRequest) Validate() error { return validateStruct(m) }
