package model

import "time"

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotifyInvoiceSent        NotificationType = "invoice_sent"
	NotifyInvoiceOverdue     NotificationType = "invoice_overdue"
	NotifyPaymentReceived    NotificationType = "payment_received"
	NotifyMaintenanceCreated NotificationType = "maintenance_created"
	NotifyMaintenanceUpdated NotificationType = "maintenance_updated"
	NotifyLeaseDocument      NotificationType = "lease_document"
	NotifyLeaseStatus        NotificationType = "lease_status"
	NotifyPropertyRequest    NotificationType = "property_request"
	NotifyRequestApproved    NotificationType = "property_request_approved"
	NotifyRequestRejected    NotificationType = "property_request_rejected"
)

// Length limits for notification text, counted in runes.
const (
	MaxNotificationTitle   = 200
	MaxNotificationMessage = 2000
)

// Notification alerts a user to an action they need to take.
type Notification struct {
	ID        string           `json:"id" validate:"required,uuid4"`
	UserID    string           `json:"user_id" validate:"required,uuid4"`
	Type      NotificationType `json:"type" validate:"required,max=60"`
	Title     string           `json:"title" validate:"required,max=200"`
	Message   string           `json:"message" validate:"max=2000"`
	Link      string           `json:"link,omitempty" validate:"max=500"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

func (n *Notification) Validate() error { return validateStruct(n) }
