package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/fixnet/fixnet/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RepairStatus is the lifecycle state of a repair request
type RepairStatus string

const (
	StatusNew           RepairStatus = "New"
	StatusInProgress    RepairStatus = "In Progress"
	StatusDiagnosed     RepairStatus = "Diagnosed"
	StatusPendingPickup RepairStatus = "Pending Pickup"
	StatusCompleted     RepairStatus = "Completed"
	StatusCancelled     RepairStatus = "Cancelled"
)

func (s RepairStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDiagnosed, StatusPendingPickup, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ActiveStatuses are the states counted as in-flight work on the dashboard
func ActiveStatuses() []RepairStatus {
	return []RepairStatus{StatusNew, StatusInProgress, StatusDiagnosed}
}

// AllStatuses lists every lifecycle state in display order
func AllStatuses() []RepairStatus {
	return []RepairStatus{StatusNew, StatusInProgress, StatusDiagnosed, StatusPendingPickup, StatusCompleted, StatusCancelled}
}

// RepairPriority is the triage level assigned to a repair request
type RepairPriority string

const (
	PriorityLow    RepairPriority = "Low"
	PriorityMedium RepairPriority = "Medium"
	PriorityHigh   RepairPriority = "High"
	PriorityUrgent RepairPriority = "Urgent"
)

func (p RepairPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// UrgencyNormal and UrgencyUrgent are the customer-facing urgency choices
const (
	UrgencyNormal = "normal"
	UrgencyUrgent = "urgent"
)

// PriorityForUrgency maps the customer's urgency choice to a triage priority
func PriorityForUrgency(urgency string) RepairPriority {
	if urgency == UrgencyUrgent {
		return PriorityHigh
	}
	return PriorityMedium
}

// TurnaroundForUrgency maps the customer's urgency choice to an estimated
// completion window
func TurnaroundForUrgency(urgency string) time.Duration {
	if urgency == UrgencyUrgent {
		return utils.UrgentTurnaround
	}
	return utils.StandardTurnaround
}

// NewTicketID generates a public ticket identifier of the form
// FN-<year>-<8 uppercase hex chars>
func NewTicketID(now time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("FN-%d-%s", now.UTC().Year(), token)
}

// RepairRequest represents a customer device-repair submission
// Table: repair_requests
// Indices: uuid, ticket_id, status, created_at, customer_email
// TicketID is the public identifier; it never changes after creation
// Description stored as TEXT
// Timestamps default to UTC at DB level
type RepairRequest struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	TicketID string    `gorm:"size:32;not null;uniqueIndex:uk_repair_requests_ticket_id" json:"ticket_id"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:255;not null;index:idx_repair_requests_customer_email" json:"customer_email"`
	CustomerPhone string `gorm:"size:32;not null" json:"customer_phone"`

	DeviceBrand   string `gorm:"size:50;not null" json:"device_brand"`
	DeviceModel   string `gorm:"size:100;not null" json:"device_model"`
	IssueCategory string `gorm:"size:100;not null" json:"issue_category"`
	SpecificIssue string `gorm:"size:100;not null" json:"specific_issue"`
	Description   string `gorm:"type:text;not null" json:"description"`

	Urgency       string  `gorm:"size:32;not null;default:'normal'" json:"urgency"`
	PickupAddress string  `gorm:"size:500;not null" json:"pickup_address"`
	PickupTime    *string `gorm:"size:100" json:"pickup_time,omitempty"`
	GDPRConsent   bool    `gorm:"not null;default:false" json:"gdpr_consent"`

	Status   RepairStatus   `gorm:"size:32;not null;default:'New';index:idx_repair_requests_status" json:"status"`
	Priority RepairPriority `gorm:"size:16;not null;default:'Medium'" json:"priority"`

	AssignedTechnician  *string    `gorm:"size:100" json:"assigned_technician,omitempty"`
	EstimatedCost       *float64   `json:"estimated_cost,omitempty"`
	ActualCost          *float64   `json:"actual_cost,omitempty"`
	Notes               *string    `gorm:"type:text" json:"notes,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_repair_requests_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (RepairRequest) TableName() string { return "repair_requests" }

// BeforeCreate ensures UUID and timestamps are set
func (r *RepairRequest) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// RepairRequestFilter represents filter criteria for repair request queries.
// Search matches case-insensitively against customer name, email, phone,
// ticket id, device brand, device model and specific issue.
type RepairRequestFilter struct {
	ID            *uint         `json:"id,omitempty"`
	UUID          *uuid.UUID    `json:"uuid,omitempty"`
	TicketID      *string       `json:"ticket_id,omitempty"`
	Status        *RepairStatus `json:"status,omitempty"`
	CustomerEmail *string       `json:"customer_email,omitempty"`
	Search        *string       `json:"search,omitempty"`
	CreatedAfter  *time.Time    `json:"created_after,omitempty"`
	CreatedBefore *time.Time    `json:"created_before,omitempty"`
}

// RepairRequestPatch holds the admin-editable fields for a partial update.
// Nil fields are left untouched.
type RepairRequestPatch struct {
	Status              *RepairStatus
	Priority            *RepairPriority
	AssignedTechnician  *string
	EstimatedCost       *float64
	ActualCost          *float64
	EstimatedCompletion *time.Time
	Notes               *string
}

// IsEmpty reports whether the patch would modify nothing
func (p RepairRequestPatch) IsEmpty() bool {
	return p.Status == nil && p.Priority == nil && p.AssignedTechnician == nil &&
		p.EstimatedCost == nil && p.ActualCost == nil && p.EstimatedCompletion == nil && p.Notes == nil
}
