// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"
)

// CreateRepairRequestRequest carries a public repair submission.
// Phone must contain at least ten digits once formatting characters are
// stripped. GDPR consent is mandatory.
type CreateRepairRequestRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required,min=2,max=100" example:"Jane Doe"`
	CustomerEmail string  `json:"customer_email" validate:"required,email,max=255" example:"jane@example.com"`
	CustomerPhone string  `json:"customer_phone" validate:"required,phone_digits" example:"+31 6 1234 5678"`
	DeviceBrand   string  `json:"device_brand" validate:"required,min=2,max=50" example:"Apple"`
	DeviceModel   string  `json:"device_model" validate:"required,min=2,max=100" example:"iPhone 14 Pro"`
	IssueCategory string  `json:"issue_category" validate:"required,min=2,max=100" example:"Screen"`
	SpecificIssue string  `json:"specific_issue" validate:"required,min=2,max=100" example:"Cracked display"`
	Description   string  `json:"description" validate:"required,min=10,max=1000" example:"Dropped on concrete, glass shattered in the corner"`
	Urgency       string  `json:"urgency" validate:"omitempty,oneof=normal urgent" example:"normal"`
	PickupAddress string  `json:"pickup_address" validate:"required,min=10,max=500" example:"Main Street 1, 1000 AA Amsterdam"`
	PickupTime    *string `json:"pickup_time,omitempty" validate:"omitempty,max=100" example:"Tomorrow morning"`
	GDPRConsent   bool    `json:"gdpr_consent" example:"true"`
}

// RepairRequestDTO is the full admin view of a repair request
type RepairRequestDTO struct {
	ID                  uint       `json:"id"`
	UUID                string     `json:"uuid"`
	TicketID            string     `json:"ticket_id"`
	CustomerName        string     `json:"customer_name"`
	CustomerEmail       string     `json:"customer_email"`
	CustomerPhone       string     `json:"customer_phone"`
	DeviceBrand         string     `json:"device_brand"`
	DeviceModel         string     `json:"device_model"`
	IssueCategory       string     `json:"issue_category"`
	SpecificIssue       string     `json:"specific_issue"`
	Description         string     `json:"description"`
	Urgency             string     `json:"urgency"`
	PickupAddress       string     `json:"pickup_address"`
	PickupTime          *string    `json:"pickup_time,omitempty"`
	Status              string     `json:"status"`
	Priority            string     `json:"priority"`
	AssignedTechnician  *string    `json:"assigned_technician,omitempty"`
	EstimatedCost       *float64   `json:"estimated_cost,omitempty"`
	ActualCost          *float64   `json:"actual_cost,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CreatedAt           string     `json:"created_at"`
	UpdatedAt           string     `json:"updated_at"`
}

// CreateRepairRequestResponse returns the public ticket identifier and the stored request
type CreateRepairRequestResponse struct {
	TicketID string           `json:"ticket_id"`
	Data     RepairRequestDTO `json:"data"`
}

// ListRepairRequestsRequest filters for listing repair requests.
// Status "all" (or empty) disables the status filter.
type ListRepairRequestsRequest struct {
	Status string `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ListRepairRequestsResponse returns one page of repair requests plus the
// total match count before pagination
type ListRepairRequestsResponse struct {
	Items []RepairRequestDTO `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// UpdateStatusRequest carries a lifecycle transition for a repair request
type UpdateStatusRequest struct {
	TicketID string  `json:"ticket_id" validate:"required"`
	Status   string  `json:"status" validate:"required"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateRepairRequestRequest is a partial patch of the admin-editable fields.
// Absent fields are left untouched.
type UpdateRepairRequestRequest struct {
	Status              *string    `json:"status,omitempty"`
	Priority            *string    `json:"priority,omitempty"`
	AssignedTechnician  *string    `json:"assigned_technician,omitempty" validate:"omitempty,max=100"`
	EstimatedCost       *float64   `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
	ActualCost          *float64   `json:"actual_cost,omitempty" validate:"omitempty,gte=0"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	Notes               *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// DashboardStatsResponse aggregates workload counters for the admin dashboard
type DashboardStatsResponse struct {
	StatusBreakdown map[string]int64 `json:"status_breakdown"`
	TodayRequests   int64            `json:"today_requests"`
	WeekRequests    int64            `json:"week_requests"`
	TotalRevenue    float64          `json:"total_revenue"`
	ActiveRequests  int64            `json:"active_requests"`
	TotalRequests   int64            `json:"total_requests"`
}
