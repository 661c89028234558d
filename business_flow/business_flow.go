// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/fixnet/fixnet/app/dto"
	"github.com/fixnet/fixnet/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToRepairRequestDTO converts a repair request model to its API representation
func ToRepairRequestDTO(r models.RepairRequest) dto.RepairRequestDTO {
	return dto.RepairRequestDTO{
		ID:                  r.ID,
		UUID:                r.UUID.String(),
		TicketID:            r.TicketID,
		CustomerName:        r.CustomerName,
		CustomerEmail:       r.CustomerEmail,
		CustomerPhone:       r.CustomerPhone,
		DeviceBrand:         r.DeviceBrand,
		DeviceModel:         r.DeviceModel,
		IssueCategory:       r.IssueCategory,
		SpecificIssue:       r.SpecificIssue,
		Description:         r.Description,
		Urgency:             r.Urgency,
		PickupAddress:       r.PickupAddress,
		PickupTime:          r.PickupTime,
		Status:              string(r.Status),
		Priority:            string(r.Priority),
		AssignedTechnician:  r.AssignedTechnician,
		EstimatedCost:       r.EstimatedCost,
		ActualCost:          r.ActualCost,
		Notes:               r.Notes,
		EstimatedCompletion: r.EstimatedCompletion,
		CompletedAt:         r.CompletedAt,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           r.UpdatedAt.Format(time.RFC3339),
	}
}

// ToContactMessageDTO converts a contact message model to its API representation
func ToContactMessageDTO(m models.ContactMessage) dto.ContactMessageDTO {
	return dto.ContactMessageDTO{
		ID:        m.ID,
		UUID:      m.UUID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// ToAdminProfileDTO converts an admin model to its API representation
func ToAdminProfileDTO(a models.Admin) dto.AdminProfileDTO {
	p := dto.AdminProfileDTO{
		ID:        a.ID,
		UUID:      a.UUID.String(),
		Email:     a.Email,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.LastLoginAt != nil {
		s := a.LastLoginAt.Format(time.RFC3339)
		p.LastLoginAt = &s
	}
	return p
}
