package dto

// CreateContactMessageRequest carries a public contact form submission
type CreateContactMessageRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100" example:"John Smith"`
	Email   string `json:"email" validate:"required,email,max=255" example:"john@example.com"`
	Subject string `json:"subject" validate:"required,min=2,max=200" example:"Question about pricing"`
	Message string `json:"message" validate:"required,min=10,max=2000" example:"Do you repair water damaged laptops?"`
}

// CreateContactMessageResponse acknowledges a stored contact message
type CreateContactMessageResponse struct {
	ID string `json:"id"`
}

// ContactMessageDTO is the admin view of a contact message
type ContactMessageDTO struct {
	ID        uint   `json:"id"`
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	IsRead    *bool  `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// ListContactMessagesRequest filters for listing contact messages
type ListContactMessagesRequest struct {
	UnreadOnly bool `json:"unread_only,omitempty"`
	Page       int  `json:"page,omitempty"`
	Limit      int  `json:"limit,omitempty"`
}

// ListContactMessagesResponse returns one page of contact messages plus the
// total match count before pagination
type ListContactMessagesResponse struct {
	Items []ContactMessageDTO `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
