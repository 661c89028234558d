package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/fixnet/fixnet/app/dto"
	"github.com/fixnet/fixnet/app/services"
	"github.com/fixnet/fixnet/models"
	"github.com/fixnet/fixnet/repository"
	"github.com/fixnet/fixnet/utils"
	"github.com/google/uuid"
)

// ContactFlow defines the public contact form submission and admin inbox
// operations
type ContactFlow interface {
	Create(ctx context.Context, req *dto.CreateContactMessageRequest, metadata *ClientMetadata) (*dto.CreateContactMessageResponse, error)
	List(ctx context.Context, req *dto.ListContactMessagesRequest, metadata *ClientMetadata) (*dto.ListContactMessagesResponse, error)
	MarkRead(ctx context.Context, messageID string) error
	Delete(ctx context.Context, messageID string) error
}

// ContactFlowImpl implements ContactFlow
type ContactFlowImpl struct {
	contactRepo repository.ContactMessageRepository
	notifier    services.NotificationService
}

func NewContactFlow(contactRepo repository.ContactMessageRepository, notifier services.NotificationService) ContactFlow {
	return &ContactFlowImpl{
		contactRepo: contactRepo,
		notifier:    notifier,
	}
}

// Create stores a contact form submission and announces it to operators
func (f *ContactFlowImpl) Create(ctx context.Context, req *dto.CreateContactMessageRequest, metadata *ClientMetadata) (*dto.CreateContactMessageResponse, error) {
	m := models.ContactMessage{
		UUID:      uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   req.Message,
		IsRead:    utils.ToPtr(false),
		CreatedAt: utils.UTCNow(),
	}

	if err := f.contactRepo.Save(ctx, &m); err != nil {
		return nil, NewBusinessError("CONTACT_MESSAGE_SAVE_FAILED", "Failed to save contact message", err)
	}

	// Notify operators (best-effort)
	if f.notifier != nil {
		if ok := f.notifier.SendContactMessageNotification(ctx, &m); !ok {
			log.Printf("[WARN] contact message notification not delivered for %s", m.UUID)
		}
	}

	return &dto.CreateContactMessageResponse{
		ID: m.UUID.String(),
	}, nil
}

// List returns one page of contact messages, newest first
func (f *ContactFlowImpl) List(ctx context.Context, req *dto.ListContactMessagesRequest, metadata *ClientMetadata) (*dto.ListContactMessagesResponse, error) {
	filter := models.ContactMessageFilter{}
	if req.UnreadOnly {
		filter.IsRead = utils.ToPtr(false)
	}

	page, limit := normalizePage(req.Page, req.Limit)
	offset := (page - 1) * limit

	total, err := f.contactRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_CONTACT_MESSAGES_FAILED", "Failed to count contact messages", err)
	}

	rows, err := f.contactRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_CONTACT_MESSAGES_FAILED", "Failed to list contact messages", err)
	}

	items := make([]dto.ContactMessageDTO, 0, len(rows))
	for _, m := range rows {
		items = append(items, ToContactMessageDTO(*m))
	}

	return &dto.ListContactMessagesResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// MarkRead flags a contact message as read
func (f *ContactFlowImpl) MarkRead(ctx context.Context, messageID string) error {
	if _, err := utils.ParseUUID(messageID); err != nil {
		return NewBusinessError("CONTACT_MESSAGE_NOT_FOUND", "Contact message not found", ErrContactMessageNotFound)
	}

	rows, err := f.contactRepo.MarkRead(ctx, messageID)
	if err != nil {
		return NewBusinessError("CONTACT_MESSAGE_UPDATE_FAILED", "Failed to mark contact message as read", err)
	}
	if rows == 0 {
		return NewBusinessError("CONTACT_MESSAGE_NOT_FOUND", "Contact message not found", ErrContactMessageNotFound)
	}
	return nil
}

// Delete removes a contact message permanently
func (f *ContactFlowImpl) Delete(ctx context.Context, messageID string) error {
	if _, err := utils.ParseUUID(messageID); err != nil {
		return NewBusinessError("CONTACT_MESSAGE_NOT_FOUND", "Contact message not found", ErrContactMessageNotFound)
	}

	rows, err := f.contactRepo.DeleteByUUID(ctx, messageID)
	if err != nil {
		return NewBusinessError("CONTACT_MESSAGE_DELETE_FAILED", "Failed to delete contact message", err)
	}
	if rows == 0 {
		return NewBusinessError("CONTACT_MESSAGE_NOT_FOUND", "Contact message not found", ErrContactMessageNotFound)
	}
	return nil
}
