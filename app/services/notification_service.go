// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fixnet/fixnet/models"
	"github.com/fixnet/fixnet/utils"
)

const defaultTelegramAPIDomain = "https://api.telegram.org"

// notifyTimeout bounds a single delivery attempt
const notifyTimeout = 10 * time.Second

// NotificationService delivers operator notifications. Delivery is best
// effort: every method reports whether the message went out and never returns
// an error, failures must not affect the request that triggered them.
type NotificationService interface {
	SendNewTicketNotification(ctx context.Context, req *models.RepairRequest) bool
	SendStatusUpdateNotification(ctx context.Context, ticketID string, oldStatus, newStatus models.RepairStatus, customerName string) bool
	SendContactMessageNotification(ctx context.Context, msg *models.ContactMessage) bool
}

var priorityEmoji = map[models.RepairPriority]string{
	models.PriorityLow:    "🟢",
	models.PriorityMedium: "🟡",
	models.PriorityHigh:   "🟠",
	models.PriorityUrgent: "🔴",
}

var statusEmoji = map[models.RepairStatus]string{
	models.StatusNew:           "🆕",
	models.StatusInProgress:    "⚙️",
	models.StatusDiagnosed:     "🔍",
	models.StatusPendingPickup: "📦",
	models.StatusCompleted:     "✅",
	models.StatusCancelled:     "❌",
}

func emojiForPriority(p models.RepairPriority) string {
	if e, ok := priorityEmoji[p]; ok {
		return e
	}
	return "🟡"
}

func emojiForStatus(s models.RepairStatus) string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "📋"
}

// TelegramNotifier implements NotificationService against the Telegram Bot API
type TelegramNotifier struct {
	botToken  string
	chatID    string
	apiDomain string
	client    *http.Client
}

// NewTelegramNotifier creates a Telegram-backed notification service.
// apiDomain is overridable for tests; pass "" for the real API.
func NewTelegramNotifier(botToken, chatID, apiDomain string) NotificationService {
	if apiDomain == "" {
		apiDomain = defaultTelegramAPIDomain
	}
	return &TelegramNotifier{
		botToken:  botToken,
		chatID:    chatID,
		apiDomain: apiDomain,
		client: &http.Client{
			Timeout: notifyTimeout,
		},
	}
}

type telegramSendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// sendMessage posts a single HTML message to the configured chat
func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) bool {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiDomain, n.botToken)
	payload, _ := json.Marshal(telegramSendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[WARN] telegram: failed to build request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("[WARN] telegram: send failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[WARN] telegram: send http status: %d", resp.StatusCode)
		return false
	}
	return true
}

// SendNewTicketNotification announces a freshly submitted repair request
func (n *TelegramNotifier) SendNewTicketNotification(ctx context.Context, req *models.RepairRequest) bool {
	pickup := "Flexible"
	if req.PickupTime != nil && *req.PickupTime != "" {
		pickup = *req.PickupTime
	}

	var b strings.Builder
	b.WriteString("🛠️ <b>New Repair Request - FixNet</b>\n\n")
	fmt.Fprintf(&b, "📱 <b>Device:</b> %s %s\n", req.DeviceBrand, req.DeviceModel)
	fmt.Fprintf(&b, "🔧 <b>Issue:</b> %s\n", req.SpecificIssue)
	fmt.Fprintf(&b, "📝 <b>Category:</b> %s\n\n", req.IssueCategory)
	fmt.Fprintf(&b, "👤 <b>Customer:</b> %s\n", req.CustomerName)
	fmt.Fprintf(&b, "📞 <b>Phone:</b> %s\n", req.CustomerPhone)
	fmt.Fprintf(&b, "📧 <b>Email:</b> %s\n\n", req.CustomerEmail)
	fmt.Fprintf(&b, "🎫 <b>Ticket ID:</b> <code>%s</code>\n", req.TicketID)
	fmt.Fprintf(&b, "%s <b>Priority:</b> %s\n", emojiForPriority(req.Priority), req.Priority)
	fmt.Fprintf(&b, "📍 <b>Pickup:</b> %s\n\n", pickup)
	fmt.Fprintf(&b, "⏰ <b>Created:</b> %s\n\n", utils.UTCNowFormat("2006-01-02 15:04"))
	fmt.Fprintf(&b, "💬 <b>Description:</b>\n<i>%s</i>", utils.Truncate(req.Description, utils.NotifyDescriptionLimit))

	return n.sendMessage(ctx, b.String())
}

// SendStatusUpdateNotification announces a lifecycle transition
func (n *TelegramNotifier) SendStatusUpdateNotification(ctx context.Context, ticketID string, oldStatus, newStatus models.RepairStatus, customerName string) bool {
	var b strings.Builder
	b.WriteString("📄 <b>Ticket Status Update - FixNet</b>\n\n")
	fmt.Fprintf(&b, "🎫 <b>Ticket ID:</b> <code>%s</code>\n", ticketID)
	fmt.Fprintf(&b, "👤 <b>Customer:</b> %s\n\n", customerName)
	fmt.Fprintf(&b, "%s <b>From:</b> %s\n", emojiForStatus(oldStatus), oldStatus)
	fmt.Fprintf(&b, "%s <b>To:</b> %s\n\n", emojiForStatus(newStatus), newStatus)
	fmt.Fprintf(&b, "⏰ <b>Updated:</b> %s", utils.UTCNowFormat("2006-01-02 15:04"))

	return n.sendMessage(ctx, b.String())
}

// SendContactMessageNotification announces a new contact form submission
func (n *TelegramNotifier) SendContactMessageNotification(ctx context.Context, msg *models.ContactMessage) bool {
	var b strings.Builder
	b.WriteString("📨 <b>New Contact Message - FixNet</b>\n\n")
	fmt.Fprintf(&b, "👤 <b>Name:</b> %s\n", msg.Name)
	fmt.Fprintf(&b, "📧 <b>Email:</b> %s\n", msg.Email)
	fmt.Fprintf(&b, "📋 <b>Subject:</b> %s\n\n", msg.Subject)
	fmt.Fprintf(&b, "💬 <b>Message:</b>\n<i>%s</i>\n\n", utils.Truncate(msg.Message, utils.NotifyMessageLimit))
	fmt.Fprintf(&b, "⏰ <b>Received:</b> %s", utils.UTCNowFormat("2006-01-02 15:04"))

	return n.sendMessage(ctx, b.String())
}

// NoopNotifier is used when notifications are disabled in config. It reports
// success so callers do not log delivery warnings for an intentional no-op.
type NoopNotifier struct{}

func NewNoopNotifier() NotificationService {
	return &NoopNotifier{}
}

func (n *NoopNotifier) SendNewTicketNotification(ctx context.Context, req *models.RepairRequest) bool {
	return true
}

func (n *NoopNotifier) SendStatusUpdateNotification(ctx context.Context, ticketID string, oldStatus, newStatus models.RepairStatus, customerName string) bool {
	return true
}

func (n *NoopNotifier) SendContactMessageNotification(ctx context.Context, msg *models.ContactMessage) bool {
	return true
}
