// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fixnet/fixnet/app/dto"
	businessflow "github.com/fixnet/fixnet/business_flow"
	"github.com/fixnet/fixnet/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ContactHandlerInterface defines the contract for contact message handlers
type ContactHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	MarkRead(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// ContactHandler handles contact message HTTP requests
type ContactHandler struct {
	flow      businessflow.ContactFlow
	validator *validator.Validate
}

// NewContactHandler creates a new contact handler
func NewContactHandler(flow businessflow.ContactFlow) *ContactHandler {
	return &ContactHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *ContactHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ContactHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create handles the public contact form submission.
func (h *ContactHandler) Create(c fiber.Ctx) error {
	var req dto.CreateContactMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			details := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				details = append(details, getValidationErrorMessage(fieldError))
			}
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR", details)
		}
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.Create(h.createRequestContext(c, "/api/contact"), &req, metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit contact message", "CREATE_CONTACT_MESSAGE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Message sent successfully", result)
}

// List returns a page of contact messages, optionally restricted to unread ones.
func (h *ContactHandler) List(c fiber.Ctx) error {
	req := &dto.ListContactMessagesRequest{}
	if v := c.Query("unread_only"); v != "" {
		lv := strings.ToLower(v)
		req.UnreadOnly = lv == "true" || lv == "1"
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.List(h.createRequestContext(c, "/api/contact"), req, metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list contact messages", "LIST_CONTACT_MESSAGES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contact messages retrieved successfully", result)
}

// MarkRead flags a contact message as read.
func (h *ContactHandler) MarkRead(c fiber.Ctx) error {
	messageID := c.Params("id")
	if messageID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Message ID is required", "MISSING_MESSAGE_ID", nil)
	}

	err := h.flow.MarkRead(h.createRequestContext(c, "/api/contact/:id/read"), messageID)
	if err != nil {
		if businessflow.IsContactMessageNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Contact message not found", "CONTACT_MESSAGE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to mark message as read", "MARK_READ_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Message marked as read", nil)
}

// Delete removes a contact message permanently.
func (h *ContactHandler) Delete(c fiber.Ctx) error {
	messageID := c.Params("id")
	if messageID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Message ID is required", "MISSING_MESSAGE_ID", nil)
	}

	err := h.flow.Delete(h.createRequestContext(c, "/api/contact/:id"), messageID)
	if err != nil {
		if businessflow.IsContactMessageNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Contact message not found", "CONTACT_MESSAGE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete contact message", "DELETE_CONTACT_MESSAGE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Message deleted successfully", nil)
}

func (h *ContactHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *ContactHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
