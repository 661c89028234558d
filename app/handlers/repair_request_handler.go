// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/fixnet/fixnet/app/dto"
	businessflow "github.com/fixnet/fixnet/business_flow"
	"github.com/fixnet/fixnet/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// RepairRequestHandlerInterface defines the contract for repair request handlers
type RepairRequestHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	UpdateStatus(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	DashboardStats(c fiber.Ctx) error
	ExportExcel(c fiber.Ctx) error
}

// RepairRequestHandler handles repair request HTTP requests
type RepairRequestHandler struct {
	flow      businessflow.RepairRequestFlow
	validator *validator.Validate
}

// NewRepairRequestHandler creates a new repair request handler
func NewRepairRequestHandler(flow businessflow.RepairRequestFlow) *RepairRequestHandler {
	return &RepairRequestHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *RepairRequestHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *RepairRequestHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create handles the public repair request submission form. No authentication
// is required; the generated ticket ID is the customer's reference.
func (h *RepairRequestHandler) Create(c fiber.Ctx) error {
	var req dto.CreateRepairRequestRequest
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
	result, err := h.flow.Create(h.createRequestContext(c, "/api/repair-requests"), &req, metadata)
	if err != nil {
		if businessflow.IsGDPRConsentRequired(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "GDPR consent is required", "GDPR_CONSENT_REQUIRED", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit repair request", "CREATE_REPAIR_REQUEST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Repair request submitted successfully", result)
}

// List returns a page of repair requests with optional status, search, and
// pagination query parameters. Status "all" disables the status filter.
func (h *RepairRequestHandler) List(c fiber.Ctx) error {
	req := &dto.ListRepairRequestsRequest{
		Status: c.Query("status"),
		Search: c.Query("search"),
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
	result, err := h.flow.List(h.createRequestContext(c, "/api/repair-requests"), req, metadata)
	if err != nil {
		if businessflow.IsInvalidStatus(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Invalid status filter", "INVALID_STATUS", err.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list repair requests", "LIST_REPAIR_REQUESTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Repair requests retrieved successfully", result)
}

// Get returns a single repair request by its public ticket ID.
func (h *RepairRequestHandler) Get(c fiber.Ctx) error {
	ticketID := c.Params("ticketID")
	if ticketID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Ticket ID is required", "MISSING_TICKET_ID", nil)
	}

	result, err := h.flow.Get(h.createRequestContext(c, "/api/repair-requests/:ticketID"), ticketID)
	if err != nil {
		if businessflow.IsRepairRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Repair request not found", "REPAIR_REQUEST_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load repair request", "GET_REPAIR_REQUEST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Repair request retrieved successfully", result)
}

// UpdateStatus moves a repair request through its lifecycle. The ticket ID in
// the URL wins over any ticket ID in the body.
func (h *RepairRequestHandler) UpdateStatus(c fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.TicketID = c.Params("ticketID")

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
	err := h.flow.UpdateStatus(h.createRequestContext(c, "/api/repair-requests/:ticketID/status"), &req, metadata)
	if err != nil {
		if businessflow.IsRepairRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Repair request not found", "REPAIR_REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidStatus(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Invalid status", "INVALID_STATUS", err.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update status", "REPAIR_REQUEST_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Status updated successfully", nil)
}

// Update applies a partial patch to the admin-editable fields. When the patch
// is empty or matches the stored row, the response reports that nothing
// changed instead of failing.
func (h *RepairRequestHandler) Update(c fiber.Ctx) error {
	ticketID := c.Params("ticketID")
	if ticketID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Ticket ID is required", "MISSING_TICKET_ID", nil)
	}

	var req dto.UpdateRepairRequestRequest
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
	modified, err := h.flow.Update(h.createRequestContext(c, "/api/repair-requests/:ticketID"), ticketID, &req, metadata)
	if err != nil {
		if businessflow.IsRepairRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Repair request not found", "REPAIR_REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidStatus(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Invalid status", "INVALID_STATUS", err.Error())
		}
		if businessflow.IsInvalidPriority(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Invalid priority", "INVALID_PRIORITY", err.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update repair request", "REPAIR_REQUEST_UPDATE_FAILED", nil)
	}

	if !modified {
		return c.Status(fiber.StatusOK).JSON(dto.APIResponse{
			Success: false,
			Message: "No changes made",
		})
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Repair request updated successfully", nil)
}

// Delete removes a repair request permanently.
func (h *RepairRequestHandler) Delete(c fiber.Ctx) error {
	ticketID := c.Params("ticketID")
	if ticketID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Ticket ID is required", "MISSING_TICKET_ID", nil)
	}

	err := h.flow.Delete(h.createRequestContext(c, "/api/repair-requests/:ticketID"), ticketID)
	if err != nil {
		if businessflow.IsRepairRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Repair request not found", "REPAIR_REQUEST_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete repair request", "DELETE_REPAIR_REQUEST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Repair request deleted successfully", nil)
}

// DashboardStats returns aggregate workload counters for the admin dashboard.
func (h *RepairRequestHandler) DashboardStats(c fiber.Ctx) error {
	result, err := h.flow.DashboardStats(h.createRequestContext(c, "/api/repair-requests/stats/dashboard"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute dashboard stats", "DASHBOARD_STATS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Dashboard stats retrieved successfully", result)
}

// ExportExcel streams the filtered repair requests as an Excel workbook.
func (h *RepairRequestHandler) ExportExcel(c fiber.Ctx) error {
	req := &dto.ListRepairRequestsRequest{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	filename, data, err := h.flow.ExportExcel(h.createRequestContextWithTimeout(c, "/api/repair-requests/export/excel", 60*time.Second), req)
	if err != nil {
		if businessflow.IsInvalidStatus(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Invalid status filter", "INVALID_STATUS", err.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export repair requests", "EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(data)
}

func (h *RepairRequestHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *RepairRequestHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
