// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/fixnet/fixnet/app/dto"
	"github.com/fixnet/fixnet/app/middleware"
	businessflow "github.com/fixnet/fixnet/business_flow"
	"github.com/fixnet/fixnet/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminAuthHandlerInterface defines the contract for admin authentication handlers
type AdminAuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	Me(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	ValidateToken(c fiber.Ctx) error
}

// AdminAuthHandler handles admin authentication HTTP requests
type AdminAuthHandler struct {
	flow      businessflow.AdminAuthFlow
	validator *validator.Validate
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(flow businessflow.AdminAuthFlow) *AdminAuthHandler {
	return &AdminAuthHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *AdminAuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdminAuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Login authenticates an admin with email and password and issues a bearer token.
// Every failure mode returns the same generic message so the endpoint does not
// reveal which accounts exist.
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
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
	result, err := h.flow.Login(h.createRequestContext(c, "/api/auth/login"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidCredentials(err) {
			c.Set("WWW-Authenticate", "Bearer")
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Incorrect email or password", dto.ErrorInvalidCredentials, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// Me returns the profile of the authenticated admin.
func (h *AdminAuthHandler) Me(c fiber.Ctx) error {
	email, ok := middleware.GetAdminEmailFromContext(c)
	if !ok {
		c.Set("WWW-Authenticate", "Bearer")
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.flow.CurrentAdmin(h.createRequestContext(c, "/api/auth/me"), email)
	if err != nil {
		if businessflow.IsAdminNotFound(err) {
			c.Set("WWW-Authenticate", "Bearer")
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Admin not found", dto.ErrorAdminNotFound, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load admin profile", "PROFILE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Admin profile retrieved successfully", result)
}

// Logout acknowledges the logout. Tokens are stateless so the client simply
// discards its copy; nothing is revoked server side.
func (h *AdminAuthHandler) Logout(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Successfully logged out", nil)
}

// ValidateToken reports whether the presented bearer token is valid. The auth
// middleware has already verified it by the time this handler runs.
func (h *AdminAuthHandler) ValidateToken(c fiber.Ctx) error {
	email, ok := middleware.GetAdminEmailFromContext(c)
	if !ok {
		c.Set("WWW-Authenticate", "Bearer")
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	resp := dto.ValidateTokenResponse{
		Valid: true,
		Email: email,
	}
	if claims, ok := middleware.GetTokenClaimsFromContext(c); ok {
		resp.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Token is valid", resp)
}

func (h *AdminAuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AdminAuthHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
