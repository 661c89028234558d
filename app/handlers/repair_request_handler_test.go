package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixnet/fixnet/app/dto"
	businessflow "github.com/fixnet/fixnet/business_flow"
)

// fakeRepairFlow answers handler calls without touching storage.
type fakeRepairFlow struct {
	created []*dto.CreateRepairRequestRequest
}

func (f *fakeRepairFlow) Create(ctx context.Context, req *dto.CreateRepairRequestRequest, metadata *businessflow.ClientMetadata) (*dto.CreateRepairRequestResponse, error) {
	if !req.GDPRConsent {
		return nil, businessflow.NewBusinessError("GDPR_CONSENT_REQUIRED", "GDPR consent is required to submit a repair request", businessflow.ErrGDPRConsentRequired)
	}
	f.created = append(f.created, req)
	return &dto.CreateRepairRequestResponse{
		TicketID: "FN-2026-00000001",
		Data:     dto.RepairRequestDTO{TicketID: "FN-2026-00000001", CustomerName: req.CustomerName},
	}, nil
}

func (f *fakeRepairFlow) List(ctx context.Context, req *dto.ListRepairRequestsRequest, metadata *businessflow.ClientMetadata) (*dto.ListRepairRequestsResponse, error) {
	return &dto.ListRepairRequestsResponse{}, nil
}

func (f *fakeRepairFlow) Get(ctx context.Context, ticketID string) (*dto.RepairRequestDTO, error) {
	return &dto.RepairRequestDTO{TicketID: ticketID}, nil
}

func (f *fakeRepairFlow) UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest, metadata *businessflow.ClientMetadata) error {
	return nil
}

func (f *fakeRepairFlow) Update(ctx context.Context, ticketID string, req *dto.UpdateRepairRequestRequest, metadata *businessflow.ClientMetadata) (bool, error) {
	return true, nil
}

func (f *fakeRepairFlow) Delete(ctx context.Context, ticketID string) error {
	return nil
}

func (f *fakeRepairFlow) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	return &dto.DashboardStatsResponse{}, nil
}

func (f *fakeRepairFlow) ExportExcel(ctx context.Context, req *dto.ListRepairRequestsRequest) (string, []byte, error) {
	return "repair_requests_2026-01-01.xlsx", []byte{}, nil
}

func newCreateTestApp(t *testing.T) (*fiber.App, *fakeRepairFlow) {
	t.Helper()

	flow := &fakeRepairFlow{}
	app := fiber.New()
	app.Post("/api/repair-requests/", NewRepairRequestHandler(flow).Create)
	return app, flow
}

func validSubmission() map[string]any {
	return map[string]any{
		"customer_name":  "Jane Doe",
		"customer_email": "jane@example.com",
		"customer_phone": "(555) 123-4567",
		"device_brand":   "Apple",
		"device_model":   "iPhone 14 Pro",
		"issue_category": "Screen",
		"specific_issue": "Cracked display",
		"description":    "Dropped on concrete, glass shattered in the corner",
		"pickup_address": "Main Street 1, 1000 AA Amsterdam",
		"gdpr_consent":   true,
	}
}

func postSubmission(t *testing.T, app *fiber.App, payload map[string]any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/repair-requests/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// testEnvelope mirrors dto.APIResponse with Error decoded as a typed
// dto.ErrorDetail so tests can assert on its fields.
type testEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    any              `json:"data,omitempty"`
	Error   *dto.ErrorDetail `json:"error,omitempty"`
}

func decodeResponse(t *testing.T, resp *http.Response) testEnvelope {
	t.Helper()
	defer resp.Body.Close()

	var envelope testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestRepairRequestCreateValidation(t *testing.T) {
	t.Run("AcceptsFormattedPhoneNumber", func(t *testing.T) {
		app, flow := newCreateTestApp(t)

		payload := validSubmission()
		payload["customer_phone"] = "(555) 123-4567"

		resp := postSubmission(t, app, payload)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		envelope := decodeResponse(t, resp)
		assert.True(t, envelope.Success)
		require.Len(t, flow.created, 1)
		assert.Equal(t, "(555) 123-4567", flow.created[0].CustomerPhone)
	})

	t.Run("RejectsPhoneWithTooFewDigits", func(t *testing.T) {
		app, flow := newCreateTestApp(t)

		payload := validSubmission()
		payload["customer_phone"] = "123"

		resp := postSubmission(t, app, payload)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		envelope := decodeResponse(t, resp)
		assert.False(t, envelope.Success)
		assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)

		details, ok := envelope.Error.Details.([]interface{})
		require.True(t, ok)
		assert.Contains(t, details, "Phone number must contain at least 10 digits")
		assert.Empty(t, flow.created)
	})

	t.Run("RejectsMissingGDPRConsent", func(t *testing.T) {
		app, flow := newCreateTestApp(t)

		payload := validSubmission()
		payload["gdpr_consent"] = false

		resp := postSubmission(t, app, payload)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		envelope := decodeResponse(t, resp)
		assert.False(t, envelope.Success)
		assert.Equal(t, "GDPR_CONSENT_REQUIRED", envelope.Error.Code)
		assert.Empty(t, flow.created)
	})

	t.Run("RejectsMalformedBody", func(t *testing.T) {
		app, flow := newCreateTestApp(t)

		req := httptest.NewRequest(http.MethodPost, "/api/repair-requests/", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		envelope := decodeResponse(t, resp)
		assert.Equal(t, "INVALID_REQUEST", envelope.Error.Code)
		assert.Empty(t, flow.created)
	})
}
