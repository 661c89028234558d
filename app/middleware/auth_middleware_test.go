package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixnet/fixnet/app/dto"
	"github.com/fixnet/fixnet/app/services"
)

const testSigningKey = "test-secret-key-for-jwt-signing-32-chars"

func newAuthTestApp(t *testing.T) (*fiber.App, services.TokenService, *int) {
	t.Helper()

	tokenService, err := services.NewTokenService(15*time.Minute, "fixnet-api", "fixnet-admin", false, "", "", testSigningKey)
	require.NoError(t, err)

	handlerCalls := 0
	app := fiber.New()
	app.Get("/protected", NewAuthMiddleware(tokenService).AdminAuthenticate(), func(c fiber.Ctx) error {
		handlerCalls++
		email, _ := GetAdminEmailFromContext(c)
		return c.JSON(fiber.Map{"email": email})
	})

	return app, tokenService, &handlerCalls
}

// testEnvelope mirrors dto.APIResponse with Error decoded as a typed
// dto.ErrorDetail so tests can assert on its fields.
type testEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    any              `json:"data,omitempty"`
	Error   *dto.ErrorDetail `json:"error,omitempty"`
}

func decodeErrorEnvelope(t *testing.T, resp *http.Response) testEnvelope {
	t.Helper()
	defer resp.Body.Close()

	var envelope testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestAdminAuthenticateRejectsBadCredentials(t *testing.T) {
	app, _, handlerCalls := newAuthTestApp(t)

	// Signed with the right key but already past its exp claim.
	expiredService, err := services.NewTokenService(-time.Hour, "fixnet-api", "fixnet-admin", false, "", "", testSigningKey)
	require.NoError(t, err)
	expiredToken, _, err := expiredService.GenerateAdminToken("admin@fixnet.example")
	require.NoError(t, err)

	// Signed with a different key entirely.
	foreignService, err := services.NewTokenService(15*time.Minute, "fixnet-api", "fixnet-admin", false, "", "", "another-secret-key-for-jwt-signing-32ch")
	require.NoError(t, err)
	foreignToken, _, err := foreignService.GenerateAdminToken("admin@fixnet.example")
	require.NoError(t, err)

	cases := []struct {
		name       string
		authHeader string
		code       string
	}{
		{"MissingHeader", "", "MISSING_AUTHORIZATION_HEADER"},
		{"NotBearerScheme", "Basic YWRtaW46cGFzcw==", "INVALID_AUTHORIZATION_FORMAT"},
		{"EmptyToken", "Bearer ", "MISSING_ACCESS_TOKEN"},
		{"MalformedToken", "Bearer not.a.jwt", "TOKEN_INVALID"},
		{"WrongSignature", "Bearer " + foreignToken, "TOKEN_INVALID"},
		{"ExpiredToken", "Bearer " + expiredToken, "TOKEN_EXPIRED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

			envelope := decodeErrorEnvelope(t, resp)
			assert.False(t, envelope.Success)
			assert.Equal(t, tc.code, envelope.Error.Code)
		})
	}

	// None of the rejected requests may reach the protected handler.
	assert.Equal(t, 0, *handlerCalls)
}

func TestAdminAuthenticateAcceptsValidToken(t *testing.T) {
	app, tokenService, handlerCalls := newAuthTestApp(t)

	token, _, err := tokenService.GenerateAdminToken("admin@fixnet.example")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, *handlerCalls)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin@fixnet.example", body["email"])
}
