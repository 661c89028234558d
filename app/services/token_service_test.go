// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name           string
		accessTokenTTL time.Duration
		issuer         string
		audience       string
		useRSAKeys     bool
		privateKeyPEM  string
		publicKeyPEM   string
		secretKey      string
		expectError    bool
	}{
		{
			name:           "valid symmetric key configuration",
			accessTokenTTL: 15 * time.Minute,
			issuer:         "test-issuer",
			audience:       "test-audience",
			secretKey:      "test-secret-key-for-jwt-signing-32-chars",
			expectError:    false,
		},
		{
			name:           "missing secret key",
			accessTokenTTL: 15 * time.Minute,
			issuer:         "test-issuer",
			audience:       "test-audience",
			secretKey:      "",
			expectError:    true,
		},
		{
			name:           "empty issuer and audience",
			accessTokenTTL: 15 * time.Minute,
			issuer:         "",
			audience:       "",
			secretKey:      "test-secret-key-for-jwt-signing-32-chars",
			expectError:    false, // Should not error, just use empty strings
		},
		{
			name:           "rsa keys requested but not provided",
			accessTokenTTL: 15 * time.Minute,
			issuer:         "test-issuer",
			audience:       "test-audience",
			useRSAKeys:     true,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				tt.accessTokenTTL,
				tt.issuer,
				tt.audience,
				tt.useRSAKeys,
				tt.privateKeyPEM,
				tt.publicKeyPEM,
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateAdminToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
	}{
		{
			name:  "plain email",
			email: "admin@fixnet.example",
		},
		{
			name:  "email with plus addressing",
			email: "admin+ops@fixnet.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiresAt, err := service.GenerateAdminToken(tt.email)

			assert.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.True(t, expiresAt.After(time.Now()))

			// Tokens are standard JWTs
			assert.Contains(t, token, "eyJ")
		})
	}
}

func TestValidateAdminToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	token, _, err := service.GenerateAdminToken("admin@fixnet.example")
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		expectError bool
		expectEmail string
	}{
		{
			name:        "valid token",
			token:       token,
			expectError: false,
			expectEmail: "admin@fixnet.example",
		},
		{
			name:        "empty token",
			token:       "",
			expectError: true,
		},
		{
			name:        "invalid token format",
			token:       "invalid.token.format",
			expectError: true,
		},
		{
			name:        "malformed token",
			token:       "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateAdminToken(tt.token)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
				assert.Equal(t, tt.expectEmail, claims.Email)
				assert.NotEmpty(t, claims.TokenID)
				assert.False(t, claims.IssuedAt.IsZero())
				assert.False(t, claims.ExpiresAt.IsZero())
				assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
			}
		})
	}
}

func TestTokenExpiration(t *testing.T) {
	// Create service with very short TTL for testing expiration
	service, err := NewTokenService(1*time.Second, "test-issuer", "test-audience", false, "", "", "test-secret-key-for-jwt-signing-32-chars")
	require.NoError(t, err)

	token, _, err := service.GenerateAdminToken("admin@fixnet.example")
	require.NoError(t, err)

	// Initially, the token should be valid
	claims, err := service.ValidateAdminToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)

	// Wait for the token to expire
	time.Sleep(3 * time.Second)

	claims, err = service.ValidateAdminToken(token)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestTokenSecurity(t *testing.T) {
	// Create services with different keys to ensure cross-validation fails
	service1, err := NewTokenService(15*time.Minute, "issuer1", "audience1", false, "", "", "test-secret-key-1-for-jwt-signing-32-chars")
	require.NoError(t, err)

	service2, err := NewTokenService(15*time.Minute, "issuer2", "audience2", false, "", "", "test-secret-key-2-for-jwt-signing-32-chars")
	require.NoError(t, err)

	token1, _, err := service1.GenerateAdminToken("admin@fixnet.example")
	require.NoError(t, err)

	token2, _, err := service2.GenerateAdminToken("admin@fixnet.example")
	require.NoError(t, err)

	// Tokens should be different even with the same subject
	assert.NotEqual(t, token1, token2)

	// Tokens from one service should not be valid in another service
	claims, err := service1.ValidateAdminToken(token2)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = service2.ValidateAdminToken(token1)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestAccessTokenTTL(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, service.AccessTokenTTL())
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	const numGoroutines = 10
	tokens := make(chan string, numGoroutines)
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			token, _, err := service.GenerateAdminToken("admin@fixnet.example")
			if err != nil {
				errors <- err
				return
			}
			tokens <- token
		}()
	}

	// Collect results; token IDs make every token unique
	generatedTokens := make(map[string]bool)
	for i := 0; i < numGoroutines; i++ {
		select {
		case token := <-tokens:
			assert.NotEmpty(t, token)
			assert.False(t, generatedTokens[token], "Duplicate token generated")
			generatedTokens[token] = true
		case err := <-errors:
			t.Errorf("Error generating token: %v", err)
		}
	}

	assert.Equal(t, numGoroutines, len(generatedTokens))
}

func TestTokenValidationEdgeCases(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "single character",
			token: "a",
		},
		{
			name:  "non-JWT string",
			token: "this is not a jwt token",
		},
		{
			name:  "JWT with wrong number of parts",
			token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJhZG1pbiJ9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateAdminToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func BenchmarkGenerateAdminToken(b *testing.B) {
	service, err := createTestTokenService()
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := service.GenerateAdminToken("admin@fixnet.example")
		require.NoError(b, err)
	}
}

func BenchmarkValidateAdminToken(b *testing.B) {
	service, err := createTestTokenService()
	require.NoError(b, err)

	token, _, err := service.GenerateAdminToken("admin@fixnet.example")
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.ValidateAdminToken(token)
		require.NoError(b, err)
	}
}
