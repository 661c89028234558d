package dto

// AdminLoginRequest represents the request payload for admin login
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"admin@fixnet.example"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// AdminLoginResponse represents the successful login response
type AdminLoginResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int    `json:"expires_in" example:"86400"`
}

// AdminProfileDTO is the admin's own profile view
type AdminProfileDTO struct {
	ID          uint    `json:"id"`
	UUID        string  `json:"uuid"`
	Email       string  `json:"email"`
	IsActive    *bool   `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
}

// ValidateTokenResponse confirms a token is still accepted
type ValidateTokenResponse struct {
	Valid     bool   `json:"valid"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Common error codes for auth operations
const (
	ErrorInvalidCredentials = "INVALID_CREDENTIALS"
	ErrorAdminNotFound      = "ADMIN_NOT_FOUND"
)
