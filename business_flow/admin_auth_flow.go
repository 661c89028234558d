// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"log"

	"github.com/fixnet/fixnet/app/dto"
	"github.com/fixnet/fixnet/app/services"
	"github.com/fixnet/fixnet/config"
	"github.com/fixnet/fixnet/models"
	"github.com/fixnet/fixnet/repository"
	"github.com/fixnet/fixnet/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow represents the admin authentication flow used by handlers
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
	CurrentAdmin(ctx context.Context, email string) (*dto.AdminProfileDTO, error)
	EnsureDefaultAdmin(ctx context.Context) error
}

// AdminAuthFlowImpl verifies admin credentials and issues access tokens
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	tokenService services.TokenService
	adminCfg     config.AdminBootstrapConfig
}

func NewAdminAuthFlow(adminRepo repository.AdminRepository, tokenService services.TokenService, adminCfg config.AdminBootstrapConfig) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		tokenService: tokenService,
		adminCfg:     adminCfg,
	}
}

// Login verifies credentials and returns a fresh access token. Unknown email,
// wrong password and inactive account all produce the same error so the
// response cannot be used to probe which admin accounts exist.
func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Incorrect email or password", ErrInvalidCredentials)
	}

	// Lookup admin
	admin, err := af.adminRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Incorrect email or password", ErrInvalidCredentials)
	}

	// Verify password before the active check so both paths cost the same
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Incorrect email or password", ErrInvalidCredentials)
	}
	if !utils.IsTrue(admin.IsActive) {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Incorrect email or password", ErrInvalidCredentials)
	}

	// Issue token
	accessToken, _, err := af.tokenService.GenerateAdminToken(admin.Email)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate token", err)
	}

	// Record login time (best-effort)
	if err := af.adminRepo.UpdateLastLogin(ctx, admin.ID, utils.UTCNow()); err != nil {
		log.Printf("[WARN] failed to update last login for admin %d: %v", admin.ID, err)
	}

	return &dto.AdminLoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(af.tokenService.AccessTokenTTL().Seconds()),
	}, nil
}

// CurrentAdmin returns the profile for the authenticated admin
func (af *AdminAuthFlowImpl) CurrentAdmin(ctx context.Context, email string) (*dto.AdminProfileDTO, error) {
	admin, err := af.adminRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	profile := ToAdminProfileDTO(*admin)
	return &profile, nil
}

// EnsureDefaultAdmin creates the bootstrap admin account when no row matches
// the configured email. Runs once at startup; existing accounts are left
// untouched, including their password hash.
func (af *AdminAuthFlowImpl) EnsureDefaultAdmin(ctx context.Context) error {
	existing, err := af.adminRepo.ByEmail(ctx, af.adminCfg.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	cost := af.adminCfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(af.adminCfg.Password), cost)
	if err != nil {
		return err
	}

	admin := models.Admin{
		UUID:         uuid.New(),
		Email:        af.adminCfg.Email,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := af.adminRepo.Save(ctx, &admin); err != nil {
		return err
	}
	log.Printf("[INFO] bootstrap admin account created: %s", af.adminCfg.Email)
	return nil
}
