package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixnet/fixnet/app/dto"
	businessflow "github.com/fixnet/fixnet/business_flow"
)

type stubAdminAuthFlow struct {
	ensureErr   error
	ensureCalls int
}

func (s *stubAdminAuthFlow) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *businessflow.ClientMetadata) (*dto.AdminLoginResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAdminAuthFlow) CurrentAdmin(ctx context.Context, email string) (*dto.AdminProfileDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAdminAuthFlow) EnsureDefaultAdmin(ctx context.Context) error {
	s.ensureCalls++
	return s.ensureErr
}

func TestEnsureBootstrapAdminIsBestEffort(t *testing.T) {
	t.Run("ProvisioningFailureDoesNotAbortStartup", func(t *testing.T) {
		flow := &stubAdminAuthFlow{ensureErr: errors.New("duplicate key value violates unique constraint")}

		// Must return normally so startup continues without the account.
		ensureBootstrapAdmin(flow)

		assert.Equal(t, 1, flow.ensureCalls)
	})

	t.Run("RunsOncePerStartup", func(t *testing.T) {
		flow := &stubAdminAuthFlow{}

		ensureBootstrapAdmin(flow)

		assert.Equal(t, 1, flow.ensureCalls)
	})
}
