package service

import (
	"context"
	"testing"
	"time"

	"github.com/acme/faculty/internal/config"
	"github.com/acme/faculty/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    bcrypt.MinCost,
		AdminEmail:    "admin@acme.com",
		AdminPassword: "p",
	}
	return NewAuthService(cfg, repository.NewMemoryAdminRepository())
}

func TestAuth_BootstrapAndLogin(t *testing.T) {
	s := newAuthService()
	ctx := context.Background()

	admin, err := s.BootstrapAdmin(ctx)
	require.NoError(t, err)

	again, err := s.BootstrapAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	token, got, err := s.Login(ctx, "ADMIN@acme.com", "p")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAdmin, claims.TokenType)
	assert.Equal(t, "admin@acme.com", claims.Email)
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	s := newAuthService()
	ctx := context.Background()
	_, err := s.BootstrapAdmin(ctx)
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "admin@acme.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody@acme.com", "p")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_ValidateTokenRejectsForeignSecret(t *testing.T) {
	s := newAuthService()
	admin, err := s.BootstrapAdmin(context.Background())
	require.NoError(t, err)

	other := newAuthService()
	other.cfg.JWTSecret = "another-secret"
	token, err := other.GenerateAdminToken(admin)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}
