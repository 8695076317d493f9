package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
	"github.com/harentsoaR/healthdesk-api/internal/config"
)

func TestSeedDefaultAdmin(t *testing.T) {
	svc, _ := newAccountService(t)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	admin := config.AdminConfig{
		Email:    "admin@healthdesk.com",
		Password: "admin123",
		FullName: "Admin User",
	}

	require.NoError(t, SeedDefaultAdmin(context.Background(), svc, admin, logger))
	assert.Contains(t, buf.String(), "default admin user created")

	buf.Reset()
	require.NoError(t, SeedDefaultAdmin(context.Background(), svc, admin, logger))
	assert.Contains(t, buf.String(), "default admin user already exists")
	assert.NotContains(t, buf.String(), "admin123")
}

func TestSeedDefaultAdminPropagatesStoreErrors(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SeedDefaultAdmin(ctx, svc, config.AdminConfig{Email: "a@b.c", Password: "pw"}, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindPersistence))
}
