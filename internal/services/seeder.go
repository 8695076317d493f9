package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthdesk-api/internal/config"
)

// SeedDefaultAdmin makes sure the configured administrator exists.
func SeedDefaultAdmin(ctx context.Context, accounts *AccountService, admin config.AdminConfig, logger zerolog.Logger) error {
	created, err := accounts.EnsureDefaultAdmin(ctx, admin.Email, admin.Password, admin.FullName)
	if err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	if created {
		logger.Info().Str("email", admin.Email).Msg("default admin user created")
	} else {
		logger.Info().Str("email", admin.Email).Msg("default admin user already exists")
	}
	return nil
}
