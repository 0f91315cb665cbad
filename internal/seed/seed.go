package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campusportal/internal/config"
)

// AdminEnsurer creates the bootstrap admin account when it is missing
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, fullName, universityID, password string) (bool, error)
}

// CreateDefaultData makes sure the configured admin account exists so a fresh
// deployment can be logged into. Without a configured password nothing is
// seeded.
func CreateDefaultData(ctx context.Context, users AdminEnsurer, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Password == "" {
		lgr.Warn().Msg("No admin password configured, skipping admin seed")
		return nil
	}

	lgr.Info().Str("universityID", cfg.Admin.UniversityID).Msg("Checking default admin user...")
	created, err := users.EnsureAdmin(ctx, cfg.Admin.FullName, cfg.Admin.UniversityID, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if created {
		lgr.Info().Str("universityID", cfg.Admin.UniversityID).Msg("Default admin user created successfully")
	} else {
		lgr.Info().Msg("Admin user already exists, skipping creation")
	}
	return nil
}
