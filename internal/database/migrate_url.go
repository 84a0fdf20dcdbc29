package database

import (
	"fmt"
	"net/url"

	"github.com/stemsi/exam-platform/internal/config"
)

// MigrationURL returns DATABASE_URL with the service key applied as the
// password, in the URL form golang-migrate expects.
func MigrationURL(cfg *config.Config) (string, error) {
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.DatabaseServiceKey == "" {
		return cfg.DatabaseURL, nil
	}

	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("database URL must be in postgres:// form to apply a service key")
	}

	username := ""
	if u.User != nil {
		username = u.User.Username()
	}
	u.User = url.UserPassword(username, cfg.DatabaseServiceKey)
	return u.String(), nil
}
