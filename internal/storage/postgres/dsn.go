package postgres

import (
	"fmt"

	"github.com/GoSim-25-26J-441/swc-studio-backend/config"
)

// DSN returns cfg.DSN when set, otherwise a key/value connection string built from the fields.
// Both lib/pq and pgx accept either form.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode,
	)
}
