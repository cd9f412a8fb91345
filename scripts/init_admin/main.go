// Command init_admin creates an administrator, or promotes an existing user
// and resets their password. Running it twice is harmless.
package main

import (
	"flag"
	"os"

	"github.com/folio/internal/config"
	"github.com/folio/internal/db"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	email := flag.String("email", cfg.AdminEmail, "admin email (ADMIN_EMAIL)")
	password := flag.String("password", cfg.AdminPassword, "admin password (ADMIN_PASSWORD)")
	flag.Parse()

	// 初始化数据库
	if err := db.Init(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	created, err := db.EnsureAdmin(db.DB, *email, *password)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to provision admin")
	}

	if created {
		logger.Info().Str("email", db.NormalizeEmail(*email)).Msg("created new admin user")
	} else {
		logger.Info().Str("email", db.NormalizeEmail(*email)).Msg("updated existing user to admin")
	}
}
