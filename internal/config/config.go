package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvProduction marks a production deployment.
	EnvProduction = "production"

	defaultDatabaseURL = "folio.db"
	defaultSecretKey   = "dev"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabaseURL   string
	SecretKey     string
	Environment   string
	SecureCookies bool
	CSRFEnabled   bool
	GinMode       string
	StaticDir     string
	LogLevel      string
	AdminEmail    string
	AdminPassword string
}

// IsProduction reports whether the app runs with production settings.
func (c AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads an optional .env file and then the process environment.
func Load() AppConfig {
	// a missing .env is normal outside local development
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SECRET_KEY", defaultSecretKey)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("STATIC_DIR", "web/static")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CSRF_ENABLED", true)
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")

	return v
}

// FromViper builds the config from an already populated viper instance.
func FromViper(v *viper.Viper) AppConfig {
	port := strings.TrimSpace(v.GetString("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(v.GetString("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databaseURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if databaseURL == "" {
		databaseURL = strings.TrimSpace(v.GetString("LOCAL_DATABASE_URL"))
	}
	if databaseURL == "" {
		databaseURL = defaultDatabaseURL
	}

	secretKey := strings.TrimSpace(v.GetString("SECRET_KEY"))
	if secretKey == "" {
		secretKey = defaultSecretKey
	}

	environment := strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))
	if environment == "" {
		environment = "development"
	}

	ginMode := strings.TrimSpace(v.GetString("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	staticDir := strings.TrimSpace(v.GetString("STATIC_DIR"))
	if staticDir == "" {
		staticDir = "web/static"
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DatabaseURL:   databaseURL,
		SecretKey:     secretKey,
		Environment:   environment,
		SecureCookies: environment == EnvProduction || strings.TrimSpace(v.GetString("RENDER")) != "",
		CSRFEnabled:   v.GetBool("CSRF_ENABLED"),
		GinMode:       ginMode,
		StaticDir:     staticDir,
		LogLevel:      strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		AdminEmail:    strings.TrimSpace(v.GetString("ADMIN_EMAIL")),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}
}
