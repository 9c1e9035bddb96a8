// Package config reads settings from the environment and an optional .env
// file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Catalog backends.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds every setting of the service.
type Config struct {
	Port    string `env:"PORT" envDefault:"8082"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`
	Env     string `env:"APP_ENV" envDefault:"production"`

	CatalogBackend string        `env:"CATALOG_BACKEND" envDefault:"json"`
	CatalogFile    string        `env:"CATALOG_FILE" envDefault:"./data.json"`
	CatalogVersion string        `env:"CATALOG_VERSION" envDefault:"3"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"./catalog.db"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" envDefault:"10s"`

	WhatsAppPhone string `env:"WHATSAPP_PHONE" envDefault:"56941600915"`

	AdminPassword     string        `env:"ADMIN_PASSWORD" envDefault:"coffebless2024"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	SessionSecret     string        `env:"SESSION_SECRET"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SecureCookies     bool          `env:"SECURE_COOKIES" envDefault:"false"`
	SecurityLog       string        `env:"SECURITY_LOG" envDefault:"security.log"`
	SlugProductIDs    bool          `env:"SLUG_PRODUCT_IDS" envDefault:"false"`

	SMTP SMTP `envPrefix:"SMTP_"`

	PetTick   time.Duration `env:"PET_TICK" envDefault:"2s"`
	CartTTL   time.Duration `env:"CART_TTL" envDefault:"24h"`
	CartSweep time.Duration `env:"CART_SWEEP" envDefault:"10m"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	DevTLS    bool   `env:"DEV_TLS" envDefault:"false"`
	HTTPSPort string `env:"HTTPS_PORT" envDefault:"8443"`
	CertFile  string `env:"TLS_CERT_FILE" envDefault:"localhost.crt"`
	KeyFile   string `env:"TLS_KEY_FILE" envDefault:"localhost.key"`
}

// SMTP settings. Mail is off unless user, password and recipient are set.
type SMTP struct {
	Host string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port int    `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
	From string `env:"FROM"`
	To   string `env:"TO"`
}

// Load reads envFiles (missing files are ignored) and then the environment.
// Variables already set in the environment win over the files.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	switch strings.ToLower(c.CatalogBackend) {
	case BackendJSON, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres catalog backend")
		}
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.CatalogBackend)
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	if c.PetTick <= 0 {
		return fmt.Errorf("PET_TICK must be positive, got %s", c.PetTick)
	}
	return nil
}

// Development reports whether the service runs on a developer machine.
func (c Config) Development() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}
