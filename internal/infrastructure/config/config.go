package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/bookstore/bookstore/internal/core/domain"
)

type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      Mode   `env:"APP_ENV,   default=production"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Catalog CatalogConfig
	Mongo   MongoConfig
	Redis   RedisConfig

	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=12"`
	// TrustClaimsOffline is "true", "false" or empty for the mode default.
	TrustClaimsOffline string        `env:"AUTH_TRUST_CLAIMS_OFFLINE"`
	ProbeTimeout       time.Duration `env:"STORE_PROBE_TIMEOUT, default=1s"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

type CatalogConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
	// Fallback is "true", "false" or empty for the mode default.
	Fallback string `env:"CATALOG_FALLBACK"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bookstore"`
}

type RedisConfig struct {
	// Addr empty disables the login throttle.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
	// Timeout bounds the startup ping and every limiter command.
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=2s"`
}

// EdgeConfig configures the edge proxy binary.
type EdgeConfig struct {
	Port       string        `env:"EDGE_PORT,       default=3000"`
	Env        Mode          `env:"APP_ENV,         default=production"`
	LogLevel   string        `env:"LOG_LEVEL,       default=info"`
	BackendURL string        `env:"BACKEND_URL,     default=http://127.0.0.1:5000"`
	Timeout    time.Duration `env:"EDGE_TIMEOUT,    default=3s"`
	RateLimit  int           `env:"EDGE_RATE_LIMIT, default=60"`
}

// Load reads the API configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the API configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEdge reads the edge proxy configuration from the environment.
func LoadEdge(ctx context.Context) (*EdgeConfig, error) {
	return LoadEdgeWith(ctx, envconfig.OsLookuper())
}

func LoadEdgeWith(ctx context.Context, l envconfig.Lookuper) (*EdgeConfig, error) {
	var cfg EdgeConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Env.validate(); err != nil {
		return nil, err
	}
	if cfg.BackendURL == "" {
		return nil, errors.New("config: BACKEND_URL must not be empty")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("config: EDGE_TIMEOUT must be positive")
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Env.validate(); err != nil {
		return err
	}
	switch c.Catalog.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Catalog.Driver)
	}
	if c.Env == ModeProduction && c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required in production")
	}
	if _, err := parseOptionalBool(c.Auth.TrustClaimsOffline); err != nil {
		return fmt.Errorf("config: AUTH_TRUST_CLAIMS_OFFLINE: %w", err)
	}
	if _, err := parseOptionalBool(c.Catalog.Fallback); err != nil {
		return fmt.Errorf("config: CATALOG_FALLBACK: %w", err)
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Env == ModeDevelopment }

// TrustClaimsOffline reports whether degraded auth may rely on token claims.
// Defaults to on in development and off in production.
func (c *Config) TrustClaimsOffline() bool {
	v, _ := parseOptionalBool(c.Auth.TrustClaimsOffline)
	if v == nil {
		return c.IsDevelopment()
	}
	return *v
}

// CatalogFallback reports whether the in-memory catalog backs up the primary.
func (c *Config) CatalogFallback() bool {
	v, _ := parseOptionalBool(c.Catalog.Fallback)
	if v == nil {
		return c.IsDevelopment()
	}
	return *v
}

func (e *EdgeConfig) IsDevelopment() bool { return e.Env == ModeDevelopment }

func (m Mode) validate() error {
	switch m {
	case ModeProduction, ModeDevelopment:
		return nil
	}
	return fmt.Errorf("config: unknown APP_ENV %q", string(m))
}

func parseOptionalBool(s string) (*bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Warnings lists configuration combinations that start but degrade behaviour.
func (c *Config) Warnings() []string {
	if !c.IsDevelopment() {
		return nil
	}
	warnings := []string{"insecure development mode: mock tokens are accepted"}
	if c.Auth.JWTSecret == "" && c.Catalog.Driver == DriverMongo {
		warnings = append(warnings, fmt.Sprintf(
			"JWT_SECRET is unset: logins issue mock tokens and only user id %q maps to admin, "+
				"so admins stored in mongo cannot write; set JWT_SECRET", domain.MockAdminID))
	}
	return warnings
}
