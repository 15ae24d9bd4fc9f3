// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"recipe_backend/internal/platform/db"
	"recipe_backend/internal/platform/mongo"
	"recipe_backend/internal/platform/redis"
)

// Store drivers selectable with STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = db.DriverPostgres
	DriverSQLite   = db.DriverSQLite
	DriverMemory   = "memory"
)

var (
	ErrParsingConfig  = errors.New("failed to parse config")
	ErrUnknownDriver  = errors.New("unknown STORE_DRIVER")
	ErrMongoURLNeeded = errors.New("MONGODB_URL is required when STORE_DRIVER=mongo")
)

// Config is the full service configuration.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL"`

	HTTP   HTTPConfig
	Auth   AuthConfig
	Store  StoreConfig
	Mongo  mongo.Config
	DB     db.Config
	Redis  redis.Config
	Google GoogleConfig
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ServerURL       string        `env:"SERVER_URL" envDefault:"http://localhost:3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SecureCookies   bool          `env:"SECURE_COOKIES" envDefault:"true"`
}

// AuthConfig configures token issuance and session policy.
// Secrets are optional at startup; a missing one fails the requests that need it.
type AuthConfig struct {
	AccessSecret  string   `env:"ACCESS_TOKEN_SECRET"`
	RefreshSecret string   `env:"REFRESH_TOKEN_SECRET"`
	AccessTTL     Duration `env:"ACCESS_TOKEN_EXPIRATION" envDefault:"15m"`
	RefreshTTL    Duration `env:"REFRESH_TOKEN_EXPIRATION" envDefault:"7d"`
	TokenCapacity int      `env:"REFRESH_TOKEN_CAPACITY" envDefault:"5"`
	BcryptCost    int      `env:"BCRYPT_COST" envDefault:"10"`
	StoreTimeout  Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

// StoreConfig selects the credential store.
type StoreConfig struct {
	Driver string `env:"STORE_DRIVER" envDefault:"mongo"`
}

// GoogleConfig holds the Google client registration. Empty values disable Google sign-in.
type GoogleConfig struct {
	ClientID     string        `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	HTTPTimeout  time.Duration `env:"GOOGLE_HTTP_TIMEOUT" envDefault:"10s"`
}

// RedirectURL is the OAuth callback registered with Google.
func (c *Config) RedirectURL() string {
	return strings.TrimRight(c.HTTP.ServerURL, "/") + "/auth/google/callback"
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that cannot be deferred to request time.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.ConnectionURL == "" {
			return ErrMongoURLNeeded
		}
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Store.Driver)
	}
	return nil
}

// Warnings lists misconfigurations that the service survives but should report.
func (c *Config) Warnings() []string {
	var w []string
	if c.Auth.AccessSecret == "" {
		w = append(w, "ACCESS_TOKEN_SECRET is not set; authenticated requests will fail")
	}
	if c.Auth.RefreshSecret == "" {
		w = append(w, "REFRESH_TOKEN_SECRET is not set; sign-in and refresh will fail")
	}
	if c.Google.ClientID == "" {
		w = append(w, "GOOGLE_CLIENT_ID is not set; Google sign-in is disabled")
	}
	return w
}

// Duration is a time.Duration that also accepts a whole number of days, such as "7d".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid duration %q", s)
		}
		*d = Duration(time.Duration(n) * 24 * time.Hour)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
