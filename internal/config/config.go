package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the immutable process configuration. It is loaded once in
// main and passed by reference to every component that needs it.
type Config struct {
	App        App        `mapstructure:"app"`
	HTTP       HTTP       `mapstructure:"http"`
	Database   Database   `mapstructure:"database"`
	JWT        JWT        `mapstructure:"jwt"`
	Auth       Auth       `mapstructure:"auth"`
	Pagination Pagination `mapstructure:"pagination"`
	Inventory  Inventory  `mapstructure:"inventory"`
}

type App struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	// PhoneRegion is the default region for parsing national phone
	// numbers, e.g. "IT" or "US".
	PhoneRegion string `mapstructure:"phone_region"`
}

type HTTP struct {
	Addr                      string `mapstructure:"addr"`
	ReadTimeoutExpression     string `mapstructure:"read_timeout"`
	WriteTimeoutExpression    string `mapstructure:"write_timeout"`
	IdleTimeoutExpression     string `mapstructure:"idle_timeout"`
	ShutdownTimeoutExpression string `mapstructure:"shutdown_timeout"`
}

func (h HTTP) GetReadTimeout() time.Duration     { return mustDuration(h.ReadTimeoutExpression) }
func (h HTTP) GetWriteTimeout() time.Duration    { return mustDuration(h.WriteTimeoutExpression) }
func (h HTTP) GetIdleTimeout() time.Duration     { return mustDuration(h.IdleTimeoutExpression) }
func (h HTTP) GetShutdownTimeout() time.Duration { return mustDuration(h.ShutdownTimeoutExpression) }

type Database struct {
	DSN string `mapstructure:"dsn"`
}

type JWT struct {
	Secret               string `mapstructure:"secret"`
	Algorithm            string `mapstructure:"algorithm"`
	Issuer               string `mapstructure:"issuer"`
	AccessTTLExpression  string `mapstructure:"access_ttl"`
	RefreshTTLExpression string `mapstructure:"refresh_ttl"`
}

func (j JWT) GetAccessTTL() time.Duration  { return mustDuration(j.AccessTTLExpression) }
func (j JWT) GetRefreshTTL() time.Duration { return mustDuration(j.RefreshTTLExpression) }

type Auth struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`

	// Optional bootstrap admin created at startup when the users table
	// is empty. Leaving the password empty disables bootstrapping.
	AdminEmail    string `mapstructure:"admin_email"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

type Pagination struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

type Inventory struct {
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
}

// Load reads configuration from an optional YAML file plus environment
// variables (prefix STRINGDESK_, nested keys joined with underscores,
// e.g. STRINGDESK_JWT_SECRET) and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetEnvPrefix("STRINGDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stringdesk")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.phone_region", "IT")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.shutdown_timeout", "5s")

	v.SetDefault("database.dsn", "file:stringdesk.db?_pragma=foreign_keys(1)")

	// Empty default so AutomaticEnv can bind STRINGDESK_JWT_SECRET;
	// Validate rejects the empty value.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.issuer", "stringdesk")
	v.SetDefault("jwt.access_ttl", "8h")
	v.SetDefault("jwt.refresh_ttl", "720h")

	v.SetDefault("auth.bcrypt_cost", 14)
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_username", "")
	v.SetDefault("auth.admin_password", "")

	v.SetDefault("pagination.default_page_size", 20)
	v.SetDefault("pagination.max_page_size", 100)

	v.SetDefault("inventory.low_stock_threshold", 5)
}

// Validate checks every field a component relies on so the typed
// getters never have to handle malformed values.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("config: app.name is required")
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("config: http.addr is required")
	}
	for name, expr := range map[string]string{
		"http.read_timeout":     c.HTTP.ReadTimeoutExpression,
		"http.write_timeout":    c.HTTP.WriteTimeoutExpression,
		"http.idle_timeout":     c.HTTP.IdleTimeoutExpression,
		"http.shutdown_timeout": c.HTTP.ShutdownTimeoutExpression,
		"jwt.access_ttl":        c.JWT.AccessTTLExpression,
		"jwt.refresh_ttl":       c.JWT.RefreshTTLExpression,
	} {
		if _, err := time.ParseDuration(expr); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("config: database.dsn is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("config: jwt.algorithm must be an HMAC method, got %q", c.JWT.Algorithm)
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("config: auth.bcrypt_cost out of range: %d", c.Auth.BcryptCost)
	}

	if c.Pagination.DefaultPageSize < 1 {
		return fmt.Errorf("config: pagination.default_page_size must be positive")
	}
	if c.Pagination.MaxPageSize < c.Pagination.DefaultPageSize {
		return fmt.Errorf("config: pagination.max_page_size must be >= default_page_size")
	}

	return nil
}

func mustDuration(expr string) time.Duration {
	dur, err := time.ParseDuration(expr)
	if err != nil {
		panic(fmt.Sprintf("unable to parse time: expr %s", expr))
	}
	return dur
}
