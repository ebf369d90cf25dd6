package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/stringdesk/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STRINGDESK_JWT_SECRET", "test-secret")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "stringdesk", cfg.App.Name)
	assert.Equal(t, "IT", cfg.App.PhoneRegion)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 14, cfg.Auth.BcryptCost)
	assert.Equal(t, 20, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, 100, cfg.Pagination.MaxPageSize)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)

	assert.Equal(t, 10*time.Second, cfg.HTTP.GetReadTimeout())
	assert.Equal(t, 8*time.Hour, cfg.JWT.GetAccessTTL())
	assert.Equal(t, 720*time.Hour, cfg.JWT.GetRefreshTTL())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STRINGDESK_JWT_SECRET", "test-secret")
	t.Setenv("STRINGDESK_HTTP_ADDR", ":9090")
	t.Setenv("STRINGDESK_JWT_ACCESS_TTL", "15m")
	t.Setenv("STRINGDESK_APP_PHONE_REGION", "US")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Minute, cfg.JWT.GetAccessTTL())
	assert.Equal(t, "US", cfg.App.PhoneRegion)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("STRINGDESK_JWT_SECRET", "")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			App:  config.App{Name: "stringdesk", PhoneRegion: "IT"},
			HTTP: config.HTTP{Addr: ":8080", ReadTimeoutExpression: "10s", WriteTimeoutExpression: "15s", IdleTimeoutExpression: "60s", ShutdownTimeoutExpression: "5s"},
			Database: config.Database{
				DSN: "file::memory:",
			},
			JWT:        config.JWT{Secret: "s", Algorithm: "HS256", Issuer: "stringdesk", AccessTTLExpression: "8h", RefreshTTLExpression: "720h"},
			Auth:       config.Auth{BcryptCost: 10},
			Pagination: config.Pagination{DefaultPageSize: 20, MaxPageSize: 100},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(c *config.Config) {}, ""},
		{"missing dsn", func(c *config.Config) { c.Database.DSN = "" }, "database.dsn"},
		{"bad duration", func(c *config.Config) { c.HTTP.ReadTimeoutExpression = "soon" }, "http.read_timeout"},
		{"non hmac algorithm", func(c *config.Config) { c.JWT.Algorithm = "RS256" }, "jwt.algorithm"},
		{"bcrypt cost too low", func(c *config.Config) { c.Auth.BcryptCost = 2 }, "bcrypt_cost"},
		{"page size inversion", func(c *config.Config) { c.Pagination.MaxPageSize = 5 }, "max_page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
