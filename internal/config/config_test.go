package config_test

import (
	"testing"
	"time"

	"bookmyflower/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "memory")
	v.SetDefault("JWT_SECRET", "test_jwt_secret")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("NOTIFY_TRANSPORT", "log")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ORDER_ENFORCE_PINCODE", true)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Order.EnforcePincode)
	assert.False(t, cfg.Order.StrictStatus)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"missing secret":       {"JWT_SECRET": ""},
		"unknown driver":       {"DB_DRIVER": "cassandra"},
		"postgres without dsn": {"DB_DRIVER": "postgres"},
		"smtp without host":    {"NOTIFY_TRANSPORT": "smtp"},
		"unknown transport":    {"NOTIFY_TRANSPORT": "pigeon"},
		"bad log level":        {"LOG_LEVEL": "verbose"},
	}

	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromViper(newViper(overrides))
			assert.Error(t, err)
		})
	}
}

func TestFromViper_TrimsFrontendURL(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]interface{}{"FRONTEND_URL": "https://shop.example.com/"}))
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", cfg.Mail.FrontendURL)
}
