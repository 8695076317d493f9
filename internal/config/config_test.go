package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "STORE_DRIVER", "API_PORT", "MONGODB_DB_NAME", "REQUEST_TIMEOUT",
		"DEFAULT_ADMIN_EMAIL", "DEFAULT_ADMIN_PASSWORD", "BCRYPT_COST")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, "healthdesk", cfg.Database.Name)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "admin@healthdesk.com", cfg.Admin.Email)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("API_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("DEFAULT_ADMIN_EMAIL", "root@clinic.test")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "root@clinic.test", cfg.Admin.Email)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	_, _, err := Load()
	assert.Error(t, err)
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"*", []string{"*"}},
		{"", []string{"*"}},
		{`["https://a.example","https://b.example"]`, []string{"https://a.example", "https://b.example"}},
		{"https://a.example, https://b.example,", []string{"https://a.example", "https://b.example"}},
		{"[]", []string{}},
		{"null", []string{}},
		{" , ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrigins(tt.raw))
		})
	}
}

func TestLoadTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,192.168.0.0/16")

	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)

	unsetEnv(t, "TRUSTED_PROXIES")
	cfg, _, err = Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.TrustedProxies)
}
