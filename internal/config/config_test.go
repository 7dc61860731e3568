package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("7d")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	d, err = ParseDuration("15m")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)

	_, err = ParseDuration("0d")
	assert.Error(t, err)
	_, err = ParseDuration("soon")
	assert.Error(t, err)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  env: staging
database:
  driver: sqlite
  url: "file::memory:"
jwt:
  secret: from-yaml
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CLIENT_URL", "https://shop.example.com, https://admin.example.com")
	t.Setenv("OTP_EXPIRY_MINUTES", "5")
	t.Setenv("JWT_EXPIRES_IN", "2d")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "staging", cfg.Server.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 48*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPExpiry)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Server.ClientURL)
	assert.Equal(t, 60*time.Second, cfg.Auth.OTPResendCooldown)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
