package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  port: 9090
database:
  url: postgres://file/db
redis:
  addrs: ["redis-a:6379"]
otp:
  ttl: 2m
  max_per_window: 5
auth:
  jwt_secret: from-file
session:
  idle_timeout: 10m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFileAndDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://file/db", cfg.Database.DSN)
	assert.Equal(t, []string{"redis-a:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 5, cfg.OTP.MaxPerWindow)
	assert.Equal(t, 45*time.Second, cfg.OTP.Cooldown)
	assert.Equal(t, 10*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "cryptoupi", cfg.Auth.Issuer)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("REDIS_ADDR", "r1:6379,r2:6379")
	t.Setenv("MOBIZON_API_KEY", "mk")
	t.Setenv("PORT", "7000")

	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, []string{"r1:6379", "r2:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, "mk", cfg.Mobizon.APIKey)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig(writeConfig(t, "server:\n  port: 1\n"))
	assert.Error(t, err)
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-only")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigBadYAML(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	_, err := LoadConfig(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}
