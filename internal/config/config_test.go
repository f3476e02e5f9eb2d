package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YamlWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9000
  env: production
database:
  driver: sqlite
  url: "file::memory:"
jwt:
  secret: from-yaml
security:
  login_max_attempts: 3
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 3, cfg.Security.LoginMaxAttempts)
	// дефолты
	assert.Equal(t, 15, cfg.Security.LoginWindowMinutes)
	assert.Equal(t, 24, cfg.JWT.TTLHours)
	assert.Equal(t, 30, cfg.AdminJWT.TTLMinutes)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultPathMissingIsFine(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 8001, cfg.Server.Port)
}
