package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
env:
  env: test
  serviceName: identity-test
  log:
    level: info
http:
  port: 9090
storage:
  driver: memory
secretKey:
  access: yaml-access
  refresh: yaml-refresh
auth:
  bcryptCost: 4
  accessTokenTTL: 5m
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), testConfigYAML)
	t.Chdir(dir)
	t.Setenv("SECRETKEY_ACCESS", "env-access")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "env-access", cfg.SecretKey.Access)
	assert.Equal(t, "yaml-refresh", cfg.SecretKey.Refresh)
	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadWithEnv[Config]("config")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config.yaml not found")
}

func TestNew_AppliesDefaultsAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), testConfigYAML)
	writeFile(t, filepath.Join(dir, ".env"), "SECRETKEY_REFRESH=dotenv-refresh\n")
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("SECRETKEY_REFRESH") })

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "dotenv-refresh", cfg.SecretKey.Refresh)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, defaultRefreshTokenTTL, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "identity-test", cfg.Auth.Issuer)
	assert.Nil(t, cfg.Postgres)
}

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, defaultHTTPPort, cfg.HTTP.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, defaultAccessTokenTTL, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, defaultIssuer, cfg.Auth.Issuer)
}
