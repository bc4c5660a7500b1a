package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `env:
  env: test
  serviceName: folio
  debug: true
  log:
    pretty: true
    level: debug
http:
  port: 9090
  timeouts:
    readTimeout: 5s
mongo:
  uri: mongodb://localhost:27017
  database: portfolio_test
  connectTimeout: 3s
auth:
  bcryptCost: 4
`

func writeConfig(t *testing.T, name string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(testYAML), 0o600))
	t.Chdir(dir)
}

func TestLoadWithEnv_ReadsYAML(t *testing.T) {
	writeConfig(t, "test")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, "folio", cfg.Env.ServiceName)
	assert.True(t, cfg.Env.Debug)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeouts.ReadTimeout)
	require.NotNil(t, cfg.Mongo)
	assert.Equal(t, "portfolio_test", cfg.Mongo.Database)
	assert.Equal(t, 3*time.Second, cfg.Mongo.ConnectTimeout)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.True(t, cfg.TestMode())
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	writeConfig(t, "test")
	t.Setenv("FOLIO_MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("FOLIO_HTTP_PORT", "8088")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
	assert.Equal(t, 8088, cfg.HTTP.Port)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("nope")
	require.Error(t, err)
}

func TestTestMode(t *testing.T) {
	var cfg Config
	assert.False(t, cfg.TestMode())

	cfg.Env.Env = "TEST"
	assert.True(t, cfg.TestMode())
}
