package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/linkbio/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "linkbio.db", cfg.Database.Name)
	assert.Equal(t, 1000, cfg.Analytics.BufferSize)
	assert.Equal(t, 5, cfg.Analytics.WorkerCount)
	assert.Equal(t, "linkbio", cfg.Auth.JWTIssuer)
	assert.Equal(t, int64(2<<20), cfg.Storage.MaxAvatarBytes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9000
database:
  name: from-file.db
auth:
  jwt_secret: file-secret
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := config.Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-file.db", cfg.Database.Name)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0o600))

	_, err := config.Load(viper.New(), dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := config.Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.ErrorContains(t, cfg.Validate(), "jwt_secret")

	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "server.port")

	cfg.Server.Port = 8080
	cfg.Analytics.WorkerCount = 0
	assert.Error(t, cfg.Validate())
}
