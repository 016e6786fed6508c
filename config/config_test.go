package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATABASE_URL", "UPLOAD_DIR", "LOG_LEVEL", "PORT"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "", cfg.Database.DSN)
	assert.Equal(t, "teachers.db", cfg.Database.SQLitePath)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(16<<20), cfg.Upload.MaxBytes())
	assert.Equal(t, 30*time.Minute, cfg.Sweeper.Grace)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 8080
upload:
  dir: "/srv/photos"
  max_size_mb: 4
sweeper:
  enabled: false
  grace_minutes: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/teachers")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port, "PORT env should win over the file")
	assert.Equal(t, "postgres://u:p@localhost:5432/teachers", cfg.Database.DSN)
	assert.Equal(t, "/srv/photos", cfg.Upload.Dir)
	assert.Equal(t, int64(4<<20), cfg.Upload.MaxBytes())
	assert.False(t, cfg.Sweeper.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Sweeper.Grace)
	assert.Equal(t, "@every 1h", cfg.Sweeper.Schedule)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
