package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	t.Setenv(EnvSecretKey, "from-env")
	t.Setenv(EnvKeyPassphrase, "hunter2")
	t.Setenv(EnvSweepInterval, "1m")
	t.Setenv(EnvS3Bucket, "audit")

	cfg := &Config{SecretKey: "default", SweepInterval: time.Second}
	parseEnv(cfg)

	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, "hunter2", cfg.KeyPassphrase)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, "audit", cfg.S3Bucket)
}

func TestParseEnv_DotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := filepath.Join(dir, "server.env")
	require.NoError(t, os.WriteFile(path, []byte("EVOTING_KEYRING_PATH=/etc/evoting/keys.json\nEVOTING_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv(EnvKeyRingPath)
		os.Unsetenv(EnvLogLevel)
	})

	// an already exported variable wins over the file
	t.Setenv(EnvLogLevel, "error")

	os.Args = []string{"testbin", "-env", path}
	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "/etc/evoting/keys.json", cfg.KeyRingPath)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestParseEnv_MissingExplicitFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-env", filepath.Join(t.TempDir(), "absent.env")}

	assert.Panics(t, func() { parseEnv(&Config{}) })
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())
	t.Setenv(EnvSweepInterval, "soon")

	assert.Panics(t, func() { parseEnv(&Config{}) })
}
