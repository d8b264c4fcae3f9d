package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "keyring.json", c.KeyRingPath)
	assert.Empty(t, c.AccessToken)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_endpoint_addr": "json:1",
		"access_token":         "json-token",
		"request_timeout":      "3s",
	})
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvSecretKey, "env-secret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "json:1", cfg.ServerEndpointAddr)
	assert.Equal(t, "env-token", cfg.AccessToken)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "keyring.json", cfg.KeyRingPath)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/definitely/not/here.json")
	assert.Error(t, err)
}
