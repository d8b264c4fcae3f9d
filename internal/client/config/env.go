package config

import "os"

// Environment variables understood by votectl. The secret and key ring
// names match the server's so one .env can serve both.
const (
	EnvAddr        = "EVOTING_ADDR"
	EnvToken       = "EVOTING_TOKEN"
	EnvSecretKey   = "EVOTING_SECRET_KEY"
	EnvKeyRingPath = "EVOTING_KEYRING_PATH"
)

func parseEnv(cfg *Config) {
	for name, dst := range map[string]*string{
		EnvAddr:        &cfg.ServerEndpointAddr,
		EnvToken:       &cfg.AccessToken,
		EnvSecretKey:   &cfg.SecretKey,
		EnvKeyRingPath: &cfg.KeyRingPath,
	} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
}
