package config

import "time"

// Config holds runtime settings for votectl.
//
// Fields:
//   - ServerEndpointAddr: host:port of the voting gRPC endpoint.
//   - AccessToken: bearer token sent as access_token metadata.
//   - RequestTimeout: deadline applied to every RPC.
//   - SecretKey: JWT signing secret, only needed by "votectl token".
//   - KeyRingPath: ballot key ring file managed by "votectl keygen".
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	RequestTimeout     time.Duration
	SecretKey          string
	KeyRingPath        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.KeyRingPath = "keyring.json"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the JSON file at jsonPath (when not empty) and the environment. Command
// flags are applied on top by the caller.
func LoadConfig(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}
