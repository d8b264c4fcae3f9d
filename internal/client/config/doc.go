// Package config loads runtime configuration for votectl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with -c/--config.
//  3. EVOTING_* environment variables.
//  4. Command flags, applied by the cli package.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "request_timeout": "5s",
//	  "keyring_path": "/etc/evoting/keyring.json"
//	}
package config
