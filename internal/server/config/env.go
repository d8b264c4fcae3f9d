package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/evoting/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names understood by parseEnv.
const (
	EnvGRPCAddr      = "EVOTING_GRPC_ADDR"
	EnvDatabaseDSN   = "EVOTING_DATABASE_DSN"
	EnvSecretKey     = "EVOTING_SECRET_KEY"
	EnvKeyRingPath   = "EVOTING_KEYRING_PATH"
	EnvKeyPassphrase = "EVOTING_KEY_PASSPHRASE"
	EnvSweepInterval = "EVOTING_SWEEP_INTERVAL"
	EnvLogLevel      = "EVOTING_LOG_LEVEL"
	EnvS3User        = "EVOTING_S3_USER"
	EnvS3Password    = "EVOTING_S3_PASSWORD"
	EnvS3Bucket      = "EVOTING_S3_BUCKET"
	EnvS3Region      = "EVOTING_S3_REGION"
	EnvS3Endpoint    = "EVOTING_S3_ENDPOINT"
)

// parseEnv loads the dotenv file named by -env (or ./.env when present) into
// the process environment and then copies every set EVOTING_* variable into
// config. Variables already present in the environment win over the file.
// A missing explicit -env file or an unparsable duration panics.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	vars := map[string]*string{
		EnvGRPCAddr:      &config.EndpointAddrGRPC,
		EnvDatabaseDSN:   &config.DatabaseDSN,
		EnvSecretKey:     &config.SecretKey,
		EnvKeyRingPath:   &config.KeyRingPath,
		EnvKeyPassphrase: &config.KeyPassphrase,
		EnvLogLevel:      &config.LogLevel,
		EnvS3User:        &config.S3RootUser,
		EnvS3Password:    &config.S3RootPassword,
		EnvS3Bucket:      &config.S3Bucket,
		EnvS3Region:      &config.S3Region,
		EnvS3Endpoint:    &config.S3BaseEndpoint,
	}
	for name, dst := range vars {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvSweepInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.SweepInterval = d
	}
}
