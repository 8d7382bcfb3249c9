package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables, loading a local
// .env file first when one exists. Only the secrets and deployment-specific
// values live here; everything else belongs in JSON or flags.
func parseEnv(cfg *Config) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	overlay := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	overlay(&cfg.DatabasePath, "ENTRYPASS_DB")
	overlay(&cfg.AuthorityBaseURL, "ENTRYPASS_AUTHORITY_URL")
	overlay(&cfg.S3Endpoint, "ENTRYPASS_S3_ENDPOINT")
	overlay(&cfg.S3Region, "ENTRYPASS_S3_REGION")
	overlay(&cfg.S3Bucket, "ENTRYPASS_S3_BUCKET")
	overlay(&cfg.S3AccessKey, "ENTRYPASS_S3_ACCESS_KEY")
	overlay(&cfg.S3SecretKey, "ENTRYPASS_S3_SECRET_KEY")
}
