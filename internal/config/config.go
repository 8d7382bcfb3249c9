package config

import "time"

// Config holds runtime settings for the EntryPass CLI.
type Config struct {
	// DatabasePath is the SQLite file holding the traveler record store.
	DatabasePath string

	// AuthorityBaseURL is the arrival-card authority endpoint.
	AuthorityBaseURL string

	// AuthorityLanguage is sent with the token exchange.
	AuthorityLanguage string

	// RequestTimeout bounds each individual authority HTTP attempt.
	RequestTimeout time.Duration

	// MaxRetries is the number of extra attempts after the first for
	// transport-level failures.
	MaxRetries int

	// Destination and CardType select which card the CLI works on.
	Destination string
	CardType    string

	// Optional S3-compatible backup target for fund photos. Backup stays
	// off while Endpoint or Bucket is empty.
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "data/entrypass.db"
	c.AuthorityBaseURL = "http://127.0.0.1:8080"
	c.AuthorityLanguage = "EN"
	c.RequestTimeout = 15 * time.Second
	c.MaxRetries = 2
	c.Destination = "TH"
	c.CardType = "TDAC"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applying defaults, then environment
// variables (including a .env file when present), then JSON, then flags.
// Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
