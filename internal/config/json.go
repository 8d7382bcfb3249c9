package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/entrypass/entrypass/internal/flagx"
	"github.com/entrypass/entrypass/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the timeout can be given either as a string like "15s"
// or as integer nanoseconds.
type JsonConfig struct {
	DatabasePath      string         `json:"database_path"`
	AuthorityBaseURL  string         `json:"authority_base_url"`
	AuthorityLanguage string         `json:"authority_language"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	MaxRetries        *int           `json:"max_retries"`
	Destination       string         `json:"destination"`
	CardType          string         `json:"card_type"`
}

// parseJson overlays Config with values from the JSON file named by the
// -c/-config flag. No flag, no JSON. Empty JSON fields leave the current
// value alone, so the file can be partial.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFile()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.AuthorityBaseURL != "" {
		cfg.AuthorityBaseURL = jc.AuthorityBaseURL
	}
	if jc.AuthorityLanguage != "" {
		cfg.AuthorityLanguage = jc.AuthorityLanguage
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
	if jc.Destination != "" {
		cfg.Destination = jc.Destination
	}
	if jc.CardType != "" {
		cfg.CardType = jc.CardType
	}
}
