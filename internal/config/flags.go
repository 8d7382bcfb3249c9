package config

import (
	"flag"
	"os"
	"time"

	"github.com/entrypass/entrypass/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the arrival-card authority
//	-b string   path to the SQLite database file
//	-d string   destination code the CLI works on
//	-t int      per-attempt request timeout in seconds
//	-r int      transport retries per authority call
//
// The function filters os.Args to only the flags it owns, via
// flagx.FilterArgs, so it never collides with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-d", "-t", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthorityBaseURL, "a", cfg.AuthorityBaseURL, "authority base URL")
	fs.StringVar(&cfg.DatabasePath, "b", cfg.DatabasePath, "path to the database file")
	fs.StringVar(&cfg.Destination, "d", cfg.Destination, "destination code")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.MaxRetries, "r", cfg.MaxRetries, "transport retries per call")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
