package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/oddsup/internal/flagx"
)

// parseFlags applies the flags this package owns; everything else in
// args is left for the REPL.
//
//	-a string     backend base URL
//	-t duration   per-request timeout, e.g. 10s
//	-d string     data directory
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d"})

	fs := flag.NewFlagSet("oddsup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")

	return fs.Parse(args)
}
