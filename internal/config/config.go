// Package config parses daemon startup flags and environment overrides.
package config

import (
	"flag"
	"os"
)

// DefaultSocketPath is the default local command socket location.
const DefaultSocketPath = "/run/deckd.sock"

// Config holds the daemon's startup configuration.
type Config struct {
	SocketPath string
	Verbose    bool
	JSONLogs   bool
	FastNoPad  bool
	GPUHelper  string
	Profile    bool
}

// Parse parses os.Args[1:] and applies environment overrides.
func Parse() *Config {
	return ParseArgs(os.Args[1:], os.Getenv)
}

// ParseArgs parses the given argument list against a fresh FlagSet and
// applies the DECKD_DEBUG / DECKD_FAST_NO_PAD overrides via getenv.
// Flags take precedence over the environment when both are set. It is
// a thin wrapper kept separate from Parse so tests can exercise flag
// parsing without touching the global flag.CommandLine or process
// environment.
func ParseArgs(args []string, getenv func(string) string) *Config {
	fs := flag.NewFlagSet("deckd", flag.ContinueOnError)

	socketPath := fs.String("socket", DefaultSocketPath, "local command socket path")
	verbose := fs.Bool("v", false, "enable debug logging")
	jsonLogs := fs.Bool("json", false, "log in JSON format")
	fastNoPad := fs.Bool("fast-no-pad", false, "skip the pad search and force-patch immediately")
	gpuHelper := fs.String("gpu-helper", "", "path to an optional GPU usage helper program")
	profile := fs.Bool("profile", false, "log a note that the pprof HTTP endpoint is served only by builds with -tags profile")

	_ = fs.Parse(args)

	cfg := &Config{
		SocketPath: *socketPath,
		Verbose:    *verbose,
		JSONLogs:   *jsonLogs,
		FastNoPad:  *fastNoPad,
		GPUHelper:  *gpuHelper,
		Profile:    *profile,
	}

	if !flagWasSet(fs, "v") && envBool(getenv, "DECKD_DEBUG") {
		cfg.Verbose = true
	}
	if !flagWasSet(fs, "fast-no-pad") && envBool(getenv, "DECKD_FAST_NO_PAD") {
		cfg.FastNoPad = true
	}

	return cfg
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func envBool(getenv func(string) string, name string) bool {
	v := getenv(name)
	return v != "" && v != "0" && v != "false"
}
