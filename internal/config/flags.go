package config

import (
	"flag"
	"strings"

	"github.com/Faultbox/lwostrut/pkg/encoding"
)

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile      = flag.String("log-file", "", "Also write logs to this file")
	flagHidden       = flag.Bool("hidden", false, "Include hidden layers")
	flagStrict       = flag.Bool("strict", false, "Fail when a chunk is not fully consumed")
	flagCharset      = flag.String("charset", "", "Encoding of stored strings ("+strings.Join(encoding.Names(), ", ")+")")
	flagSearch       = flag.String("search", "", "Comma-separated image search paths")
	flagAllowMissing = flag.Bool("allow-missing", false, "Do not fail on missing clip images")
	flagRelative     = flag.Bool("relative", false, "Report image paths relative to the object's directory")
	flagProbe        = flag.Bool("probe", false, "Read image headers of resolved clips")
	flagWorkers      = flag.Int("workers", 0, "Batch worker count")
	flagTimeout      = flag.Duration("timeout", 0, "Batch per-file timeout")
)

// ParseFlags parses command-line flags from args, which exclude the program
// name and subcommand.
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagHidden {
		cfg.Import.LoadHidden = true
	}
	if *flagStrict {
		cfg.Import.Strict = true
	}
	if *flagCharset != "" {
		cfg.Import.Charset = *flagCharset
	}
	if *flagSearch != "" {
		cfg.Clips.SearchPaths = splitList(*flagSearch)
	}
	if *flagAllowMissing {
		cfg.Clips.AllowMissing = true
	}
	if *flagRelative {
		cfg.Clips.AbsolutePaths = false
	}
	if *flagProbe {
		cfg.Clips.Probe = true
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
	if *flagTimeout > 0 {
		cfg.Batch.Timeout = *flagTimeout
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
