// FILE: bistrolog/src/cmd/bistrolog/flags.go
package main

import (
	"flag"
	"fmt"
	"os"
)

// FlagConfig carries parsed command-line options.
type FlagConfig struct {
	ConfigFile  string
	ShowVersion bool

	LogOutput string
	LogLevel  string
	LogDir    string

	// Remaining arguments handed to the config loader for key=value
	// overrides
	ConfigArgs []string
}

func parseFlags() (*FlagConfig, error) {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	cfg := &FlagConfig{}
	fs.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.StringVar(&cfg.LogOutput, "log-output", "", "Log output: file, stdout, stderr, both, none (overrides config)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	fs.StringVar(&cfg.LogDir, "log-dir", "", "Log directory (when using file output)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	cfg.ConfigArgs = fs.Args()

	if cfg.LogOutput != "" {
		validOutputs := map[string]bool{
			"file": true, "stdout": true, "stderr": true,
			"both": true, "none": true,
		}
		if !validOutputs[cfg.LogOutput] {
			return nil, fmt.Errorf("invalid log-output: %s (valid: file, stdout, stderr, both, none)", cfg.LogOutput)
		}
	}

	if cfg.LogLevel != "" {
		if _, err := parseLogLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log-level: %s (valid: debug, info, warn, error)", cfg.LogLevel)
		}
	}

	return cfg, nil
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Bistrolog - Structured Telemetry Pipeline\n\n")
	fmt.Fprintf(out, "Usage: %s [options] [key=value overrides]\n\n", os.Args[0])
	fmt.Fprintf(out, "Options:\n")
	fs.PrintDefaults()

	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  # Run with default config (diagnostics to stderr)\n")
	fmt.Fprintf(out, "  %s\n\n", os.Args[0])

	fmt.Fprintf(out, "  # Run with custom config and override log level\n")
	fmt.Fprintf(out, "  %s --config /etc/bistrolog.toml --log-level warn\n\n", os.Args[0])

	fmt.Fprintf(out, "  # Enable virtual traffic against the built-in app\n")
	fmt.Fprintf(out, "  %s traffic.enabled=true traffic.users=5\n\n", os.Args[0])

	fmt.Fprintf(out, "Environment Variables:\n")
	fmt.Fprintf(out, "  BISTROLOG_CONFIG_FILE  Config file path\n")
	fmt.Fprintf(out, "  BISTROLOG_CONFIG_DIR   Config directory\n")
}
