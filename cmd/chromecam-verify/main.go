// Package main provides the ChromeCam Studio smoke verifier. It drives a
// headless Chromium through one verification pass against a locally running
// instance and leaves a screenshot plus a machine-readable report behind.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chromecam/verify/pkg/verifier"
)

const version = "0.1.0"

// Exit codes: pipelines branch on these instead of probing the filesystem
// for which screenshot appeared.
const (
	exitSuccess     = 0
	exitVerifyFail  = 1
	exitConfigError = 2
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	URL         string
	Title       string
	OutputDir   string
	Headless    bool
	HeadlessSet bool
	Verbosity   string
	ShowVersion bool
}

func main() {
	os.Exit(realMain())
}

// realMain exists so deferred cleanup runs before the process exits.
func realMain() int {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("chromecam-verify v%s\n", version)
		return exitSuccess
	}

	config, err := buildConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return exitConfigError
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	v, err := verifier.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return exitConfigError
	}

	summary, err := v.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Verification run error: %v\n", err)
		return exitConfigError
	}

	if !summary.OK() {
		return exitVerifyFail
	}
	return exitSuccess
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cli.URL, "url", "", "Target application URL (default: http://localhost:3002/)")
	flag.StringVar(&cli.Title, "title", "", "Expected page title (default: ChromeCam Studio)")
	flag.StringVar(&cli.OutputDir, "output-dir", "", "Directory for screenshots and reports (default: verification)")
	flag.BoolVar(&cli.Headless, "headless", true, "Run the browser without a visible window")
	flag.StringVar(&cli.Verbosity, "verbosity", "", "Logging verbosity: quiet, normal, verbose, debug")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ChromeCam Verify - Smoke verification for ChromeCam Studio\n\n")
		fmt.Fprintf(os.Stderr, "Usage: chromecam-verify [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CHROMECAM_URL              Target application URL\n")
		fmt.Fprintf(os.Stderr, "  CHROMECAM_TITLE            Expected page title\n")
		fmt.Fprintf(os.Stderr, "  CHROMECAM_OUTPUT_DIR       Artifact output directory\n")
		fmt.Fprintf(os.Stderr, "  CHROMECAM_HEADLESS         Headless mode toggle\n")
		fmt.Fprintf(os.Stderr, "  CHROMECAM_VERBOSITY        Logging verbosity\n")
		fmt.Fprintf(os.Stderr, "\nExit codes: 0 verification passed, 1 verification failed, 2 configuration error\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Verify the local instance with defaults\n")
		fmt.Fprintf(os.Stderr, "  chromecam-verify\n\n")
		fmt.Fprintf(os.Stderr, "  # Run with config file\n")
		fmt.Fprintf(os.Stderr, "  chromecam-verify -config verify.yaml\n\n")
		fmt.Fprintf(os.Stderr, "  # Against a different port, watching the browser\n")
		fmt.Fprintf(os.Stderr, "  chromecam-verify -url http://localhost:4000/ -headless=false\n\n")
	}

	flag.Parse()

	// A bool flag cannot distinguish its default from an explicit value, so
	// record whether -headless was actually passed
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			cli.HeadlessSet = true
		}
	})

	return cli
}

// buildConfig assembles the effective configuration: defaults, then config
// file, then environment, then flags.
func buildConfig(cli *CLIConfig) (*verifier.Config, error) {
	config := verifier.DefaultConfig()

	if cli.ConfigFile != "" {
		loaded, err := verifier.LoadConfig(cli.ConfigFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	config.ApplyEnv()

	if cli.URL != "" {
		config.Target.URL = cli.URL
	}
	if cli.Title != "" {
		config.Target.Title = cli.Title
	}
	if cli.OutputDir != "" {
		config.Artifacts.OutputDir = cli.OutputDir
	}
	if cli.Verbosity != "" {
		config.Logging.Verbosity = cli.Verbosity
	}
	if cli.HeadlessSet {
		config.Session.Headless = cli.Headless
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
