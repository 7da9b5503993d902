// resumed renders resume JSON into PDFs with latexmk.
//
// It runs as an HTTP service (resumed serve) or as a one-shot CLI
// (resumed render). See configs/config.yaml for every setting.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/texforge/resumed/migrations"

	"github.com/texforge/resumed/internal/infrastructure/config"
	"github.com/texforge/resumed/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "resumed",
		Short:         "Render resume JSON into PDFs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default $RESUMED_CONFIG or "+defaultConfigPath+")")

	cmd.AddCommand(
		serveCmd(opts),
		renderCmd(opts),
		checkCmd(opts),
		tokenCmd(opts),
		migrateCmd(opts),
		versionCmd(),
	)
	return cmd
}

// loadConfig resolves the config path and loads it.
//
// An explicit --config or RESUMED_CONFIG must exist. The default path is
// optional so the binary works outside the repository with env vars alone.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("RESUMED_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadConfigAndLogger loads config and builds the configured logger.
func (o *globalOptions) loadConfigAndLogger() (*config.Config, *logging.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Logging, version), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "resumed %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
