/*
Copyright © 2025 Vdistack Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/vdistack/scout/pkg/defaults"
	"github.com/vdistack/scout/pkg/logging"
	"github.com/vdistack/scout/pkg/serializer"
)

const (
	name           = "scout"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flags shared by subcommands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path for the command result (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   "Output format: yaml, json, or table",
	}

	brokerFlag = &cli.StringFlag{
		Name:    "broker",
		Aliases: []string{"b"},
		Value:   defaults.LocalBrokerAddress,
		Usage:   "Controller address for the local site query",
		Sources: cli.EnvVars("SCOUT_BROKER"),
	}

	// Zero means not specified, leaving broker.conf or the built-in
	// default in charge.
	portFlag = &cli.IntFlag{
		Name:    "port",
		Usage:   fmt.Sprintf("Controller API port (default: broker.conf, else %d)", defaults.BrokerPort),
		Sources: cli.EnvVars("SCOUT_BROKER_PORT"),
	}

	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Value: defaults.QueryTimeout,
		Usage: "Deadline for a single controller site query",
	}

	configRootFlag = &cli.StringFlag{
		Name:    "config-root",
		Value:   defaults.ConfigRoot,
		Usage:   "Directory holding vdistack configuration files",
		Sources: cli.EnvVars("SCOUT_CONFIG_ROOT"),
	}

	stateRootFlag = &cli.StringFlag{
		Name:    "state-root",
		Value:   defaults.StateRoot,
		Usage:   "Directory holding vdistack runtime state",
		Sources: cli.EnvVars("SCOUT_STATE_ROOT"),
	}

	tokenFlag = &cli.StringFlag{
		Name:  "token",
		Usage: "Bearer token for controller queries (overrides environment and keyring)",
	}

	insecureTLSFlag = &cli.BoolFlag{
		Name:  "insecure-tls",
		Usage: "Skip TLS certificate verification for controller queries",
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "Log level: debug, info, warn, or error",
		Sources: cli.EnvVars("LOG_LEVEL"),
	}
)

// rootCmd assembles the base command with all subcommands attached.
func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Vdistack diagnostic data collector",
		Description: fmt.Sprintf(`scout - Vdistack diagnostic data collector

Version: %s
Commit:  %s
Built:   %s

Collects diagnostic data from controllers (DDC) and agents (VDA):

identity - resolves which site this machine belongs to and which role
           it plays, without collecting anything.

collect  - captures a diagnostic bundle: host configuration, service
           state, and product logs, archived with a manifest.`, version, commit, date),
		Flags:  []cli.Flag{logLevelFlag},
		Before: initLogger,
		Commands: []*cli.Command{
			collectCmd(),
			identityCmd(),
			versionCmd(),
		},
	}
}

// initLogger configures slog before any command action runs, so overrides
// like --log-level take effect first.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", cmd.String("log-level"))
	return ctx, nil
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Printf("%s %s (commit: %s, built: %s)\n", name, version, commit, date)
			return nil
		},
	}
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
