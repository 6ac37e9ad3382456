/*
Copyright © 2025 Vdistack Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/vdistack/scout/pkg/collector"
	"github.com/vdistack/scout/pkg/defaults"
	"github.com/vdistack/scout/pkg/scout"
	"github.com/vdistack/scout/pkg/serializer"
)

// collectCmdOptions holds parsed options for the collect command.
type collectCmdOptions struct {
	*siteQueryOptions
	outputDir    string
	services     []string
	logDirs      []string
	metricsFile  string
	keepStaging  bool
	outputPath   string
	outputFormat serializer.Format
}

// parseCollectCmdOptions parses and validates command options.
func parseCollectCmdOptions(cmd *cli.Command) (*collectCmdOptions, error) {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	return &collectCmdOptions{
		siteQueryOptions: parseSiteQueryOptions(cmd),
		outputDir:        cmd.String("output-dir"),
		services:         cmd.StringSlice("service"),
		logDirs:          cmd.StringSlice("log-dir"),
		metricsFile:      cmd.String("metrics-file"),
		keepStaging:      cmd.Bool("keep-staging"),
		outputPath:       cmd.String("output"),
		outputFormat:     format,
	}, nil
}

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Capture a diagnostic bundle from this machine",
		Description: `Captures a diagnostic bundle from this machine:
  - Host platform: OS, kernel, CPU, memory, disks, network interfaces
  - Service state: systemd unit status for vdistack services
  - Product logs: files under the vdistack log directories

The site identity is resolved first and becomes part of the bundle name,
so support staff can route the archive without opening it:

  <site>_<role>_<host>_<yyyy-MM-dd_HHmm>_ScoutData.zip

The archive contains a manifest describing the run alongside the
collected data, plus a sidecar file with the archive checksum.

# Examples

Collect with defaults (bundle written under /var/tmp):
  scout collect

Collect into a specific directory with extra sources:
  scout collect --output-dir /tmp/support \
    --service vda-agent.service --service vda-session-broker.service \
    --log-dir /var/log/vdistack --log-dir /var/opt/vdistack/logs

Write the run summary as JSON and export Prometheus metrics:
  scout collect -o summary.json --format json \
    --metrics-file /var/lib/node_exporter/textfile/scout.prom`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"d"},
				Value:   defaults.OutputDir,
				Usage:   "Directory where the bundle archive is written",
				Sources: cli.EnvVars("SCOUT_OUTPUT_DIR"),
			},
			&cli.StringSliceFlag{
				Name:  "service",
				Usage: "Systemd unit whose state to collect (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "log-dir",
				Usage: "Directory scanned for log files (can be repeated)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus textfile metrics to this path after the run",
			},
			&cli.BoolFlag{
				Name:  "keep-staging",
				Usage: "Keep the staging directory after archiving, for inspection",
			},
			brokerFlag,
			portFlag,
			timeoutFlag,
			configRootFlag,
			stateRootFlag,
			tokenFlag,
			insecureTLSFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseCollectCmdOptions(cmd)
			if err != nil {
				return err
			}

			factory := collector.NewDefaultFactory(
				collector.WithServiceUnits(opts.services),
				collector.WithLogDirs(opts.logDirs),
			)

			runner := &scout.Runner{
				Version:     version,
				Factory:     factory,
				Resolver:    newResolver(opts.siteQueryOptions),
				OutputDir:   opts.outputDir,
				MetricsFile: opts.metricsFile,
				KeepStaging: opts.keepStaging,
			}

			// The whole run is bounded, so a hung collector cannot
			// stall a support case indefinitely.
			runCtx, cancel := context.WithTimeout(ctx, defaults.CollectTimeout)
			defer cancel()

			result, err := runner.Run(runCtx)
			if err != nil {
				slog.Error("bundle collection failed", "error", err)
				return err
			}

			out := serializer.NewFileWriterOrStdout(opts.outputFormat, opts.outputPath)
			defer closeSerializer(out)
			return out.Serialize(ctx, result)
		},
	}
}
