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
	"time"

	"github.com/urfave/cli/v3"

	"github.com/vdistack/scout/pkg/bundle"
	"github.com/vdistack/scout/pkg/header"
	"github.com/vdistack/scout/pkg/identity"
	"github.com/vdistack/scout/pkg/scout"
	"github.com/vdistack/scout/pkg/serializer"
)

// identityDocument is the printable product of the identity command.
type identityDocument struct {
	header.Header `json:",inline" yaml:",inline"`

	// Identity is the resolved site membership of this machine.
	Identity identity.SiteIdentity `json:"identity" yaml:"identity"`

	// BundleName previews what a bundle collected right now would
	// be called.
	BundleName string `json:"bundleName" yaml:"bundleName"`
}

// identityCmdOptions holds parsed options for the identity command.
type identityCmdOptions struct {
	*siteQueryOptions
	outputPath   string
	outputFormat serializer.Format
}

func parseIdentityCmdOptions(cmd *cli.Command) (*identityCmdOptions, error) {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	return &identityCmdOptions{
		siteQueryOptions: parseSiteQueryOptions(cmd),
		outputPath:       cmd.String("output"),
		outputFormat:     format,
	}, nil
}

func identityCmd() *cli.Command {
	return &cli.Command{
		Name:                  "identity",
		EnableShellCompletion: true,
		Usage:                 "Resolve the site identity of this machine",
		Description: `Resolves which site this machine belongs to and which role it plays,
without collecting anything. The answer comes from the first source
that can provide one:

  1. The broker service on this host (controllers answer for themselves).
  2. The controller this machine is registered with.
  3. The mirrored registration kept in runtime state.

Agents that cannot reach a controller still resolve, with the generic
VDA site name. A machine whose local configuration cannot be read
resolves to Unknown.

# Examples

Print the identity to stdout:
  scout identity

Query a specific controller, as JSON:
  scout identity --broker ddc01.acme.example --format json

Use alternate configuration locations:
  scout identity --config-root /opt/vdistack/etc --state-root /opt/vdistack/state`,
		Flags: []cli.Flag{
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
			opts, err := parseIdentityCmdOptions(cmd)
			if err != nil {
				return err
			}

			id := newResolver(opts.siteQueryOptions).Resolve(ctx)
			slog.Info("site identity resolved",
				slog.String("role", id.Role.String()),
				slog.String("site", id.SiteName))

			hostName, err := os.Hostname()
			if err != nil {
				slog.Warn("unable to determine host name", "error", err)
				hostName = ""
			}

			doc := &identityDocument{Identity: id}
			doc.Init(header.KindIdentity, scout.FullAPIVersion, version)

			doc.BundleName, err = bundle.Name(id, hostName, time.Now())
			if err != nil {
				return fmt.Errorf("failed to compute bundle name: %w", err)
			}

			out := serializer.NewFileWriterOrStdout(opts.outputFormat, opts.outputPath)
			defer closeSerializer(out)
			return out.Serialize(ctx, doc)
		},
	}
}
