/*
Copyright © 2025 Vdistack Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/vdistack/scout/pkg/broker"
	"github.com/vdistack/scout/pkg/identity"
	"github.com/vdistack/scout/pkg/registration"
	"github.com/vdistack/scout/pkg/serializer"
)

// siteQueryOptions holds the flags shared by commands that resolve the
// site identity.
type siteQueryOptions struct {
	broker      string
	port        int
	timeout     time.Duration
	configRoot  string
	stateRoot   string
	token       string
	insecureTLS bool
}

func parseSiteQueryOptions(cmd *cli.Command) *siteQueryOptions {
	return &siteQueryOptions{
		broker:      cmd.String("broker"),
		port:        int(cmd.Int("port")),
		timeout:     cmd.Duration("timeout"),
		configRoot:  cmd.String("config-root"),
		stateRoot:   cmd.String("state-root"),
		token:       cmd.String("token"),
		insecureTLS: cmd.Bool("insecure-tls"),
	}
}

// newResolver wires a broker client and registration store into a site
// identity resolver, honoring the shared site query flags.
func newResolver(opts *siteQueryOptions) *identity.Resolver {
	clientOpts := []broker.Option{
		broker.WithLocalAddress(opts.broker),
		broker.WithTimeout(opts.timeout),
		broker.WithConfigRoot(opts.configRoot),
		broker.WithTokenSource(broker.NewDefaultTokenChain(opts.token)),
	}
	if opts.port > 0 {
		clientOpts = append(clientOpts, broker.WithPort(opts.port))
	}
	if opts.insecureTLS {
		clientOpts = append(clientOpts, broker.WithInsecureTLS(true))
	}

	store := registration.NewFileStore(
		registration.WithConfigRoot(opts.configRoot),
		registration.WithStateRoot(opts.stateRoot),
	)

	return identity.NewResolver(broker.NewClient(clientOpts...), store)
}

// parseOutputFormat reads the format flag and validates it against the
// supported serializer formats.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// closeSerializer releases the writer when it holds resources, such as an
// open output file.
func closeSerializer(s serializer.Serializer) {
	if closer, ok := s.(serializer.Closer); ok {
		_ = closer.Close()
	}
}
