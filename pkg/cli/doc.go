// Package cli implements the command-line interface for the vdistack scout tool.
//
// # Overview
//
// The scout CLI provides commands for resolving site identity and collecting
// diagnostic bundles from vdistack machines. It is designed for administrators
// and support engineers troubleshooting controller (DDC) and agent (VDA) hosts.
//
// # Commands
//
// identity - Resolve site membership:
//
//	scout identity [--broker HOST] [--output FILE] [--format yaml|json|table]
//
// Resolves which site this machine belongs to and which role it plays,
// walking the local broker service, the direct registration, and the
// mirrored registration in that order. Output defaults to stdout in YAML
// format and includes a preview of the bundle name a collection run would
// produce.
//
// collect - Capture a diagnostic bundle:
//
//	scout collect [--output-dir DIR] [--service UNIT]... [--log-dir DIR]...
//
// Resolves the site identity, then collects host configuration, service
// state, and product logs into a named zip archive with a manifest and a
// checksum sidecar. Prints a run summary when done.
//
// version - Print version information:
//
//	scout version
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// YAML (default):
//   - Human-readable, preserves structure
//   - Suitable for version control
//
// JSON:
//   - Machine-parseable, compact
//   - Suitable for programmatic consumption
//
// Table:
//   - Flattened field/value representation
//   - Suitable for terminal viewing
//
// # Usage Examples
//
// Check where this machine thinks it belongs:
//
//	scout identity
//
// Collect a bundle into /tmp/support with an extra log directory:
//
//	scout collect --output-dir /tmp/support --log-dir /var/opt/vdistack/logs
//
// Collect against a specific controller with a token:
//
//	scout collect --broker ddc01.acme.example --token "$TOKEN" -o summary.json --format json
//
// # Environment Variables
//
//	LOG_LEVEL           Set logging verbosity (debug, info, warn, error)
//	SCOUT_BROKER        Controller address for the local site query
//	SCOUT_BROKER_PORT   Controller API port
//	SCOUT_BROKER_TOKEN  Bearer token for controller queries
//	SCOUT_CONFIG_ROOT   Configuration directory (default: /etc/vdistack)
//	SCOUT_STATE_ROOT    Runtime state directory (default: /var/lib/vdistack)
//	SCOUT_OUTPUT_DIR    Bundle output directory (default: /var/tmp)
//
// # Exit Codes
//
//	0  Success
//	1  Error (invalid arguments, execution failure, timeout)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/scout - Bundle collection orchestration
//   - pkg/identity - Site identity resolution
//   - pkg/broker - Controller site queries
//   - pkg/registration - Registration file access
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/vdistack/scout/pkg/cli.version=1.0.0'"
package cli
