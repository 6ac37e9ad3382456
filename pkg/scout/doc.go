// Package scout produces diagnostic bundles from the current host.
//
// # Overview
//
// The scout package orchestrates parallel collection of diagnostic records
// from multiple sources (host configuration, service states, log files),
// resolves the host's site identity to name the bundle, and archives the
// staged results into a checksummed zip bundle ready for upload.
//
// # Core Types
//
// Scout: Interface for bundle production
//
//	type Scout interface {
//	    Run(ctx context.Context) (*Result, error)
//	}
//
// Runner: Production implementation that collects from the current host
//
//	type Runner struct {
//	    Version   string             // Scout version
//	    Factory   collector.Factory  // Collector factory (optional)
//	    Resolver  IdentityResolver   // Site identity resolver (optional)
//	    OutputDir string             // Bundle destination (optional)
//	}
//
// Manifest: Captured bundle contents
//
//	type Manifest struct {
//	    Header                     // API version, kind, metadata
//	    Identity identity.SiteIdentity // Resolved site identity
//	    Records  []*report.Record  // Collected data
//	}
//
// # Usage
//
// Basic bundle with defaults:
//
//	runner := &scout.Runner{
//	    Version: "v1.0.0",
//	}
//
//	ctx := context.Background()
//	result, err := runner.Run(ctx)
//	if err != nil {
//	    log.Fatalf("bundle failed: %v", err)
//	}
//	fmt.Println(result.BundlePath)
//
// Custom collector factory:
//
//	factory := collector.NewDefaultFactory(
//	    collector.WithServiceUnits([]string{"vda-agent.service"}),
//	    collector.WithLogDirs([]string{"/var/log/vdistack"}),
//	)
//
//	runner := &scout.Runner{
//	    Version: "v1.0.0",
//	    Factory: factory,
//	}
//
//	if _, err := runner.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// With timeout:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
//	defer cancel()
//
//	runner := &scout.Runner{Version: "v1.0.0"}
//	if _, err := runner.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Bundle Structure
//
// Every bundle is a zip archive named for the resolved identity:
//
//	<siteName>_<roleTag>_<hostName>_<yyyy-MM-dd_HHmm>_ScoutData.zip
//
// containing the staged log files and a manifest:
//
//	apiVersion: scout.vdistack.io/v1
//	kind: Manifest
//	metadata:
//	  run-id: 0b54a2e8-...
//	  source-host: vda042
//	identity:
//	  role: Agent
//	  siteName: EMEA-Prod
//	records:
//	  - category: Host
//	    sections:
//	      - section: platform
//	        data:
//	          hostname: vda042
//	          kernel: 6.8.0
//	  - category: Services
//	    sections:
//	      - section: vda-agent.service
//	        data:
//	          active-state: active
//
// # Parallel Collection
//
// Runner runs all collectors concurrently using errgroup:
//  1. Metadata (run id, source host, identity)
//  2. Host configuration (platform, resources, agent version)
//  3. Service states (systemd units)
//  4. Log staging (tail-capped copies of log directories)
//
// If any collector fails, all are canceled and an error is returned.
//
// # Error Handling
//
// Run() returns an error when:
//   - The output directory cannot be prepared
//   - Any collector fails
//   - Context is canceled or times out
//   - The archive cannot be written
//
// Partial bundles are never left behind - archives are all-or-nothing.
// Identity resolution never fails; an undetermined identity still yields
// a correctly named bundle.
//
// # Observability
//
// The runner exports Prometheus metrics:
//   - scout_bundle_collection_duration_seconds: Total time to produce a bundle
//   - scout_bundle_collector_duration_seconds{collector}: Per-collector timing
//
// When MetricsFile is set, a textfile snapshot is written for collection by
// the node exporter's textfile plugin.
//
// # Integration
//
// The runner is invoked by:
//   - pkg/cli - collect command
//
// It depends on:
//   - pkg/identity - Site identity resolution
//   - pkg/collector - Data collection implementations
//   - pkg/bundle - Naming and archiving
//   - pkg/serializer - Manifest formatting
package scout
