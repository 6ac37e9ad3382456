package scout

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vdistack/scout/pkg/broker"
	"github.com/vdistack/scout/pkg/bundle"
	"github.com/vdistack/scout/pkg/collector"
	"github.com/vdistack/scout/pkg/collector/systemd"
	"github.com/vdistack/scout/pkg/defaults"
	"github.com/vdistack/scout/pkg/header"
	"github.com/vdistack/scout/pkg/identity"
	"github.com/vdistack/scout/pkg/registration"
	"github.com/vdistack/scout/pkg/report"
	"github.com/vdistack/scout/pkg/serializer"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// manifestFile is the name of the manifest inside every bundle.
const manifestFile = "manifest.yaml"

// Runner produces diagnostic bundles from the current host.
// It resolves the host's site identity, coordinates multiple collectors in
// parallel to gather data about the host, its services, and its logs, then
// archives the staged results into a named zip bundle.
type Runner struct {
	// Version is the scout version stamped into bundle manifests.
	Version string

	// Factory is the collector factory to use. If nil, the default factory is used.
	Factory collector.Factory

	// Resolver determines the host's site identity. If nil, the default
	// resolver backed by the local broker and registration files is used.
	Resolver IdentityResolver

	// OutputDir is where the finished bundle is written. If empty, the
	// default output directory is used.
	OutputDir string

	// HostName overrides the host name used in the bundle name.
	// If empty, the OS-reported host name is used.
	HostName string

	// AgentUnit is the systemd unit checked before collection. If empty,
	// the default agent service unit is used.
	AgentUnit string

	// MetricsFile is an optional path for a Prometheus textfile snapshot
	// of the run's metrics. If empty, no metrics file is written.
	MetricsFile string

	// KeepStaging leaves the staging directory in place after the run,
	// for inspecting what went into the archive.
	KeepStaging bool
}

// Run resolves the host identity, collects records, and writes the bundle.
// Collectors run in parallel using errgroup; if any collector fails, the
// entire operation returns an error and no bundle is written.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Factory == nil {
		r.Factory = collector.NewDefaultFactory()
	}
	if r.Resolver == nil {
		r.Resolver = identity.NewResolver(broker.NewClient(), registration.NewFileStore())
	}

	// Deferred last so the textfile includes the final duration and counters.
	if r.MetricsFile != "" {
		defer r.writeMetricsFile()
	}

	// Track overall bundle collection duration
	start := time.Now()
	defer func() {
		bundleCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	slog.Info("starting diagnostic bundle", slog.String("version", r.Version))

	outDir, err := bundle.EnsureOutputDir(r.OutputDir)
	if err != nil {
		bundleCollectionTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	id := r.Resolver.Resolve(ctx)
	slog.Info("resolved site identity",
		slog.String("role", id.Role.String()),
		slog.String("site", id.SiteName))

	hostName := r.HostName
	if hostName == "" {
		if hostName, err = os.Hostname(); err != nil {
			slog.Warn("could not determine host name", slog.String("error", err.Error()))
			hostName = ""
		}
	}

	name, err := bundle.Name(id, hostName, time.Now())
	if err != nil {
		bundleCollectionTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to name bundle: %w", err)
	}

	r.preflightAgentService(ctx, id)

	stagingDir, err := os.MkdirTemp("", "scout-*")
	if err != nil {
		bundleCollectionTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		if r.KeepStaging {
			slog.Info("keeping staging directory", slog.String("path", stagingDir))
			return
		}
		if err := os.RemoveAll(stagingDir); err != nil {
			slog.Warn("failed to remove staging directory", slog.String("error", err.Error()))
		}
	}()

	var mu sync.Mutex

	// Using the gctx for errgroup goroutines and keeping original ctx for
	// the manifest write and archive steps that follow the group.
	g, gctx := errgroup.WithContext(ctx)

	// Initialize manifest structure
	man := NewManifest()
	// Pre-allocate records slice with capacity for 3 collectors
	man.Records = make([]*report.Record, 0, 3)

	// Collect metadata
	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			bundleCollectorDuration.WithLabelValues("metadata").Observe(time.Since(collectorStart).Seconds())
		}()
		mu.Lock()
		man.Init(header.KindManifest, FullAPIVersion, r.Version)
		man.Identity = id
		man.Metadata["run-id"] = uuid.NewString()
		man.Metadata["source-host"] = hostName
		man.Metadata["bundle"] = name
		mu.Unlock()
		slog.Debug("stamped bundle metadata", slog.String("bundle", name), slog.String("version", r.Version))
		return nil
	})

	// Collect host configuration
	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			bundleCollectorDuration.WithLabelValues("host").Observe(time.Since(collectorStart).Seconds())
		}()
		slog.Debug("collecting host configuration")
		hc := r.Factory.CreateHostCollector()
		host, err := hc.Collect(gctx)
		if err != nil {
			slog.Error("failed to collect host configuration", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect host info: %w", err)
		}
		mu.Lock()
		man.Records = append(man.Records, host)
		mu.Unlock()
		return nil
	})

	// Collect services
	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			bundleCollectorDuration.WithLabelValues("services").Observe(time.Since(collectorStart).Seconds())
		}()
		slog.Debug("collecting service states")
		sc := r.Factory.CreateServiceCollector()
		services, err := sc.Collect(gctx)
		if err != nil {
			slog.Error("failed to collect services", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect service info: %w", err)
		}
		mu.Lock()
		man.Records = append(man.Records, services)
		mu.Unlock()
		return nil
	})

	// Collect logs
	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			bundleCollectorDuration.WithLabelValues("logs").Observe(time.Since(collectorStart).Seconds())
		}()
		slog.Debug("staging log files")
		lc := r.Factory.CreateLogCollector(stagingDir)
		logs, err := lc.Collect(gctx)
		if err != nil {
			slog.Error("failed to stage logs", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect log info: %w", err)
		}
		mu.Lock()
		man.Records = append(man.Records, logs)
		mu.Unlock()
		return nil
	})

	// Wait for all collectors to complete
	if err := g.Wait(); err != nil {
		bundleCollectionTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	bundleCollectionTotal.WithLabelValues("success").Inc()
	bundleRecordCount.Set(float64(len(man.Records)))

	slog.Debug("record collection complete", slog.Int("total_records", len(man.Records)))

	if err := writeManifest(ctx, man, stagingDir); err != nil {
		return nil, err
	}

	info, err := bundle.Archive(ctx, stagingDir, filepath.Join(outDir, name+bundle.Extension))
	if err != nil {
		return nil, fmt.Errorf("failed to archive bundle: %w", err)
	}

	elapsed := time.Since(start)
	slog.Info("bundle complete",
		slog.String("bundle", info.Path),
		slog.Int("records", len(man.Records)),
		slog.Int("files", info.Files),
		slog.Duration("elapsed", elapsed))

	return &Result{
		BundleName:   name,
		BundlePath:   info.Path,
		ChecksumPath: info.ChecksumPath,
		Checksum:     info.SHA256,
		Identity:     id,
		Records:      len(man.Records),
		Files:        info.Files,
		Bytes:        info.Bytes,
		Elapsed:      elapsed,
	}, nil
}

// preflightAgentService warns when the local agent service is down, since its
// logs are usually the reason a bundle was requested. Controllers don't run
// the agent unit, so the check is skipped there.
func (r *Runner) preflightAgentService(ctx context.Context, id identity.SiteIdentity) {
	if id.Role == identity.RoleController {
		return
	}
	unit := r.AgentUnit
	if unit == "" {
		unit = defaults.AgentServiceUnit
	}
	active, err := systemd.UnitActive(ctx, unit)
	if err != nil {
		slog.Debug("could not check agent service state", slog.String("unit", unit), slog.String("error", err.Error()))
		return
	}
	if !active {
		slog.Warn("agent service is not active", slog.String("unit", unit))
	}
}

// writeManifest serializes the manifest into the staging directory as YAML
// so it travels inside the archive with the staged files.
func writeManifest(ctx context.Context, man *Manifest, stagingDir string) error {
	path := filepath.Join(stagingDir, manifestFile)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}

	w := serializer.NewWriter(serializer.FormatYAML, file)
	serr := w.Serialize(ctx, man)
	if cerr := file.Close(); serr == nil {
		serr = cerr
	}
	if serr != nil {
		return fmt.Errorf("failed to serialize manifest: %w", serr)
	}
	return nil
}

func (r *Runner) writeMetricsFile() {
	if err := prometheus.WriteToTextfile(r.MetricsFile, prometheus.DefaultGatherer); err != nil {
		slog.Warn("failed to write metrics file",
			slog.String("path", r.MetricsFile),
			slog.String("error", err.Error()))
	}
}
