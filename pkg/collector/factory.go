package collector

import (
	"github.com/vdistack/scout/pkg/collector/host"
	"github.com/vdistack/scout/pkg/collector/logs"
	"github.com/vdistack/scout/pkg/collector/systemd"
	"github.com/vdistack/scout/pkg/defaults"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateHostCollector() Collector
	CreateServiceCollector() Collector
	CreateLogCollector(stagingDir string) Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	ServiceUnits []string
	LogDirs      []string
}

// FactoryOption configures the DefaultFactory.
type FactoryOption func(*DefaultFactory)

// WithServiceUnits sets the systemd units whose state is collected.
func WithServiceUnits(units []string) FactoryOption {
	return func(f *DefaultFactory) {
		if len(units) > 0 {
			f.ServiceUnits = units
		}
	}
}

// WithLogDirs sets the directories scanned for log files.
func WithLogDirs(dirs []string) FactoryOption {
	return func(f *DefaultFactory) {
		if len(dirs) > 0 {
			f.LogDirs = dirs
		}
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...FactoryOption) *DefaultFactory {
	f := &DefaultFactory{
		ServiceUnits: []string{
			defaults.AgentServiceUnit,
		},
		LogDirs: []string{
			defaults.LogRoot,
		},
	}

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateHostCollector creates a host platform collector.
func (f *DefaultFactory) CreateHostCollector() Collector {
	return &host.Collector{}
}

// CreateServiceCollector creates a systemd unit state collector.
func (f *DefaultFactory) CreateServiceCollector() Collector {
	return &systemd.Collector{
		Units: f.ServiceUnits,
	}
}

// CreateLogCollector creates a log staging collector writing under
// stagingDir.
func (f *DefaultFactory) CreateLogCollector(stagingDir string) Collector {
	return &logs.Collector{
		SourceDirs: f.LogDirs,
		StagingDir: stagingDir,
	}
}
