package systemd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/vdistack/scout/pkg/defaults"
	"github.com/vdistack/scout/pkg/report"
)

var (
	// Keys to filter out from unit properties for privacy/security or
	// noise reduction.
	filterOutUnitKeys = []string{
		"AllowedCPUs",
		"AllowedMemoryNodes",
		"Asserts",
		"BPFProgram",
		"BusName",
		"*Credential*",
		"Environment",
		"EnvironmentFiles",
	}
)

// Collector gathers state and configuration for systemd units.
type Collector struct {
	Units []string
}

// Collect snapshots the configured units. A host without systemd, or
// without D-Bus access, yields an empty record rather than an error so
// the rest of the bundle still gets written. Units that are not loaded
// are recorded as not found.
func (s *Collector) Collect(ctx context.Context) (*report.Record, error) {
	slog.Info("collecting service states")

	units := s.Units
	if len(units) == 0 {
		units = []string{defaults.AgentServiceUnit}
	}

	rec := report.NewRecord(report.CategoryServices)

	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		slog.Warn("systemd unavailable, recording no service state", "error", err.Error())
		return rec.Build(), nil
	}
	defer conn.Close()

	for _, unit := range units {
		props, err := conn.GetAllPropertiesContext(ctx, unit)
		if err != nil {
			slog.Warn("unit properties unavailable", "unit", unit, "error", err.Error())
			rec.WithSectionBuilder(report.NewSectionBuilder(unit).
				SetString(report.KeyServiceName, unit).
				SetBool(report.KeyUnitFound, false))
			continue
		}

		loadState := propString(props, "LoadState")
		rec.WithSectionBuilder(report.NewSectionBuilder(unit).
			SetString(report.KeyServiceName, unit).
			SetString(report.KeyLoadState, loadState).
			SetString(report.KeyActiveState, propString(props, "ActiveState")).
			SetString(report.KeySubState, propString(props, "SubState")).
			SetString(report.KeyEnabledState, propString(props, "UnitFileState")).
			SetBool(report.KeyUnitFound, loadState != "" && loadState != "not-found"))

		readings := make(map[string]report.Reading, len(props))
		for k, v := range props {
			readings[k] = report.ToReading(v)
		}
		rec.WithSection(report.Section{
			Name: unit + "/properties",
			Data: report.FilterOut(readings, filterOutUnitKeys),
		})
	}

	return rec.Build(), nil
}

// UnitActive reports whether the named unit is currently active. Scout
// warns before collection when the local agent service is down, since its
// logs are usually the reason a bundle was requested.
func UnitActive(ctx context.Context, unit string) (bool, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	statuses, err := conn.ListUnitsByNamesContext(ctx, []string{unit})
	if err != nil {
		return false, fmt.Errorf("failed to query unit %s: %w", unit, err)
	}

	for _, st := range statuses {
		if st.Name == unit {
			return st.ActiveState == "active", nil
		}
	}
	return false, nil
}

func propString(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
