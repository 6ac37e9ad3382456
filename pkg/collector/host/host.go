// Copyright (c) 2025, Vdistack Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package host collects platform facts about the machine scout runs on:
// identity, kernel, virtualization, resource totals, and the installed
// agent software version.
package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/vdistack/scout/pkg/defaults"
	"github.com/vdistack/scout/pkg/report"
	"github.com/vdistack/scout/pkg/version"
)

// minSupportedAgent is the oldest agent release current controllers still
// broker sessions for. Older installs get flagged in the bundle.
const minSupportedAgent = "7.30"

// Collector gathers host platform facts.
type Collector struct {
	// VersionFile is the installed agent's version marker. Empty selects
	// the default location under the state root. The marker is normally
	// absent on controllers.
	VersionFile string

	// ReleaseFile overrides the os-release location. Empty selects the
	// standard freedesktop.org chain.
	ReleaseFile string
}

// Collect gathers platform and resource information for this host.
// Resource probes degrade to warnings; only a failed platform probe is an
// error, since without it the record identifies nothing.
func (c *Collector) Collect(ctx context.Context) (*report.Record, error) {
	slog.Info("collecting host information")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read host information: %w", err)
	}

	platform := report.NewSectionBuilder("platform").
		SetString(report.KeyHostname, info.Hostname).
		SetString(report.KeyOS, info.OS).
		SetString(report.KeyPlatform, info.Platform).
		SetString(report.KeyPlatformVer, info.PlatformVersion).
		SetString(report.KeyKernel, info.KernelVersion).
		SetString(report.KeyArch, info.KernelArch).
		SetUint64(report.KeyUptime, info.Uptime).
		SetUint64(report.KeyBootTime, info.BootTime)

	if info.VirtualizationSystem != "" {
		platform.SetString(report.KeyVirtualization,
			info.VirtualizationSystem+"/"+info.VirtualizationRole)
	}

	resources := report.NewSectionBuilder("resources")
	if counts, cerr := cpu.CountsWithContext(ctx, true); cerr == nil {
		resources.SetInt(report.KeyCPUCount, counts)
	} else {
		slog.Warn("cpu count unavailable", "error", cerr.Error())
	}
	if vm, merr := mem.VirtualMemoryWithContext(ctx); merr == nil {
		resources.SetUint64(report.KeyMemoryTotal, vm.Total).
			SetFloat64(report.KeyMemoryUsedPct, vm.UsedPercent)
	} else {
		slog.Warn("memory stats unavailable", "error", merr.Error())
	}

	rec := report.NewRecord(report.CategoryHost).
		WithSectionBuilder(platform).
		WithSectionBuilder(resources)

	if release := c.collectRelease(); release != nil {
		rec.WithSection(*release)
	}

	if agent := c.collectAgentVersion(); agent != nil {
		rec.WithSection(*agent)
	}

	return rec.Build(), nil
}

// collectAgentVersion reads the agent version marker and checks it against
// the oldest supported release. An absent marker yields no section.
func (c *Collector) collectAgentVersion() *report.Section {
	path := c.VersionFile
	if path == "" {
		path = filepath.Join(defaults.StateRoot, "agent", "version")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("agent version marker unreadable", "path", path, "error", err.Error())
		}
		return nil
	}

	value := strings.TrimSpace(string(raw))
	sb := report.NewSectionBuilder("agent").
		SetString(report.KeyAgentVersion, value)

	installed, err := version.ParseVersion(value)
	if err != nil {
		slog.Warn("agent version marker malformed", "path", path, "value", value)
	} else {
		oldest := version.MustParseVersion(minSupportedAgent)
		sb.SetBool(report.KeySupported, installed.EqualsOrNewer(oldest))
	}

	section := sb.Build()
	return &section
}
