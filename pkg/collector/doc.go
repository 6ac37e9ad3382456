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

// Package collector defines the interface for gathering diagnostic data
// and the factory that wires production collectors together.
//
// # Core Interface
//
// Every data source implements a single method:
//
//	type Collector interface {
//	    Collect(ctx context.Context) (*report.Record, error)
//	}
//
// Collectors honor context cancellation and degrade rather than fail when
// an optional source is unavailable: a host without systemd, or without
// any logs to stage, still yields a bundle.
//
// # Factory Pattern
//
// The Factory interface abstracts collector creation so the run pipeline
// can be tested against fakes:
//
//	factory := collector.NewDefaultFactory(
//	    collector.WithServiceUnits([]string{"vda-agent.service"}),
//	)
//	host := factory.CreateHostCollector()
//
// # Subpackages
//
//   - collector/host - platform facts via gopsutil
//   - collector/systemd - service unit states over D-Bus
//   - collector/logs - staged copies of recent log files
package collector
