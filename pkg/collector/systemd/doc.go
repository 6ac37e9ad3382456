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

// Package systemd collects the state of the vdistack service units over
// D-Bus.
//
// For each configured unit the collector records a summary section with
// the load, active, sub, and enablement states, plus a full property
// snapshot with noisy and credential-bearing keys filtered out. Hosts
// without systemd degrade to an empty record.
//
// The package also exposes UnitActive, the preflight check used to warn
// when the local agent service is down before a bundle is collected.
package systemd
