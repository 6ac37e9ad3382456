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

package defaults

// Host-local directories of a vdistack installation.
const (
	// ConfigRoot holds administrator-managed configuration.
	ConfigRoot = "/etc/vdistack"

	// StateRoot holds agent-managed runtime state.
	StateRoot = "/var/lib/vdistack"

	// LogRoot holds product log files.
	LogRoot = "/var/log/vdistack"

	// OutputDir is where diagnostic bundles are written.
	OutputDir = "/var/tmp"
)

// Broker endpoint defaults.
const (
	// BrokerPort is the administrative API port on a controller.
	BrokerPort = 8443

	// LocalBrokerAddress targets the broker service on this host.
	LocalBrokerAddress = "localhost"
)

// AgentServiceUnit is the systemd unit of the local collection agent.
const AgentServiceUnit = "vda-agent.service"
