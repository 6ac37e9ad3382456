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

// Package registration reads the two host-local records that describe how
// this machine is attached to a vdistack site: the administrator-managed
// controller list in the agent configuration, and the machine-identity
// mirror of the last successful dynamic registration.
//
// Both records are optional. A host that never ran the agent has neither,
// and that is a normal state, not an error. Absence is reported as
// ErrRecordNotFound; anything else (permissions, unreadable content) is a
// genuine access fault.
//
// The store is purely syntactic: list entries are handed over exactly as
// written, including whitespace padding. Interpreting which entries are
// usable is the caller's concern.
package registration

import "errors"

// ErrRecordNotFound reports that a registration record does not exist on
// this host. Callers distinguish this from read faults.
var ErrRecordNotFound = errors.New("registration record not found")

// Agent configuration file (under the config root) and its controller list key.
const (
	agentConfigFile   = "vda.conf"
	keyControllerList = "ListOfDDCs"
)

// Machine-identity file (under the state root) and its mirrored address key.
const (
	machineIdentityFile     = "machine-identity.conf"
	keyRegisteredController = "RegisteredControllerFqdn"
)

// DirectRecord is the manually configured controller list. The agent
// contacts these addresses in order when it registers. Entries are raw
// strings; an entry may be empty or whitespace-only if the configuration
// is degenerate.
type DirectRecord struct {
	Controllers []string
}

// MirrorRecord is the machine-identity mirror of the last dynamic
// registration. ControllerAddress is empty when the agent never completed
// a registration on this host.
type MirrorRecord struct {
	ControllerAddress string
}
