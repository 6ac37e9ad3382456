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

import "time"

// Site query timeouts. Identity resolution makes at most one attempt per
// address with a single short deadline, so a dead broker delays a run by
// QueryTimeout at worst.
const (
	// QueryTimeout is the total timeout for one site query.
	QueryTimeout = 10 * time.Second

	// ProbeTimeout is the timeout for the local client surface check.
	ProbeTimeout = 5 * time.Second
)

// Collection timeouts for diagnostic gathering operations.
const (
	// CollectorTimeout is the default timeout for collector operations.
	// Collectors should respect parent context deadlines when shorter.
	CollectorTimeout = 10 * time.Second

	// ServiceCheckTimeout is the timeout for systemd D-Bus queries.
	ServiceCheckTimeout = 5 * time.Second

	// ArchiveTimeout is the timeout for packing the staging directory.
	ArchiveTimeout = 60 * time.Second

	// CollectTimeout is the default timeout for a complete collect run.
	CollectTimeout = 5 * time.Minute
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)
