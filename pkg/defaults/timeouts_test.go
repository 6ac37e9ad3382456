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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Query timeouts
		{"QueryTimeout", QueryTimeout, 5 * time.Second, 30 * time.Second},
		{"ProbeTimeout", ProbeTimeout, 1 * time.Second, 10 * time.Second},

		// Collection timeouts
		{"CollectorTimeout", CollectorTimeout, 5 * time.Second, 30 * time.Second},
		{"ServiceCheckTimeout", ServiceCheckTimeout, 1 * time.Second, 15 * time.Second},
		{"ArchiveTimeout", ArchiveTimeout, 30 * time.Second, 120 * time.Second},
		{"CollectTimeout", CollectTimeout, 1 * time.Minute, 10 * time.Minute},

		// HTTP client timeouts
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},
		{"HTTPTLSHandshakeTimeout", HTTPTLSHandshakeTimeout, 1 * time.Second, 15 * time.Second},
		{"HTTPResponseHeaderTimeout", HTTPResponseHeaderTimeout, 5 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestProbeTimeoutLessThanQuery(t *testing.T) {
	// The probe is a local readiness check and should never take longer
	// than an actual query attempt
	if ProbeTimeout >= QueryTimeout {
		t.Errorf("ProbeTimeout (%v) should be less than QueryTimeout (%v)",
			ProbeTimeout, QueryTimeout)
	}
}

func TestHTTPClientTimeoutRelationships(t *testing.T) {
	// Connect timeout should be less than total query timeout
	if HTTPConnectTimeout >= QueryTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than QueryTimeout (%v)",
			HTTPConnectTimeout, QueryTimeout)
	}

	// TLS handshake timeout should be less than total query timeout
	if HTTPTLSHandshakeTimeout >= QueryTimeout {
		t.Errorf("HTTPTLSHandshakeTimeout (%v) should be less than QueryTimeout (%v)",
			HTTPTLSHandshakeTimeout, QueryTimeout)
	}
}

func TestCollectorTimeoutFitsRun(t *testing.T) {
	// A single collector must be able to finish within the overall run
	if CollectorTimeout >= CollectTimeout {
		t.Errorf("CollectorTimeout (%v) should be less than CollectTimeout (%v)",
			CollectorTimeout, CollectTimeout)
	}
}
