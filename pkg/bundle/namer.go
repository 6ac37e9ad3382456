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

package bundle

import (
	"errors"
	"strings"
	"time"

	"github.com/vdistack/scout/pkg/identity"
)

const (
	// timestampLayout renders bundle timestamps to minute precision in
	// the host's local time.
	timestampLayout = "2006-01-02_1504"

	// nameSuffix marks the archive as scout output. Analysis tooling
	// keys on this suffix, so it is part of the naming contract.
	nameSuffix = "ScoutData"
)

// ErrZeroTimestamp is returned when a bundle name is requested for the
// zero time.
var ErrZeroTimestamp = errors.New("bundle timestamp not set")

// Name formats the bundle name from the resolved identity, the host name,
// and the collection timestamp:
//
//	<siteName>_<roleTag>_<hostName>_<yyyy-MM-dd_HHmm>_ScoutData
//
// The site name is embedded as resolved, sentinels included. Name is pure
// formatting; its only failure mode is a zero timestamp.
func Name(id identity.SiteIdentity, hostName string, ts time.Time) (string, error) {
	if ts.IsZero() {
		return "", ErrZeroTimestamp
	}

	parts := []string{
		id.SiteName,
		id.Role.Tag(),
		hostName,
		ts.Format(timestampLayout),
		nameSuffix,
	}
	return strings.Join(parts, "_"), nil
}
