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

package identity

// Role is the part a host plays in a deployment.
type Role string

const (
	// RoleController marks a host running the management plane.
	RoleController Role = "Controller"

	// RoleAgent marks a session host registered against controllers.
	RoleAgent Role = "Agent"

	// RoleUnknown marks a host whose role could not be established.
	RoleUnknown Role = "Unknown"
)

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Tag returns the short role marker embedded in bundle names: "DDC" for a
// controller, "VDA" for everything else including an unknown role.
func (r Role) Tag() string {
	if r == RoleController {
		return "DDC"
	}
	return "VDA"
}

// Sentinel site names. Both are part of the bundle naming contract and
// must be emitted byte for byte.
const (
	// SiteNameFallback stands in for the site when the host is an agent
	// but no controller could tell us the site's real name.
	SiteNameFallback = "VDA"

	// SiteNameUndetermined stands in for the site when the role itself
	// could not be established, such as after a local access fault.
	SiteNameUndetermined = "Unable to determine"
)

// SiteIdentity is the resolved identity of this host. SiteName is never
// empty: it holds a real site name or one of the two sentinels.
type SiteIdentity struct {
	Role     Role   `json:"role" yaml:"role"`
	SiteName string `json:"siteName" yaml:"siteName"`
}

// Determined reports whether resolution established a role for the host.
func (s SiteIdentity) Determined() bool {
	return s.Role != RoleUnknown
}
