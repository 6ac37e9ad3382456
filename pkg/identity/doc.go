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

// Package identity resolves which role this host plays in a vdistack
// deployment and which site it belongs to.
//
// Resolution walks a fixed fallback chain. A host that answers the site
// query locally is a controller. A host that does not is an agent, and the
// resolver consults the on-host registration records for a controller it
// can ask instead: the direct registration list first, then the mirrored
// registration left behind by provisioning. When nothing usable turns up
// the identity falls back to the sentinel site names, never to an error.
//
//	resolver := identity.NewResolver(querier, store)
//	id := resolver.Resolve(ctx)
//	fmt.Println(id.SiteName, id.Role.Tag())
//
// Resolve is total: it always returns a usable identity, and it never
// queries more than one discovered controller address.
package identity
