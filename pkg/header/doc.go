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

// Package header provides common header types for scout data structures.
//
// This package defines the Header type embedded in bundle manifests and
// identity reports to provide consistent metadata and versioning information.
//
// # Usage
//
// Initialize a header on a manifest:
//
//	var m Manifest
//	m.Init(header.KindManifest, "scout.vdistack.io/v1", version)
//
// # Serialization
//
// Headers serialize consistently to JSON and YAML:
//
//	{
//	  "kind": "Manifest",
//	  "apiVersion": "scout.vdistack.io/v1",
//	  "metadata": {
//	    "timestamp": "2025-12-30T10:30:00Z",
//	    "version": "v1.0.0"
//	  }
//	}
//
// # API Versioning
//
// The APIVersion field enables evolution of data formats. Tools should
// check APIVersion before parsing:
//
//	if h.APIVersion != FullAPIVersion {
//	    return fmt.Errorf("unsupported API version: %s", h.APIVersion)
//	}
package header
