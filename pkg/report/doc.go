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

// Package report provides types for the diagnostic data gathered by scout
// collectors (host facts, service states, staged log summaries).
//
// # Core Types
//
// The package defines a hierarchical structure for collected data:
//   - Category: Enum identifying the data source (Host, Services, Logs)
//   - Record: Contains a Category and a slice of Sections
//   - Section: Named collection of key-value data (e.g., "system", "memory")
//   - Reading: Interface for type-safe scalar values (int, float64, string, bool, etc.)
//
// # Creating Records
//
// Use convenience constructors to create readings:
//
//	r := &Record{
//	    Category: CategoryHost,
//	    Sections: []Section{
//	        {
//	            Name: "system",
//	            Data: map[string]Reading{
//	                "hostname": Str("vda01"),
//	                "cpu-count": Int(8),
//	                "virtualization": Str("kvm"),
//	            },
//	        },
//	    },
//	}
//
// Or use the builder pattern for cleaner code:
//
//	r := NewRecord(CategoryHost).
//	    WithSection(
//	        NewSectionBuilder("system").
//	            SetString("hostname", "vda01").
//	            SetInt("cpu-count", 8).
//	            Build(),
//	    ).
//	    Build()
//
// # Accessing Data
//
// Use type-safe getters to retrieve values:
//
//	host, err := r.GetSection("system").GetString("hostname")
//	cpus, err := r.GetSection("system").GetInt64("cpu-count")
package report
