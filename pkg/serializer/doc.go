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

// Package serializer provides encoding of scout documents in multiple formats.
//
// # Overview
//
// The serializer package handles conversion between scout data structures -
// bundle manifests, identity records, diagnostic reports - and various output
// formats including JSON, YAML, and human-readable tables.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, compact representation
//   - Suitable for API responses and programmatic consumption
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for configuration files and version control
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened key/value representation
//   - Suitable for terminal/console viewing
//   - Write-only (no deserialization support)
//
// # Core Types
//
// Format: Enum representing output formats (JSON, YAML, Table)
//
// Serializer: Interface for encoding data to output
//
//	type Serializer interface {
//	    Serialize(ctx context.Context, doc any) error
//	}
//
// Writer: The io.Writer-backed implementation used by the CLI and runner
//
//	type Writer struct {
//	    format Format
//	    output io.Writer
//	    closer io.Closer
//	}
//
// # Usage
//
// Write to stdout (YAML):
//
//	writer := serializer.NewStdoutWriter(serializer.FormatYAML)
//	defer writer.Close()
//
//	if err := writer.Serialize(ctx, manifest); err != nil {
//	    log.Fatal(err)
//	}
//
// Write to file with automatic format detection:
//
//	format := serializer.FormatFromPath(path)
//	writer := serializer.NewFileWriterOrStdout(format, path)
//	defer writer.(serializer.Closer).Close()
//
//	if err := writer.Serialize(ctx, identity); err != nil {
//	    log.Fatal(err)
//	}
//
// # Format Detection
//
// File extension-based detection via FormatFromPath:
//   - .json → JSON
//   - .yaml, .yml → YAML
//   - .table, .txt → Table
//   - Other → JSON (default)
//
// # Table Format
//
// The table format flattens nested structures into dotted keys:
//
//	FIELD                 VALUE
//	-----                 -----
//	Identity.Role         Agent
//	Identity.SiteName     EMEA-Prod
//	Metadata.run-id       0b54a2e8-...
//
// Table format:
//   - Does not support deserialization (write-only)
//   - Best for human viewing in terminals
//
// # Resource Management
//
// Always close writers that manage files:
//
//	writer := serializer.NewFileWriterOrStdout(format, path)
//	if closer, ok := writer.(serializer.Closer); ok {
//	    defer closer.Close()
//	}
//
// Stdout writers don't require closing but Close() is safe to call.
//
// # Integration
//
// Used throughout scout for data output:
//   - pkg/cli - Command output formatting
//   - pkg/scout - Bundle manifest serialization
package serializer
