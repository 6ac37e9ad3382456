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

package scout

import (
	"context"
	"time"

	"github.com/vdistack/scout/pkg/header"
	"github.com/vdistack/scout/pkg/identity"
	"github.com/vdistack/scout/pkg/report"
)

// FullAPIVersion is the API version stamped into bundle manifests.
const FullAPIVersion = "scout.vdistack.io/v1"

// Scout defines the interface for producing diagnostic bundles.
// Implementations gather records from various host components, stage
// supporting files, and archive the results for upload or analysis.
type Scout interface {
	Run(ctx context.Context) (*Result, error)
}

// IdentityResolver determines the site identity of the local host.
// Resolve never fails; a host whose identity cannot be established
// still gets a usable (if generic) identity.
type IdentityResolver interface {
	Resolve(ctx context.Context) identity.SiteIdentity
}

// NewManifest creates a new Manifest instance with an initialized Records slice.
func NewManifest() *Manifest {
	return &Manifest{
		Records: make([]*report.Record, 0),
	}
}

// Manifest describes the contents of a diagnostic bundle.
// It contains metadata, the resolved site identity of the host, and the
// records gathered by the host, service, and log collectors. A copy is
// written into every bundle as manifest.yaml.
type Manifest struct {
	header.Header `json:",inline" yaml:",inline"`

	// Identity is the resolved site identity of the host the bundle came from.
	Identity identity.SiteIdentity `json:"identity" yaml:"identity"`

	// Records contains the collected records from the various collectors.
	Records []*report.Record `json:"records" yaml:"records"`
}

// Result summarizes a completed bundle run.
type Result struct {
	// BundleName is the name of the bundle without the archive extension.
	BundleName string `json:"bundleName" yaml:"bundleName"`

	// BundlePath is the absolute path of the written archive.
	BundlePath string `json:"bundlePath" yaml:"bundlePath"`

	// ChecksumPath is the absolute path of the archive's checksum sidecar.
	ChecksumPath string `json:"checksumPath" yaml:"checksumPath"`

	// Checksum is the hex-encoded SHA-256 digest of the archive.
	Checksum string `json:"checksum" yaml:"checksum"`

	// Identity is the site identity the bundle was named for.
	Identity identity.SiteIdentity `json:"identity" yaml:"identity"`

	// Records is the number of records in the bundle manifest.
	Records int `json:"records" yaml:"records"`

	// Files is the number of files in the archive.
	Files int `json:"files" yaml:"files"`

	// Bytes is the uncompressed size of the archived files.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// Elapsed is the total wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}
