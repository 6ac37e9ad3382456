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

package host

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/vdistack/scout/pkg/kvfile"
	"github.com/vdistack/scout/pkg/report"
)

// os-release locations, per the freedesktop.org spec.
const (
	releasePathPrimary  = "/etc/os-release"
	releasePathFallback = "/usr/lib/os-release"
)

// collectRelease parses the os-release file into a section:
//
//	NAME="Ubuntu"
//	ID=ubuntu
//	VERSION_ID="22.04"
//	PRETTY_NAME="Ubuntu 22.04.4 LTS"
//
// Values keep their unquoted form. An unreadable file yields no section;
// the gopsutil platform probe already identifies the OS either way.
func (c *Collector) collectRelease() *report.Section {
	path := c.ReleaseFile
	if path == "" {
		path = releasePathPrimary
		// Fall back to /usr/lib per the freedesktop.org spec.
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = releasePathFallback
		}
	}

	parser := kvfile.NewParser(
		kvfile.WithVTrimChars(`"'`),
		// Skip malformed lines without a '=' separator.
		kvfile.WithSkipEmptyValues(true),
	)
	params, err := parser.GetMap(path)
	if err != nil {
		slog.Warn("os release unreadable", "path", path, "error", err.Error())
		return nil
	}

	sb := report.NewSectionBuilder("os-release")
	for key, value := range params {
		sb.SetString(key, value)
	}

	section := sb.Build()
	return &section
}
