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
	"fmt"
	"os"
	"path/filepath"

	"github.com/vdistack/scout/pkg/defaults"
)

// EnsureOutputDir makes sure the bundle output directory exists and is a
// directory, creating it when needed. An empty path selects the default
// output directory. Returns the cleaned absolute path.
func EnsureOutputDir(path string) (string, error) {
	if path == "" {
		path = defaults.OutputDir
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory %s: %w", path, err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", abs, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat output directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output path %s is not a directory", abs)
	}

	return abs, nil
}
