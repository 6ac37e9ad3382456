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

// Package logs stages copies of recent log files into the bundle.
//
// Large files are tail-capped: the newest bytes are what a diagnostic
// reader needs, and bundles must stay uploadable. Missing source
// directories are recorded as empty, not failed, because an agent log
// directory is normal to be absent on a controller and vice versa.
package logs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vdistack/scout/pkg/defaults"
	"github.com/vdistack/scout/pkg/report"
)

// defaultMaxFileBytes caps how much of each log file is staged.
const defaultMaxFileBytes = int64(10 << 20)

// stagingSubdir is the directory under the bundle staging root that
// receives log copies.
const stagingSubdir = "logs"

// Collector stages log files for bundling.
type Collector struct {
	// SourceDirs are scanned, non-recursively, for regular files.
	// Empty selects the default vdistack log directory.
	SourceDirs []string

	// StagingDir is the bundle staging root log copies are written
	// under. Required.
	StagingDir string

	// MaxFileBytes caps the staged size of each file; the tail is kept
	// when a file is larger. Zero selects the default cap.
	MaxFileBytes int64
}

// Collect copies log files into the staging directory and returns one
// section per source directory describing what was staged.
func (c *Collector) Collect(ctx context.Context) (*report.Record, error) {
	slog.Info("collecting log files")

	if c.StagingDir == "" {
		return nil, errors.New("log collector has no staging directory")
	}

	dirs := c.SourceDirs
	if len(dirs) == 0 {
		dirs = []string{defaults.LogRoot}
	}
	capBytes := c.MaxFileBytes
	if capBytes <= 0 {
		capBytes = defaultMaxFileBytes
	}

	rec := report.NewRecord(report.CategoryLogs)
	seen := make(map[string]bool, len(dirs))

	for i, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sub := filepath.Base(dir)
		if seen[sub] {
			sub = fmt.Sprintf("%s-%d", sub, i)
		}
		seen[sub] = true

		section, err := c.stageDir(ctx, dir, filepath.Join(c.StagingDir, stagingSubdir, sub), capBytes)
		if err != nil {
			return nil, err
		}
		rec.WithSectionBuilder(section)
	}

	return rec.Build(), nil
}

// stageDir copies the regular files of one source directory and reports
// the counts. An absent source directory yields an empty section.
func (c *Collector) stageDir(ctx context.Context, srcDir, destDir string, capBytes int64) (*report.SectionBuilder, error) {
	section := report.NewSectionBuilder(srcDir).
		SetString(report.KeySourceDir, srcDir)

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("log directory absent", "dir", srcDir)
			return section.SetInt(report.KeyFileCount, 0), nil
		}
		return nil, fmt.Errorf("failed to read log directory %s: %w", srcDir, err)
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create staging directory %s: %w", destDir, err)
	}

	var files int
	var bytes int64
	var truncated bool

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}

		n, wasCapped, err := stageFile(
			filepath.Join(srcDir, entry.Name()),
			filepath.Join(destDir, entry.Name()),
			capBytes,
		)
		if err != nil {
			// One unreadable file should not sink the bundle.
			slog.Warn("log file not staged", "file", entry.Name(), "error", err.Error())
			continue
		}

		files++
		bytes += n
		truncated = truncated || wasCapped
	}

	slog.Debug("log directory staged",
		"dir", srcDir,
		"files", files,
		"bytes", bytes,
		"truncated", truncated,
	)

	return section.
		SetInt(report.KeyFileCount, files).
		SetInt64(report.KeyByteCount, bytes).
		SetBool(report.KeyTruncated, truncated).
		SetString(report.KeyStagedPath, destDir), nil
}

// stageFile copies src to dest keeping at most capBytes of the tail.
// Returns the bytes written and whether the file was capped.
func stageFile(src, dest string, capBytes int64) (int64, bool, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, false, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, false, err
	}

	capped := info.Size() > capBytes
	if capped {
		if _, err := in.Seek(info.Size()-capBytes, io.SeekStart); err != nil {
			return 0, false, err
		}
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, false, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, false, err
	}

	return n, capped, nil
}
