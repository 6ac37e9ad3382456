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
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// Extension is the bundle archive file extension.
	Extension = ".zip"

	// ChecksumExtension is appended to the archive path for the
	// checksum sidecar.
	ChecksumExtension = ".sha256"
)

// ArchiveInfo describes a written bundle archive.
type ArchiveInfo struct {
	// Path is the absolute path of the archive.
	Path string

	// ChecksumPath is the path of the sha256 sidecar.
	ChecksumPath string

	// SHA256 is the hex digest of the archive bytes.
	SHA256 string

	// Files is the number of regular files archived.
	Files int

	// Bytes is the total uncompressed size of the archived files.
	Bytes int64
}

// Archive zips the contents of stagingDir into destPath and writes a
// sha256 sidecar next to it. Paths inside the archive are relative to
// stagingDir. A partially written archive is removed on failure.
func Archive(ctx context.Context, stagingDir, destPath string) (*ArchiveInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	if info, err := os.Stat(stagingDir); err != nil {
		return nil, fmt.Errorf("staging directory unusable: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("staging path %s is not a directory", stagingDir)
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive %s: %w", destPath, err)
	}

	digest := sha256.New()
	info, err := writeArchive(ctx, stagingDir, io.MultiWriter(out, digest), digest)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to finalize archive %s: %w", destPath, cerr)
	}
	if err != nil {
		_ = os.Remove(destPath)
		return nil, err
	}

	info.Path = destPath
	info.ChecksumPath = destPath + ChecksumExtension

	sidecar := fmt.Sprintf("%s  %s\n", info.SHA256, filepath.Base(destPath))
	if err := os.WriteFile(info.ChecksumPath, []byte(sidecar), 0o600); err != nil {
		_ = os.Remove(destPath)
		return nil, fmt.Errorf("failed to write checksum sidecar: %w", err)
	}

	slog.Debug("bundle archived",
		"path", info.Path,
		"files", info.Files,
		"bytes", info.Bytes,
		"sha256", info.SHA256,
	)
	return info, nil
}

// writeArchive streams stagingDir into a zip written to w and returns the
// file and byte counts along with the digest accumulated by sum.
func writeArchive(ctx context.Context, stagingDir string, w io.Writer, sum hash.Hash) (*ArchiveInfo, error) {
	zw := zip.NewWriter(w)
	info := &ArchiveInfo{}

	walkErr := filepath.Walk(stagingDir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk error: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}
		if path == stagingDir {
			return nil
		}

		relPath, err := filepath.Rel(stagingDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		header, err := zip.FileInfoHeader(fi)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = filepath.ToSlash(relPath)

		if fi.IsDir() {
			header.Name += "/"
			_, headerErr := zw.CreateHeader(header)
			return headerErr
		}

		// Symlinks and other irregular files do not belong in a
		// diagnostic bundle.
		if !fi.Mode().IsRegular() {
			slog.Debug("skipping irregular file", "path", path)
			return nil
		}

		header.Method = zip.Deflate
		writer, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create zip entry: %w", err)
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		n, err := io.Copy(writer, file)
		if err != nil {
			return fmt.Errorf("failed to copy file content: %w", err)
		}

		info.Files++
		info.Bytes += n
		return nil
	})

	if walkErr != nil {
		_ = zw.Close()
		return nil, walkErr
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}

	info.SHA256 = hex.EncodeToString(sum.Sum(nil))
	return info, nil
}
