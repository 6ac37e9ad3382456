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

package registration

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vdistack/scout/pkg/defaults"
	scerrors "github.com/vdistack/scout/pkg/errors"
	"github.com/vdistack/scout/pkg/kvfile"
)

// Option configures the FileStore.
type Option func(*FileStore)

// WithConfigRoot overrides the directory holding the agent configuration.
// Default is defaults.ConfigRoot.
func WithConfigRoot(dir string) Option {
	return func(s *FileStore) {
		s.configRoot = dir
	}
}

// WithStateRoot overrides the directory holding agent runtime state.
// Default is defaults.StateRoot.
func WithStateRoot(dir string) Option {
	return func(s *FileStore) {
		s.stateRoot = dir
	}
}

// FileStore reads registration records from the vdistack configuration and
// state directories. All reads are point-in-time; the store never writes.
type FileStore struct {
	configRoot string
	stateRoot  string
	parser     *kvfile.Parser
}

// NewFileStore creates a FileStore with the provided options.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{
		configRoot: defaults.ConfigRoot,
		stateRoot:  defaults.StateRoot,
		// Values may be double- or single-quoted in the conf files.
		parser: kvfile.NewParser(kvfile.WithVTrimChars(`"'`)),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DirectRegistration returns the manually configured controller list.
// A missing configuration file yields ErrRecordNotFound. A present file
// without the list key yields a record with a nil list. List entries are
// returned exactly as written, in file order.
func (s *FileStore) DirectRegistration(ctx context.Context) (*DirectRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.configRoot, agentConfigFile)
	values, err := s.parser.GetMap(path)
	if err != nil {
		return nil, classifyReadError(path, err)
	}

	raw, ok := values[keyControllerList]
	if !ok {
		slog.Debug("agent configuration has no controller list", "path", path)
		return &DirectRecord{}, nil
	}

	return &DirectRecord{Controllers: splitControllerList(raw)}, nil
}

// MirroredRegistration returns the machine-identity mirror record.
// A missing identity file yields ErrRecordNotFound. A present file without
// the address key yields a record with an empty address.
func (s *FileStore) MirroredRegistration(ctx context.Context) (*MirrorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.stateRoot, machineIdentityFile)
	values, err := s.parser.GetMap(path)
	if err != nil {
		return nil, classifyReadError(path, err)
	}

	return &MirrorRecord{ControllerAddress: values[keyRegisteredController]}, nil
}

// splitControllerList parses the comma-separated controller list value.
// Entries are not trimmed or dropped here; the caller decides what counts
// as usable.
func splitControllerList(raw string) []string {
	return strings.Split(raw, ",")
}

// classifyReadError maps file access failures onto the record taxonomy:
// absence is the ErrRecordNotFound state, everything else is a fault.
func classifyReadError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrRecordNotFound
	case errors.Is(err, fs.ErrPermission):
		return scerrors.WrapWithContext(scerrors.ErrCodeAccessDenied,
			"registration record not readable", err,
			map[string]any{"path": path})
	default:
		return scerrors.WrapWithContext(scerrors.ErrCodeInternal,
			"registration record read failed", err,
			map[string]any{"path": path})
	}
}
