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

// Package defaults provides centralized configuration constants for scout.
//
// This package defines timeout values, installation paths, and endpoint
// defaults used across the codebase. Centralizing these values ensures
// consistency and makes tuning easier.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/vdistack/scout/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.QueryTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
// When choosing timeout values:
//
//   - Site queries: one attempt, 10s total; resolution never retries
//   - Collectors: 10s default, respects parent context deadline
//   - Complete collect run: 5m
package defaults
