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

package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	scerrors "github.com/vdistack/scout/pkg/errors"
	"github.com/vdistack/scout/pkg/registration"
)

// SiteQuerier asks a controller for its site name. Probe checks that the
// local query surface is usable at all; Query performs one bounded attempt
// against the local broker (empty address) or a remote controller.
type SiteQuerier interface {
	Probe(ctx context.Context) error
	Query(ctx context.Context, remoteAddr string) (string, error)
}

// RegistrationSource reads the host-local registration records. Absence is
// reported as registration.ErrRecordNotFound; any other error means the
// store itself could not be read.
type RegistrationSource interface {
	DirectRegistration(ctx context.Context) (*registration.DirectRecord, error)
	MirroredRegistration(ctx context.Context) (*registration.MirrorRecord, error)
}

// Resolver walks the site-identity fallback chain. It holds no state of
// its own, so a single Resolver is safe to reuse and repeated calls with
// unchanged backing state return identical results.
type Resolver struct {
	querier SiteQuerier
	store   RegistrationSource
}

// NewResolver creates a Resolver over the given query client and
// registration store.
func NewResolver(querier SiteQuerier, store RegistrationSource) *Resolver {
	return &Resolver{
		querier: querier,
		store:   store,
	}
}

// Resolve determines the host's role and site name. It is total: every
// failure along the chain maps to a terminal identity, never to an error.
//
// The chain is strictly ordered. A usable local query surface is required
// up front; the local query then decides controller vs. agent; for an
// agent, the direct registration list is consulted before the mirrored
// registration, and at most one discovered controller is ever queried.
func (r *Resolver) Resolve(ctx context.Context) SiteIdentity {
	if r.querier == nil || r.store == nil {
		slog.Error("identity resolver missing collaborators")
		return undetermined()
	}

	// A broken local query surface is not the same as "not a
	// controller": without it no part of the chain can be trusted.
	if err := r.querier.Probe(ctx); err != nil {
		slog.Warn("local query surface unavailable",
			"code", scerrors.CodeOf(err),
			"error", err.Error(),
		)
		return undetermined()
	}

	name, err := r.querier.Query(ctx, "")
	if err == nil {
		slog.Debug("local site query answered", "site", name)
		return SiteIdentity{Role: RoleController, SiteName: name}
	}
	slog.Debug("local site query failed, treating host as agent",
		"code", scerrors.CodeOf(err),
	)

	direct, err := r.store.DirectRegistration(ctx)
	switch {
	case err == nil:
		if addr := firstCandidate(direct.Controllers); addr != "" {
			return r.queryByAddress(ctx, addr)
		}
		slog.Debug("direct registration holds no usable controller")
	case errors.Is(err, registration.ErrRecordNotFound):
		slog.Debug("no direct registration record")
	default:
		slog.Warn("registration store unreadable",
			"code", scerrors.CodeOf(err),
			"error", err.Error(),
		)
		return undetermined()
	}

	mirror, err := r.store.MirroredRegistration(ctx)
	switch {
	case err == nil:
		if addr := strings.TrimSpace(mirror.ControllerAddress); addr != "" {
			return r.queryByAddress(ctx, addr)
		}
		slog.Debug("mirrored registration holds no controller address")
	case errors.Is(err, registration.ErrRecordNotFound):
		slog.Debug("no mirrored registration record")
	default:
		slog.Warn("registration store unreadable",
			"code", scerrors.CodeOf(err),
			"error", err.Error(),
		)
		return undetermined()
	}

	return SiteIdentity{Role: RoleAgent, SiteName: SiteNameFallback}
}

// queryByAddress asks one discovered controller for the site name. The
// chain never tries a second address: a registered-but-unanswering
// controller means the same as no controller at all.
func (r *Resolver) queryByAddress(ctx context.Context, addr string) SiteIdentity {
	name, err := r.querier.Query(ctx, addr)
	if err != nil {
		slog.Info("discovered controller did not answer",
			"address", addr,
			"code", scerrors.CodeOf(err),
		)
		return SiteIdentity{Role: RoleAgent, SiteName: SiteNameFallback}
	}

	slog.Debug("discovered controller answered", "address", addr, "site", name)
	return SiteIdentity{Role: RoleAgent, SiteName: name}
}

// firstCandidate returns the first entry that is not empty after trimming,
// or "" when the list holds nothing usable. Registration files written by
// hand sometimes carry a single whitespace entry; that is an empty list,
// not a controller.
func firstCandidate(entries []string) string {
	for _, entry := range entries {
		if v := strings.TrimSpace(entry); v != "" {
			return v
		}
	}
	return ""
}

func undetermined() SiteIdentity {
	return SiteIdentity{Role: RoleUnknown, SiteName: SiteNameUndetermined}
}
