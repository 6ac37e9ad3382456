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
	"reflect"
	"testing"

	scerrors "github.com/vdistack/scout/pkg/errors"
	"github.com/vdistack/scout/pkg/registration"
)

type queryAnswer struct {
	name string
	err  error
}

// fakeQuerier answers queries from a fixed table keyed by address, with
// "" meaning the local broker. Addresses not in the table are unreachable.
type fakeQuerier struct {
	probeErr error
	answers  map[string]queryAnswer
	calls    []string
}

func (f *fakeQuerier) Probe(ctx context.Context) error {
	return f.probeErr
}

func (f *fakeQuerier) Query(ctx context.Context, remoteAddr string) (string, error) {
	f.calls = append(f.calls, remoteAddr)
	answer, ok := f.answers[remoteAddr]
	if !ok {
		return "", scerrors.New(scerrors.ErrCodeUnreachable, "no route to controller")
	}
	return answer.name, answer.err
}

// fakeStore serves fixed registration records. A nil record with a nil
// error models an absent record.
type fakeStore struct {
	direct    *registration.DirectRecord
	directErr error
	mirror    *registration.MirrorRecord
	mirrorErr error
	reads     int
}

func (f *fakeStore) DirectRegistration(ctx context.Context) (*registration.DirectRecord, error) {
	f.reads++
	if f.directErr != nil {
		return nil, f.directErr
	}
	if f.direct == nil {
		return nil, registration.ErrRecordNotFound
	}
	return f.direct, nil
}

func (f *fakeStore) MirroredRegistration(ctx context.Context) (*registration.MirrorRecord, error) {
	f.reads++
	if f.mirrorErr != nil {
		return nil, f.mirrorErr
	}
	if f.mirror == nil {
		return nil, registration.ErrRecordNotFound
	}
	return f.mirror, nil
}

func TestResolveController(t *testing.T) {
	querier := &fakeQuerier{
		answers: map[string]queryAnswer{
			"": {name: "Acme"},
		},
	}
	store := &fakeStore{}

	got := NewResolver(querier, store).Resolve(t.Context())

	want := SiteIdentity{Role: RoleController, SiteName: "Acme"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
	if store.reads != 0 {
		t.Errorf("registration store consulted %d times on a controller", store.reads)
	}
}

func TestResolveFirstCandidateWins(t *testing.T) {
	querier := &fakeQuerier{
		answers: map[string]queryAnswer{
			"ddc1.example.com": {name: "Acme"},
			"ddc2.example.com": {name: "Wrong"},
		},
	}
	store := &fakeStore{
		direct: &registration.DirectRecord{
			Controllers: []string{"ddc1.example.com", "ddc2.example.com"},
		},
	}

	got := NewResolver(querier, store).Resolve(t.Context())

	want := SiteIdentity{Role: RoleAgent, SiteName: "Acme"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}

	wantCalls := []string{"", "ddc1.example.com"}
	if !reflect.DeepEqual(querier.calls, wantCalls) {
		t.Errorf("query calls = %v, want %v", querier.calls, wantCalls)
	}
}

func TestResolveNoSecondCandidate(t *testing.T) {
	querier := &fakeQuerier{
		answers: map[string]queryAnswer{
			"ddc2.example.com": {name: "Reachable"},
		},
	}
	store := &fakeStore{
		direct: &registration.DirectRecord{
			Controllers: []string{"ddc1.example.com", "ddc2.example.com"},
		},
		mirror: &registration.MirrorRecord{ControllerAddress: "ddc3.example.com"},
	}

	got := NewResolver(querier, store).Resolve(t.Context())

	want := SiteIdentity{Role: RoleAgent, SiteName: SiteNameFallback}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}

	// One local attempt, one discovered-controller attempt, nothing else:
	// neither the second list entry nor the mirror may be tried.
	wantCalls := []string{"", "ddc1.example.com"}
	if !reflect.DeepEqual(querier.calls, wantCalls) {
		t.Errorf("query calls = %v, want %v", querier.calls, wantCalls)
	}
}

func TestResolveWhitespaceOnlyRegistration(t *testing.T) {
	querier := &fakeQuerier{}
	store := &fakeStore{
		direct: &registration.DirectRecord{Controllers: []string{" "}},
	}

	got := NewResolver(querier, store).Resolve(t.Context())

	want := SiteIdentity{Role: RoleAgent, SiteName: SiteNameFallback}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
	if len(querier.calls) != 1 {
		t.Errorf("whitespace entry was queried: calls = %v", querier.calls)
	}
}

func TestResolveSkipsPaddedEntries(t *testing.T) {
	querier := &fakeQuerier{
		answers: map[string]queryAnswer{
			"ddc2.example.com": {name: "Acme"},
		},
	}
	store := &fakeStore{
		direct: &registration.DirectRecord{
			Controllers: []string{"", "   ", " ddc2.example.com "},
		},
	}

	got := NewResolver(querier, store).Resolve(t.Context())

	want := SiteIdentity{Role: RoleAgent, SiteName: "Acme"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveMirroredAddress(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]queryAnswer
		want    SiteIdentity
	}{
		{
			name: "mirrored controller answers",
			answers: map[string]queryAnswer{
				"ddc3.example.com": {name: "Acme"},
			},
			want: SiteIdentity{Role: RoleAgent, SiteName: "Acme"},
		},
		{
			name:    "mirrored controller unreachable",
			answers: nil,
			want:    SiteIdentity{Role: RoleAgent, SiteName: SiteNameFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier := &fakeQuerier{answers: tt.answers}
			store := &fakeStore{
				mirror: &registration.MirrorRecord{ControllerAddress: "ddc3.example.com"},
			}

			got := NewResolver(querier, store).Resolve(t.Context())
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveMirrorWhitespaceAddress(t *testing.T) {
	querier := &fakeQuerier{}
	store := &fakeStore{
		mirror: &registration.MirrorRecord{ControllerAddress: "   "},
	}

	got := NewResolver(querier, store).Resolve(t.Context())

	want := SiteIdentity{Role: RoleAgent, SiteName: SiteNameFallback}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
	if len(querier.calls) != 1 {
		t.Errorf("whitespace address was queried: calls = %v", querier.calls)
	}
}

func TestResolveNothingRegistered(t *testing.T) {
	querier := &fakeQuerier{}
	store := &fakeStore{}

	got := NewResolver(querier, store).Resolve(t.Context())

	want := SiteIdentity{Role: RoleAgent, SiteName: SiteNameFallback}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveProbeFault(t *testing.T) {
	querier := &fakeQuerier{
		probeErr: scerrors.New(scerrors.ErrCodeAccessDenied, "client surface unreadable"),
	}
	store := &fakeStore{
		// Even a perfectly registered host must not mask a probe fault.
		direct: &registration.DirectRecord{Controllers: []string{"ddc1.example.com"}},
	}

	got := NewResolver(querier, store).Resolve(t.Context())

	want := SiteIdentity{Role: RoleUnknown, SiteName: SiteNameUndetermined}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
	if len(querier.calls) != 0 {
		t.Errorf("queries attempted after probe fault: %v", querier.calls)
	}
	if store.reads != 0 {
		t.Errorf("registration store consulted after probe fault")
	}
}

func TestResolveStoreFault(t *testing.T) {
	denied := scerrors.New(scerrors.ErrCodeAccessDenied, "registration record unreadable")

	tests := []struct {
		name  string
		store *fakeStore
	}{
		{
			name:  "direct record unreadable",
			store: &fakeStore{directErr: denied},
		},
		{
			name:  "mirror record unreadable",
			store: &fakeStore{mirrorErr: denied},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier := &fakeQuerier{}

			got := NewResolver(querier, tt.store).Resolve(t.Context())

			want := SiteIdentity{Role: RoleUnknown, SiteName: SiteNameUndetermined}
			if got != want {
				t.Errorf("Resolve() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	querier := &fakeQuerier{
		answers: map[string]queryAnswer{
			"ddc1.example.com": {name: "Acme"},
		},
	}
	store := &fakeStore{
		direct: &registration.DirectRecord{Controllers: []string{"ddc1.example.com"}},
	}
	resolver := NewResolver(querier, store)

	first := resolver.Resolve(t.Context())
	second := resolver.Resolve(t.Context())

	if first != second {
		t.Errorf("repeated resolution diverged: %+v then %+v", first, second)
	}
}

func TestResolveAlwaysNamesSite(t *testing.T) {
	scenarios := []struct {
		name    string
		querier *fakeQuerier
		store   *fakeStore
	}{
		{
			name:    "controller",
			querier: &fakeQuerier{answers: map[string]queryAnswer{"": {name: "Acme"}}},
			store:   &fakeStore{},
		},
		{
			name:    "bare agent",
			querier: &fakeQuerier{},
			store:   &fakeStore{},
		},
		{
			name:    "probe fault",
			querier: &fakeQuerier{probeErr: scerrors.New(scerrors.ErrCodeInternal, "broken")},
			store:   &fakeStore{},
		},
		{
			name:    "store fault",
			querier: &fakeQuerier{},
			store:   &fakeStore{directErr: scerrors.New(scerrors.ErrCodeInternal, "broken")},
		},
		{
			name:    "unreachable discovered controller",
			querier: &fakeQuerier{},
			store: &fakeStore{
				direct: &registration.DirectRecord{Controllers: []string{"ddc1.example.com"}},
			},
		},
	}

	for _, tt := range scenarios {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResolver(tt.querier, tt.store).Resolve(t.Context())
			if got.SiteName == "" {
				t.Errorf("Resolve() produced an empty site name: %+v", got)
			}
		})
	}
}

func TestResolveNilCollaborators(t *testing.T) {
	got := NewResolver(nil, nil).Resolve(context.Background())

	want := SiteIdentity{Role: RoleUnknown, SiteName: SiteNameUndetermined}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}
