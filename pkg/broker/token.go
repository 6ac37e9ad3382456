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

package broker

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	scerrors "github.com/vdistack/scout/pkg/errors"
)

// Token discovery locations.
const (
	// TokenEnvVar names the environment variable checked for a bearer token.
	TokenEnvVar = "SCOUT_BROKER_TOKEN"

	// keyringService is the system keyring service under which operators
	// store the broker token.
	keyringService = "vdistack-scout"
	keyringUser    = "broker"
)

// TokenSource yields a bearer token for site queries. An empty token with
// a nil error means no token is configured, which is a normal state; the
// query is then sent unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// StaticTokenSource returns the same token on every call.
// Used for tokens passed on the command line.
type StaticTokenSource struct {
	Value string
}

// Token implements TokenSource.
func (s *StaticTokenSource) Token() (string, error) {
	return strings.TrimSpace(s.Value), nil
}

// EnvTokenSource reads the token from TokenEnvVar.
type EnvTokenSource struct{}

// Token implements TokenSource.
func (s *EnvTokenSource) Token() (string, error) {
	return strings.TrimSpace(os.Getenv(TokenEnvVar)), nil
}

// KeyringTokenSource reads the token from the system keyring. A keyring
// without an entry is a normal state; a keyring that cannot be opened is
// reported so the operator can tell the difference.
type KeyringTokenSource struct{}

// Token implements TokenSource.
func (s *KeyringTokenSource) Token() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", scerrors.Wrap(scerrors.ErrCodeAccessDenied,
			"system keyring unavailable", err)
	}
	return strings.TrimSpace(token), nil
}

// ChainTokenSource tries each source in order and returns the first
// non-empty token. Source errors are soft: the chain moves on, and only
// reports the last error when every source came up empty.
type ChainTokenSource struct {
	Sources []TokenSource
}

// NewDefaultTokenChain returns the standard token lookup order: explicit
// value first (when non-empty), then the environment, then the keyring.
func NewDefaultTokenChain(explicit string) *ChainTokenSource {
	sources := make([]TokenSource, 0, 3)
	if strings.TrimSpace(explicit) != "" {
		sources = append(sources, &StaticTokenSource{Value: explicit})
	}
	sources = append(sources, &EnvTokenSource{}, &KeyringTokenSource{})
	return &ChainTokenSource{Sources: sources}
}

// Token implements TokenSource.
func (c *ChainTokenSource) Token() (string, error) {
	var lastErr error
	for _, src := range c.Sources {
		token, err := src.Token()
		if err != nil {
			lastErr = err
			continue
		}
		if token != "" {
			return token, nil
		}
	}
	return "", lastErr
}
