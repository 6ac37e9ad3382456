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
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestStaticTokenSource(t *testing.T) {
	src := &StaticTokenSource{Value: "  tok-1  "}
	token, err := src.Token()
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
}

func TestEnvTokenSource(t *testing.T) {
	t.Setenv(TokenEnvVar, "tok-env")

	src := &EnvTokenSource{}
	token, err := src.Token()
	require.NoError(t, err)
	require.Equal(t, "tok-env", token)
}

func TestEnvTokenSourceUnset(t *testing.T) {
	t.Setenv(TokenEnvVar, "")

	src := &EnvTokenSource{}
	token, err := src.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestKeyringTokenSource(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(keyringService, keyringUser, "tok-ring"))
	t.Cleanup(func() {
		_ = keyring.Delete(keyringService, keyringUser)
	})

	src := &KeyringTokenSource{}
	token, err := src.Token()
	require.NoError(t, err)
	require.Equal(t, "tok-ring", token)
}

func TestKeyringTokenSourceAbsent(t *testing.T) {
	keyring.MockInit()
	_ = keyring.Delete(keyringService, keyringUser)

	src := &KeyringTokenSource{}
	token, err := src.Token()
	require.NoError(t, err, "an empty keyring is a normal state")
	require.Empty(t, token)
}

type fakeTokenSource struct {
	token string
	err   error
}

func (f *fakeTokenSource) Token() (string, error) {
	return f.token, f.err
}

func TestChainTokenSourceOrder(t *testing.T) {
	chain := &ChainTokenSource{Sources: []TokenSource{
		&fakeTokenSource{token: ""},
		&fakeTokenSource{token: "second"},
		&fakeTokenSource{token: "third"},
	}}

	token, err := chain.Token()
	require.NoError(t, err)
	require.Equal(t, "second", token)
}

func TestChainTokenSourceSoftErrors(t *testing.T) {
	chain := &ChainTokenSource{Sources: []TokenSource{
		&fakeTokenSource{err: errors.New("keyring locked")},
		&fakeTokenSource{token: "fallback"},
	}}

	token, err := chain.Token()
	require.NoError(t, err)
	require.Equal(t, "fallback", token)
}

func TestChainTokenSourceAllEmpty(t *testing.T) {
	ringErr := errors.New("keyring locked")
	chain := &ChainTokenSource{Sources: []TokenSource{
		&fakeTokenSource{token: ""},
		&fakeTokenSource{err: ringErr},
	}}

	token, err := chain.Token()
	require.ErrorIs(t, err, ringErr)
	require.Empty(t, token)
}

func TestNewDefaultTokenChain(t *testing.T) {
	t.Setenv(TokenEnvVar, "tok-env")

	chain := NewDefaultTokenChain("tok-flag")
	token, err := chain.Token()
	require.NoError(t, err)
	require.Equal(t, "tok-flag", token, "an explicit token outranks the environment")

	chain = NewDefaultTokenChain("")
	token, err = chain.Token()
	require.NoError(t, err)
	require.Equal(t, "tok-env", token)
}
