// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"
)

func TestManager_SetGetRemove(t *testing.T) {
	m := NewManager(keyring.NewArrayKeyring(nil))

	_, err := m.Get("session")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set("session", []byte(`{"access_token":"a"}`)))
	data, err := m.Get("session")
	require.NoError(t, err)
	require.Equal(t, `{"access_token":"a"}`, string(data))

	require.NoError(t, m.Remove("session"))
	_, err = m.Get("session")
	require.ErrorIs(t, err, ErrNotFound)

	// removing twice is fine
	require.NoError(t, m.Remove("session"))
}

func TestManager_EmptyItemIsNotFound(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: "session", Data: nil}})
	m := NewManager(ring)

	_, err := m.Get("session")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestManager_FileBackendRemoveIsIdempotent(t *testing.T) {
	m, err := Open(Options{
		ServiceName:  "authsession-test",
		Backends:     []string{string(keyring.FileBackend)},
		FileDir:      t.TempDir(),
		FilePassword: "pw",
	})
	require.NoError(t, err)

	require.NoError(t, m.Remove("session"))
	_, err = m.Get("session")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set("session", []byte(`{"access_token":"a"}`)))
	require.NoError(t, m.Remove("session"))
	require.NoError(t, m.Remove("session"))
}
