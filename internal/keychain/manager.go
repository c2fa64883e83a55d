// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for authsession.
// This module manages all interactions with the OS keychain/credential store and is
// the durable storage medium underneath the token store.
//
// The package supports macOS Keychain, Windows Credential Manager, the freedesktop
// Secret Service, KWallet and pass, with an encrypted file keyring as the last resort
// on systems that have none of those. Every operation is guarded by a read/write lock.
package keychain

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// DefaultServiceName identifies our keychain/credential store namespace.
const DefaultServiceName = "authsession"

// ErrNotFound is returned by Get when the key holds no item.
var ErrNotFound = errors.New("keychain: item not found")

// Options selects the keyring namespace and backends.
type Options struct {
	// ServiceName scopes all items; one service name per auth API.
	ServiceName string
	// Backends lists keyring backend names in preference order
	// ("keychain", "wincred", "secret-service", "kwallet", "pass", "keyctl", "file").
	// Empty selects the platform defaults.
	Backends []string
	// FileDir is where the encrypted file backend keeps its items.
	FileDir string
	// FilePassword unlocks the file backend. Empty prompts on the terminal.
	FilePassword string
}

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewManager wraps an already opened keyring. Tests pass keyring.NewArrayKeyring.
func NewManager(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// Open opens the OS keyring with the configured or platform-default backends.
func Open(opts Options) (*Manager, error) {
	ring, err := openRing(opts)
	if err != nil {
		return nil, err
	}
	return NewManager(ring), nil
}

// defaultBackends returns the preferred backends for the running OS.
// Native stores come first; the encrypted file keyring only where nothing native exists.
func defaultBackends() []keyring.BackendType {
	switch runtime.GOOS {
	case "darwin":
		// pass covers macOS installs where Keychain access is refused to unsigned binaries
		return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend}
	default:
		return []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	}
}

func openRing(opts Options) (keyring.Keyring, error) {
	service := opts.ServiceName
	if service == "" {
		service = DefaultServiceName
	}

	allowed := defaultBackends()
	if len(opts.Backends) > 0 {
		allowed = allowed[:0]
		for _, b := range opts.Backends {
			allowed = append(allowed, keyring.BackendType(b))
		}
	}

	cfg := keyring.Config{
		ServiceName:     service,
		AllowedBackends: allowed,
		PassPrefix:      service,
		WinCredPrefix:   service,
		FileDir:         opts.FileDir,
	}
	if opts.FilePassword != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.FilePassword)
	} else {
		cfg.FilePasswordFunc = keyring.TerminalPrompt
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, fmt.Errorf("macOS Keychain unavailable (install 'pass' as a fallback: brew install pass gnupg): %w", err)
		}
		return nil, fmt.Errorf("open keyring %q: %w", service, err)
	}
	return ring, nil
}

// Get retrieves the raw item stored under key.
// Returns ErrNotFound when the key is absent or holds no data.
// This method is thread-safe.
func (m *Manager) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(it.Data) == 0 {
		return nil, ErrNotFound
	}
	return it.Data, nil
}

// Set stores data under key, replacing any previous item.
// This method is thread-safe.
func (m *Manager) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ring.Set(keyring.Item{
		Key:   key,
		Data:  data,
		Label: DefaultServiceName + " " + key,
	})
}

// Remove deletes the item under key. Removing an absent key is not an error.
// The file backend reports a missing item as a filesystem error rather than
// keyring.ErrKeyNotFound, so both count as absent.
// This method is thread-safe.
func (m *Manager) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(key); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist)
}
