// Package xdg provides helpers to resolve XDG Base Directory paths for authsession.
// Configuration lives under the config directory; the encrypted file keyring
// (used where no OS credential store is available) lives under the state directory.
//
// Both directories are created with private permissions since they may hold
// session material.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "authsession"

// ConfigDir returns the XDG config directory for authsession.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/authsession when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for authsession.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/authsession when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(envVar, homeRel string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
