// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	t.Setenv(VerboseEnv, "")

	tests := []struct {
		name    string
		level   string
		verbose bool
		want    zerolog.Level
	}{
		{name: "default on empty", level: "", want: zerolog.InfoLevel},
		{name: "explicit warn", level: "WARN", want: zerolog.WarnLevel},
		{name: "garbage falls back", level: "chatty", want: zerolog.InfoLevel},
		{name: "verbose wins", level: "error", verbose: true, want: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(&bytes.Buffer{}, tt.level, tt.verbose)
			require.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestNew_VerboseEnv(t *testing.T) {
	t.Setenv(VerboseEnv, "1")
	l := New(&bytes.Buffer{}, "info", false)
	require.Equal(t, zerolog.DebugLevel, l.GetLevel())
}

func TestNew_WritesConsoleLines(t *testing.T) {
	t.Setenv(VerboseEnv, "")
	var buf bytes.Buffer
	l := New(&buf, "info", false)

	l.Debug().Msg("hidden")
	l.Info().Str("user_id", "u1").Msg("session established")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "session established")
	require.Contains(t, buf.String(), "user_id=u1")
}

func TestIsTerminal_NonTTY(t *testing.T) {
	require.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()
	require.False(t, isTerminal(f))
}
