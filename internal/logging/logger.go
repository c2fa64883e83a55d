// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// VerboseEnv forces debug logging when set to "1".
const VerboseEnv = "AUTHSESSION_VERBOSE"

// IsVerbose checks if verbose mode is enabled through the environment.
func IsVerbose() bool {
	return os.Getenv(VerboseEnv) == "1"
}

// New builds the process logger. Output is human-readable console text on w.
// verbose (or AUTHSESSION_VERBOSE=1) overrides level with debug.
func New(w io.Writer, level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if verbose || IsVerbose() {
		lvl = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
