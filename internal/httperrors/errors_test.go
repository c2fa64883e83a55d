// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	apperrors "authsession/cli/internal/errors"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "deadline", err: fmt.Errorf("POST /login: %w", context.DeadlineExceeded), want: Timeout},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "auth.example"}, want: DNS},
		{name: "refused op error", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: ConnectionRefused},
		{name: "refused text", err: errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), want: ConnectionRefused},
		{name: "certificate", err: errors.New("x509: certificate signed by unknown authority"), want: TLS},
		{name: "other", err: errors.New("unexpected EOF"), want: Generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	require.True(t, IsNetworkError(apperrors.Wrap(apperrors.NetworkFailed, "POST /login", errors.New("refused"))))
	require.False(t, IsNetworkError(apperrors.New(apperrors.InvalidResponse, "no token")))
	require.False(t, IsNetworkError(errors.New("plain")))
}

func TestFormatNetworkError_Wraps(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	cause := errors.New("connection refused")
	err := FormatNetworkError(cause, "logging in", "https://auth.example.com")
	require.ErrorIs(t, err, cause)
	require.NoError(t, FormatNetworkError(nil, "logging in", ""))
}

func TestExtractHostFromURL(t *testing.T) {
	require.Equal(t, "auth.example.com:8443", ExtractHostFromURL("https://auth.example.com:8443/api"))
	require.Equal(t, "the auth service", ExtractHostFromURL("::bad"))
}
