// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"fmt"
	"testing"

	"authsession/cli/internal/backend"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"
)

func TestDescribeAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    *backend.APIError
		want   string
		hinted bool
	}{
		{
			name:   "unauthorized",
			err:    &backend.APIError{StatusCode: 401, Code: "invalid_grant", Message: "bad credentials"},
			want:   "login: credentials were rejected (bad credentials)",
			hinted: true,
		},
		{
			name:   "conflict",
			err:    &backend.APIError{StatusCode: 409, Message: "account exists"},
			want:   "login: account exists",
			hinted: true,
		},
		{
			name:   "server failure hides body",
			err:    &backend.APIError{StatusCode: 503, Message: "pool exhausted at db-3"},
			want:   "login: the auth service failed (503)",
			hinted: true,
		},
		{
			name: "validation",
			err:  &backend.APIError{StatusCode: 400, Message: "password=hunter2 too short"},
			want: "login: password=*** too short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, describeAPIError(tt.err, "login"))
			require.Equal(t, tt.hinted, apiErrorHint(tt.err) != "")
		})
	}
}

func TestPresentAPIError(t *testing.T) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	wrapped := fmt.Errorf("login: %w", &backend.APIError{StatusCode: 401, Message: "nope"})
	require.True(t, PresentAPIError(wrapped, "login"))
	require.False(t, PresentAPIError(errors.New("dial tcp: refused"), "login"))
}
