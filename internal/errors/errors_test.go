package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestE_ErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "without cause",
			err:  New(NotAuthenticated, "no session"),
			want: "not_authenticated: no session",
		},
		{
			name: "with cause",
			err:  Wrap(NetworkFailed, "login request", fmt.Errorf("dial tcp: refused")),
			want: "network_failed: login request: dial tcp: refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestE_IsAndUnwrap(t *testing.T) {
	cause := stderrors.New("keyring locked")
	err := fmt.Errorf("save: %w", Wrap(StoreFailed, "write session", cause))

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, &E{Kind: StoreFailed})
	require.NotErrorIs(t, err, &E{Kind: NetworkFailed})
	require.Equal(t, StoreFailed, KindOf(err))
	require.Equal(t, Kind(""), KindOf(cause))
}
