package terminal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrompter_PipedInput(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompterFrom(strings.NewReader("ada@example.com\r\nhunter2\nlast"), &out)

	email, err := p.Line("Email: ")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", email)

	pw, err := p.Password("Password: ")
	require.NoError(t, err)
	require.Equal(t, "hunter2", pw)

	// final line without newline still counts
	last, err := p.Line("More: ")
	require.NoError(t, err)
	require.Equal(t, "last", last)

	_, err = p.Line("Again: ")
	require.ErrorIs(t, err, io.EOF)

	require.Equal(t, "Email: Password: More: Again: ", out.String())
}
