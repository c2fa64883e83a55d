// Package terminal provides prompts that read user input from the terminal.
// Secrets are read without echo when stdin is a terminal; piped input is read
// line by line so scripts can feed answers.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter reads answers from in and writes labels to out.
type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	fd  int
	tty bool
	out io.Writer
}

// NewPrompter returns a Prompter over stdin and stderr.
func NewPrompter() *Prompter {
	fd := int(os.Stdin.Fd())
	return &Prompter{in: bufio.NewReader(os.Stdin), fd: fd, tty: term.IsTerminal(fd), out: os.Stderr}
}

// NewPrompterFrom returns a Prompter reading lines from in, for non-interactive use.
func NewPrompterFrom(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), fd: -1, out: out}
}

// Line prints label and reads one trimmed line.
func (p *Prompter) Line(label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.line(label)
}

// Password prints label and reads a secret, without echo on a terminal.
func (p *Prompter) Password(label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.tty {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (p *Prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
