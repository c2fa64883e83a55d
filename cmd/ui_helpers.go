package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"authsession/cli/internal/terminal"
)

var (
	spinnerFrames = []string{"|", "/", "-", "\\"}
	prompter      = terminal.NewPrompter()
)

// startInlineSpinner draws frames followed by text on one line of w until the
// returned function is called, which clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

// withSpinner runs fn behind a spinner on stderr when stderr is a terminal.
func withSpinner[T any](text string, fn func() (T, error)) (T, error) {
	stop := func() {}
	if terminal.IsTerminal(os.Stderr) {
		stop = startInlineSpinner(os.Stderr, text, spinnerFrames, 120*time.Millisecond)
	}
	v, err := fn()
	stop()
	return v, err
}

func promptLine(label string) (string, error)     { return prompter.Line(label) }
func promptPassword(label string) (string, error) { return prompter.Password(label) }

// valueOrPrompt returns v, or asks for it when empty.
func valueOrPrompt(v, label string, secret bool) (string, error) {
	if v != "" {
		return v, nil
	}
	if secret {
		return promptPassword(label)
	}
	return promptLine(label)
}

func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s!",
		"💫 Successfully authenticated as %s",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], identifier)
}
