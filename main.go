// Package main is the entry point for the authsession CLI.
// It signs in to a remote auth API and keeps the session in the OS keyring.
package main

import (
	"authsession/cli/cmd"
)

func main() {
	cmd.Execute()
}
