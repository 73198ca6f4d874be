package config

import (
	"fmt"
	"os"
)

// Exit codes of the command-line tools.
const (
	ExitFailure = 1
	// ExitInvalidInput reports input rejected before anything was written.
	ExitInvalidInput = 2
)

// Exitf writes a formatted message to stderr and exits with ExitFailure.
func Exitf(format string, args ...any) {
	ExitWithCode(ExitFailure, format, args...)
}

// ExitWithCode writes a formatted message to stderr and exits with code.
func ExitWithCode(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
