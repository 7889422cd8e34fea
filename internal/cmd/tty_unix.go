//go:build !windows

package cmd

import (
	"fmt"
	"os"
)

// ttyPath is where the TUI reads and writes when stdin/stdout carry data.
const ttyPath = "/dev/tty"

// checkTTY verifies that an interactive terminal is available.
func checkTTY() error {
	f, err := os.Open(ttyPath)
	if err != nil {
		return fmt.Errorf("no TTY available: %w", err)
	}
	f.Close()
	return nil
}

// checkTERM verifies that the TERM environment variable is not "dumb".
func checkTERM() error {
	if os.Getenv("TERM") == "dumb" {
		return fmt.Errorf("TERM=dumb is not supported")
	}
	return nil
}

// openTTY opens the controlling terminal for TUI input and output.
func openTTY() (*os.File, error) {
	return os.OpenFile(ttyPath, os.O_RDWR, 0)
}
