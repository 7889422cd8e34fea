//go:build windows

package cmd

import "os"

// checkTTY is a no-op on Windows; Bubble Tea handles console probing.
func checkTTY() error { return nil }

// checkTERM is a no-op on Windows.
func checkTERM() error { return nil }

// openTTY opens the console for TUI input and output.
func openTTY() (*os.File, error) {
	return os.OpenFile("CONIN$", os.O_RDWR, 0)
}
