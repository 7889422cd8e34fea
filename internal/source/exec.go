package source

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/google/shlex"
)

// Exec pages the stdout of an external listing command. The command runs
// once, on the first fetch; later pages are served from the captured
// output. The command string is split with shell-style word rules but is
// executed directly, not through a shell.
type Exec struct {
	command string

	loaded  bool
	entries []Entry
}

// NewExec validates the command line and returns a source for it.
func NewExec(command string) (*Exec, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("source: parse listing command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("source: empty listing command")
	}
	return &Exec{command: command}, nil
}

// Fetch runs the listing command on first use, then serves pages from its
// captured output.
func (e *Exec) Fetch(ctx context.Context, req Request) (Page[Entry], error) {
	if !e.loaded {
		if err := e.load(ctx); err != nil {
			return Page[Entry]{}, err
		}
	}

	offset, err := parseOffsetToken(req.Token)
	if err != nil {
		return Page[Entry]{}, err
	}
	return pageSlice(e.entries, offset, req.PageSize)
}

// load runs the command and captures its stdout line by line.
func (e *Exec) load(ctx context.Context) error {
	args, err := shlex.Split(e.command)
	if err != nil {
		return fmt.Errorf("source: parse listing command: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("source: pipe listing command: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("source: start listing command: %w", err)
	}

	entries, readErr := ReadEntries(out)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("source: listing command failed: %w", err)
	}
	if readErr != nil {
		return readErr
	}

	e.entries = entries
	e.loaded = true
	return nil
}
