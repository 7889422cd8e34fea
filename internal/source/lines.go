package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxListingLines caps how many lines a listing may produce before the
// rest is ignored, so a runaway command or pipe cannot exhaust memory.
const maxListingLines = 100_000

// ReadEntries parses listing lines from r into entries. Lines are cleaned
// of ANSI escapes, blank lines are skipped, and a single tab separates
// name from detail.
func ReadEntries(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []Entry
	for scanner.Scan() && len(entries) < maxListingLines {
		line := CleanLine(scanner.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, parseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("source: read listing: %w", err)
	}
	return entries, nil
}

// parseLine splits a listing line into an Entry. A single tab separates
// name from detail; lines without a tab are all name.
func parseLine(line string) Entry {
	if name, detail, ok := strings.Cut(line, "\t"); ok {
		return Entry{Name: name, Detail: strings.TrimSpace(detail)}
	}
	return Entry{Name: line}
}
