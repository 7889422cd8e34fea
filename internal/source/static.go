package source

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Static serves pages from an in-memory slice. It exists for piped-stdin
// input and for tests; the error and delay hooks let tests exercise the
// picker's failure and cancellation paths without a real backend.
type Static[T any] struct {
	items []T

	// FailNext, when non-nil, fails the next Fetch with this error and
	// then clears itself.
	FailNext error

	// Delay is applied before every Fetch returns, honoring context
	// cancellation.
	Delay time.Duration
}

// NewStatic wraps items in a paged source.
func NewStatic[T any](items []T) *Static[T] {
	return &Static[T]{items: items}
}

// Fetch returns the page starting at the integer offset encoded in the
// token.
func (s *Static[T]) Fetch(ctx context.Context, req Request) (Page[T], error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return Page[T]{}, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return Page[T]{}, err
	}
	if err := s.FailNext; err != nil {
		s.FailNext = nil
		return Page[T]{}, err
	}

	offset, err := parseOffsetToken(req.Token)
	if err != nil {
		return Page[T]{}, err
	}
	return pageSlice(s.items, offset, req.PageSize)
}

// parseOffsetToken decodes the integer continuation token used by the
// slice-backed sources.
func parseOffsetToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("source: invalid continuation token %q", token)
	}
	return offset, nil
}

// pageSlice carves one page out of items starting at offset.
func pageSlice[T any](items []T, offset, pageSize int) (Page[T], error) {
	if offset > len(items) {
		return Page[T]{}, fmt.Errorf("source: continuation token offset %d past end of listing", offset)
	}
	if pageSize <= 0 {
		return Page[T]{}, fmt.Errorf("source: page size must be positive, got %d", pageSize)
	}

	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	page := Page[T]{Items: items[offset:end]}
	if end < len(items) {
		page.NextToken = strconv.Itoa(end)
		page.HasMore = true
	}
	return page, nil
}
