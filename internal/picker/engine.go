// Package picker owns an interactive selection session: query editing,
// fuzzy filtering, cursor and visible-window management, and coordination
// of incremental page loading.
//
// The Engine is single-threaded by contract. Fetches run elsewhere (the
// host decides how); the engine only hands out fetch descriptors and
// accepts their results, guarded by a generation counter so a stale or
// cancelled fetch can never mutate session state.
package picker

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/runger/rpick/internal/fuzzy"
	"github.com/runger/rpick/internal/source"
)

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	// MaxVisibleItems bounds the rendered window.
	MaxVisibleItems int

	// PageSize is requested from the source per fetch.
	PageSize int

	// PrefetchThreshold triggers the next fetch when the cursor is within
	// this many rows of the end of the loaded set.
	PrefetchThreshold int

	// FuzzyDisabled turns the engine into a plain windowed list: query
	// editing becomes a no-op and candidates keep their input order.
	FuzzyDisabled bool

	// Logger receives debug-level session events. Nil discards them.
	Logger *slog.Logger
}

const (
	defaultMaxVisible = 10
	defaultPageSize   = 50
	defaultThreshold  = 5
)

func (o Options) withDefaults() Options {
	if o.MaxVisibleItems <= 0 {
		o.MaxVisibleItems = defaultMaxVisible
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.PrefetchThreshold <= 0 {
		o.PrefetchThreshold = defaultThreshold
	}
	return o
}

// Fetch describes one page request the host should run against its source.
// Gen ties the eventual result back to the issuing state; results carrying
// a stale generation are discarded.
type Fetch struct {
	Token    string
	PageSize int
	Gen      uint64
}

// Engine is one interactive selection session over a paged listing.
// Create one per selection, drive it from a single event loop, and discard
// it after Confirm or Cancel.
type Engine[T any] struct {
	opts    Options
	session string
	log     *slog.Logger
	keys    func(T) []string

	query    string
	cands    []fuzzy.Candidate[T]
	filtered []fuzzy.Match[T]
	index    int
	winStart int
	winEnd   int

	nextToken string
	hasMore   bool
	inFlight  bool
	gen       uint64
	fetchErr  error

	done bool
}

// NewEngine creates a session. keys extracts the searchable text keys from
// a candidate item; it must be deterministic.
func NewEngine[T any](keys func(T) []string, opts Options) *Engine[T] {
	opts = opts.withDefaults()
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	session := uuid.NewString()
	return &Engine[T]{
		opts:    opts,
		session: session,
		log:     log.With("session", session),
		keys:    keys,
		index:   -1,
		hasMore: true, // Nothing loaded yet; the first fetch is always due.
	}
}

// Session returns the session's correlation ID.
func (e *Engine[T]) Session() string { return e.session }

// Query returns the current query string.
func (e *Engine[T]) Query() string { return e.query }

// Index returns the cursor position in the filtered list, -1 when empty.
func (e *Engine[T]) Index() int { return e.index }

// Filtered returns the ranked, filtered matches. Callers must not mutate.
func (e *Engine[T]) Filtered() []fuzzy.Match[T] { return e.filtered }

// LoadedCount returns how many candidates have been loaded so far.
func (e *Engine[T]) LoadedCount() int { return len(e.cands) }

// HasMore reports whether the source has pages beyond the loaded set.
func (e *Engine[T]) HasMore() bool { return e.hasMore }

// InFlight reports whether a fetch is outstanding.
func (e *Engine[T]) InFlight() bool { return e.inFlight }

// FetchErr returns the last fetch failure, cleared on retry or success.
func (e *Engine[T]) FetchErr() error { return e.fetchErr }

// Done reports whether the session ended via Confirm or Cancel.
func (e *Engine[T]) Done() bool { return e.done }

// VisibleWindow returns the half-open range [start, end) of filtered rows
// the host should render.
func (e *Engine[T]) VisibleWindow() (start, end int) {
	return e.winStart, e.winEnd
}

// Visible returns the filtered slice bounded by the visible window.
func (e *Engine[T]) Visible() []fuzzy.Match[T] {
	return e.filtered[e.winStart:e.winEnd]
}

// TypeRune appends a character to the query and re-ranks. The cursor and
// window restart from the top of the new ranking.
func (e *Engine[T]) TypeRune(r rune) {
	if e.done || e.opts.FuzzyDisabled {
		return
	}
	e.query += string(r)
	e.rerank()
}

// Backspace removes the last query character; no-op on an empty query.
func (e *Engine[T]) Backspace() {
	if e.done || e.opts.FuzzyDisabled || e.query == "" {
		return
	}
	q := []rune(e.query)
	e.query = string(q[:len(q)-1])
	e.rerank()
}

// MoveDown advances the cursor one row, clamped at the end. No wraparound.
func (e *Engine[T]) MoveDown() { e.moveTo(e.index + 1) }

// MoveUp retreats the cursor one row, clamped at the start. No wraparound.
func (e *Engine[T]) MoveUp() { e.moveTo(e.index - 1) }

// Top jumps to the first filtered row.
func (e *Engine[T]) Top() { e.moveTo(0) }

// Bottom jumps to the last filtered row.
func (e *Engine[T]) Bottom() { e.moveTo(len(e.filtered) - 1) }

// moveTo clamps the target into range and slides the window just far
// enough to keep the cursor inside it.
func (e *Engine[T]) moveTo(target int) {
	if e.done || len(e.filtered) == 0 {
		return
	}
	if target < 0 {
		target = 0
	}
	if target > len(e.filtered)-1 {
		target = len(e.filtered) - 1
	}
	e.index = target
	e.ensureVisible()
}

// Confirm returns the item under the cursor and ends the session. The
// second return is false when the filtered set is empty.
func (e *Engine[T]) Confirm() (T, bool) {
	var zero T
	if e.done || e.index < 0 || e.index >= len(e.filtered) {
		return zero, false
	}
	e.done = true
	e.log.Debug("session confirmed", "index", e.index, "query", e.query)
	return e.filtered[e.index].Item, true
}

// Cancel ends the session. Further mutation is ignored, including results
// of any fetch still in flight.
func (e *Engine[T]) Cancel() {
	if e.done {
		return
	}
	e.done = true
	e.log.Debug("session cancelled", "loaded", len(e.cands))
}

// MaybeFetch returns a fetch descriptor when the next page is due: the
// session is live, no fetch is outstanding, the last fetch did not fail,
// more data exists, and the cursor or window is within PrefetchThreshold
// of the end of the loaded set. At most one fetch is ever outstanding.
func (e *Engine[T]) MaybeFetch() (Fetch, bool) {
	if e.done || e.inFlight || e.fetchErr != nil || !e.hasMore {
		return Fetch{}, false
	}
	if len(e.cands) > 0 && !e.nearBoundary() {
		return Fetch{}, false
	}
	e.inFlight = true
	e.gen++
	e.log.Debug("fetch issued", "gen", e.gen, "token", e.nextToken)
	return Fetch{Token: e.nextToken, PageSize: e.opts.PageSize, Gen: e.gen}, true
}

// RetryFetch clears a recorded fetch failure so MaybeFetch can reissue the
// same continuation token.
func (e *Engine[T]) RetryFetch() (Fetch, bool) {
	if e.done {
		return Fetch{}, false
	}
	e.fetchErr = nil
	return e.MaybeFetch()
}

// nearBoundary reports whether the cursor or the rendered window is within
// the prefetch threshold of the end of the filtered set.
func (e *Engine[T]) nearBoundary() bool {
	limit := len(e.filtered) - e.opts.PrefetchThreshold
	return e.index >= limit || e.winEnd >= limit
}

// ApplyPage merges a fetched page into the session. Results from a stale
// generation or an ended session are discarded untouched.
func (e *Engine[T]) ApplyPage(gen uint64, page source.Page[T]) {
	if e.done || !e.inFlight || gen != e.gen {
		e.log.Debug("page discarded", "gen", gen, "current", e.gen, "done", e.done)
		return
	}
	e.inFlight = false
	e.fetchErr = nil
	e.nextToken = page.NextToken
	e.hasMore = page.HasMore

	fresh := make([]fuzzy.Candidate[T], len(page.Items))
	for i, item := range page.Items {
		fresh[i] = fuzzy.Candidate[T]{Item: item, Keys: e.keys(item)}
	}
	e.cands = append(e.cands, fresh...)
	e.mergeRanked(fresh)
	e.log.Debug("page applied", "gen", gen, "items", len(page.Items), "loaded", len(e.cands))
}

// FetchFailed records a fetch error as a recoverable condition. The
// continuation token is untouched, so a retry re-requests the same page.
func (e *Engine[T]) FetchFailed(gen uint64, err error) {
	if e.done || !e.inFlight || gen != e.gen {
		return
	}
	e.inFlight = false
	e.fetchErr = err
	e.log.Debug("fetch failed", "gen", gen, "err", err)
}

// rerank recomputes the filtered set from scratch after a query change.
func (e *Engine[T]) rerank() {
	e.filtered = fuzzy.Rank(e.cands, e.query)
	if len(e.filtered) == 0 {
		e.index = -1
	} else {
		e.index = 0
	}
	e.resetWindow()
}

// mergeRanked folds freshly ranked candidates into the existing order
// without disturbing it: existing rows keep their positions relative to
// each other, new rows slot in by score, and on ties the existing row
// stays ahead.
func (e *Engine[T]) mergeRanked(fresh []fuzzy.Candidate[T]) {
	incoming := fuzzy.Rank(fresh, e.query)
	if len(incoming) == 0 {
		e.reclamp()
		return
	}
	if len(e.filtered) == 0 {
		e.filtered = incoming
		e.index = 0
		e.resetWindow()
		return
	}

	merged := make([]fuzzy.Match[T], 0, len(e.filtered)+len(incoming))
	i, j := 0, 0
	for i < len(e.filtered) && j < len(incoming) {
		if incoming[j].Score > e.filtered[i].Score {
			merged = append(merged, incoming[j])
			j++
		} else {
			merged = append(merged, e.filtered[i])
			i++
		}
	}
	merged = append(merged, e.filtered[i:]...)
	merged = append(merged, incoming[j:]...)
	e.filtered = merged
	e.reclamp()
}

// resetWindow recomputes the window anchored at the top.
func (e *Engine[T]) resetWindow() {
	e.winStart = 0
	e.winEnd = min(len(e.filtered), e.opts.MaxVisibleItems)
}

// reclamp restores the window invariant after the filtered set grew.
func (e *Engine[T]) reclamp() {
	if len(e.filtered) == 0 {
		e.index = -1
		e.winStart, e.winEnd = 0, 0
		return
	}
	if e.index < 0 {
		e.index = 0
	}
	if e.index > len(e.filtered)-1 {
		e.index = len(e.filtered) - 1
	}
	e.ensureVisible()
}

// ensureVisible slides the window by exactly the overflow so the cursor
// becomes a boundary element, growing it first if fewer rows are loaded
// than the window could show.
func (e *Engine[T]) ensureVisible() {
	size := min(len(e.filtered), e.opts.MaxVisibleItems)
	if e.winEnd-e.winStart != size {
		// Window size changed (items arrived or were filtered away).
		e.winStart = min(e.winStart, len(e.filtered)-size)
		e.winEnd = e.winStart + size
	}
	if e.index < e.winStart {
		e.winStart = e.index
		e.winEnd = e.winStart + size
	} else if e.index >= e.winEnd {
		e.winEnd = e.index + 1
		e.winStart = e.winEnd - size
	}
}
