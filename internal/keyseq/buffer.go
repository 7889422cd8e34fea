package keyseq

import (
	"strings"
	"time"
)

// Resolution is the outcome of feeding one keystroke (or a timer expiry)
// into the Buffer.
//
// Exactly one of three shapes comes back:
//   - Matched: Action carries the resolved action.
//   - Pending: the buffer is waiting for more keys; the caller must arrange
//     a single-shot timer for Deadline and call Expire when it fires.
//   - neither: the keystroke resolved to nothing.
type Resolution struct {
	Action   Action
	Matched  bool
	Pending  bool
	Deadline time.Time
}

// Buffer recognizes bound key sequences one keystroke at a time.
//
// It is a two-state machine: empty, or pending with a buffered prefix and
// the time of the prefix's first keystroke. The deadline for a pending
// sequence is measured from that first keystroke, not from the latest one.
// The Buffer holds no timer of its own; callers must serialize Feed and
// Expire on one event loop and invalidate any scheduled timer before
// feeding the next keystroke.
type Buffer struct {
	bindings Bindings
	byseq    map[string]Action

	pending []rune
	started time.Time
}

// NewBuffer validates the bindings and returns a recognizer for them.
func NewBuffer(b Bindings) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	byseq := make(map[string]Action, len(b.Sequences))
	for action, seq := range b.Sequences {
		byseq[seq] = action
	}
	return &Buffer{bindings: b, byseq: byseq}, nil
}

// Pending returns the buffered, not-yet-resolved keystrokes.
func (b *Buffer) Pending() string {
	return string(b.pending)
}

// Reset discards any pending keystrokes.
func (b *Buffer) Reset() {
	b.pending = b.pending[:0]
}

// Feed processes one keystroke.
//
// An exact match emits immediately unless the matched sequence is also a
// strict prefix of a longer binding ("g" under "gg"); then the buffer stays
// pending and the timeout decides between the two. A buffer that is neither
// a match nor a prefix is dropped and the just-typed key is re-evaluated
// alone, so a stray key never poisons the sequence that follows it.
func (b *Buffer) Feed(r rune, now time.Time) Resolution {
	if len(b.pending) == 0 {
		b.started = now
	}
	b.pending = append(b.pending, r)

	if res, done := b.resolve(); done {
		return res
	}

	// Dead prefix: restart with the just-typed key alone.
	b.pending = append(b.pending[:0], r)
	b.started = now
	if res, done := b.resolve(); done {
		return res
	}
	b.Reset()
	return Resolution{}
}

// Expire resolves a pending buffer whose deadline has passed. If the buffer
// alone is a bound sequence its action is emitted; otherwise the keystrokes
// are discarded silently.
func (b *Buffer) Expire(now time.Time) Resolution {
	if len(b.pending) == 0 {
		return Resolution{}
	}
	if now.Before(b.deadline()) {
		// Stale timer from a superseded sequence.
		return Resolution{Pending: true, Deadline: b.deadline()}
	}
	action, exact := b.byseq[string(b.pending)]
	b.Reset()
	if exact {
		return Resolution{Action: action, Matched: true}
	}
	return Resolution{}
}

// resolve inspects the current pending buffer. The second return value is
// false when the buffer matches nothing, not even as a prefix.
func (b *Buffer) resolve() (Resolution, bool) {
	cur := string(b.pending)
	action, exact := b.byseq[cur]

	if exact && !b.isStrictPrefix(cur) {
		b.Reset()
		return Resolution{Action: action, Matched: true}, true
	}
	if exact || b.isStrictPrefix(cur) {
		return Resolution{Pending: true, Deadline: b.deadline()}, true
	}
	return Resolution{}, false
}

// isStrictPrefix reports whether cur is a proper prefix of any bound
// sequence.
func (b *Buffer) isStrictPrefix(cur string) bool {
	for seq := range b.byseq {
		if len(seq) > len(cur) && strings.HasPrefix(seq, cur) {
			return true
		}
	}
	return false
}

func (b *Buffer) deadline() time.Time {
	return b.started.Add(b.bindings.Timeout)
}
