// Package keyseq resolves raw keystrokes into logical navigation actions.
//
// Bindings map actions to literal key sequences ("gg", "G", "q"). The Buffer
// type is the recognition state machine; it is pure with respect to time so
// that sequence timeouts are driven entirely by the caller's event loop.
package keyseq

import (
	"fmt"
	"time"
)

// Action is a logical navigation command, decoupled from the keys that
// trigger it.
type Action string

const (
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionEnter     Action = "enter"
	ActionBack      Action = "back"
	ActionTop       Action = "top"
	ActionBottom    Action = "bottom"
	ActionCancel    Action = "cancel"
	ActionFocusNext Action = "focus_next"
	ActionFocusPrev Action = "focus_prev"
	ActionRetry     Action = "retry"
	ActionFilter    Action = "filter"
)

// DefaultTimeout is how long a pending multi-key sequence waits for its next
// keystroke before resolving.
const DefaultTimeout = 500 * time.Millisecond

// Bindings maps actions to literal key sequences. Comparisons are
// case-sensitive: "g" and "G" are distinct keys.
type Bindings struct {
	Sequences map[Action]string
	Timeout   time.Duration
}

// DefaultBindings returns the built-in vim-flavored bindings.
func DefaultBindings() Bindings {
	return Bindings{
		Sequences: map[Action]string{
			ActionMoveUp:   "k",
			ActionMoveDown: "j",
			ActionTop:      "gg",
			ActionBottom:   "G",
			ActionCancel:   "q",
			ActionFilter:   "/",
			ActionRetry:    "r",
		},
		Timeout: DefaultTimeout,
	}
}

// Validate checks the bindings for configuration errors: empty sequences,
// a non-positive timeout, and the same sequence bound to two distinct
// actions. A sequence that is a strict prefix of another ("g" under "gg")
// is legal; the timeout disambiguates it at runtime.
func (b Bindings) Validate() error {
	if len(b.Sequences) == 0 {
		return fmt.Errorf("keyseq: no sequences bound")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("keyseq: sequence timeout must be positive, got %v", b.Timeout)
	}

	byseq := make(map[string]Action, len(b.Sequences))
	for action, seq := range b.Sequences {
		if seq == "" {
			return fmt.Errorf("keyseq: action %q bound to empty sequence", action)
		}
		if prev, ok := byseq[seq]; ok {
			return fmt.Errorf("keyseq: sequence %q bound to both %q and %q", seq, prev, action)
		}
		byseq[seq] = action
	}
	return nil
}
