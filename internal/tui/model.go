// Package tui hosts a picker session inside a Bubble Tea program. It owns
// everything the core deliberately does not: rendering, real timers for
// key-sequence timeouts, running fetches off the event loop, and cycling
// focus between the list and the detail pane.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/rpick/internal/focus"
	"github.com/runger/rpick/internal/keyseq"
	"github.com/runger/rpick/internal/picker"
	"github.com/runger/rpick/internal/source"
)

// detailMinWidth is the terminal width below which the detail pane is
// hidden (and therefore skipped by focus traversal).
const detailMinWidth = 70

// inputMode says where printable keys go: navigation sequences or the
// filter query.
type inputMode int

const (
	modeNav inputMode = iota
	modeFilter
)

// Result is the outcome of a finished session.
type Result struct {
	Entry    source.Entry
	Selected bool
}

// pageMsg carries a completed fetch back onto the event loop.
type pageMsg struct {
	gen  uint64
	page source.Page[source.Entry]
	err  error
}

// seqTimeoutMsg fires a pending key-sequence deadline. Only the current
// generation is honored, so a timer from a superseded sequence is inert.
type seqTimeoutMsg struct {
	gen uint64
}

// initMsg triggers the first fetch through Update, so state mutations are
// visible to the Bubble Tea runtime.
type initMsg struct{}

// Config assembles a Model.
type Config struct {
	Source   source.Source[source.Entry]
	Bindings keyseq.Bindings
	Options  picker.Options
	Dark     bool
}

// pane is a focusable UI region. Panes are shared by pointer across Model
// copies, so visibility updates survive Bubble Tea's value semantics.
type pane struct {
	vis bool
}

func (p *pane) CanAcceptFocus() bool { return true }
func (p *pane) IsVisible() bool      { return p.vis }

// Model is the Bubble Tea model for an interactive pick session.
type Model struct {
	engine *picker.Engine[source.Entry]
	src    source.Source[source.Entry]
	keys   *keyseq.Buffer
	styles Styles

	mode inputMode

	panes  *focus.Manager
	list   *pane
	detail *pane

	spin         spinner.Model
	width        int
	height       int
	detailOffset int

	// seqGen invalidates scheduled sequence-timeout ticks; any new
	// keystroke bumps it before the buffer is fed again.
	seqGen uint64

	// cancelFetch aborts the in-flight Source.Fetch context.
	cancelFetch context.CancelFunc

	result Result
}

// NewModel validates the bindings and assembles a session model.
func NewModel(cfg Config) (Model, error) {
	buf, err := keyseq.NewBuffer(cfg.Bindings)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		engine: picker.NewEngine(source.Entry.SearchKeys, cfg.Options),
		src:    cfg.Source,
		keys:   buf,
		styles: NewStyles(cfg.Dark),
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}

	m.list = &pane{vis: true}
	m.detail = &pane{}
	m.panes = focus.NewManager()
	m.panes.Register(m.list)
	m.panes.Register(m.detail)
	_, _ = m.panes.First()
	return m, nil
}

// Result returns the selected entry, if any, after the program exits.
func (m Model) Result() Result {
	return m.result
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return initMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.vis = msg.Width >= detailMinWidth
		return m, nil

	case pageMsg:
		return m.handlePage(msg)

	case seqTimeoutMsg:
		return m.handleSeqTimeout(msg)

	case spinner.TickMsg:
		if !m.engine.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case initMsg:
		return m, m.startFetch()
	}
	return m, nil
}

// handleKey routes keystrokes. Special keys map straight to actions; rune
// keys go through the sequence buffer in navigation mode, or into the
// query in filter mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.finish(Result{})

	case tea.KeyEsc:
		if m.mode == modeFilter {
			m.mode = modeNav
			return m, nil
		}
		return m.finish(Result{})

	case tea.KeyEnter:
		if m.mode == modeFilter {
			m.mode = modeNav
			return m, nil
		}
		return m.applyAction(keyseq.ActionEnter)

	case tea.KeyUp:
		return m.applyAction(keyseq.ActionMoveUp)

	case tea.KeyDown:
		return m.applyAction(keyseq.ActionMoveDown)

	case tea.KeyTab:
		return m.applyAction(keyseq.ActionFocusNext)

	case tea.KeyShiftTab:
		return m.applyAction(keyseq.ActionFocusPrev)

	case tea.KeyBackspace:
		if m.mode == modeFilter {
			m.engine.Backspace()
			return m, m.startFetch()
		}
		return m, nil

	case tea.KeyRunes:
		if m.mode == modeFilter {
			for _, r := range msg.Runes {
				m.engine.TypeRune(r)
			}
			return m, m.startFetch()
		}
		return m.feedRunes(msg.Runes)
	}
	return m, nil
}

// feedRunes pushes navigation-mode keystrokes through the sequence
// buffer, scheduling a timeout tick whenever the buffer goes pending.
func (m Model) feedRunes(runes []rune) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	cur := m
	for _, r := range runes {
		// Any keystroke supersedes a previously scheduled timeout.
		cur.seqGen++
		res := cur.keys.Feed(r, time.Now())
		switch {
		case res.Matched:
			next, cmd := cur.applyAction(res.Action)
			cur = next.(Model)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		case res.Pending:
			gen := cur.seqGen
			cmds = append(cmds, tea.Tick(time.Until(res.Deadline), func(time.Time) tea.Msg {
				return seqTimeoutMsg{gen: gen}
			}))
		}
	}
	return cur, tea.Batch(cmds...)
}

// handleSeqTimeout resolves a pending sequence whose deadline expired.
func (m Model) handleSeqTimeout(msg seqTimeoutMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.seqGen {
		return m, nil // A later keystroke superseded this timer.
	}
	res := m.keys.Expire(time.Now())
	if res.Matched {
		return m.applyAction(res.Action)
	}
	return m, nil
}

// applyAction executes one logical action against the focused pane.
func (m Model) applyAction(action keyseq.Action) (tea.Model, tea.Cmd) {
	switch action {
	case keyseq.ActionCancel:
		return m.finish(Result{})

	case keyseq.ActionEnter:
		if entry, ok := m.engine.Confirm(); ok {
			return m.finish(Result{Entry: entry, Selected: true})
		}
		return m, nil

	case keyseq.ActionMoveDown:
		if m.detailFocused() {
			m.detailOffset++
			return m, nil
		}
		m.engine.MoveDown()
		m.detailOffset = 0
		return m, m.startFetch()

	case keyseq.ActionMoveUp:
		if m.detailFocused() {
			if m.detailOffset > 0 {
				m.detailOffset--
			}
			return m, nil
		}
		m.engine.MoveUp()
		m.detailOffset = 0
		return m, nil

	case keyseq.ActionTop:
		m.engine.Top()
		m.detailOffset = 0
		return m, nil

	case keyseq.ActionBottom:
		m.engine.Bottom()
		m.detailOffset = 0
		return m, m.startFetch()

	case keyseq.ActionFilter:
		m.mode = modeFilter
		return m, nil

	case keyseq.ActionBack:
		for m.engine.Query() != "" {
			m.engine.Backspace()
		}
		return m, m.startFetch()

	case keyseq.ActionFocusNext:
		_, _ = m.panes.Next()
		m.detailOffset = 0
		return m, nil

	case keyseq.ActionFocusPrev:
		_, _ = m.panes.Prev()
		m.detailOffset = 0
		return m, nil

	case keyseq.ActionRetry:
		return m, m.retryFetch()
	}
	return m, nil
}

// handlePage folds a fetch result into the engine and, if the boundary is
// still close, chains the next fetch.
func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.engine.FetchFailed(msg.gen, msg.err)
		return m, nil
	}
	m.engine.ApplyPage(msg.gen, msg.page)
	return m, m.startFetch()
}

// startFetch asks the engine whether a page is due and, if so, runs it
// off-loop. The spinner ticks alongside.
func (m *Model) startFetch() tea.Cmd {
	f, ok := m.engine.MaybeFetch()
	if !ok {
		return nil
	}
	return tea.Batch(m.runFetch(f), m.spin.Tick)
}

// retryFetch clears a recorded failure and reissues the same token.
func (m *Model) retryFetch() tea.Cmd {
	f, ok := m.engine.RetryFetch()
	if !ok {
		return nil
	}
	return tea.Batch(m.runFetch(f), m.spin.Tick)
}

func (m *Model) runFetch(f picker.Fetch) tea.Cmd {
	m.cancelInflight()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	src := m.src
	return func() tea.Msg {
		page, err := src.Fetch(ctx, source.Request{Token: f.Token, PageSize: f.PageSize})
		if err != nil {
			return pageMsg{gen: f.Gen, err: err}
		}
		return pageMsg{gen: f.Gen, page: page}
	}
}

// finish ends the session, aborting any in-flight fetch.
func (m Model) finish(r Result) (tea.Model, tea.Cmd) {
	if r.Selected {
		// Confirm already ended the engine session.
		m.result = r
	} else {
		m.engine.Cancel()
	}
	m.cancelInflight()
	return m, tea.Quit
}

// cancelInflight cancels any in-progress fetch context.
func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func (m Model) detailFocused() bool {
	return m.panes.Current() == m.detail && m.detail.IsVisible()
}
