// Package focus tracks which of several UI regions holds keyboard focus.
//
// The traversal algorithm depends only on the Region capability pair, never
// on a concrete view type, so any widget that can say whether it is visible
// and focusable can participate.
package focus

import "errors"

// ErrNoFocusable is returned when a full cycle finds no region that can
// take focus. The current position is left unchanged.
var ErrNoFocusable = errors.New("focus: no focusable region")

// ErrNotRegistered is returned by SetCurrent for an unknown region.
var ErrNotRegistered = errors.New("focus: region not registered")

// Region is anything that can hold keyboard focus. Both predicates are
// consulted on every traversal, so regions may change their answers as the
// layout changes.
type Region interface {
	CanAcceptFocus() bool
	IsVisible() bool
}

// Manager is an ordered registry of focusable regions. Registration order
// is traversal order. It is not safe for concurrent use; like the rest of
// the interactive core it belongs to the event loop.
type Manager struct {
	regions []Region
	current int
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{current: -1}
}

// Register appends a region to the traversal order.
func (m *Manager) Register(r Region) {
	m.regions = append(m.regions, r)
}

// Current returns the region the cursor is on, or nil if focus has never
// been placed.
func (m *Manager) Current() Region {
	if m.current < 0 || m.current >= len(m.regions) {
		return nil
	}
	return m.regions[m.current]
}

// First moves to the first focusable region in registration order.
func (m *Manager) First() (Region, error) {
	for i, r := range m.regions {
		if focusable(r) {
			m.current = i
			return r, nil
		}
	}
	return nil, ErrNoFocusable
}

// Next advances to the next focusable region, wrapping past the end. With
// no position set it behaves like First.
func (m *Manager) Next() (Region, error) {
	return m.scan(1)
}

// Prev moves to the previous focusable region, wrapping past the start.
func (m *Manager) Prev() (Region, error) {
	return m.scan(-1)
}

// SetCurrent repositions the cursor onto an already-registered region
// without altering registration order.
func (m *Manager) SetCurrent(region Region) error {
	for i, r := range m.regions {
		if r == region {
			m.current = i
			return nil
		}
	}
	return ErrNotRegistered
}

// scan walks one full cycle in the given direction looking for a focusable
// region. Failure leaves the current position unchanged.
func (m *Manager) scan(dir int) (Region, error) {
	n := len(m.regions)
	if n == 0 {
		return nil, ErrNoFocusable
	}
	if m.current < 0 {
		return m.First()
	}

	for step := 1; step <= n; step++ {
		i := (m.current + dir*step%n + n) % n
		if focusable(m.regions[i]) {
			m.current = i
			return m.regions[i], nil
		}
	}
	return nil, ErrNoFocusable
}

func focusable(r Region) bool {
	return r.CanAcceptFocus() && r.IsVisible()
}
