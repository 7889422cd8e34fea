package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegion struct {
	name      string
	focusable bool
	visible   bool
}

func (r *fakeRegion) CanAcceptFocus() bool { return r.focusable }
func (r *fakeRegion) IsVisible() bool      { return r.visible }

func region(name string) *fakeRegion {
	return &fakeRegion{name: name, focusable: true, visible: true}
}

func newManager(regions ...*fakeRegion) *Manager {
	m := NewManager()
	for _, r := range regions {
		m.Register(r)
	}
	return m
}

func TestFirstThenNextWrapsAround(t *testing.T) {
	a, b := region("a"), region("b")
	m := newManager(a, b)

	got, err := m.First()
	require.NoError(t, err)
	assert.Same(t, a, got)

	got, err = m.Next()
	require.NoError(t, err)
	assert.Same(t, b, got)

	got, err = m.Next()
	require.NoError(t, err)
	assert.Same(t, a, got, "next from the last region wraps to the first")
}

func TestPrevWrapsToLast(t *testing.T) {
	a, b, c := region("a"), region("b"), region("c")
	m := newManager(a, b, c)

	_, err := m.First()
	require.NoError(t, err)

	got, err := m.Prev()
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestTraversalSkipsUnfocusableAndInvisible(t *testing.T) {
	a, b, c, d := region("a"), region("b"), region("c"), region("d")
	b.focusable = false
	c.visible = false
	m := newManager(a, b, c, d)

	_, err := m.First()
	require.NoError(t, err)

	got, err := m.Next()
	require.NoError(t, err)
	assert.Same(t, d, got)

	got, err = m.Prev()
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestFirstSkipsLeadingUnfocusable(t *testing.T) {
	a, b := region("a"), region("b")
	a.visible = false
	m := newManager(a, b)

	got, err := m.First()
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestFullCycleWithNothingFocusableFails(t *testing.T) {
	a, b := region("a"), region("b")
	m := newManager(a, b)

	_, err := m.First()
	require.NoError(t, err)

	a.focusable = false
	b.visible = false

	_, err = m.Next()
	assert.ErrorIs(t, err, ErrNoFocusable)
	assert.Same(t, a, m.Current(), "failed scan leaves position unchanged")
}

func TestEmptyManagerFails(t *testing.T) {
	m := NewManager()

	_, err := m.First()
	assert.ErrorIs(t, err, ErrNoFocusable)
	_, err = m.Next()
	assert.ErrorIs(t, err, ErrNoFocusable)
	assert.Nil(t, m.Current())
}

func TestNextWithoutFirstStartsAtFirst(t *testing.T) {
	a, b := region("a"), region("b")
	m := newManager(a, b)

	got, err := m.Next()
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestSetCurrentRepositionsCursor(t *testing.T) {
	a, b, c := region("a"), region("b"), region("c")
	m := newManager(a, b, c)

	require.NoError(t, m.SetCurrent(b))
	assert.Same(t, b, m.Current())

	got, err := m.Next()
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestSetCurrentUnknownRegionFails(t *testing.T) {
	m := newManager(region("a"))
	assert.ErrorIs(t, m.SetCurrent(region("stranger")), ErrNotRegistered)
}

func TestNextFromSoleFocusableReturnsItself(t *testing.T) {
	a, b := region("a"), region("b")
	b.focusable = false
	m := newManager(a, b)

	_, err := m.First()
	require.NoError(t, err)

	got, err := m.Next()
	require.NoError(t, err)
	assert.Same(t, a, got)
}
