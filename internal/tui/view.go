package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewQuery())
	b.WriteRune('\n')
	b.WriteString(m.viewPanes())
	b.WriteRune('\n')
	b.WriteString(m.viewStatus())
	return b.String()
}

// viewQuery renders the query input line. The block cursor appears only
// in filter mode, where typing edits the query.
func (m Model) viewQuery() string {
	line := m.styles.QueryPrompt.Render("> ") + m.styles.Query.Render(m.engine.Query())
	if m.mode == modeFilter {
		line += m.styles.QueryPrompt.Render("█")
	} else if pending := m.keys.Pending(); pending != "" {
		line += "  " + m.styles.Dim.Render(pending)
	}
	return line
}

// viewPanes renders the list pane, joined with the detail pane when the
// terminal is wide enough for both.
func (m Model) viewPanes() string {
	if !m.detail.IsVisible() {
		return m.renderPane(m.list, m.viewList(m.listWidth()))
	}
	left := m.renderPane(m.list, m.viewList(m.listWidth()))
	right := m.renderPane(m.detail, m.viewDetail())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderPane draws a bordered pane, highlighted when it holds focus.
func (m Model) renderPane(p *pane, content string) string {
	style := m.styles.PaneBorder
	if m.panes.Current() == p {
		style = m.styles.FocusedPane
	}
	return style.Render(content)
}

// viewList renders the visible window of the ranked list.
func (m Model) viewList(width int) string {
	visible := m.engine.Visible()
	if len(visible) == 0 {
		if m.engine.InFlight() {
			return m.styles.Dim.Render("loading…")
		}
		return m.styles.Dim.Render("no matches")
	}

	start, _ := m.engine.VisibleWindow()
	rows := make([]string, 0, len(visible))
	for i, match := range visible {
		display := MiddleTruncate(match.Item.Name, width)
		if start+i == m.engine.Index() {
			rows = append(rows, m.styles.Selected.Render("> "+display))
		} else {
			rows = append(rows, m.styles.Normal.Render("  "+display))
		}
	}
	return strings.Join(rows, "\n")
}

// viewDetail renders the detail pane for the entry under the cursor.
func (m Model) viewDetail() string {
	idx := m.engine.Index()
	filtered := m.engine.Filtered()
	if idx < 0 || idx >= len(filtered) {
		return m.styles.Dim.Render("nothing selected")
	}

	entry := filtered[idx].Item
	width := m.detailWidth()
	lines := []string{m.styles.DetailHeader.Render(MiddleTruncate(entry.Name, width))}
	if entry.Detail != "" {
		lines = append(lines, wrap(entry.Detail, width)...)
	}

	// Apply the scroll offset, keeping at least one line on screen.
	offset := m.detailOffset
	if offset > len(lines)-1 {
		offset = len(lines) - 1
	}
	return strings.Join(lines[offset:], "\n")
}

// viewStatus renders the bottom status line: progress, load state, and
// any recoverable fetch error.
func (m Model) viewStatus() string {
	if err := m.engine.FetchErr(); err != nil {
		return m.styles.Error.Render(fmt.Sprintf("listing failed: %v", err)) +
			m.styles.Dim.Render("  (r to retry)")
	}

	count := fmt.Sprintf("%d/%d", len(m.engine.Filtered()), m.engine.LoadedCount())
	if m.engine.HasMore() {
		count += "+"
	}
	status := m.styles.Dim.Render(count)
	if m.engine.InFlight() {
		status += " " + m.spin.View()
	}
	return status
}

// listWidth is the usable row width inside the list pane.
func (m Model) listWidth() int {
	w := m.width
	if m.detail.IsVisible() {
		w -= m.detailWidth() + 4
	}
	w -= 6 // border, padding, selection marker
	if w < 10 {
		w = 10
	}
	return w
}

// detailWidth is the usable content width of the detail pane.
func (m Model) detailWidth() int {
	w := m.width / 3
	if w < 20 {
		w = 20
	}
	return w
}

// wrap breaks s into lines no wider than width, splitting on rune count;
// detail text is paths and sizes, not prose, so word wrapping is not
// worth the trouble.
func wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	runes := []rune(s)
	var out []string
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	return append(out, string(runes))
}
