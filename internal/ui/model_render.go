package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderJobSummary(),
		m.renderResults(),
		m.renderStatusLine(),
		m.renderFooter(),
	)

	switch m.inputMode {
	case modeSaveSearch:
		return m.renderInputOverlay("Save Search As", m.saveInput.View())
	case modeConfirmOverwrite:
		return m.renderConfirmOverlay()
	case modeLoadSearch:
		return m.renderListOverlay(m.loadList)
	case modeThemeSelect:
		return m.renderListOverlay(m.themeList)
	case modeLocalSearch:
		return m.renderInputOverlay("Local Search (Regex)", m.filterInput.View())
	case modeHelp:
		return m.renderHelpOverlay()
	}
	return base
}

func (m Model) renderHeader() string {
	rows, cols := m.editorViewSize()
	editor := m.editor
	editor.follow(rows, cols)

	border := m.theme.Border
	switch {
	case m.inputMode == modeEditing:
		border = m.theme.BorderEdit
	case m.viewFocus == focusSearch:
		border = m.theme.BorderFocus
	}
	queryPane := border.
		Width(m.layout.search.w - 2).
		Height(rows).
		Render(m.renderEditorText(editor, rows, cols))

	sparkW := m.width - m.layout.search.w
	sparkInner := maxInt(sparkW-2, 1)
	spark := renderSparkline(timeBuckets(m.results, sparklineBuckets), sparkInner)
	sparkPane := m.theme.Border.
		Width(sparkInner).
		Height(rows).
		Render(m.theme.SparkFilled.Render(spark))

	return lipgloss.JoinHorizontal(lipgloss.Top, queryPane, sparkPane)
}

func (m Model) renderEditorText(editor editorBuffer, rows, cols int) string {
	lines := editor.visibleLines(rows, cols)
	for len(lines) < rows {
		lines = append(lines, "")
	}

	showCaret := m.inputMode == modeEditing
	caretLine, caretCol := editor.caretLineCol()
	for i := range lines {
		lineIdx := editor.vscroll + i
		if showCaret && lineIdx == caretLine {
			lines[i] = m.renderCaretLine(lines[i], caretCol-editor.hscroll)
		} else {
			lines[i] = m.theme.Text.Render(lines[i])
		}
	}
	return strings.Join(lines, "\n")
}

// renderCaretLine styles the caret's cell: a block in vim normal mode,
// an underline bar otherwise.
func (m Model) renderCaretLine(line string, caretByte int) string {
	caretStyle := m.theme.Text.Underline(true)
	if m.editorMode == editorVimNormal {
		caretStyle = m.theme.Text.Reverse(true)
	}

	if caretByte < 0 {
		caretByte = 0
	}
	if caretByte >= len(line) {
		return m.theme.Text.Render(line) + caretStyle.Render(" ")
	}
	end := nextBoundary(line, caretByte)
	return m.theme.Text.Render(line[:caretByte]) +
		caretStyle.Render(line[caretByte:end]) +
		m.theme.Text.Render(line[end:])
}

func (m Model) renderJobSummary() string {
	var line string
	job := m.job
	switch {
	case job != nil && job.status != nil:
		st := job.status
		state := "Running"
		elapsed := ""
		if st.IsDone {
			state = "Done"
		} else {
			elapsed = fmt.Sprintf(" (Elapsed: %ds)", int(time.Since(job.createdAt).Seconds()))
		}
		line = fmt.Sprintf("%s %s%s  %s %d  %s %.2fs  %s %s",
			m.theme.TitleAlt.Render("Status:"), state, elapsed,
			m.theme.TitleAlt.Render("| Count:"), st.ResultCount,
			m.theme.TitleAlt.Render("| Time:"), st.RunDuration,
			m.theme.TitleAlt.Render("| URL:"), m.theme.Highlight.Render(m.client.WebURL(job.sid)),
		)
	case job != nil:
		elapsed := int(time.Since(job.createdAt).Seconds())
		line = fmt.Sprintf("%s Running (Elapsed: %ds)  %s",
			m.theme.TitleAlt.Render("Status:"), elapsed,
			m.theme.Muted.Render("(SID: "+job.sid+")"),
		)
	case m.submitting:
		line = m.theme.TitleAlt.Render("Status:") + " Submitting..."
	default:
		line = m.theme.Muted.Render("No active job.")
	}
	if m.savedName != "" {
		line = m.theme.Label.Render("["+m.savedName+"] ") + line
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line)
}

func (m Model) renderResults() string {
	innerW := maxInt(m.width-2, 1)
	innerH := maxInt(m.layout.main.h-2, 1)

	var body string
	if len(m.results) == 0 {
		body = lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center,
			m.theme.Muted.Render("No results available."))
	} else if m.viewMode == viewRaw {
		body = m.renderRawEvents(innerW, innerH)
	} else {
		body = m.renderTable(innerW, innerH)
	}
	return m.theme.Border.Width(innerW).Height(innerH).Render(body)
}

func (m Model) renderRawEvents(width, height int) string {
	var lines []string
	rule := m.theme.Muted.Render(strings.Repeat("-", maxInt(width-2, 1)))
	for i, ev := range m.results {
		if i > 0 {
			lines = append(lines, rule)
		}
		for _, pair := range visibleFields(ev) {
			lines = append(lines,
				m.theme.Highlight.Render(pair.key+": ")+m.theme.Text.Render(pair.value))
		}
	}

	offset := minInt(m.scrollOffset, maxInt(len(lines)-1, 0))
	wrapped := lipgloss.NewStyle().Width(width).Render(strings.Join(lines[offset:], "\n"))
	return clipLines(wrapped, height)
}

func (m Model) renderTable(width, height int) string {
	listW := width / 2
	detailW := width - listW - 1

	listRows := []string{m.renderTableHeader(listW)}
	visible := maxInt(height-1, 1)
	start := 0
	if m.selection >= visible {
		start = m.selection - visible + 1
	}
	for i := start; i < len(m.results) && i < start+visible; i++ {
		listRows = append(listRows, m.renderTableRow(i, listW))
	}
	listPane := lipgloss.NewStyle().Width(listW).Height(height).
		Render(strings.Join(listRows, "\n"))

	dividerColor := m.theme.Separator
	if m.viewFocus == focusList || m.viewFocus == focusDetail {
		dividerColor = m.theme.Accent
	}
	divider := lipgloss.NewStyle().Foreground(dividerColor).
		Render(strings.TrimRight(strings.Repeat("│\n", height), "\n"))

	detailLines := strings.Split(m.detailCache, "\n")
	offset := minInt(m.detailScroll, maxInt(len(detailLines)-1, 0))
	detailPane := lipgloss.NewStyle().Width(detailW).Height(height).
		Render(clipLines(strings.Join(detailLines[offset:], "\n"), height))

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, divider, detailPane)
}

const (
	timeColWidth       = 24
	sourcetypeColWidth = 20
)

func (m Model) renderTableHeader(width int) string {
	msgW := maxInt(width-timeColWidth-sourcetypeColWidth-3, 8)
	row := fmt.Sprintf("%-*s %-*s %-*s", timeColWidth, "Time", sourcetypeColWidth, "Sourcetype", msgW, "Message")
	return m.theme.TableHeader.Render(clipCell(row, width))
}

func (m Model) renderTableRow(idx, width int) string {
	ev := m.results[idx]
	timeStr := ev.Str("_time")
	row := fmt.Sprintf("%-*s %-*s %s",
		timeColWidth, clipCell(timeStr, timeColWidth),
		sourcetypeColWidth, clipCell(ev.Sourcetype(), sourcetypeColWidth),
		ev.Message(),
	)
	if idx == m.selection {
		return m.theme.SelectedRow.Render(clipCell(">> "+row, width))
	}
	return m.theme.Text.Render(clipCell("   "+row, width))
}

func (m Model) renderStatusLine() string {
	style := m.theme.Muted
	switch m.status.level {
	case statusWarn:
		style = m.theme.Label
	case statusError:
		style = m.theme.Error
	case statusSuccess:
		style = m.theme.Active
	}
	return style.Render(clipCell(m.status.text, m.width))
}

func (m Model) renderFooter() string {
	hint := func(key, action string) string {
		return m.theme.Title.Render(" "+key+" ") + m.theme.Text.Render(action)
	}
	parts := []string{hint("e", "Search")}
	if m.job != nil && m.job.status != nil && !m.job.status.IsDone {
		parts = append(parts, hint("x", "Kill Job"))
	}
	parts = append(parts,
		hint("↑/↓", "Scroll"),
		hint("^V", "View Mode"),
		hint("^X", "Open in Editor"),
		hint("^L", "Load"),
		hint("^S", "Save"),
		hint("q", "Quit"),
	)
	sep := m.theme.Muted.Render("  |  ")
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, strings.Join(parts, sep))
}

func (m Model) renderInputOverlay(title, input string) string {
	width := overlayListWidth(m.width)
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(title),
		"",
		lipgloss.NewStyle().Foreground(m.theme.EditAccent).Render(input),
	)
	return m.placeOverlay(m.theme.Overlay.Width(width).Render(content))
}

func (m Model) renderConfirmOverlay() string {
	width := overlayListWidth(m.width)
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Error.Render("Confirm Overwrite"),
		"",
		m.theme.Text.Render("Press 'y' to overwrite, 'n' to cancel, 'r' to rename."),
	)
	box := m.theme.Overlay.BorderForeground(lipgloss.Color("1")).Width(width).Render(content)
	return m.placeOverlay(box)
}

func (m Model) renderListOverlay(l listViewer) string {
	width := overlayListWidth(m.width)
	return m.placeOverlay(m.theme.Overlay.Width(width).Render(l.View()))
}

type listViewer interface {
	View() string
}

func (m Model) renderHelpOverlay() string {
	width := minInt(maxInt(m.width-10, 40), 64)
	section := func(title string) string {
		return m.theme.TitleAlt.Render(title)
	}
	entry := func(key, desc string) string {
		return m.theme.Title.Render(fmt.Sprintf("%-20s", key)) + m.theme.Text.Render(desc)
	}
	rows := []string{
		m.theme.Title.Width(width - 4).Align(lipgloss.Center).Render("Keyboard Shortcuts"),
		"",
		section("General"),
		entry("Ctrl+/", "Show this help"),
		entry("q", "Quit"),
		entry("e", "Enter search input mode"),
		entry("t / Ctrl+t", "Select theme"),
		"",
		section("Search Input"),
		entry("Enter", "Run search"),
		entry("Shift+Enter / Ctrl+j", "Newline"),
		entry("Ctrl+x", "Edit query in external editor"),
		entry("Ctrl+v", "Toggle Vim/Standard mode"),
		entry("Ctrl+s", "Save search"),
		"",
		section("Results & Navigation"),
		entry("j / k / Down / Up", "Scroll or navigate"),
		entry("Ctrl+j / Ctrl+k", "Fast scroll"),
		entry("Ctrl+r", "Clear results"),
		entry("Ctrl+l", "Load saved search"),
		entry("x", "Kill running job"),
		entry("Shift+E", "Open job in browser"),
		entry("Ctrl+v", "Toggle Raw/Table view"),
		entry("Ctrl+x", "Open results in external editor"),
		entry("/ n N", "Local regex search / next / prev"),
		"",
		section("Pane Navigation"),
		entry("Tab", "Cycle focus (Search > List > Detail)"),
		entry("h / l / Left / Right", "Focus panes"),
		"",
		m.theme.Muted.Render("Press Esc to close this help"),
	}
	box := m.theme.Overlay.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return m.placeOverlay(box)
}

func (m Model) placeOverlay(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func clipLines(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func clipCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}
