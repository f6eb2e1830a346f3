package ui

import tea "github.com/charmbracelet/bubbletea"

// handleMouse routes wheel events to the pane under the pointer and
// lets a left click move focus. A click inside the query pane also
// places the caret at the clicked cell.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.inputMode != modeNormal && m.inputMode != modeEditing {
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.wheel(-1, msg.X, msg.Y)
	case tea.MouseButtonWheelDown:
		m.wheel(1, msg.X, msg.Y)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		m.click(msg.X, msg.Y)
	}
}

func (m *Model) wheel(delta, col, row int) {
	switch {
	case m.layout.search.contains(col, row):
		if delta < 0 {
			m.editor.scrollUp()
		} else {
			rows, _ := m.editorViewSize()
			m.editor.scrollDown(rows)
		}
	case m.layout.detail.contains(col, row):
		m.scrollDetail(delta)
	case m.layout.main.contains(col, row):
		if m.viewMode == viewRaw {
			m.scrollRaw(delta)
		} else {
			m.moveSelection(delta)
		}
	}
}

func (m *Model) click(col, row int) {
	switch {
	case m.layout.search.contains(col, row):
		m.viewFocus = focusSearch
		m.inputMode = modeEditing
		// Cell coordinates are relative to the pane's inner area,
		// one cell in from the border.
		relRow := maxInt(row-(m.layout.search.y+1), 0)
		relCol := maxInt(col-(m.layout.search.x+1), 0)
		m.editor.caretFromClick(relRow, relCol)
	case m.layout.detail.contains(col, row):
		m.viewFocus = focusDetail
	case m.layout.main.contains(col, row):
		m.viewFocus = focusList
	}
}
