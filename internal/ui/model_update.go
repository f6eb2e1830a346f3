package ui

import (
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.ready = true
		m.applyLayout()
		return m, nil
	case jobCreatedMsg:
		return m, m.handleJobCreated(typed)
	case pollTickMsg:
		return m, m.handlePollTick(typed)
	case clockTickMsg:
		if m.job != nil && !m.job.fetched && !m.job.failed {
			return m, clockTick()
		}
		return m, nil
	case jobStatusMsg:
		return m, m.handleJobStatus(typed)
	case jobResultsMsg:
		return m, m.handleJobResults(typed)
	case jobKilledMsg:
		m.handleJobKilled(typed)
		return m, nil
	case editorClosedMsg:
		m.handleEditorClosed(typed)
		return m, nil
	case browserOpenedMsg:
		m.handleBrowserOpened(typed)
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(typed)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

// isHelpKey matches the help chord. Ctrl+/, Ctrl+_ and Ctrl+7 all arrive
// as 0x1F, which is KeyCtrlUnderscore. Ctrl+? sends DEL and cannot be
// told apart from backspace, so it is not bound.
func isHelpKey(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyCtrlUnderscore
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isHelpKey(msg) {
		m.inputMode = modeHelp
		return m, nil
	}

	switch m.inputMode {
	case modeNormal:
		return m.handleNormalKey(msg)
	case modeEditing:
		return m, m.handleEditingKey(msg)
	case modeSaveSearch:
		return m, m.handleSaveSearchKey(msg)
	case modeConfirmOverwrite:
		m.handleConfirmOverwriteKey(msg)
		return m, nil
	case modeLoadSearch:
		return m, m.handleLoadSearchKey(msg)
	case modeThemeSelect:
		return m, m.handleThemeSelectKey(msg)
	case modeLocalSearch:
		return m, m.handleLocalSearchKey(msg)
	case modeHelp:
		m.handleHelpKey(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "e":
		m.inputMode = modeEditing
		m.editor.clampCaret()
		m.setStatus("Editing... Press Enter to search, Esc to cancel.", statusInfo)
	case "enter":
		return m, m.submitQuery()
	case "tab":
		m.cycleFocus()
	case "t", "ctrl+t":
		m.startThemeSelect()
	case "ctrl+s":
		m.startSaveSearch()
	case "ctrl+l":
		m.startLoadSearch()
	case "ctrl+r":
		m.clearResults()
	case "ctrl+x":
		if m.viewFocus == focusSearch {
			return m, m.openQueryInEditor()
		}
		return m, m.openResultsInEditor()
	case "E":
		return m, m.openJobURL()
	case "x":
		if m.job != nil && (m.job.status == nil || !m.job.status.IsDone) {
			return m, m.killJob()
		}
	// Ctrl+M is CR on the wire and indistinguishable from Enter, so only
	// Ctrl+V toggles the view.
	case "ctrl+v":
		m.toggleViewMode()
	case "/":
		m.startLocalSearch()
	case "n":
		m.nextMatch()
	case "N":
		m.prevMatch()
	case "j", "down":
		m.navigate(1)
	case "k", "up":
		m.navigate(-1)
	case "ctrl+j":
		m.navigateFast(1)
	case "ctrl+k":
		m.navigateFast(-1)
	case "h", "left":
		m.viewFocus = focusList
	case "l", "right":
		if m.viewMode == viewTable {
			m.viewFocus = focusDetail
		}
	}
	return m, nil
}

func (m *Model) cycleFocus() {
	switch m.viewFocus {
	case focusSearch:
		m.viewFocus = focusList
	case focusList:
		if m.viewMode == viewTable {
			m.viewFocus = focusDetail
		} else {
			m.viewFocus = focusSearch
		}
	case focusDetail:
		m.viewFocus = focusSearch
	}
}

func (m *Model) navigate(delta int) {
	if m.viewFocus == focusSearch {
		if delta > 0 {
			m.viewFocus = focusList
		}
		return
	}
	switch m.viewMode {
	case viewRaw:
		m.scrollRaw(delta)
	case viewTable:
		switch m.viewFocus {
		case focusList:
			m.moveSelection(delta)
		case focusDetail:
			m.scrollDetail(delta)
		}
	}
}

func (m *Model) navigateFast(delta int) {
	switch m.viewMode {
	case viewRaw:
		m.scrollRaw(delta * fastScrollStep)
	case viewTable:
		switch m.viewFocus {
		case focusDetail:
			m.scrollDetail(delta * fastScrollStep)
		default:
			m.moveSelection(delta * fastScrollStep)
		}
	}
}

func (m *Model) handleEditingKey(msg tea.KeyMsg) tea.Cmd {
	defer func() {
		rows, cols := m.editorViewSize()
		m.editor.follow(rows, cols)
	}()

	if msg.String() == "ctrl+v" {
		if m.editorMode == editorStandard {
			m.editorMode = editorVimNormal
			m.setStatus("Switched to Vim Mode.", statusInfo)
		} else {
			m.editorMode = editorStandard
			m.setStatus("Switched to Standard Mode.", statusInfo)
		}
		return nil
	}

	switch m.editorMode {
	case editorStandard:
		return m.handleStandardKey(msg)
	case editorVimNormal:
		return m.handleVimNormalKey(msg)
	case editorVimInsert:
		return m.handleVimInsertKey(msg)
	}
	return nil
}

func (m *Model) handleStandardKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "shift+enter", "ctrl+j":
		m.editor.insertRune('\n')
	case "enter":
		m.inputMode = modeNormal
		return m.submitQuery()
	case "ctrl+x":
		return m.openQueryInEditor()
	case "backspace":
		m.editor.backspace()
	case "left":
		m.editor.moveLeft()
	case "right":
		m.editor.moveRight()
	case "up":
		m.editor.moveUp()
	case "down":
		m.editor.moveDown()
	case "esc":
		m.inputMode = modeNormal
		m.setStatus("Search cancelled.", statusInfo)
	default:
		m.insertPrintable(msg)
	}
	return nil
}

func (m *Model) handleVimNormalKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "i":
		m.editorMode = editorVimInsert
		m.setStatus("-- INSERT --", statusInfo)
	case "h", "left":
		m.editor.moveLeft()
	case "l", "right":
		m.editor.moveRight()
	case "k", "up":
		m.editor.moveUp()
	case "j", "down":
		m.editor.moveDown()
	case "x":
		m.editor.deleteForward()
	case "enter":
		m.inputMode = modeNormal
		return m.submitQuery()
	case "esc":
		m.inputMode = modeNormal
		m.setStatus("Search cancelled.", statusInfo)
	}
	return nil
}

func (m *Model) handleVimInsertKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.editorMode = editorVimNormal
		m.editor.moveLeft()
		m.setStatus("-- NORMAL --", statusInfo)
	case "shift+enter", "ctrl+j":
		m.editor.insertRune('\n')
	case "enter":
		m.inputMode = modeNormal
		return m.submitQuery()
	case "backspace":
		m.editor.backspace()
	default:
		m.insertPrintable(msg)
	}
	return nil
}

func (m *Model) insertPrintable(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeySpace:
		m.editor.insertRune(' ')
	case tea.KeyRunes:
		if msg.Alt {
			return
		}
		for _, r := range msg.Runes {
			if !unicode.IsControl(r) {
				m.editor.insertRune(r)
			}
		}
	}
}
