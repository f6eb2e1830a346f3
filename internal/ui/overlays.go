package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spelunkhq/spelunk/internal/errdef"
	"github.com/spelunkhq/spelunk/internal/theme"
)

func (m *Model) closeOverlay(status string) {
	m.inputMode = modeNormal
	m.saveInput.Blur()
	m.filterInput.Blur()
	if status != "" {
		m.setStatus(status, statusInfo)
	}
}

func (m *Model) startSaveSearch() {
	if strings.TrimSpace(m.editor.text) == "" {
		m.setStatus("Cannot save an empty search.", statusWarn)
		return
	}
	if m.savedName != "" {
		m.inputMode = modeConfirmOverwrite
		m.setStatus("Overwrite saved search '"+m.savedName+"'? (y/n/r)", statusWarn)
		return
	}
	m.inputMode = modeSaveSearch
	m.saveInput.SetValue("")
	m.saveInput.Focus()
	m.setStatus("Enter name for saved search (Enter to save, Esc to cancel).", statusInfo)
}

func (m *Model) saveNamed(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		m.setStatus("Name cannot be empty.", statusWarn)
		return
	}
	if err := m.store.Save(name, m.editor.text); err != nil {
		m.setStatus("Failed to save search: "+errdef.Message(err), statusError)
		return
	}
	m.savedName = name
	m.closeOverlay("")
	m.setStatus("Search saved as '"+name+"'.", statusSuccess)
}

func (m *Model) startLoadSearch() {
	names, err := m.store.List()
	if err != nil {
		m.setStatus("Failed to list saved searches: "+errdef.Message(err), statusError)
		return
	}
	if len(names) == 0 {
		m.setStatus("No saved searches found.", statusInfo)
		return
	}
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, nameItem(name))
	}
	m.loadList.SetItems(items)
	m.loadList.Select(0)
	m.loadList.SetSize(overlayListWidth(m.width), overlayListHeight(m.height, len(items)))
	m.inputMode = modeLoadSearch
	m.setStatus("Select saved search (Enter to load, Esc to cancel).", statusInfo)
}

func (m *Model) loadSelected() {
	item, ok := m.loadList.SelectedItem().(nameItem)
	if !ok {
		return
	}
	name := string(item)
	query, err := m.store.Load(name)
	if err != nil {
		m.setStatus("Failed to load search: "+errdef.Message(err), statusError)
		return
	}
	m.editor.setText(query)
	m.savedName = name
	m.closeOverlay("")
	m.setStatus("Loaded search '"+name+"'.", statusSuccess)
}

func (m *Model) startThemeSelect() {
	m.themeList.Select(0)
	m.themeList.SetSize(overlayListWidth(m.width), overlayListHeight(m.height, len(theme.Names())))
	m.inputMode = modeThemeSelect
	m.setStatus("Select theme (Up/Down/Enter), Esc to cancel.", statusInfo)
}

// applyTheme is the single switch point for both the palette and the
// syntax-highlight style, so the detail cache is rebuilt here too.
func (m *Model) applyTheme(name string) {
	m.theme = theme.ByName(name)
	m.invalidateDetail()
	m.refreshDetail()
	if m.cfg.SaveTheme != nil {
		if err := m.cfg.SaveTheme(name); err != nil {
			m.setStatus("Theme applied but not persisted: "+errdef.Message(err), statusWarn)
			return
		}
	}
	m.setStatus("Theme '"+name+"' applied.", statusSuccess)
}

func (m *Model) startLocalSearch() {
	m.inputMode = modeLocalSearch
	m.filterInput.SetValue("")
	m.filterInput.Focus()
	m.setStatus("Enter regex search query...", statusInfo)
}

func (m *Model) handleSaveSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeOverlay("Save cancelled.")
		return nil
	case "enter":
		m.saveNamed(m.saveInput.Value())
		return nil
	}
	var cmd tea.Cmd
	m.saveInput, cmd = m.saveInput.Update(msg)
	return cmd
}

func (m *Model) handleConfirmOverwriteKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "Y":
		m.saveNamed(m.savedName)
	case "n", "N", "esc":
		m.closeOverlay("Save cancelled.")
	case "r", "R":
		m.inputMode = modeSaveSearch
		m.saveInput.SetValue(m.savedName)
		m.saveInput.CursorEnd()
		m.saveInput.Focus()
		m.setStatus("Enter name for saved search.", statusInfo)
	}
}

func (m *Model) handleLoadSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeOverlay("Load cancelled.")
		return nil
	case "enter":
		m.loadSelected()
		return nil
	}
	var cmd tea.Cmd
	m.loadList, cmd = m.loadList.Update(msg)
	return cmd
}

func (m *Model) handleThemeSelectKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeOverlay("Theme selection cancelled.")
		return nil
	case "enter":
		if item, ok := m.themeList.SelectedItem().(nameItem); ok {
			m.applyTheme(string(item))
		}
		m.inputMode = modeNormal
		return nil
	}
	var cmd tea.Cmd
	m.themeList, cmd = m.themeList.Update(msg)
	return cmd
}

func (m *Model) handleLocalSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeOverlay("Local search cancelled.")
		return nil
	case "enter":
		pattern := m.filterInput.Value()
		m.closeOverlay("")
		m.runLocalFilter(pattern)
		return nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return cmd
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.inputMode = modeNormal
	}
}

func overlayListWidth(width int) int {
	w := width * 6 / 10
	if w < 24 {
		w = 24
	}
	return w
}

func overlayListHeight(height, items int) int {
	h := minInt(items+2, height*4/10)
	if h < 4 {
		h = 4
	}
	return h
}
