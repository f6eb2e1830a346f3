package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spelunkhq/spelunk/internal/searches"
	"github.com/spelunkhq/spelunk/internal/theme"
)

func newStoreModel(t *testing.T) (Model, string) {
	t.Helper()
	dir := t.TempDir()
	m := New(Config{Store: searches.NewStore(dir), Theme: theme.Default()})
	m.width = 120
	m.height = 40
	m.ready = true
	m.applyLayout()
	return m, dir
}

func TestSaveSearchWritesFile(t *testing.T) {
	m, dir := newStoreModel(t)
	m.editor.setText("index=main error")

	m.startSaveSearch()
	if m.inputMode != modeSaveSearch {
		t.Fatalf("expected save overlay, mode=%v", m.inputMode)
	}
	for _, r := range "prod errors" {
		m.handleSaveSearchKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.handleSaveSearchKey(tea.KeyMsg{Type: tea.KeyEnter})

	if m.inputMode != modeNormal {
		t.Fatalf("save should return to normal mode")
	}
	if m.savedName != "prod errors" {
		t.Fatalf("savedName = %q", m.savedName)
	}
	data, err := os.ReadFile(filepath.Join(dir, "prod errors.spl"))
	if err != nil {
		t.Fatalf("saved file: %v", err)
	}
	if string(data) != "index=main error" {
		t.Fatalf("saved content = %q", data)
	}
}

func TestSaveWithActiveNameAsksForConfirmation(t *testing.T) {
	m, dir := newStoreModel(t)
	m.editor.setText("index=main")
	m.savedName = "x"

	m.startSaveSearch()
	if m.inputMode != modeConfirmOverwrite {
		t.Fatalf("expected overwrite confirmation, mode=%v", m.inputMode)
	}

	m.handleConfirmOverwriteKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if m.inputMode != modeNormal {
		t.Fatalf("'y' should save and close the overlay")
	}
	data, err := os.ReadFile(filepath.Join(dir, "x.spl"))
	if err != nil {
		t.Fatalf("saved file: %v", err)
	}
	if string(data) != "index=main" {
		t.Fatalf("saved content = %q", data)
	}
}

func TestConfirmOverwriteRename(t *testing.T) {
	m, _ := newStoreModel(t)
	m.editor.setText("index=main")
	m.savedName = "old name"
	m.inputMode = modeConfirmOverwrite

	m.handleConfirmOverwriteKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.inputMode != modeSaveSearch {
		t.Fatalf("'r' should transition to the save prompt")
	}
	if m.saveInput.Value() != "old name" {
		t.Fatalf("save prompt not preloaded: %q", m.saveInput.Value())
	}
}

func TestConfirmOverwriteCancel(t *testing.T) {
	m, _ := newStoreModel(t)
	m.savedName = "x"
	m.inputMode = modeConfirmOverwrite
	m.handleConfirmOverwriteKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.inputMode != modeNormal {
		t.Fatalf("esc should cancel the overwrite")
	}
}

func TestLoadSearchRoundTrip(t *testing.T) {
	m, _ := newStoreModel(t)
	query := "index=web status=500\n| stats count"
	if err := m.store.Save("errors", query); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m.startLoadSearch()
	if m.inputMode != modeLoadSearch {
		t.Fatalf("expected load overlay, mode=%v", m.inputMode)
	}
	m.loadSelected()

	if m.editor.text != query {
		t.Fatalf("loaded query = %q", m.editor.text)
	}
	if m.editor.caret != len(query) {
		t.Fatalf("caret = %d, want end of buffer", m.editor.caret)
	}
	if m.savedName != "errors" {
		t.Fatalf("savedName = %q", m.savedName)
	}
	if m.inputMode != modeNormal {
		t.Fatalf("load should return to normal mode")
	}
}

func TestLoadWithNoSavedSearchesStaysInNormal(t *testing.T) {
	m, _ := newStoreModel(t)
	m.startLoadSearch()
	if m.inputMode != modeNormal {
		t.Fatalf("empty store should not open the load overlay")
	}
}

func TestSaveEmptyQueryRejected(t *testing.T) {
	m, _ := newStoreModel(t)
	m.editor.setText("   ")
	m.startSaveSearch()
	if m.inputMode != modeNormal {
		t.Fatalf("empty query must not open the save overlay")
	}
	if m.status.level != statusWarn {
		t.Fatalf("expected a warning status")
	}
}

func TestApplyThemeRebuildsDetailAndPersists(t *testing.T) {
	persisted := ""
	m, _ := newStoreModel(t)
	m.cfg.SaveTheme = func(name string) error {
		persisted = name
		return nil
	}
	m.viewMode = viewTable
	m.results = threeEvents()
	m.selection = 0
	m.refreshDetail()

	m.applyTheme("Neon")
	if m.theme.Name != "Neon" || m.theme.Chroma != "vim" {
		t.Fatalf("theme not applied: %+v", m.theme.Name)
	}
	if persisted != "Neon" {
		t.Fatalf("theme not persisted, got %q", persisted)
	}
	if m.detailCacheFor != 0 {
		t.Fatalf("detail cache not rebuilt for the current selection")
	}
}
