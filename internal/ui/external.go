package ui

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
)

const (
	queryScratchFile   = "spelunk_query.spl"
	resultsScratchFile = "spelunk_results.json"
)

// openQueryInEditor writes the query buffer to a scratch file and
// suspends the UI while $EDITOR runs. The buffer is reloaded from disk
// when the editor exits.
func (m *Model) openQueryInEditor() tea.Cmd {
	path := filepath.Join(os.TempDir(), queryScratchFile)
	if err := os.WriteFile(path, []byte(m.editor.text), 0o600); err != nil {
		m.setStatus("Failed to write query file: "+err.Error(), statusError)
		return nil
	}
	m.setStatus("Editing query in external editor...", statusInfo)
	return runEditor(path, true)
}

func (m *Model) openResultsInEditor() tea.Cmd {
	if len(m.results) == 0 {
		m.setStatus("No results to open.", statusWarn)
		return nil
	}
	data, err := json.MarshalIndent(m.results, "", "  ")
	if err != nil {
		m.setStatus("Failed to encode results: "+err.Error(), statusError)
		return nil
	}
	path := filepath.Join(os.TempDir(), resultsScratchFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		m.setStatus("Failed to write results file: "+err.Error(), statusError)
		return nil
	}
	m.setStatus("Saved to "+path+". Opening...", statusInfo)
	return runEditor(path, false)
}

func runEditor(path string, queryFile bool) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, path)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorClosedMsg{path: path, queryFile: queryFile, err: err}
	})
}

func (m *Model) handleEditorClosed(msg editorClosedMsg) {
	if msg.err != nil {
		m.setStatus("Editor failed: "+msg.err.Error(), statusError)
		return
	}
	if !msg.queryFile {
		m.setStatus("Editor closed.", statusInfo)
		return
	}
	content, err := os.ReadFile(msg.path)
	if err != nil {
		m.setStatus("Failed to reload query: "+err.Error(), statusError)
		return
	}
	m.editor.setText(string(content))
	m.setStatus("Query updated from editor.", statusSuccess)
}

// openJobURL opens the backend web view for the active job.
func (m *Model) openJobURL() tea.Cmd {
	if m.job == nil {
		m.setStatus("No active job URL.", statusWarn)
		return nil
	}
	url := m.client.WebURL(m.job.sid)
	return func() tea.Msg {
		return browserOpenedMsg{err: browser.OpenURL(url)}
	}
}

func (m *Model) handleBrowserOpened(msg browserOpenedMsg) {
	if msg.err != nil {
		m.setStatus("Failed to open browser: "+msg.err.Error(), statusError)
		return
	}
	m.setStatus("Opened URL in browser.", statusSuccess)
}
