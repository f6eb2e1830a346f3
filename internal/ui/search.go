package ui

import (
	"fmt"
	"regexp"
	"strings"
)

// runLocalFilter compiles the entered pattern case-insensitively and
// collects the indices of events whose _raw matches. The backend is not
// re-queried.
func (m *Model) runLocalFilter(pattern string) {
	if strings.TrimSpace(pattern) == "" {
		return
	}
	m.filter = localFilter{pattern: pattern, cursor: -1}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		m.setStatus("Invalid Regex: "+err.Error(), statusError)
		return
	}

	for i, ev := range m.results {
		if re.MatchString(ev.Raw()) {
			m.filter.matches = append(m.filter.matches, i)
		}
	}

	if len(m.filter.matches) == 0 {
		m.setStatus(fmt.Sprintf("No matches found for %q", pattern), statusWarn)
		return
	}
	m.filter.cursor = 0
	m.jumpToMatch(0)
	m.setStatus(fmt.Sprintf("Found %d matches. (1/%d)", len(m.filter.matches), len(m.filter.matches)), statusSuccess)
}

func (m *Model) nextMatch() {
	if m.filter.cursor < 0 || len(m.filter.matches) == 0 {
		return
	}
	next := m.filter.cursor + 1
	if next >= len(m.filter.matches) {
		next = 0
	}
	m.filter.cursor = next
	m.jumpToMatch(next)
	m.setStatus(fmt.Sprintf("Match %d/%d", next+1, len(m.filter.matches)), statusInfo)
}

func (m *Model) prevMatch() {
	if m.filter.cursor < 0 || len(m.filter.matches) == 0 {
		return
	}
	prev := m.filter.cursor - 1
	if prev < 0 {
		prev = len(m.filter.matches) - 1
	}
	m.filter.cursor = prev
	m.jumpToMatch(prev)
	m.setStatus(fmt.Sprintf("Match %d/%d", prev+1, len(m.filter.matches)), statusInfo)
}

func (m *Model) jumpToMatch(idx int) {
	if idx < 0 || idx >= len(m.filter.matches) {
		return
	}
	row := m.filter.matches[idx]
	switch m.viewMode {
	case viewRaw:
		m.scrollOffset = row
	case viewTable:
		m.selection = row
		m.detailScroll = 0
		m.refreshDetail()
	}
}
