package ui

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/quick"
	"gopkg.in/yaml.v3"

	"github.com/spelunkhq/spelunk/internal/splunk"
)

type fieldPair struct {
	key   string
	value string
}

// visibleFields flattens an event for the raw view: internal fields are
// hidden except _time and _raw, keys come out in sorted order.
func visibleFields(ev splunk.Event) []fieldPair {
	keys := make([]string, 0, len(ev))
	for k := range ev {
		if strings.HasPrefix(k, "_") && k != "_time" && k != "_raw" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]fieldPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fieldPair{key: k, value: fieldValue(ev[k])})
	}
	return pairs
}

func fieldValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// recursiveParse re-parses any string value that is itself valid JSON,
// recursively, so nested payloads unfold in the detail pane.
func recursiveParse(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, val := range typed {
			out[k] = recursiveParse(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = recursiveParse(val)
		}
		return out
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(typed), &parsed); err == nil {
			switch parsed.(type) {
			case map[string]any, []any:
				return recursiveParse(parsed)
			}
		}
		return typed
	default:
		return v
	}
}

func (m *Model) invalidateDetail() {
	m.detailCache = ""
	m.detailCacheFor = -1
}

// refreshDetail rebuilds the highlighted YAML for the selected event.
// The result is cached until the selection or theme changes.
func (m *Model) refreshDetail() {
	if m.viewMode != viewTable {
		return
	}
	if m.selection < 0 || m.selection >= len(m.results) {
		m.detailCache = "Select an event..."
		m.detailCacheFor = -1
		return
	}
	if m.detailCacheFor == m.selection {
		return
	}
	m.detailCache = renderDetail(m.results[m.selection], m.theme.Chroma)
	m.detailCacheFor = m.selection
}

func renderDetail(ev splunk.Event, chromaStyle string) string {
	parsed := recursiveParse(map[string]any(ev))
	data, err := yaml.Marshal(parsed)
	if err != nil {
		return "Error converting to YAML: " + err.Error()
	}

	var buf strings.Builder
	if err := quick.Highlight(&buf, string(data), "yaml", "terminal16m", chromaStyle); err != nil {
		return string(data)
	}
	return buf.String()
}

func (m *Model) moveSelection(delta int) {
	if len(m.results) == 0 {
		return
	}
	next := m.selection
	if next < 0 {
		next = 0
	} else {
		next += delta
	}
	next = maxInt(0, minInt(next, len(m.results)-1))
	if next != m.selection {
		m.selection = next
		m.detailScroll = 0
		m.refreshDetail()
	}
}

func (m *Model) scrollRaw(delta int) {
	if len(m.results) == 0 {
		return
	}
	m.scrollOffset = maxInt(0, m.scrollOffset+delta)
}

func (m *Model) scrollDetail(delta int) {
	m.detailScroll = maxInt(0, m.detailScroll+delta)
}

// toggleViewMode flips between the raw and table renderings, carrying
// the focused event across: raw scroll offset becomes the table
// selection and back again.
func (m *Model) toggleViewMode() {
	switch m.viewMode {
	case viewRaw:
		m.viewMode = viewTable
		if len(m.results) > 0 {
			m.selection = minInt(m.scrollOffset, len(m.results)-1)
		} else {
			m.selection = -1
		}
		m.detailScroll = 0
		m.invalidateDetail()
		m.refreshDetail()
		m.setStatus("Switched to Table mode.", statusInfo)
	case viewTable:
		m.viewMode = viewRaw
		if m.selection >= 0 {
			m.scrollOffset = m.selection
		}
		m.setStatus("Switched to Raw mode.", statusInfo)
	}
	m.applyLayout()
}
