package ui

import (
	"strings"
	"testing"

	"github.com/spelunkhq/spelunk/internal/splunk"
)

func TestVisibleFieldsSkipsInternalKeys(t *testing.T) {
	ev := splunk.Event{
		"_time":       "2026-01-02T03:04:05Z",
		"_raw":        "payload",
		"_serial":     "0",
		"_sourcetype": "x",
		"host":        "web-1",
	}
	pairs := visibleFields(ev)
	want := []string{"_raw", "_time", "host"}
	if len(pairs) != len(want) {
		t.Fatalf("got %d fields, want %d", len(pairs), len(want))
	}
	for i, pair := range pairs {
		if pair.key != want[i] {
			t.Fatalf("field %d = %q, want %q", i, pair.key, want[i])
		}
	}
}

func TestFieldValueMarshalsNonStrings(t *testing.T) {
	ev := splunk.Event{"count": float64(3), "tags": []any{"a", "b"}}
	pairs := visibleFields(ev)
	byKey := map[string]string{}
	for _, p := range pairs {
		byKey[p.key] = p.value
	}
	if byKey["count"] != "3" {
		t.Fatalf("count = %q", byKey["count"])
	}
	if byKey["tags"] != `["a","b"]` {
		t.Fatalf("tags = %q", byKey["tags"])
	}
}

func TestRecursiveParseUnfoldsNestedJSON(t *testing.T) {
	in := map[string]any{
		"plain":   "hello",
		"payload": `{"inner":"{\"deep\":1}"}`,
	}
	out, ok := recursiveParse(in).(map[string]any)
	if !ok {
		t.Fatalf("expected a map")
	}
	if out["plain"] != "hello" {
		t.Fatalf("plain string mangled: %v", out["plain"])
	}
	payload, ok := out["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload not re-parsed: %T", out["payload"])
	}
	inner, ok := payload["inner"].(map[string]any)
	if !ok {
		t.Fatalf("nested string JSON not re-parsed: %T", payload["inner"])
	}
	if inner["deep"] != float64(1) {
		t.Fatalf("deep = %v", inner["deep"])
	}
}

func TestRecursiveParseLeavesScalarsAlone(t *testing.T) {
	// "42" parses as a JSON number but should stay a string field.
	out := recursiveParse("42")
	if out != "42" {
		t.Fatalf("scalar string re-parsed: %v", out)
	}
}

func TestRenderDetailProducesYAML(t *testing.T) {
	got := renderDetail(splunk.Event{"key": "value"}, "monokai")
	if !strings.Contains(got, "key") || !strings.Contains(got, "value") {
		t.Fatalf("detail missing content: %q", got)
	}
}

func TestToggleViewModePreservesFocusedEvent(t *testing.T) {
	m := newTestModel()
	m.viewMode = viewRaw
	m.results = threeEvents()
	m.scrollOffset = 2

	m.toggleViewMode()
	if m.viewMode != viewTable || m.selection != 2 {
		t.Fatalf("raw->table: mode=%v selection=%d", m.viewMode, m.selection)
	}

	m.toggleViewMode()
	if m.viewMode != viewRaw || m.scrollOffset != 2 {
		t.Fatalf("table->raw: mode=%v scroll=%d", m.viewMode, m.scrollOffset)
	}
}

func TestToggleViewModeClampsSelection(t *testing.T) {
	m := newTestModel()
	m.viewMode = viewRaw
	m.results = threeEvents()
	m.scrollOffset = 99
	m.toggleViewMode()
	if m.selection != 2 {
		t.Fatalf("selection = %d, want clamp to 2", m.selection)
	}
}

func TestSelectionStaysInRange(t *testing.T) {
	m := newTestModel()
	m.viewMode = viewTable
	m.results = threeEvents()
	m.selection = 0
	m.moveSelection(50)
	if m.selection != 2 {
		t.Fatalf("selection = %d, want 2", m.selection)
	}
	m.moveSelection(-50)
	if m.selection != 0 {
		t.Fatalf("selection = %d, want 0", m.selection)
	}
}

func TestDetailCacheInvalidation(t *testing.T) {
	m := newTestModel()
	m.viewMode = viewTable
	m.results = threeEvents()
	m.selection = 0
	m.refreshDetail()
	if m.detailCacheFor != 0 || m.detailCache == "" {
		t.Fatalf("detail cache not built")
	}
	first := m.detailCache

	m.moveSelection(1)
	if m.detailCacheFor != 1 {
		t.Fatalf("cache not refreshed on selection change")
	}
	if m.detailCache == first {
		t.Fatalf("cache content unchanged for a different event")
	}
}
