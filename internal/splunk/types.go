package splunk

import (
	"encoding/json"
	"strings"
	"time"
)

// JobStatus is entry[0].content of the job status response.
type JobStatus struct {
	IsDone        bool              `json:"isDone"`
	DispatchState string            `json:"dispatchState"`
	ResultCount   uint64            `json:"resultCount"`
	RunDuration   float64           `json:"runDuration"`
	ScanCount     uint64            `json:"scanCount"`
	EventCount    uint64            `json:"eventCount"`
	DoneProgress  *float64          `json:"doneProgress"`
	Messages      []json.RawMessage `json:"messages"`
}

// Event is one result record: a dynamic field map. Splunk extracts
// arbitrary fields per sourcetype, so there is no fixed schema beyond the
// underscore-prefixed internals.
type Event map[string]any

func (e Event) Str(key string) string {
	if v, ok := e[key].(string); ok {
		return v
	}
	return ""
}

func (e Event) Raw() string {
	return e.Str("_raw")
}

// Message is the first line of _raw, used as the table row summary.
func (e Event) Message() string {
	raw := e.Raw()
	if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

func (e Event) Sourcetype() string {
	return e.Str("sourcetype")
}

// Time parses _time as RFC 3339, returning ok=false when absent or
// malformed.
func (e Event) Time() (time.Time, bool) {
	raw := e.Str("_time")
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
