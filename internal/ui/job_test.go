package ui

import (
	"testing"

	"github.com/spelunkhq/spelunk/internal/splunk"
)

func newTestModel() Model {
	m := New(Config{})
	m.width = 120
	m.height = 40
	m.ready = true
	m.applyLayout()
	return m
}

func TestSubmitEmptyQueryCreatesNoJob(t *testing.T) {
	m := newTestModel()
	m.editor.setText("   \n\t ")
	cmd := m.submitQuery()
	if cmd != nil {
		t.Fatalf("expected no command for empty query")
	}
	if m.job != nil || m.submitting {
		t.Fatalf("no job should exist after empty submit")
	}
}

func TestSubmitClearsPriorState(t *testing.T) {
	m := newTestModel()
	m.results = []splunk.Event{{"_raw": "old"}}
	m.selection = 0
	m.scrollOffset = 7
	m.filter = localFilter{pattern: "old", matches: []int{0}, cursor: 0}
	m.job = &jobState{sid: "old-sid"}

	m.editor.setText("index=main")
	cmd := m.submitQuery()
	if cmd == nil {
		t.Fatalf("expected a create command")
	}
	if !m.submitting {
		t.Fatalf("submitting flag not set")
	}
	if m.job != nil {
		t.Fatalf("prior job not forgotten")
	}
	if len(m.results) != 0 || m.selection != -1 || m.scrollOffset != 0 {
		t.Fatalf("prior results state not cleared")
	}
	if len(m.filter.matches) != 0 || m.filter.pattern != "" {
		t.Fatalf("local filter not cleared")
	}
}

func TestStaleJobCreatedDropped(t *testing.T) {
	m := newTestModel()
	m.submitSeq = 3
	cmd := m.handleJobCreated(jobCreatedMsg{seq: 2, sid: "stale"})
	if cmd != nil || m.job != nil {
		t.Fatalf("stale creation should be dropped")
	}
}

func TestJobCreatedStartsPolling(t *testing.T) {
	m := newTestModel()
	m.submitSeq = 1
	m.submitting = true
	cmd := m.handleJobCreated(jobCreatedMsg{seq: 1, sid: "sid-1"})
	if cmd == nil {
		t.Fatalf("expected a poll tick command")
	}
	if m.job == nil || m.job.sid != "sid-1" {
		t.Fatalf("job not recorded")
	}
	if m.job.delay != pollInitialDelay {
		t.Fatalf("delay = %v, want %v", m.job.delay, pollInitialDelay)
	}
	if m.submitting {
		t.Fatalf("submitting flag not cleared")
	}
}

func TestPollTickGatedWhileFetching(t *testing.T) {
	m := newTestModel()
	m.job = &jobState{sid: "sid-1", fetching: true, delay: pollInitialDelay}
	if cmd := m.handlePollTick(pollTickMsg{sid: "sid-1"}); cmd != nil {
		t.Fatalf("second poll spawned while one is in flight")
	}
}

func TestPollTickStaleSidIgnored(t *testing.T) {
	m := newTestModel()
	m.job = &jobState{sid: "current", delay: pollInitialDelay}
	if cmd := m.handlePollTick(pollTickMsg{sid: "previous"}); cmd != nil {
		t.Fatalf("tick for an abandoned job should not poll")
	}
	if m.job.fetching {
		t.Fatalf("fetching flag set by stale tick")
	}
}

func TestStatusNotDoneBacksOff(t *testing.T) {
	m := newTestModel()
	m.job = &jobState{sid: "sid-1", fetching: true, delay: pollInitialDelay}
	cmd := m.handleJobStatus(jobStatusMsg{
		sid:    "sid-1",
		status: &splunk.JobStatus{IsDone: false, DispatchState: "PARSING"},
	})
	if cmd == nil {
		t.Fatalf("expected a rescheduled poll")
	}
	if m.job.fetching {
		t.Fatalf("fetching must clear when job is not done")
	}
	if m.job.delay != 2*pollInitialDelay {
		t.Fatalf("delay = %v, want %v", m.job.delay, 2*pollInitialDelay)
	}
	if m.job.status == nil || m.job.status.DispatchState != "PARSING" {
		t.Fatalf("status not stored")
	}
}

func TestBackoffCapped(t *testing.T) {
	d := pollInitialDelay
	for i := 0; i < 10; i++ {
		d = nextDelay(d)
	}
	if d != pollMaxDelay {
		t.Fatalf("delay = %v, want cap %v", d, pollMaxDelay)
	}
}

func TestStatusDoneTriggersFetch(t *testing.T) {
	m := newTestModel()
	m.job = &jobState{sid: "sid-1", fetching: true, delay: pollInitialDelay}
	cmd := m.handleJobStatus(jobStatusMsg{
		sid:    "sid-1",
		status: &splunk.JobStatus{IsDone: true, ResultCount: 3},
	})
	if cmd == nil {
		t.Fatalf("expected a fetch command")
	}
	if !m.job.fetching {
		t.Fatalf("fetching must stay set while the fetch is in flight")
	}
}

func TestResultsStored(t *testing.T) {
	m := newTestModel()
	m.viewMode = viewTable
	m.job = &jobState{sid: "sid-1", fetching: true}
	cmd := m.handleJobResults(jobResultsMsg{
		sid:    "sid-1",
		events: []splunk.Event{{"_raw": "a"}, {"_raw": "b"}, {"_raw": "c"}},
	})
	if cmd != nil {
		t.Fatalf("no follow-up command expected")
	}
	if len(m.results) != 3 || !m.job.fetched || m.job.fetching {
		t.Fatalf("results not recorded: len=%d fetched=%v fetching=%v", len(m.results), m.job.fetched, m.job.fetching)
	}
	if m.selection != 0 {
		t.Fatalf("selection = %d, want 0", m.selection)
	}
	if m.status.text != "Loaded 3 results." {
		t.Fatalf("status = %q", m.status.text)
	}
	if cmd := m.handlePollTick(pollTickMsg{sid: "sid-1"}); cmd != nil {
		t.Fatalf("polling must stop once results are fetched")
	}
}

func TestFetchErrorTerminatesJob(t *testing.T) {
	m := newTestModel()
	m.job = &jobState{sid: "sid-1", fetching: true}
	m.handleJobResults(jobResultsMsg{sid: "sid-1", err: errFake})
	if !m.job.failed || m.job.fetching {
		t.Fatalf("fetch error should fail the job and clear fetching")
	}
	if cmd := m.handlePollTick(pollTickMsg{sid: "sid-1"}); cmd != nil {
		t.Fatalf("failed job must not be polled again")
	}
	if m.status.level != statusError {
		t.Fatalf("status level = %v, want error", m.status.level)
	}
}

func TestStaleResultsDropped(t *testing.T) {
	m := newTestModel()
	m.job = &jobState{sid: "new-sid", fetching: true}
	m.handleJobResults(jobResultsMsg{sid: "old-sid", events: []splunk.Event{{"_raw": "stale"}}})
	if len(m.results) != 0 {
		t.Fatalf("stale results must not overwrite state")
	}
	if !m.job.fetching {
		t.Fatalf("stale message must not touch the current job")
	}
}

func TestStatusPollErrorRetries(t *testing.T) {
	m := newTestModel()
	m.job = &jobState{sid: "sid-1", fetching: true, delay: pollInitialDelay}
	cmd := m.handleJobStatus(jobStatusMsg{sid: "sid-1", err: errFake})
	if cmd == nil {
		t.Fatalf("status errors should reschedule the poll")
	}
	if m.job.fetching {
		t.Fatalf("fetching not cleared on poll error")
	}
}

func TestClearResults(t *testing.T) {
	m := newTestModel()
	m.results = []splunk.Event{{"_raw": "x"}}
	m.job = &jobState{sid: "sid-1", fetched: true}
	m.selection = 0
	m.scrollOffset = 5
	m.clearResults()
	if len(m.results) != 0 || m.job != nil || m.scrollOffset != 0 || m.selection != -1 {
		t.Fatalf("clearResults left state behind")
	}
}

type fakeErr string

func (f fakeErr) Error() string { return string(f) }

var errFake = fakeErr("boom")
