package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spelunkhq/spelunk/internal/errdef"
	"github.com/spelunkhq/spelunk/internal/splunk"
)

// submitQuery starts a new search job. Any previous job is forgotten;
// a late reply from it is dropped by the sequence/sid guards.
func (m *Model) submitQuery() tea.Cmd {
	trimmed := strings.TrimSpace(m.editor.text)
	if trimmed == "" {
		m.setStatus("Cannot run an empty search.", statusWarn)
		return nil
	}

	query := splunk.FormatQuery(m.editor.text)
	m.submitSeq++
	m.submitting = true
	m.job = nil
	m.results = nil
	m.selection = -1
	m.scrollOffset = 0
	m.detailScroll = 0
	m.filter = localFilter{}
	m.invalidateDetail()
	m.setStatus(fmt.Sprintf("Creating search job for %q...", trimmed), statusInfo)
	m.logger.Info("starting search", zap.String("query", query))

	seq := m.submitSeq
	client := m.client
	return func() tea.Msg {
		sid, err := client.CreateSearch(context.Background(), query)
		return jobCreatedMsg{seq: seq, sid: sid, query: query, err: err}
	}
}

func (m *Model) handleJobCreated(msg jobCreatedMsg) tea.Cmd {
	if msg.seq != m.submitSeq {
		return nil
	}
	m.submitting = false
	if msg.err != nil {
		m.logger.Error("search creation failed", zap.Error(msg.err))
		m.setStatus("Search failed: "+errdef.Message(msg.err), statusError)
		return nil
	}
	m.logger.Info("job created", zap.String("sid", msg.sid))
	m.job = &jobState{
		sid:       msg.sid,
		createdAt: time.Now(),
		delay:     pollInitialDelay,
	}
	m.setStatus(fmt.Sprintf("Job created (SID: %s). Running...", msg.sid), statusInfo)
	return tea.Batch(pollTick(msg.sid, m.job.delay), clockTick())
}

func clockTick() tea.Cmd {
	return tea.Tick(clockTickInterval, func(time.Time) tea.Msg {
		return clockTickMsg{}
	})
}

func pollTick(sid string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return pollTickMsg{sid: sid}
	})
}

func (m *Model) handlePollTick(msg pollTickMsg) tea.Cmd {
	job := m.job
	if job == nil || job.sid != msg.sid || job.fetched || job.fetching || job.failed {
		return nil
	}
	job.fetching = true

	sid := job.sid
	client := m.client
	return func() tea.Msg {
		status, err := client.JobStatus(context.Background(), sid)
		return jobStatusMsg{sid: sid, status: status, err: err}
	}
}

func (m *Model) handleJobStatus(msg jobStatusMsg) tea.Cmd {
	job := m.job
	if job == nil || job.sid != msg.sid {
		return nil
	}
	if msg.err != nil {
		// Status poll errors are transient; back off and retry.
		m.logger.Error("status poll failed", zap.String("sid", msg.sid), zap.Error(msg.err))
		job.fetching = false
		job.delay = nextDelay(job.delay)
		return pollTick(job.sid, job.delay)
	}

	job.status = msg.status
	if !msg.status.IsDone {
		job.fetching = false
		job.delay = nextDelay(job.delay)
		m.setStatus("Job running... Dispatched: "+msg.status.DispatchState, statusInfo)
		return pollTick(job.sid, job.delay)
	}

	// Done: keep fetching set so no second task can start while the
	// results request is in flight.
	m.setStatus("Job done. Fetching results...", statusInfo)
	sid := job.sid
	client := m.client
	return func() tea.Msg {
		events, err := client.Results(context.Background(), sid, resultPageSize, 0)
		return jobResultsMsg{sid: sid, events: events, err: err}
	}
}

func nextDelay(d time.Duration) time.Duration {
	d *= 2
	if d > pollMaxDelay {
		d = pollMaxDelay
	}
	return d
}

func (m *Model) handleJobResults(msg jobResultsMsg) tea.Cmd {
	job := m.job
	if job == nil || job.sid != msg.sid {
		return nil
	}
	job.fetching = false
	if msg.err != nil {
		job.failed = true
		m.logger.Error("results fetch failed", zap.String("sid", msg.sid), zap.Error(msg.err))
		m.setStatus("Failed to fetch results: "+errdef.Message(msg.err), statusError)
		return nil
	}

	job.fetched = true
	m.results = msg.events
	m.scrollOffset = 0
	m.detailScroll = 0
	if m.viewMode == viewTable && len(m.results) > 0 {
		m.selection = 0
	} else {
		m.selection = -1
	}
	m.invalidateDetail()
	m.refreshDetail()
	m.setStatus(fmt.Sprintf("Loaded %d results.", len(m.results)), statusSuccess)
	return nil
}

func (m *Model) killJob() tea.Cmd {
	job := m.job
	if job == nil {
		m.setStatus("No active job to kill.", statusWarn)
		return nil
	}
	sid := job.sid
	client := m.client
	return func() tea.Msg {
		err := client.DeleteJob(context.Background(), sid)
		return jobKilledMsg{sid: sid, err: err}
	}
}

func (m *Model) handleJobKilled(msg jobKilledMsg) {
	if m.job == nil || m.job.sid != msg.sid {
		return
	}
	if msg.err != nil {
		m.setStatus("Failed to kill job: "+errdef.Message(msg.err), statusError)
		return
	}
	m.job = nil
	m.setStatus("Job killed.", statusSuccess)
}

func (m *Model) clearResults() {
	m.results = nil
	m.job = nil
	m.submitSeq++
	m.submitting = false
	m.selection = -1
	m.scrollOffset = 0
	m.detailScroll = 0
	m.filter = localFilter{}
	m.invalidateDetail()
	m.setStatus("Results cleared.", statusInfo)
}
