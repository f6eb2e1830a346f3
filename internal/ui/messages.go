package ui

import "github.com/spelunkhq/spelunk/internal/splunk"

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
	statusSuccess
)

type statusMsg struct {
	text  string
	level statusLevel
}

// jobCreatedMsg carries the submit sequence number so a result from an
// abandoned submission is dropped instead of resurrecting a cleared job.
type jobCreatedMsg struct {
	seq   int
	sid   string
	query string
	err   error
}

type jobStatusMsg struct {
	sid    string
	status *splunk.JobStatus
	err    error
}

type jobResultsMsg struct {
	sid    string
	events []splunk.Event
	err    error
}

type jobKilledMsg struct {
	sid string
	err error
}

type pollTickMsg struct {
	sid string
}

// clockTickMsg only forces a redraw so the elapsed counter in the job
// summary advances between poll replies.
type clockTickMsg struct{}

type editorClosedMsg struct {
	path      string
	queryFile bool
	err       error
}

type browserOpenedMsg struct {
	err error
}
