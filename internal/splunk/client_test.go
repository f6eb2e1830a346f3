package splunk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spelunkhq/spelunk/internal/errdef"
)

func TestFormatQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"index=main", "| search index=main"},
		{"  index=main  ", "| search index=main"},
		{"| tstats count", "| tstats count"},
		{"  | makeresults", "| makeresults"},
		{"   ", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FormatQuery(tc.in); got != tc.want {
			t.Fatalf("FormatQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreateSearchSendsForm(t *testing.T) {
	var gotAuth, gotBody, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotBody = r.PostForm.Encode()
		w.Write([]byte(`{"sid":"1700000000.123"}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Token: "tok", VerifySSL: true})
	sid, err := client.CreateSearch(context.Background(), FormatQuery("index=main"))
	if err != nil {
		t.Fatalf("create search: %v", err)
	}
	if sid != "1700000000.123" {
		t.Fatalf("unexpected sid %q", sid)
	}
	if gotPath != "/services/search/jobs" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	want := "exec_mode=normal&output_mode=json&search=%7C+search+index%3Dmain"
	if gotBody != want {
		t.Fatalf("unexpected form body %q, want %q", gotBody, want)
	}
}

func TestJobStatusParsesEntryContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("output_mode") != "json" {
			t.Errorf("missing output_mode, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"entry":[{"content":{"isDone":false,"dispatchState":"PARSING","resultCount":0,"runDuration":0.42}}]}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Token: "tok"})
	status, err := client.JobStatus(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("job status: %v", err)
	}
	if status.IsDone {
		t.Fatal("expected running job")
	}
	if status.DispatchState != "PARSING" {
		t.Fatalf("unexpected dispatch state %q", status.DispatchState)
	}
	if status.RunDuration != 0.42 {
		t.Fatalf("unexpected run duration %v", status.RunDuration)
	}
}

func TestResultsParsesEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("count") != "100" || q.Get("offset") != "0" {
			t.Errorf("unexpected paging params %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"results":[{"_raw":"a"},{"_raw":"b"},{"_raw":"c"}]}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Token: "tok"})
	events, err := client.Results(context.Background(), "sid-1", 100, 0)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[1].Raw() != "b" {
		t.Fatalf("unexpected second event %v", events[1])
	}
}

func TestBackendErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid SPL", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Token: "tok"})
	_, err := client.CreateSearch(context.Background(), "| search boom")
	if err == nil {
		t.Fatal("expected backend error")
	}
	if !errdef.Is(err, errdef.CodeBackend) {
		t.Fatalf("expected backend code, got %v", err)
	}
}

func TestNetworkErrorCode(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://127.0.0.1:1", Token: "tok"})
	_, err := client.JobStatus(context.Background(), "sid")
	if err == nil {
		t.Fatal("expected network error")
	}
	if !errdef.Is(err, errdef.CodeNetwork) {
		t.Fatalf("expected network code, got %v", err)
	}
}

func TestWebURLStripsManagementPort(t *testing.T) {
	client := NewClient(Options{BaseURL: "https://splunk.local:8089", Token: "tok"})
	got := client.WebURL("1700000000.123")
	want := "https://splunk.local:8000/en-US/app/search/search?sid=1700000000.123"
	if got != want {
		t.Fatalf("WebURL = %q, want %q", got, want)
	}

	plain := NewClient(Options{BaseURL: "https://splunk.example.com/", Token: "tok"})
	got = plain.WebURL("abc")
	want = "https://splunk.example.com/en-US/app/search/search?sid=abc"
	if got != want {
		t.Fatalf("WebURL = %q, want %q", got, want)
	}
}

func TestEventMessageFirstLine(t *testing.T) {
	ev := Event{"_raw": "first line\nsecond line"}
	if ev.Message() != "first line" {
		t.Fatalf("unexpected message %q", ev.Message())
	}
}
