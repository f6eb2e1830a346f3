package splunk

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spelunkhq/spelunk/internal/errdef"
)

const defaultTimeout = 10 * time.Second

type Options struct {
	BaseURL   string
	Token     string
	VerifySSL bool
	Timeout   time.Duration
}

// Client talks to the Splunk management API (search job endpoints only).
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		httpc: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// CreateSearch dispatches a new search job and returns its sid.
func (c *Client) CreateSearch(ctx context.Context, query string) (string, error) {
	form := url.Values{}
	form.Set("search", query)
	form.Set("output_mode", "json")
	form.Set("exec_mode", "normal")

	body, err := c.do(ctx, http.MethodPost, "/services/search/jobs", nil, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	var job struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(body, &job); err != nil {
		return "", errdef.Wrap(errdef.CodeParse, err, "decode create response")
	}
	if job.SID == "" {
		return "", errdef.New(errdef.CodeParse, "create response carried no sid")
	}
	return job.SID, nil
}

// JobStatus fetches the job's entry[0].content block.
func (c *Client) JobStatus(ctx context.Context, sid string) (*JobStatus, error) {
	query := url.Values{"output_mode": {"json"}}
	body, err := c.do(ctx, http.MethodGet, "/services/search/jobs/"+url.PathEscape(sid), query, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Entry []struct {
			Content JobStatus `json:"content"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errdef.Wrap(errdef.CodeParse, err, "decode status for %s", sid)
	}
	if len(envelope.Entry) == 0 {
		return nil, errdef.New(errdef.CodeParse, "status response for %s carried no entry", sid)
	}
	status := envelope.Entry[0].Content
	return &status, nil
}

// Results fetches one bounded page of results for a finished job.
func (c *Client) Results(ctx context.Context, sid string, count, offset int) ([]Event, error) {
	query := url.Values{
		"output_mode": {"json"},
		"count":       {strconv.Itoa(count)},
		"offset":      {strconv.Itoa(offset)},
	}
	body, err := c.do(ctx, http.MethodGet, "/services/search/jobs/"+url.PathEscape(sid)+"/results", query, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Results []Event `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errdef.Wrap(errdef.CodeParse, err, "decode results for %s", sid)
	}
	return envelope.Results, nil
}

// DeleteJob cancels a running job server-side.
func (c *Client) DeleteJob(ctx context.Context, sid string) error {
	_, err := c.do(ctx, http.MethodDelete, "/services/search/jobs/"+url.PathEscape(sid), nil, nil)
	return err
}

// WebURL derives the search app link for a sid from the management URL.
// The management API listens on :8089 while the web UI sits on :8000.
func (c *Client) WebURL(sid string) string {
	webBase := strings.Replace(c.baseURL, ":8089", ":8000", 1)
	return webBase + "/en-US/app/search/search?sid=" + url.QueryEscape(sid)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeNetwork, err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeNetwork, err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeNetwork, err, "read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errdef.New(errdef.CodeBackend, "%s: %s", resp.Status, snippet(payload))
	}
	return payload, nil
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}

// FormatQuery normalizes user input into valid SPL: trimmed, and prefixed
// with "| search " unless the query already starts a pipeline.
func FormatQuery(query string) string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "|") {
		return trimmed
	}
	return "| search " + trimmed
}
