package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formadmin/pkg/renderers/tui"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

type backend struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]func(w http.ResponseWriter)
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{t: t, routes: map[string]func(http.ResponseWriter){}}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)

	for _, name := range []string{"USERS", "USER_DETAILS", "MENTORS", "QUESTIONS", "JOBS", "ANNOUNCEMENTS"} {
		t.Setenv("FORMADMIN_"+name+"_URL", srv.URL)
	}
	t.Setenv("FORMADMIN_REDIS_ADDR", "")
	t.Setenv("FORMADMIN_METRICS_FILE", "")
	return b
}

func (b *backend) handle(method, path, body string, status int) {
	b.routes[method+" "+path] = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.EscapedPath()}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}
	b.mu.Lock()
	b.requests = append(b.requests, rec)
	route, ok := b.routes[r.Method+" "+rec.Path]
	b.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	route(w)
}

func (b *backend) recorded() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func execute(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	d.stdout = &out
	if d.stderr == nil {
		d.stderr = io.Discard
	}
	if d.stdin == nil {
		d.stdin = strings.NewReader("")
	}
	cmd := newRootCmd(d)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAddQuestionNoInput(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodPost, "/add-coding-question", `{}`, http.StatusCreated)

	out, err := execute(t, deps{}, "add", "question", "--no-input",
		"--set", "name=Two Sum",
		"--set", "difficulty=Medium",
		"--set", "link=https://leetcode.com/problems/two-sum")
	require.NoError(t, err)
	assert.Contains(t, out, "Question added")

	reqs := b.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{
		"name":       "Two Sum",
		"difficulty": "Medium",
		"link":       "https://leetcode.com/problems/two-sum",
	}, reqs[0].Body)
}

func TestAddQuestionInvalidNeverSends(t *testing.T) {
	b := newBackend(t)

	out, err := execute(t, deps{}, "add", "question", "--no-input", "--set", "link=not a url")
	require.ErrorIs(t, err, errInvalidInput)
	assert.Contains(t, out, "Question name is required.")
	assert.Contains(t, out, "[idle]")
	assert.Empty(t, b.recorded())
}

func TestAddRejectsUnknownField(t *testing.T) {
	newBackend(t)

	_, err := execute(t, deps{}, "add", "job", "--no-input", "--set", "salary=lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no field "salary"`)
}

func TestAddServerFailure(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodPost, "/add-coding-question", `{"message":"duplicate question"}`, http.StatusConflict)

	out, err := execute(t, deps{}, "add", "question", "--no-input",
		"--set", "name=Two Sum", "--set", "link=https://leetcode.com/problems/two-sum")
	require.ErrorIs(t, err, errSubmissionFailed)
	assert.Contains(t, out, "Failed to add question: duplicate question")
	assert.Contains(t, out, "Question name: Two Sum")
}

func TestDeleteJobRequiresConfirmation(t *testing.T) {
	b := newBackend(t)

	out, err := execute(t, deps{}, "delete", "job", "12", "--no-input")
	require.NoError(t, err)
	assert.Contains(t, out, `Permanently delete job with ID "12"? (pass --yes to confirm)`)
	assert.Contains(t, out, "Cancelled.")
	assert.Empty(t, b.recorded())
}

func TestDeleteJobConfirmed(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodDelete, "/delete-jobs/12", `{"message":"Job 12 removed"}`, http.StatusOK)

	out, err := execute(t, deps{}, "delete", "job", "12", "--no-input", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Job 12 removed")

	reqs := b.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Nil(t, reqs[0].Body)
}

func TestListMentorsFilteredJSON(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/mentors-details", `[
		{"username":"asha","name":"Asha","expertise":"Go","experience":"3"},
		{"username":"ben","name":"Ben","expertise":"Rust","experience":9},
		{"username":"gopher","name":"Gil","expertise":"go, k8s","experience":7}
	]`, http.StatusOK)

	out, err := execute(t, deps{}, "list", "mentors", "--query", "GO", "--format", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "gopher", rows[0]["username"])
	assert.Equal(t, "asha", rows[1]["username"])
}

func TestListJobsText(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/jobs", `[{"id":4,"company":"Acme","role":"SRE"},{"id":"41","company":"Initech","role":"Dev"}]`, http.StatusOK)

	out, err := execute(t, deps{}, "list", "jobs", "--query", "41")
	require.NoError(t, err)
	assert.Contains(t, out, "Jobs (1)")
	assert.Contains(t, out, "#41 Dev at Initech")
}

func TestListFailure(t *testing.T) {
	b := newBackend(t)
	b.handle(http.MethodGet, "/announcements", `{"error":"database offline"}`, http.StatusServiceUnavailable)

	_, err := execute(t, deps{}, "list", "announcements")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database offline")
}

func TestListRejectsUnsupportedFlags(t *testing.T) {
	newBackend(t)

	_, err := execute(t, deps{}, "list", "users", "--sort", "experience")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--sort is only supported")
}

type scriptedDriver struct {
	inputs    []string
	passwords []string
	confirms  []bool
	infos     []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	if len(d.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	v := d.passwords[0]
	d.passwords = d.passwords[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return 0, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestAddUserInteractiveRetriesAfterServerFieldError(t *testing.T) {
	b := newBackend(t)
	calls := 0
	b.routes["POST /add-users"] = func(w http.ResponseWriter) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"errors":{"mentorUsername":"Mentor not found"}}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}

	driver := &scriptedDriver{
		inputs:    []string{"neo", "ghost", "trinity"},
		passwords: []string{"secret1"},
		confirms:  []bool{true},
	}
	_, err := execute(t, deps{driver: driver}, "add", "user")
	require.NoError(t, err)

	reqs := b.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "ghost", reqs[0].Body["mentor_username"])
	assert.Equal(t, "trinity", reqs[1].Body["mentor_username"])
	assert.Contains(t, driver.infos, "! Mentor not found")
	assert.Contains(t, driver.infos, "User added successfully!")
}

func TestAddQuestionRetryAfterPlainFailureEditsEveryField(t *testing.T) {
	b := newBackend(t)
	calls := 0
	b.routes["POST /add-coding-question"] = func(w http.ResponseWriter) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"duplicate name"}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}

	driver := &scriptedDriver{
		inputs:   []string{"Three Sum", "https://y.com"},
		confirms: []bool{true},
	}
	_, err := execute(t, deps{driver: driver}, "add", "question",
		"--set", "name=Two Sum", "--set", "link=https://x.com")
	require.NoError(t, err)

	reqs := b.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Two Sum", reqs[0].Body["name"])
	assert.Equal(t, "https://x.com", reqs[0].Body["link"])
	assert.Equal(t, "Three Sum", reqs[1].Body["name"])
	assert.Equal(t, "https://y.com", reqs[1].Body["link"])
	assert.Empty(t, driver.inputs)
	assert.Empty(t, driver.confirms)
}

func TestMetricsTextfileWrittenOnFailure(t *testing.T) {
	newBackend(t)
	path := filepath.Join(t.TempDir(), "formadmin.prom")

	_, err := execute(t, deps{}, "add", "job", "--no-input", "--metrics-file", path)
	require.ErrorIs(t, err, errInvalidInput)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `formadmin_submissions_total{form="add-job",outcome="invalid"} 1`)
}

func TestFormsYAML(t *testing.T) {
	newBackend(t)

	out, err := execute(t, deps{}, "forms", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "- name: add-user")
	assert.Contains(t, out, "method: DELETE")
	assert.Contains(t, out, "secret: true")
}

func TestConfigDescribesEnvironment(t *testing.T) {
	newBackend(t)
	t.Setenv("FORMADMIN_REDIS_PASSWORD", "hunter2")

	out, err := execute(t, deps{}, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "FORMADMIN_USERS_URL")
	assert.Contains(t, out, "Effective configuration:")
	assert.NotContains(t, out, "hunter2")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, deps{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "formadmin version dev (build: unknown)\n", out)
}
