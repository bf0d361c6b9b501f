package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/analysis/analysistest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	requests []map[string]interface{}
	paths    []string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.paths = append(f.paths, r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/health" {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
		return
	}

	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.requests = append(f.requests, body)

	modes := map[string]analysis.Mode{
		"/api/analysis/optimize": analysis.ModePost,
		"/api/analysis/reply":    analysis.ModeReply,
		"/api/analysis/audit":    analysis.ModeAudit,
		"/api/analysis/niche":    analysis.ModeNiche,
		"/api/analysis/ideate":   analysis.ModeIdeate,
	}
	mode, ok := modes[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"not found"}`))
		return
	}
	_, _ = w.Write([]byte(`{"success":true,"data":` + string(analysistest.JSON(mode)) + `}`))
}

// run executes the CLI against backend with a fresh home directory per test.
func run(t *testing.T, home, backend string, args ...string) (string, error) {
	t.Helper()

	inputFlag, fileFlag, fromNiche, visualSave = "", "", "", ""
	bullets, clearConfirmed = false, false
	logsLevel, logsFile, logsLimit = "", "", 20

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--home", home, "--backend", backend, "--sandbox", "--no-color", "--token", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGuideIsDefault(t *testing.T) {
	out, err := run(t, t.TempDir(), "http://127.0.0.1:1")
	require.NoError(t, err)
	assert.Contains(t, out, "NicheLens manual")
	assert.Contains(t, out, "nichelens map")
}

func TestForgeArchivesLocally(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()
	home := t.TempDir()

	out, err := run(t, home, srv.URL, "forge", "--input", "ship every day")
	require.NoError(t, err)
	assert.Contains(t, out, "Post Forge")
	require.Len(t, backend.requests, 1)
	assert.Equal(t, "ship every day", backend.requests[0]["input"])

	out, err = run(t, home, srv.URL, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Local Archive")
	assert.Contains(t, out, "ship every day")
}

func TestAuditSplitsPastedTweets(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "tweets.txt")
	require.NoError(t, os.WriteFile(file, []byte("first tweet\n\n---\n\nsecond tweet\n"), 0o644))

	_, err := run(t, t.TempDir(), srv.URL, "audit", "--file", file)
	require.NoError(t, err)
	require.Len(t, backend.requests, 1)
	assert.Equal(t, []interface{}{"first tweet", "second tweet"}, backend.requests[0]["items"])
}

func TestEmptyInputNeverCallsBackend(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	_, err := run(t, t.TempDir(), srv.URL, "reply")
	require.Error(t, err)
	assert.Equal(t, analysis.UserMessage(analysis.ErrEmptyInput), err.Error())
	assert.Empty(t, backend.requests)
}

func TestArchitectFromNiche(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	_, err := run(t, t.TempDir(), srv.URL, "architect", "--from-niche", "Indie SaaS")
	require.NoError(t, err)
	require.Len(t, backend.requests, 1)
	assert.Equal(t, "Pillar content strategy for: Indie SaaS", backend.requests[0]["input"])
}

func TestHistoryClearNeedsYes(t *testing.T) {
	home := t.TempDir()

	_, err := run(t, home, "http://127.0.0.1:1", "history", "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err := run(t, home, "http://127.0.0.1:1", "history", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "archive cleared")
}

func TestSandboxLoginAndLogout(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, home, "http://127.0.0.1:1", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Sandbox Creator")

	out, err = run(t, home, "http://127.0.0.1:1", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "@sandbox_alpha")

	_, err = run(t, home, "http://127.0.0.1:1", "logout")
	require.NoError(t, err)

	out, err = run(t, home, "http://127.0.0.1:1", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(&fakeBackend{})
	defer srv.Close()

	out, err := run(t, t.TempDir(), srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "backend online")

	out, err = run(t, t.TempDir(), "http://127.0.0.1:1", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "backend unreachable")
}

func TestDecodeDataURI(t *testing.T) {
	img, err := decodeDataURI("data:image/png;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), img)

	_, err = decodeDataURI("https://example.com/a.png")
	assert.Error(t, err)
}
