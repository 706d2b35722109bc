package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canstralian/CodeQualityAI/application"
	"github.com/canstralian/CodeQualityAI/config"
	"github.com/canstralian/CodeQualityAI/domain"
	"github.com/canstralian/CodeQualityAI/infrastructure/server"
	testdoubles "github.com/canstralian/CodeQualityAI/test"
)

// --- helpers ---

func newTestServer(t *testing.T, reader *testdoubles.SpyReader) *httptest.Server {
	t.Helper()

	stub := &testdoubles.StubAnalyzer{DefaultScore: 8}
	service := application.NewAnalysisService(stub)
	factory := func(_, _ string) domain.RepositoryReader { return reader }

	srv := server.NewServer(service, factory, nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func fixtureReader() *testdoubles.SpyReader {
	return &testdoubles.SpyReader{
		Repository: &domain.RepositoryInfo{
			Name:          "fixture",
			FullName:      "octocat/fixture",
			Description:   "a fixture",
			Language:      "Python",
			DefaultBranch: "main",
		},
		Commits:  []domain.Commit{{Hash: "abc123", Author: "Octocat"}},
		Files:    []domain.FileEntry{{Path: "main.py"}},
		Contents: map[string]string{"main.py": "print(1)"},
	}
}

func postAnalyze(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// --- tests ---

func TestServer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("should run an analysis and return the report", func(t *testing.T) {
		t.Parallel()

		// given
		ts := newTestServer(t, fixtureReader())

		// when
		resp := postAnalyze(t, ts, `{"url": "octocat/fixture"}`)

		// then
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var report domain.Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, "octocat/fixture", report.Info.FullName)
		require.Len(t, report.Results, 1)
		assert.InDelta(t, 8.0, report.Results[0].Analysis.Score, 1e-9)
	})

	t.Run("should reject invalid repository URLs", func(t *testing.T) {
		t.Parallel()

		// given
		ts := newTestServer(t, fixtureReader())

		// when
		resp := postAnalyze(t, ts, `{"url": "not a repo url"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("should reject non-POST requests", func(t *testing.T) {
		t.Parallel()

		// given
		ts := newTestServer(t, fixtureReader())

		// when
		resp, err := http.Get(ts.URL + "/api/analyze")

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("should apply request overrides on top of configured defaults", func(t *testing.T) {
		t.Parallel()

		// given
		reader := fixtureReader()
		ts := newTestServer(t, reader)

		// when
		resp := postAnalyze(t, ts, `{"url": "octocat/fixture", "max_files": 3, "commit_limit": 5}`)

		// then
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, reader.ListFilesCalls, 1)
		assert.Equal(t, 3, reader.ListFilesCalls[0].MaxFiles)
		assert.Equal(t, []int{5}, reader.CommitLimits)
	})
}

func TestServer_Report(t *testing.T) {
	t.Parallel()

	t.Run("should serve 404 before any analysis ran", func(t *testing.T) {
		t.Parallel()

		// given
		ts := newTestServer(t, fixtureReader())

		// when
		resp, err := http.Get(ts.URL + "/api/report")

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("should serve the last report after a run", func(t *testing.T) {
		t.Parallel()

		// given
		ts := newTestServer(t, fixtureReader())
		postAnalyze(t, ts, `{"url": "octocat/fixture"}`)

		// when
		resp, err := http.Get(ts.URL + "/api/report")

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var report domain.Report
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, "octocat/fixture", report.Info.FullName)
	})
}

func TestServer_WebSocket(t *testing.T) {
	t.Parallel()

	t.Run("should stream progress and the final report to clients", func(t *testing.T) {
		t.Parallel()

		// given
		ts := newTestServer(t, fixtureReader())
		wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"

		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })

		// give the server a moment to register the client
		time.Sleep(100 * time.Millisecond)

		// when
		postAnalyze(t, ts, `{"url": "octocat/fixture"}`)

		// then
		types := make(map[string]bool)
		deadline := time.Now().Add(3 * time.Second)
		for !types["report"] && time.Now().Before(deadline) {
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

			var msg server.UpdateMessage
			require.NoError(t, conn.ReadJSON(&msg))
			types[msg.Type] = true
		}

		assert.True(t, types["stage"])
		assert.True(t, types["progress"])
		assert.True(t, types["report"])
	})

	t.Run("should replay the last report to a newly connected client", func(t *testing.T) {
		t.Parallel()

		// given
		ts := newTestServer(t, fixtureReader())
		postAnalyze(t, ts, `{"url": "octocat/fixture"}`)

		wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })

		// when
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var msg server.UpdateMessage
		require.NoError(t, conn.ReadJSON(&msg))

		// then
		assert.Equal(t, "report", msg.Type)
	})
}

func TestServer_Auth(t *testing.T) {
	t.Parallel()

	t.Run("should report OAuth as unavailable when not configured", func(t *testing.T) {
		t.Parallel()

		// given
		ts := newTestServer(t, fixtureReader())

		// when
		resp, err := http.Get(ts.URL + "/auth/login")

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
