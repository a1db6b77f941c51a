package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refreshd/internal/discovery"
	"git.home.luguber.info/inful/refreshd/internal/gateway"
)

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHTTPHealthAndStatus(t *testing.T) {
	td := newTestDaemon(t, "a", "b")
	h := NewHTTPServer("127.0.0.1:0", td.Daemon).Handler()

	rec := serve(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, td.Start(context.Background()))
	rec = serve(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, h, http.MethodGet, "/status?pretty=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody[StatusResponse](t, rec)
	require.Equal(t, StatusRunning, status.Status)
	require.Equal(t, ViewOverview, status.View)

	rec = serve(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "refreshd_")
}

func TestHTTPSnapshots(t *testing.T) {
	td := newTestDaemon(t)
	h := NewHTTPServer("127.0.0.1:0", td.Daemon).Handler()

	rec := serve(t, h, http.MethodGet, "/snapshots/nodes", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	td.Snapshots().Put(&gateway.Snapshot{
		Resource:  gateway.ResourceNodes,
		FetchedAt: time.Now(),
		Body:      []byte(`{"nodes":[]}`),
	})
	rec = serve(t, h, http.MethodGet, "/snapshots/nodes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"nodes"`)
}

func TestHTTPViewSwitchDrivesSession(t *testing.T) {
	td := newTestDaemon(t, "a", "b")
	h := NewHTTPServer("127.0.0.1:0", td.Daemon).Handler()
	require.NoError(t, td.Start(context.Background()))

	rec := serve(t, h, http.MethodPut, "/ui/view", `{"view":"agents"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, td.channel(ChannelConfig).Live())

	rec = serve(t, h, http.MethodPut, "/ui/view", `{"view":"logs"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, td.channel(ChannelConfig).Live())
	require.True(t, td.channel(ChannelLogs).Live())

	rec = serve(t, h, http.MethodPut, "/ui/view", `{"view":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h, http.MethodPut, "/ui/view", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPFocusGate(t *testing.T) {
	td := newTestDaemon(t)
	h := NewHTTPServer("127.0.0.1:0", td.Daemon).Handler()

	rec := serve(t, h, http.MethodPost, "/ui/focus", `{"kind":"div","event":"in"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[gateResponse](t, rec)
	require.False(t, resp.Accepted)
	require.False(t, resp.Paused)

	rec = serve(t, h, http.MethodPost, "/ui/focus", `{"kind":"SELECT","event":"in"}`)
	resp = decodeBody[gateResponse](t, rec)
	require.True(t, resp.Accepted)
	require.True(t, resp.Paused)

	rec = serve(t, h, http.MethodPost, "/ui/focus", `{"kind":"select","event":"out"}`)
	resp = decodeBody[gateResponse](t, rec)
	require.True(t, resp.Paused)
	require.True(t, resp.ResumePending)

	td.clock.Advance(250 * time.Millisecond)
	require.Eventually(t, func() bool { return !td.Gate().State().Paused() }, waitFor, pollEvery)

	rec = serve(t, h, http.MethodPost, "/ui/focus", `{"kind":"select","event":"hover"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPDirtyHoldsResume(t *testing.T) {
	td := newTestDaemon(t)
	h := NewHTTPServer("127.0.0.1:0", td.Daemon).Handler()

	serve(t, h, http.MethodPost, "/ui/focus", `{"kind":"input","event":"in"}`)
	rec := serve(t, h, http.MethodPut, "/ui/dirty", `{"dirty":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	serve(t, h, http.MethodPost, "/ui/focus", `{"kind":"input","event":"out"}`)

	td.clock.Advance(250 * time.Millisecond)
	require.Eventually(t, func() bool { return !td.Gate().ResumePending() }, waitFor, pollEvery)
	require.True(t, td.Gate().State().Paused(), "unsaved edits hold the pause")

	rec = serve(t, h, http.MethodPost, "/ui/resume", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decodeBody[gateResponse](t, rec).Paused)
}

func TestHTTPTasksAndDiscoveryRun(t *testing.T) {
	td := newTestDaemon(t, "a", "z")
	h := NewHTTPServer("127.0.0.1:0", td.Daemon).Handler()

	rec := serve(t, h, http.MethodPut, "/ui/tasks", `{"active":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, td.Busy().ActiveTaskCount())

	rec = serve(t, h, http.MethodPost, "/discovery/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, discovery.ResultBusy, decodeBody[discovery.Report](t, rec).Result)

	rec = serve(t, h, http.MethodPut, "/ui/tasks", `{"active":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	serve(t, h, http.MethodPut, "/ui/tasks", `{"active":0}`)
	rec = serve(t, h, http.MethodPost, "/discovery/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, discovery.ResultPersisted, decodeBody[discovery.Report](t, rec).Result)
	require.Equal(t, []string{"a", "z"}, td.modelIDs())
}

func TestHTTPServerStartStop(t *testing.T) {
	td := newTestDaemon(t)
	srv := NewHTTPServer("127.0.0.1:0", td.Daemon)
	require.NoError(t, srv.Start(context.Background()))
	require.NotEqual(t, "127.0.0.1:0", srv.Addr())

	resp, err := http.Get("http://" + srv.Addr() + "/status")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	require.NoError(t, srv.Stop(context.Background()))
}
