package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/auditing"
	"f0oster/sheetaudit/config"
	"f0oster/sheetaudit/logging"
	"f0oster/sheetaudit/sink"
	"f0oster/sheetaudit/snapshot"
	"f0oster/sheetaudit/trigger"
	"f0oster/sheetaudit/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Configuration{
		Location:      time.UTC,
		MultiDocument: true,
		Sources:       []config.MonitoredSource{{DocumentID: "doc-a", LogDestination: "A Logs"}},
	}
	logger := logging.Discard()
	resolver := sink.NewResolver(cfg, sink.NewMemoryBackend())
	svc := auditing.NewService(cfg, snapshot.NewMemoryStore(), resolver,
		auditing.WithLogger(logger),
		auditing.WithClock(func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }),
	)

	registry := trigger.NewMemoryRegistry()
	_, err := trigger.Install(context.Background(), registry, cfg.MonitoredDocuments())
	require.NoError(t, err)

	server := web.NewServer(trigger.NewDispatcher(registry, svc, logger), resolver, logger, ":0")
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, web.DeliveryResponse) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out web.DeliveryResponse
	if resp.StatusCode == http.StatusAccepted {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestServer_SheetAddedFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts, "/api/notifications/open",
		`{"source":"doc-a","structure":{"A":{"rows":10,"cols":5}}}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, 1, out.Deliveries)
	assert.Equal(t, auditing.OutcomeBaseline, out.Results[0].Outcome)

	resp, out = post(t, ts, "/api/notifications/change",
		`{"source":"doc-a","user":"ana@example.com","change_type":"INSERT_GRID","active_sheet":"B",
		  "structure":{"A":{"rows":10,"cols":5},"B":{"rows":5,"cols":5}}}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, 1, out.Deliveries)
	assert.Equal(t, auditing.OutcomeLogged, out.Results[0].Outcome)

	logsResp, err := http.Get(ts.URL + "/api/logs/A%20Logs?limit=5")
	require.NoError(t, err)
	defer logsResp.Body.Close()
	require.Equal(t, http.StatusOK, logsResp.StatusCode)

	var logs web.LogListResponse
	require.NoError(t, json.NewDecoder(logsResp.Body).Decode(&logs))
	assert.Equal(t, "A Logs", logs.Destination)
	assert.Equal(t, audit.Header, logs.Header)
	require.Len(t, logs.Entries, 1)
	assert.Equal(t, audit.ActionInsertGrid, logs.Entries[0].ActionType)
	assert.Equal(t, "ana@example.com added a new sheet 'B' at 2026-10-17 09:30:00", logs.Entries[0].Details)
}

func TestServer_EditFailureIsAcknowledged(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts, "/api/notifications/edit", `{"source":"doc-a","range":{"sheet":"A"}}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, 1, out.Deliveries)
	assert.Equal(t, auditing.OutcomeFailed, out.Results[0].Outcome)
	assert.Contains(t, out.Results[0].Error, "invalid range")
}

func TestServer_UnsubscribedSource(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts, "/api/notifications/edit",
		`{"source":"doc-x","range":{"sheet":"A","row":1,"column":1,"num_rows":1,"num_columns":1}}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 0, out.Deliveries)
	assert.Empty(t, out.Results)
}

func TestServer_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := post(t, ts, "/api/notifications/change", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, ts, "/api/notifications/open", `{"source":"doc-a","structure":{"A":{"rows":1,"cols":1},"A":{"rows":2,"cols":2}}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "duplicate sheet names are rejected")

	getResp, err := http.Get(ts.URL + "/api/notifications/edit")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, getResp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_UnknownLogDestination(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/logs/Payroll", "/api/logs/B%20Logs?limit=1"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	resp, err := http.Get(ts.URL + "/api/logs/A%20Logs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logs web.LogListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&logs))
	assert.Empty(t, logs.Entries)
}
