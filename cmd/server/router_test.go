package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/noteaapp/notea/internal/api"
	"github.com/noteaapp/notea/internal/app"
	"github.com/noteaapp/notea/internal/config"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "error", ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "notea.db"),
		},
		Review: config.ReviewConfig{Seed: 5},
	}

	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(setupRouter(a, api.WithClock(func() time.Time { return now })))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReviewFlow(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/cards/next", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/cards",
		`{"front":"la mesa","back":"the table","policy":"interval"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp = do(t, http.MethodGet, srv.URL+"/api/cards/next?policy=interval", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next domain.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&next))
	assert.Equal(t, created.ID, next.ID)

	resp = do(t, http.MethodPost, srv.URL+"/api/cards/"+created.ID.String()+"/answer", `{"outcome":"correct"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/cards/"+created.ID.String()+"/answer", `{"outcome":"medium"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var answered domain.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&answered))
	state, ok := answered.IntervalState()
	require.True(t, ok)
	assert.Equal(t, 1, state.Interval)
	assert.Equal(t, 1, state.Repetitions)
	assert.InDelta(t, 2.42, state.EaseFactor, 1e-9)
	assert.Equal(t, now.AddDate(0, 0, 1), answered.NextDueAt)
	assert.Equal(t, int64(2), answered.Version)

	resp = do(t, http.MethodGet, srv.URL+"/api/cards/"+created.ID.String()+"/reviews", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history api.ReviewHistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	require.Len(t, history.Reviews, 1)
	assert.Equal(t, domain.ReviewOutcomeMedium, history.Reviews[0].Outcome)

	resp = do(t, http.MethodGet, srv.URL+"/api/decks/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary domain.DeckSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 1, summary.Total)
	assert.Zero(t, summary.Due)

	resp = do(t, http.MethodDelete, srv.URL+"/api/cards/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/cards/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleMigrations(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "error", ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "m.db")},
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx := context.Background()
	assert.NoError(t, handleMigrations(ctx, a, "up"))
	assert.NoError(t, handleMigrations(ctx, a, "status"))
	assert.ErrorContains(t, handleMigrations(ctx, a, "redo"), "unknown migration command")
}
