package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sessionplan/core/model"
	"github.com/kilianp07/sessionplan/core/runlog"
)

func newStore(t *testing.T) runlog.Store {
	t.Helper()
	s, err := runlog.NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"))
	require.NoError(t, err)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		state := model.StateCompleted
		if id == "r2" {
			state = model.StateAborted
		}
		require.NoError(t, s.Append(context.Background(), runlog.Record{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			RequestID: id,
			State:     state,
		}))
	}
	return s
}

func get(t *testing.T, h http.Handler, url, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) []runlog.Record {
	t.Helper()
	var out []runlog.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestHandler_AuthAndFilters(t *testing.T) {
	h := NewHandler(newStore(t), "tok")

	rr := get(t, h, Path+"?state=completed", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	out := decode(t, rr)
	require.Len(t, out, 2)
	assert.Equal(t, "r1", out[0].RequestID)
	assert.Equal(t, "r3", out[1].RequestID)

	rr = get(t, h, Path+"?limit=1", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	out = decode(t, rr)
	require.Len(t, out, 1)
	assert.Equal(t, "r3", out[0].RequestID)

	rr = get(t, h, Path+"?since=2026-03-01T12:00:30Z&until=2026-03-01T12:01:30Z", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	out = decode(t, rr)
	require.Len(t, out, 1)
	assert.Equal(t, "r2", out[0].RequestID)

	assert.Equal(t, http.StatusUnauthorized, get(t, h, Path, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, Path, "wrong").Code)
}

func TestHandler_EmptyResultIsArray(t *testing.T) {
	h := NewHandler(newStore(t), "")
	rr := get(t, h, Path+"?request_id=missing", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestHandler_BadQuery(t *testing.T) {
	h := NewHandler(newStore(t), "")
	assert.Equal(t, http.StatusBadRequest, get(t, h, Path+"?since=yesterday", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, Path+"?limit=ten", "").Code)

	req := httptest.NewRequest(http.MethodPost, Path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
