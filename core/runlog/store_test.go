package runlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sessionplan/core/events"
	"github.com/kilianp07/sessionplan/core/factory"
	"github.com/kilianp07/sessionplan/core/model"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleRecords() []Record {
	return []Record{
		{Timestamp: base.Add(2 * time.Minute), RequestID: "r2", Variant: "fixed-group", State: model.StateAborted, Steps: 50, Limit: 50},
		{Timestamp: base, RequestID: "r1", Variant: "fixed-group", State: model.StateCompleted, Candidates: 3, Best: []model.DateKey{303}},
		{Timestamp: base.Add(time.Minute), RequestID: "r3", Variant: "multi-slot", State: model.StateFailed, Error: "boom"},
	}
}

// exercise runs the shared store contract against s.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range sampleRecords() {
		require.NoError(t, s.Append(ctx, rec))
	}

	all, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"r1", "r3", "r2"}, ids(all))
	assert.Equal(t, []model.DateKey{303}, all[0].Best)
	assert.Equal(t, model.StateCompleted, all[0].State)
	assert.True(t, all[0].Timestamp.Equal(base))

	byID, err := s.Query(ctx, Query{RequestID: "r3"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "boom", byID[0].Error)

	byState, err := s.Query(ctx, Query{State: "aborted"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, ids(byState))

	window, err := s.Query(ctx, Query{Since: base.Add(30 * time.Second), Until: base.Add(90 * time.Second)})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, ids(window))

	last, err := s.Query(ctx, Query{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2"}, ids(last))
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.RequestID
	}
	return out
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestJSONLStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	s, err := NewJSONLStore(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))
	require.NoError(t, s.Append(context.Background(), Record{Timestamp: base, RequestID: "ok"}))
	out, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, ids(out))
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "logs", "runs.jsonl"), 1, 2, 1, false)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestRotatingJSONLStoreReadsBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	backup := fmt.Sprintf(`{"timestamp":%q,"request_id":"old","state":"completed"}`+"\n", base.Add(-time.Hour).Format(time.RFC3339))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "runs-2026-02-28T10-00-00.000.jsonl"), []byte(backup), 0o644))
	s, err := NewRotatingJSONLStore(path, 1, 2, 1, false)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Append(context.Background(), Record{Timestamp: base, RequestID: "new"}))

	out, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "new"}, ids(out))
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestNewStoreFromConfig(t *testing.T) {
	dir := t.TempDir()
	for _, typ := range []string{"jsonl", "rotating", "sqlite"} {
		s, err := NewStore(factory.ModuleConfig{Type: typ, Conf: map[string]any{
			"path":        filepath.Join(dir, typ),
			"max_size_mb": "5",
		}})
		require.NoError(t, err, typ)
		require.NoError(t, s.Close())
	}
	_, err := NewStore(factory.ModuleConfig{Type: "mongo"})
	assert.Error(t, err)
}

func TestFromResult(t *testing.T) {
	e := events.Result{
		RequestID: "r1",
		Variant:   model.MultiSlot,
		State:     model.StateCompleted,
		Candidates: []model.Candidate{
			{DateSet: model.DateSet{Days: []model.Day{{Key: 301}, {Key: 302}}}},
			{DateSet: model.DateSet{Days: []model.Day{{Key: 303}}}},
		},
		DateSets: 2,
		Steps:    4,
		Limit:    100,
		Duration: time.Second,
	}
	rec := FromResult(e, base)
	assert.Equal(t, "multi-slot", rec.Variant)
	assert.Equal(t, 2, rec.Candidates)
	assert.Equal(t, []model.DateKey{301, 302}, rec.Best)
	assert.Equal(t, base, rec.Timestamp)

	fail := FromFailure(events.Failure{RequestID: "r2", Message: "boom"}, base)
	assert.Equal(t, model.StateFailed, fail.State)
	assert.Equal(t, "boom", fail.Error)
	assert.Equal(t, "fixed-group", fail.Variant)
}
