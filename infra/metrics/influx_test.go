package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/sessionplan/core/metrics"
	"github.com/kilianp07/sessionplan/core/model"
)

func influxServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, strings.TrimSpace(string(b)))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), bodies...)
	}
}

func TestInfluxSink_RecordSearchRun(t *testing.T) {
	srv, bodies := influxServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.SearchRunEvent{
		RequestID:       "r1",
		Variant:         model.MultiSlot,
		State:           model.StateCompleted,
		Steps:           42,
		Limit:           150000,
		DateSets:        2,
		Candidates:      3,
		MaybeCandidates: 1,
		Duration:        1500 * time.Microsecond,
		Time:            now,
	}
	if err := sink.RecordSearchRun(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("search_run").
		AddTag("outcome", "completed").
		AddTag("variant", "multi-slot").
		AddField("request_id", "r1").
		AddField("steps", 42).
		AddField("limit", 150000).
		AddField("date_sets", 2).
		AddField("candidates", 3).
		AddField("maybe_candidates", 1).
		AddField("duration_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	got := bodies()
	if len(got) != 1 || got[0] != expected {
		t.Errorf("unexpected bodies: %#v", got)
	}
}

func TestInfluxSink_RecordSearchProgress(t *testing.T) {
	srv, bodies := influxServer(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	if err := sink.RecordSearchProgress(coremetrics.SearchProgressEvent{RequestID: "r1", Steps: 1000, Limit: 5000, DateSetCount: 4, Time: now}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("search_progress").
		AddTag("request_id", "r1").
		AddField("steps", 1000).
		AddField("limit", 5000).
		AddField("date_set_count", 4).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	got := bodies()
	if len(got) != 1 || got[0] != exp {
		t.Errorf("bodies: %#v", got)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
