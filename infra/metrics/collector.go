package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/sessionplan/core/events"
	coremetrics "github.com/kilianp07/sessionplan/core/metrics"
	"github.com/kilianp07/sessionplan/core/model"
	"github.com/kilianp07/sessionplan/infra/logger"
	"github.com/kilianp07/sessionplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// search events. It stops when the context is canceled or the bus is closed.
// The returned channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) error {
	now := time.Now()
	switch e := ev.(type) {
	case events.Started:
		if r, ok := sink.(coremetrics.ActiveRecorder); ok {
			return r.RecordActive(e.RequestID, true)
		}
	case events.Progress:
		if r, ok := sink.(coremetrics.ProgressRecorder); ok {
			return r.RecordSearchProgress(coremetrics.SearchProgressEvent{
				RequestID:    e.RequestID,
				Steps:        e.Steps,
				Limit:        e.Limit,
				DateSetCount: e.DateSetCount,
				Time:         now,
			})
		}
	case events.Result:
		maybe := 0
		for _, c := range e.Candidates {
			if c.UsesMaybe {
				maybe++
			}
		}
		return finish(sink, coremetrics.SearchRunEvent{
			RequestID:       e.RequestID,
			Variant:         e.Variant,
			State:           e.State,
			Steps:           e.Steps,
			Limit:           e.Limit,
			DateSets:        e.DateSets,
			Candidates:      len(e.Candidates),
			MaybeCandidates: maybe,
			Duration:        e.Duration,
			Time:            now,
		})
	case events.Failure:
		return finish(sink, coremetrics.SearchRunEvent{
			RequestID: e.RequestID,
			Variant:   e.Variant,
			State:     model.StateFailed,
			Duration:  e.Duration,
			Time:      now,
		})
	}
	return nil
}

func finish(sink coremetrics.MetricsSink, ev coremetrics.SearchRunEvent) error {
	if r, ok := sink.(coremetrics.ActiveRecorder); ok {
		if err := r.RecordActive(ev.RequestID, false); err != nil {
			return err
		}
	}
	return sink.RecordSearchRun(ev)
}
