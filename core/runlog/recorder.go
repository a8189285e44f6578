package runlog

import (
	"context"
	"time"

	"github.com/kilianp07/sessionplan/core/events"
	"github.com/kilianp07/sessionplan/core/logger"
	"github.com/kilianp07/sessionplan/internal/eventbus"
)

// Recorder appends the terminal outcome of every run seen on the bus.
type Recorder struct {
	store Store
	log   logger.Logger
	now   func() time.Time
}

// NewRecorder returns a Recorder writing to store. A nil log discards
// messages.
func NewRecorder(store Store, log logger.Logger) *Recorder {
	return &Recorder{store: store, log: logger.With(log), now: time.Now}
}

// Start subscribes to bus and records until ctx is done or the bus is
// closed. The returned channel is closed once the recorder has exited.
func (r *Recorder) Start(ctx context.Context, bus eventbus.EventBus) <-chan struct{} {
	done := make(chan struct{})
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
				r.handle(ctx, ev)
			}
		}
	}()
	return done
}

func (r *Recorder) handle(ctx context.Context, ev eventbus.Event) {
	var rec Record
	switch e := ev.(type) {
	case events.Result:
		rec = FromResult(e, r.now())
	case events.Failure:
		rec = FromFailure(e, r.now())
	default:
		return
	}
	if err := r.store.Append(ctx, rec); err != nil {
		r.log.Errorf("append run %s: %v", rec.RequestID, err)
	}
}
