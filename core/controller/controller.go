package controller

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/sessionplan/core/events"
	"github.com/kilianp07/sessionplan/core/logger"
	"github.com/kilianp07/sessionplan/core/model"
	"github.com/kilianp07/sessionplan/core/monitoring"
	"github.com/kilianp07/sessionplan/core/search"
	"github.com/kilianp07/sessionplan/internal/eventbus"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("controller closed")

type runFunc func(ctx context.Context, req model.Request, progress search.ProgressFunc) (search.Result, error)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for state transitions.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) { c.log = logger.With(l) }
}

// WithMonitor sets the monitor receiving faults of failed runs.
func WithMonitor(m monitoring.Monitor) Option {
	return func(c *Controller) {
		if m != nil {
			c.mon = m
		}
	}
}

// Controller runs search requests one at a time.
type Controller struct {
	cfg Config
	bus eventbus.EventBus
	log logger.Logger
	mon monitoring.Monitor
	run runFunc

	mu     sync.Mutex
	active *run
	closed bool
	wg     sync.WaitGroup
}

// New creates a Controller publishing on bus. A nil bus gets a private one.
func New(cfg Config, bus eventbus.EventBus, opts ...Option) *Controller {
	cfg.SetDefaults()
	if bus == nil {
		bus = eventbus.New()
	}
	c := &Controller{cfg: cfg, bus: bus, log: logger.With(nil), mon: monitoring.NopMonitor{}}
	engine := search.Engine{Capacity: cfg.Capacity, ProgressInterval: cfg.ProgressInterval}
	c.run = engine.Run
	for _, o := range opts {
		o(c)
	}
	return c
}

// Bus returns the bus the controller publishes on.
func (c *Controller) Bus() eventbus.EventBus { return c.bus }

// Start validates req and runs it in the background under id. An empty id
// is replaced by a generated one. A request already running is cancelled
// and reports its own cancelled result.
func (c *Controller) Start(ctx context.Context, id string, req model.Request) (*Handle, error) {
	if req.StepLimit == 0 {
		req.StepLimit = c.cfg.StepLimit
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{id: id, variant: req.Variant(), cancel: cancel, done: make(chan struct{}), state: model.StateIdle}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	prev := c.active
	c.active = r
	c.wg.Add(1)
	c.mu.Unlock()

	if prev != nil && !prev.State().Terminal() {
		c.log.Warnf("search %s superseded by %s", prev.id, id)
		prev.cancel()
	}
	go c.execute(runCtx, r, req)
	return &Handle{c: c, r: r}, nil
}

// Run starts req and waits for its outcome.
func (c *Controller) Run(ctx context.Context, id string, req model.Request) (Outcome, error) {
	h, err := c.Start(ctx, id, req)
	if err != nil {
		return Outcome{}, err
	}
	return h.Wait(context.WithoutCancel(ctx))
}

// Cancel cancels the active run when its id matches. Cancelling an unknown,
// superseded or finished request is a no-op and returns false.
func (c *Controller) Cancel(id string) bool {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r == nil || r.id != id || r.State().Terminal() {
		c.log.Debugf("ignoring cancel for %s", id)
		return false
	}
	c.log.Warnf("cancelling search %s", id)
	r.cancel()
	return true
}

// Active returns the id of the running request.
func (c *Controller) Active() (string, bool) {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r == nil || r.State().Terminal() {
		return "", false
	}
	return r.id, true
}

// Close cancels the active run and waits for every run to terminate.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	r := c.active
	c.mu.Unlock()
	if r != nil {
		r.cancel()
	}
	c.wg.Wait()
}

func (c *Controller) execute(ctx context.Context, r *run, req model.Request) {
	defer c.wg.Done()
	defer r.cancel()

	start := time.Now()
	c.transition(r, model.StateRunning)
	c.deliver(events.Started{RequestID: r.id, Variant: r.variant, Limit: req.StepLimit, At: start})

	res, err := c.safeRun(ctx, r, req)
	out := Outcome{
		RequestID: r.id,
		Variant:   r.variant,
		DateSets:  res.DateSets,
		Steps:     res.Steps,
		Limit:     res.Limit,
		Aborted:   res.Aborted,
		Cancelled: res.Cancelled,
		Started:   start,
		Duration:  time.Since(start),
	}
	switch {
	case err != nil:
		out.State = model.StateFailed
		out.Err = err
		out.Aborted, out.Cancelled = false, false
	case res.Cancelled:
		out.State = model.StateCancelled
	case res.Aborted:
		out.State = model.StateAborted
		out.Candidates = res.Candidates
	default:
		out.State = model.StateCompleted
		out.Candidates = res.Candidates
	}

	r.mu.Lock()
	r.outcome = out
	r.mu.Unlock()
	c.transition(r, out.State)

	if out.State == model.StateFailed {
		c.log.Errorf("search %s failed: %v", r.id, err)
		c.mon.CaptureException(err, map[string]string{
			monitoring.TagRequestID: r.id,
			monitoring.TagVariant:   r.variant.String(),
			monitoring.TagComponent: "controller",
		})
		c.deliver(events.Failure{RequestID: r.id, Variant: r.variant, Message: err.Error(), Duration: out.Duration})
	} else {
		c.log.Infof("search %s %s: %d candidates, %d date sets, %d/%d steps",
			r.id, out.State, len(out.Candidates), out.DateSets, out.Steps, out.Limit)
		c.deliver(events.Result{
			RequestID:  r.id,
			Variant:    r.variant,
			State:      out.State,
			Candidates: out.Candidates,
			DateSets:   out.DateSets,
			Steps:      out.Steps,
			Limit:      out.Limit,
			Aborted:    out.Aborted,
			Cancelled:  out.Cancelled,
			Duration:   out.Duration,
		})
	}

	c.mu.Lock()
	if c.active == r {
		c.active = nil
	}
	c.mu.Unlock()
	close(r.done)
}

func (c *Controller) safeRun(ctx context.Context, r *run, req model.Request) (res search.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			c.log.Debugw("search panic", map[string]any{"request_id": r.id, "stack": string(debug.Stack())})
			res = search.Result{}
			err = fmt.Errorf("search %s: %v", r.id, p)
		}
	}()
	return c.run(ctx, req, func(p search.Progress) {
		c.bus.Publish(events.Progress{
			RequestID:    r.id,
			Steps:        p.Steps,
			Limit:        p.Limit,
			DateSetCount: p.DateSetCount,
		})
	})
}

func (c *Controller) transition(r *run, to model.State) {
	r.mu.Lock()
	from := r.state
	r.state = to
	r.mu.Unlock()
	c.log.Infof("search %s: %s -> %s", r.id, from, to)
	c.bus.Publish(events.StateChanged{RequestID: r.id, From: from, To: to})
}

func (c *Controller) deliver(e eventbus.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.DeliverTimeout)
	defer cancel()
	if err := c.bus.PublishWait(ctx, e); err != nil {
		c.log.Warnf("deliver %T: %v", e, err)
	}
}
