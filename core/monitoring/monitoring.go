package monitoring

import (
	"fmt"
	"sync"
	"time"
)

// Tags attached to every fault reported for a search run.
const (
	TagRequestID = "request_id"
	TagVariant   = "variant"
	TagComponent = "component"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the process-wide monitor implementation.
func Init(m Monitor) {
	if m == nil {
		return
	}
	mu.Lock()
	current = m
	mu.Unlock()
}

// Current returns the process-wide monitor.
func Current() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	Current().CaptureException(err, tags)
}

// Recover reports a panic of the calling goroutine and panics again. It must
// be deferred directly.
func Recover() {
	if r := recover(); r != nil {
		m := Current()
		m.CaptureException(fmt.Errorf("panic: %v", r), map[string]string{TagComponent: "main"})
		m.Flush(2 * time.Second)
		panic(r)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	Current().Flush(d)
}
