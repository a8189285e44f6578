package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recorder struct {
	errs    []error
	tags    []map[string]string
	flushed bool
}

func (r *recorder) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recorder) Recover()            {}
func (r *recorder) Flush(time.Duration) { r.flushed = true }

func TestInitIgnoresNil(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})
	Init(nil)
	if Current() != Monitor(rec) {
		t.Fatalf("nil monitor replaced the current one")
	}
	CaptureException(errors.New("boom"), map[string]string{TagRequestID: "r1"})
	if len(rec.errs) != 1 || rec.tags[0][TagRequestID] != "r1" {
		t.Fatalf("unexpected capture: %+v", rec)
	}
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})

	func() {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Fatalf("expected re-panic, got %v", r)
			}
		}()
		defer Recover()
		panic("kaboom")
	}()
	if len(rec.errs) != 1 || rec.errs[0].Error() != "panic: kaboom" {
		t.Fatalf("panic not captured: %+v", rec.errs)
	}
	if !rec.flushed {
		t.Fatalf("expected flush")
	}
}
