package logger

// Logger exposes logging methods for common severity levels.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// With returns l, or a logger discarding everything when l is nil. Components
// accept a nil logger in their constructors and resolve it through With.
func With(l Logger) Logger {
	if l == nil {
		return nop{}
	}
	return l
}

type nop struct{}

func (nop) Debugf(string, ...any)         {}
func (nop) Debugw(string, map[string]any) {}
func (nop) Infof(string, ...any)          {}
func (nop) Warnf(string, ...any)          {}
func (nop) Errorf(string, ...any)         {}
