package mqtt

import "strings"

// DefaultPrefix is the root of every control topic.
const DefaultPrefix = "sessionplan"

// Topics lays out the control protocol below a prefix P:
//
//	P/start            start requests
//	P/cancel           cancel requests
//	P/<id>/progress    progress of request id
//	P/<id>/result      terminal result of request id
//	P/<id>/error       terminal fault or rejection of request id
//	P/error            rejections that carry no usable request id
type Topics struct {
	Prefix string
}

// NewTopics trims surrounding slashes from prefix and falls back to
// DefaultPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Topics{Prefix: prefix}
}

func (t Topics) Start() string  { return t.Prefix + "/start" }
func (t Topics) Cancel() string { return t.Prefix + "/cancel" }

func (t Topics) Progress(id string) string { return t.request(id, "progress") }
func (t Topics) Result(id string) string   { return t.request(id, "result") }

// Error returns the error topic of id, or the shared error topic when id is
// empty.
func (t Topics) Error(id string) string {
	if id == "" {
		return t.Prefix + "/error"
	}
	return t.request(id, "error")
}

func (t Topics) request(id, kind string) string {
	return t.Prefix + "/" + id + "/" + kind
}

// ValidID reports whether id can be used as a topic level.
func ValidID(id string) bool {
	return id != "" && !strings.ContainsAny(id, "/+#")
}
