package events

import "github.com/kilianp07/sessionplan/core/model"

// StartMessage begins a search. A request already running is superseded.
type StartMessage struct {
	RequestID string        `json:"request_id"`
	Payload   model.Request `json:"payload"`
}

// CancelMessage cancels the active search when the id matches.
type CancelMessage struct {
	RequestID string `json:"request_id"`
}

type ProgressMessage struct {
	RequestID    string `json:"request_id"`
	Steps        int    `json:"steps"`
	Limit        int    `json:"limit"`
	DateSetCount int    `json:"date_set_count"`
}

type ResultMessage struct {
	RequestID string            `json:"request_id"`
	Results   []model.Candidate `json:"results"`
	Aborted   bool              `json:"aborted"`
	Cancelled bool              `json:"cancelled"`
}

type ErrorMessage struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}
