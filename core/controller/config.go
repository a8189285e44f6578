package controller

import (
	"time"

	"github.com/kilianp07/sessionplan/core/model"
	"github.com/kilianp07/sessionplan/core/search"
)

// Config tunes the controller.
type Config struct {
	// StepLimit applies to requests without their own step limit.
	StepLimit int
	// ProgressInterval is the number of steps between progress events.
	ProgressInterval int
	// DeliverTimeout bounds the wait for subscribers to accept a terminal
	// event.
	DeliverTimeout time.Duration
	// Capacity resolves days without a capacity of their own.
	Capacity model.CapacityTable
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.StepLimit <= 0 {
		c.StepLimit = model.DefaultStepLimit
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = search.DefaultProgressInterval
	}
	if c.DeliverTimeout <= 0 {
		c.DeliverTimeout = 5 * time.Second
	}
	if c.Capacity == (model.CapacityTable{}) {
		c.Capacity = model.DefaultCapacity
	}
}
