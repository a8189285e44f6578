package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/sessionplan/core/controller"
	"github.com/kilianp07/sessionplan/core/model"
	"github.com/kilianp07/sessionplan/core/search"
)

// DefaultMaxResults caps the candidates of a request that sets no cap.
const DefaultMaxResults = 500

// SearchConfig holds the engine settings and the defaults applied to
// incoming requests.
type SearchConfig struct {
	StepLimit        int `json:"step_limit"`
	ProgressInterval int `json:"progress_interval"`
	// MaxResults is the cap used when a request omits one; 0 is unbounded.
	MaxResults       *int   `json:"max_results"`
	WeekdayHours     int    `json:"weekday_hours"`
	HolidayHours     int    `json:"holiday_hours"`
	RankMode         string `json:"rank_mode"`
	AllowMaybe       *bool  `json:"allow_maybe"`
	DeliverTimeoutMS int    `json:"deliver_timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *SearchConfig) SetDefaults() {
	if c.StepLimit == 0 {
		c.StepLimit = model.DefaultStepLimit
	}
	if c.ProgressInterval == 0 {
		c.ProgressInterval = search.DefaultProgressInterval
	}
	if c.MaxResults == nil {
		n := DefaultMaxResults
		c.MaxResults = &n
	}
	if c.WeekdayHours == 0 {
		c.WeekdayHours = model.DefaultCapacity.WeekdayHours
	}
	if c.HolidayHours == 0 {
		c.HolidayHours = model.DefaultCapacity.HolidayHours
	}
	if c.RankMode == "" {
		c.RankMode = model.HolidayFirst.String()
	}
	if c.AllowMaybe == nil {
		allow := true
		c.AllowMaybe = &allow
	}
	if c.DeliverTimeoutMS == 0 {
		c.DeliverTimeoutMS = 5000
	}
}

// Validate checks the ranges of every field.
func (c SearchConfig) Validate() error {
	if c.StepLimit < 0 {
		return fmt.Errorf("step_limit must not be negative")
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must not be negative")
	}
	if c.MaxResults != nil && *c.MaxResults < 0 {
		return fmt.Errorf("max_results must not be negative")
	}
	if c.WeekdayHours < 0 || c.HolidayHours < 0 {
		return fmt.Errorf("capacity hours must not be negative")
	}
	if _, err := model.ParseRankMode(c.RankMode); err != nil {
		return err
	}
	if c.DeliverTimeoutMS < 0 {
		return fmt.Errorf("deliver_timeout_ms must not be negative")
	}
	return nil
}

// Capacity returns the configured capacity table.
func (c SearchConfig) Capacity() model.CapacityTable {
	return model.CapacityTable{WeekdayHours: c.WeekdayHours, HolidayHours: c.HolidayHours}
}

// Controller returns the controller settings.
func (c SearchConfig) Controller() controller.Config {
	cfg := controller.Config{
		StepLimit:        c.StepLimit,
		ProgressInterval: c.ProgressInterval,
		DeliverTimeout:   time.Duration(c.DeliverTimeoutMS) * time.Millisecond,
		Capacity:         c.Capacity(),
	}
	cfg.SetDefaults()
	return cfg
}

// RequestDefaults returns a request prefilled with the configured defaults.
// Decoding a request document into it overrides only the fields present.
func (c SearchConfig) RequestDefaults() model.Request {
	req := model.Request{}
	if c.MaxResults != nil {
		req.MaxResults = *c.MaxResults
	}
	if c.AllowMaybe != nil {
		req.AllowMaybe = *c.AllowMaybe
	}
	if mode, err := model.ParseRankMode(c.RankMode); err == nil {
		req.RankMode = mode
	}
	return req
}
