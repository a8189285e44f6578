// Package scenarios runs YAML-described searches against the engine and
// checks their outcome.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/sessionplan/core/model"
)

// Expected lists the checks of a scenario. Nil fields are not checked.
type Expected struct {
	Candidates    *int            `yaml:"candidates,omitempty"`
	DateSets      *int            `yaml:"date_sets,omitempty"`
	Aborted       bool            `yaml:"aborted"`
	FirstDates    []model.DateKey `yaml:"first_dates,omitempty"`
	FirstSupport  []string        `yaml:"first_support,omitempty"`
	LastUsesMaybe *bool           `yaml:"last_uses_maybe,omitempty"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Request     model.Request `yaml:"request"`
	Expected    Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario has no name", path)
	}
	return &sc, nil
}
