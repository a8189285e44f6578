package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	k := NewDateKey(3, 14)
	assert.Equal(t, DateKey(314), k)
	assert.Equal(t, 3, k.Month())
	assert.Equal(t, 14, k.Day())
	assert.Equal(t, "3/14", k.String())
	assert.Less(t, int(NewDateKey(2, 28)), int(NewDateKey(3, 1)))
}

func TestParseSymbol(t *testing.T) {
	cases := map[string]Symbol{
		"○":           Available,
		"◯":           Available,
		"available":   Available,
		"△":           Maybe,
		" maybe ":     Maybe,
		"×":           Unavailable,
		"":            Unavailable,
		"whatever":    Unavailable,
		"unavailable": Unavailable,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSymbol(in), "input %q", in)
	}
}

func TestDayMissingEntryIsUnavailable(t *testing.T) {
	d := Day{Key: 301, Availability: map[string]Symbol{"alice": Available}}
	assert.Equal(t, Available, d.Symbol("alice"))
	assert.Equal(t, Unavailable, d.Symbol("bob"))
	assert.Equal(t, Unavailable, Day{}.Symbol("alice"))
}

func TestDateSetSummary(t *testing.T) {
	s := DateSet{Days: []Day{
		{Key: 301, Class: Weekday, Capacity: 3},
		{Key: 302, Class: Holiday, Capacity: 15},
		{Key: 305, Class: Holiday, Capacity: 15},
	}}
	assert.Equal(t, []DateKey{301, 302, 305}, s.Keys())
	assert.Equal(t, 33, s.Capacity())
	assert.Equal(t, 2, s.HolidayCount())
	assert.InDelta(t, 2.0/3.0, s.HolidayRatio(), 1e-9)
	assert.Equal(t, 4, s.Span())
	assert.Equal(t, DateKey(301), s.First())
	assert.Equal(t, "mixed", s.Kind())
	assert.Equal(t, "holiday-only", DateSet{Days: s.Days[1:]}.Kind())
	assert.Equal(t, 0.0, DateSet{}.HolidayRatio())
}

func TestResolvedCalendar(t *testing.T) {
	req := Request{Calendar: []Day{
		{Key: 301, Class: Weekday},
		{Key: 302, Class: Holiday, Capacity: 8},
	}}
	days := req.ResolvedCalendar(DefaultCapacity)
	assert.Equal(t, 3, days[0].Capacity)
	assert.Equal(t, 8, days[1].Capacity, "explicit capacity kept")
	assert.Equal(t, 0, req.Calendar[0].Capacity, "input untouched")

	req.Capacity = &CapacityTable{WeekdayHours: 4, HolidayHours: 10}
	days = req.ResolvedCalendar(DefaultCapacity)
	assert.Equal(t, 4, days[0].Capacity)
	assert.Equal(t, 10, days[1].Capacity)
}

func validGroupRequest() Request {
	return Request{
		Calendar:      []Day{{Key: 301}, {Key: 302}},
		Lead:          []string{"alice"},
		Pool:          []string{"bob", "carol"},
		GroupSize:     1,
		RequiredHours: 6,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validGroupRequest().Validate())

	slotReq := Request{
		Calendar:      []Day{{Key: 301}},
		Lead:          []string{"alice"},
		Slots:         []RoleSlot{{Label: "HO1", Pool: []string{"bob"}}, {Label: "HO2", Pool: []string{"bob", "carol"}}},
		RequiredHours: 3,
	}
	require.NoError(t, slotReq.Validate())
	assert.Equal(t, MultiSlot, slotReq.Variant())

	tests := []struct {
		name   string
		mutate func(*Request)
		want   string
	}{
		{"zero hours", func(r *Request) { r.RequiredHours = 0 }, "required_hours"},
		{"no lead", func(r *Request) { r.Lead = nil }, "lead role"},
		{"group too big", func(r *Request) { r.GroupSize = 3 }, "group_size"},
		{"group zero", func(r *Request) { r.GroupSize = 0 }, "group_size"},
		{"lead in pool", func(r *Request) { r.Pool = []string{"alice", "bob"} }, "also in the lead"},
		{"duplicate day", func(r *Request) { r.Calendar = []Day{{Key: 301}, {Key: 301}} }, "appears twice"},
		{"negative cap", func(r *Request) { r.MaxResults = -1 }, "max_results"},
		{"both variants", func(r *Request) { r.Slots = []RoleSlot{{Label: "x", Pool: []string{"bob"}}} }, "mutually exclusive"},
		{"no variant", func(r *Request) { r.Pool = nil; r.GroupSize = 0 }, "must be configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGroupRequest()
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	bad := slotReq
	bad.Slots = []RoleSlot{{Label: "HO1", Pool: nil}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRequest)
	bad.Slots = []RoleSlot{{Label: "HO1", Pool: []string{"bob"}}, {Label: "HO1", Pool: []string{"carol"}}}
	assert.ErrorContains(t, bad.Validate(), "used twice")
}

func TestEffectiveStepLimit(t *testing.T) {
	assert.Equal(t, DefaultStepLimit, Request{}.EffectiveStepLimit())
	assert.Equal(t, 10, Request{StepLimit: 10}.EffectiveStepLimit())
}

func TestDecodeRequestYAML(t *testing.T) {
	data := `
calendar:
  - key: 301
    label: "3/1(日)"
    class: holiday
    availability: {alice: "○", bob: "△"}
  - key: 302
    class: weekday
    availability: {alice: "○"}
lead: [alice]
pool: [bob]
group_size: 1
required_hours: 6
allow_maybe: true
rank_mode: balanced
`
	req, err := DecodeRequest(strings.NewReader(data), "yaml")
	require.NoError(t, err)
	require.Len(t, req.Calendar, 2)
	assert.Equal(t, Holiday, req.Calendar[0].Class)
	assert.Equal(t, Maybe, req.Calendar[0].Symbol("bob"))
	assert.Equal(t, Unavailable, req.Calendar[1].Symbol("bob"))
	assert.Equal(t, Balanced, req.RankMode)
	assert.True(t, req.AllowMaybe)
	require.NoError(t, req.Validate())
}

func TestLoadRequestJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	body := `{"calendar":[{"key":301,"class":"holiday","availability":{"alice":"available"}}],
"lead":["alice"],"slots":[{"label":"HO1","pool":["bob"]}],"required_hours":15}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	req, err := LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, MultiSlot, req.Variant())
	assert.Equal(t, Available, req.Calendar[0].Symbol("alice"))

	_, err = DecodeRequest(strings.NewReader("{}"), "toml")
	assert.Error(t, err)
}

func TestRankModeParse(t *testing.T) {
	m, err := ParseRankMode("mixed")
	require.NoError(t, err)
	assert.Equal(t, Balanced, m)
	_, err = ParseRankMode("random")
	assert.Error(t, err)
}

func TestLoadRequestIntoKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.yaml")
	body := "lead: [alice]\npool: [bob]\ngroup_size: 1\nrequired_hours: 6\nmax_results: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	req := Request{MaxResults: 500, AllowMaybe: true, RankMode: WeekdayFirst}
	require.NoError(t, LoadRequestInto(path, &req))
	assert.Equal(t, 2, req.MaxResults)
	assert.True(t, req.AllowMaybe)
	assert.Equal(t, WeekdayFirst, req.RankMode)
	assert.Equal(t, []string{"alice"}, req.Lead)
}
