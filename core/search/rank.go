package search

import (
	"cmp"
	"math"
	"slices"

	"github.com/kilianp07/sessionplan/core/model"
)

type features struct {
	usesMaybe  bool
	contiguous bool
	ratio      float64
	span       int
	days       int
	first      model.DateKey
}

func summarize(c model.Candidate) features {
	return features{
		usesMaybe:  c.UsesMaybe,
		contiguous: c.DateSet.Contiguous,
		ratio:      c.DateSet.HolidayRatio(),
		span:       c.DateSet.Span(),
		days:       len(c.DateSet.Days),
		first:      c.DateSet.First(),
	}
}

// Rank returns the candidates in presentation order. The sort is stable, so
// candidates equal on every key keep their relative input order:
//  1. without maybe before with maybe
//  2. contiguous before non-contiguous
//  3. holiday ratio according to mode
//  4. shorter date-key span
//  5. fewer days
//  6. earlier first date
func Rank(candidates []model.Candidate, mode model.RankMode) []model.Candidate {
	feats := make([]features, len(candidates))
	order := make([]int, len(candidates))
	for i, c := range candidates {
		feats[i] = summarize(c)
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return compareFeatures(feats[i], feats[j], mode)
	})
	out := make([]model.Candidate, len(candidates))
	for k, i := range order {
		out[k] = candidates[i]
	}
	return out
}

func compareFeatures(a, b features, mode model.RankMode) int {
	if a.usesMaybe != b.usesMaybe {
		return boolLast(a.usesMaybe)
	}
	if a.contiguous != b.contiguous {
		return boolLast(!a.contiguous)
	}
	if c := compareRatio(a.ratio, b.ratio, mode); c != 0 {
		return c
	}
	if a.span != b.span {
		return cmp.Compare(a.span, b.span)
	}
	if a.days != b.days {
		return cmp.Compare(a.days, b.days)
	}
	return cmp.Compare(a.first, b.first)
}

func compareRatio(a, b float64, mode model.RankMode) int {
	switch mode {
	case model.HolidayFirst:
		return cmp.Compare(b, a)
	case model.WeekdayFirst:
		return cmp.Compare(a, b)
	case model.Balanced:
		return cmp.Compare(math.Abs(a-0.5), math.Abs(b-0.5))
	default:
		return 0
	}
}

// boolLast orders the element whose flag is set after the other one.
func boolLast(set bool) int {
	if set {
		return 1
	}
	return -1
}
