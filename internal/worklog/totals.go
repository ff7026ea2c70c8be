package worklog

import (
	"sort"

	"github.com/alexanderramin/chronos/internal/domain"
)

// DailyTotals accumulates hours per calendar date.
type DailyTotals map[domain.Date]float64

// Add credits hours to date.
func (t DailyTotals) Add(date domain.Date, hours float64) {
	t[date] += hours
}

// Merge folds other into t. Float addition is order sensitive, so callers
// that need reproducible totals merge in a fixed order.
func (t DailyTotals) Merge(other DailyTotals) {
	for d, h := range other {
		t[d] += h
	}
}

// Sum returns the hours across all dates.
func (t DailyTotals) Sum() float64 {
	var sum float64
	for _, d := range t.dates() {
		sum += t[d]
	}
	return sum
}

// Sorted returns the totals ordered by date ascending.
func (t DailyTotals) Sorted() []domain.DailyTotal {
	dates := t.dates()
	out := make([]domain.DailyTotal, 0, len(dates))
	for _, d := range dates {
		out = append(out, domain.DailyTotal{Date: d, Hours: t[d]})
	}
	return out
}

// dates returns the keys in ascending order so float sums are reproducible.
func (t DailyTotals) dates() []domain.Date {
	dates := make([]domain.Date, 0, len(t))
	for d := range t {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
