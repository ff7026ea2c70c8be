package worklog

import (
	"github.com/alexanderramin/chronos/internal/domain"
)

// Entry is one attributed change: the detail line of a work item's log.
type Entry struct {
	Rev           int
	Date          domain.Date
	Author        domain.Identity
	CompletedWork float64
	Hours         float64
}

// ItemLog is the attributed work for a single work item.
type ItemLog struct {
	WorkItem domain.WorkItemID
	Title    string
	Entries  []Entry
	Totals   DailyTotals
}

// HasEntries reports whether any change was attributed. Items without
// entries get no header in reports.
func (l ItemLog) HasEntries() bool {
	return len(l.Entries) > 0
}

// Filter selects which deltas are attributed to the report.
type Filter struct {
	User   string
	Window domain.DateWindow
}

// Accepts applies the author and date checks to a reconstructed delta.
func (f Filter) Accepts(d Delta) bool {
	if d.Revision.ChangedBy == nil || !d.Revision.ChangedBy.SameUser(f.User) {
		return false
	}
	return f.Window.Contains(domain.DateOf(d.Revision.ChangedDate))
}

// Aggregate attributes a work item's revision history to f.User within
// f.Window. revs must be in revision order.
//
// A revision carrying completed work but missing its author or timestamp
// fails the whole item with a *domain.MalformedRevisionError, since no date
// or author context can be trusted for it. Revisions without completed work
// are skipped unchecked. Filtering happens after the baseline has been
// computed.
func Aggregate(item domain.WorkItemID, revs []domain.Revision, f Filter) (ItemLog, error) {
	log := ItemLog{
		WorkItem: item,
		Title:    LatestTitle(revs),
		Totals:   DailyTotals{},
	}
	for _, rev := range revs {
		if !rev.HasCompletedWork() {
			continue
		}
		if err := rev.Validate(item); err != nil {
			return ItemLog{WorkItem: item}, err
		}
	}

	for _, d := range Reconstruct(revs) {
		if !f.Accepts(d) {
			continue
		}
		date := domain.DateOf(d.Revision.ChangedDate)
		log.Totals.Add(date, d.Hours)
		log.Entries = append(log.Entries, Entry{
			Rev:           d.Revision.Rev,
			Date:          date,
			Author:        *d.Revision.ChangedBy,
			CompletedWork: d.CompletedWork,
			Hours:         d.Hours,
		})
	}
	return log, nil
}

// LatestTitle returns the most recent non-empty title in revs.
func LatestTitle(revs []domain.Revision) string {
	for i := len(revs) - 1; i >= 0; i-- {
		if title := domain.StrFromPtr(revs[i].Title); title != "" {
			return title
		}
	}
	return ""
}
