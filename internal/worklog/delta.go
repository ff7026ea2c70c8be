package worklog

import "github.com/alexanderramin/chronos/internal/domain"

// Delta is the change in completed work introduced by one revision.
type Delta struct {
	Revision      domain.Revision
	CompletedWork float64
	Hours         float64
}

// Reconstruct walks revisions in the given order and returns one Delta per
// revision that changed the completed-work field.
//
// The baseline starts at zero and follows every present value, whoever wrote
// it and whenever. Revisions without the field leave the baseline alone.
// Zero deltas are dropped. Negative deltas (corrections) are kept.
func Reconstruct(revs []domain.Revision) []Delta {
	var deltas []Delta
	baseline := 0.0
	for _, rev := range revs {
		if !rev.HasCompletedWork() {
			continue
		}
		current := *rev.CompletedWork
		diff := current - baseline
		baseline = current

		if diff == 0 {
			continue
		}
		deltas = append(deltas, Delta{
			Revision:      rev,
			CompletedWork: current,
			Hours:         diff,
		})
	}
	return deltas
}
