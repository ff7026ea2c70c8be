package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/google/uuid"
)

var testRevCounter atomic.Int64

// DefaultUser is the contact handle most fixtures are authored by.
const DefaultUser = "ada@example.com"

// DefaultChangedDate is the timestamp used when a fixture sets none.
var DefaultChangedDate = time.Date(2025, 6, 11, 9, 30, 0, 0, time.UTC)

// NewTestIdentity builds an identity whose display name is derived from the handle.
func NewTestIdentity(handle string) *domain.Identity {
	name := handle
	if at := strings.IndexByte(handle, '@'); at > 0 {
		name = handle[:at]
	}
	return &domain.Identity{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(handle)),
		DisplayName: strings.ToUpper(name[:1]) + name[1:],
		UniqueName:  handle,
	}
}

// Revision options
type RevisionOption func(*domain.Revision)

func WithRev(n int) RevisionOption {
	return func(r *domain.Revision) {
		r.Rev = n
	}
}

func WithAuthor(handle string) RevisionOption {
	return func(r *domain.Revision) {
		r.ChangedBy = NewTestIdentity(handle)
	}
}

func WithoutAuthor() RevisionOption {
	return func(r *domain.Revision) {
		r.ChangedBy = nil
	}
}

func WithChangedDate(t time.Time) RevisionOption {
	return func(r *domain.Revision) {
		r.ChangedDate = t
	}
}

// OnDay sets the timestamp to mid-morning UTC of the given date.
func OnDay(year int, month time.Month, day int) RevisionOption {
	return WithChangedDate(time.Date(year, month, day, 10, 0, 0, 0, time.UTC))
}

func WithCompletedWork(hours float64) RevisionOption {
	return func(r *domain.Revision) {
		r.CompletedWork = &hours
	}
}

func WithTitle(title string) RevisionOption {
	return func(r *domain.Revision) {
		r.Title = &title
	}
}

// NewTestRevision returns a well-formed revision by DefaultUser on
// DefaultChangedDate with no completed-work value.
func NewTestRevision(opts ...RevisionOption) domain.Revision {
	r := domain.Revision{
		Rev:         int(testRevCounter.Add(1)),
		ChangedDate: DefaultChangedDate,
		ChangedBy:   NewTestIdentity(DefaultUser),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RevisionSeries builds consecutive revisions (rev 1..n) carrying the given
// completed-work values, all by DefaultUser on DefaultChangedDate.
func RevisionSeries(values ...float64) []domain.Revision {
	revs := make([]domain.Revision, 0, len(values))
	for i, v := range values {
		revs = append(revs, NewTestRevision(
			WithRev(i+1),
			WithCompletedWork(v),
			WithTitle(fmt.Sprintf("Task rev %d", i+1)),
		))
	}
	return revs
}

// Window returns an inclusive window between two dates.
func Window(from, to domain.Date) domain.DateWindow {
	return domain.DateWindow{From: from, To: to}
}

// DefaultWindow is the Monday-Sunday week containing DefaultChangedDate.
func DefaultWindow() domain.DateWindow {
	return domain.CurrentWeek(DefaultChangedDate)
}
