package app

import (
	"errors"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/worklog"
)

type ReportRequest struct {
	Window      domain.DateWindow
	User        string
	WorkItems   []domain.WorkItemID
	Concurrency int
	Progress    ProgressReporter
}

// NewReportRequest returns a request for user over window with the default
// worker count.
func NewReportRequest(user string, window domain.DateWindow) ReportRequest {
	return ReportRequest{
		Window:      window,
		User:        user,
		Concurrency: DefaultConcurrency,
	}
}

// DefaultConcurrency bounds in-flight work items when a request sets none.
const DefaultConcurrency = 4

type FailureKind string

const (
	FailureMalformedRevision FailureKind = "malformed_revision"
	FailureFetch             FailureKind = "fetch_failed"
)

type ItemFailure struct {
	WorkItem domain.WorkItemID
	Kind     FailureKind
	Err      error
}

type ReportResponse struct {
	Window      domain.DateWindow
	User        string
	Totals      []domain.DailyTotal
	TotalHours  float64
	Items       []worklog.ItemLog
	Failures    []ItemFailure
	Scanned     int
	GeneratedAt time.Time
}

// ProgressReporter is notified as work items are processed. Calls arrive
// from a single goroutine.
type ProgressReporter interface {
	OnScanStarted(total int)
	OnItemDone(id domain.WorkItemID, err error)
}

var (
	ErrUserRequired   = errors.New("user handle is required")
	ErrAllItemsFailed = errors.New("every work item failed")
)
