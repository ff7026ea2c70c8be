package contract

import (
	"github.com/alexanderramin/chronos/internal/app"
	"github.com/alexanderramin/chronos/internal/domain"
)

type ReportRequest = app.ReportRequest

func NewReportRequest(user string, window domain.DateWindow) ReportRequest {
	return app.NewReportRequest(user, window)
}

const DefaultConcurrency = app.DefaultConcurrency

type ReportResponse = app.ReportResponse

type ProgressReporter = app.ProgressReporter

type FailureKind = app.FailureKind

const (
	FailureMalformedRevision FailureKind = app.FailureMalformedRevision
	FailureFetch             FailureKind = app.FailureFetch
)

type ItemFailure = app.ItemFailure

var (
	ErrUserRequired   = app.ErrUserRequired
	ErrAllItemsFailed = app.ErrAllItemsFailed
)
