package app

import "context"

type ReportUseCase interface {
	Generate(ctx context.Context, req ReportRequest) (*ReportResponse, error)
}
