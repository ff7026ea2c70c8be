package service

import (
	"context"

	"github.com/alexanderramin/chronos/internal/app"
	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/domain"
)

type ReportService interface {
	Generate(ctx context.Context, req contract.ReportRequest) (*contract.ReportResponse, error)
}

type LocatorService interface {
	Locate(ctx context.Context, window domain.DateWindow) ([]domain.WorkItemID, error)
}

var _ app.ReportUseCase = (*reportService)(nil)
