package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/chronos/internal/devops"
	"github.com/alexanderramin/chronos/internal/domain"
)

type locatorService struct {
	client devops.Client
}

// NewLocatorService finds the work items changed inside a window.
func NewLocatorService(client devops.Client) LocatorService {
	return &locatorService{client: client}
}

func (s *locatorService) Locate(ctx context.Context, window domain.DateWindow) ([]domain.WorkItemID, error) {
	ids, err := s.client.QueryWorkItems(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("querying work items changed %s: %w", window, err)
	}
	return uniqueValidIDs(ids), nil
}

// uniqueValidIDs drops non-positive and repeated ids, keeping first occurrences.
func uniqueValidIDs(ids []domain.WorkItemID) []domain.WorkItemID {
	seen := make(map[domain.WorkItemID]bool, len(ids))
	out := make([]domain.WorkItemID, 0, len(ids))
	for _, id := range ids {
		if !id.Valid() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
