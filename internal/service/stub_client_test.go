package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/chronos/internal/devops"
	"github.com/alexanderramin/chronos/internal/domain"
)

// stubClient is an in-memory devops.Client.
type stubClient struct {
	ids      []domain.WorkItemID
	queryErr error
	revs     map[domain.WorkItemID][]domain.Revision
	revErrs  map[domain.WorkItemID]error
	delay    func(id domain.WorkItemID) time.Duration

	queries   atomic.Int32
	revisions atomic.Int32
}

var _ devops.Client = (*stubClient)(nil)

func newStubClient() *stubClient {
	return &stubClient{
		revs:    map[domain.WorkItemID][]domain.Revision{},
		revErrs: map[domain.WorkItemID]error{},
	}
}

func (c *stubClient) QueryWorkItems(ctx context.Context, _ domain.DateWindow) ([]domain.WorkItemID, error) {
	c.queries.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return c.ids, nil
}

func (c *stubClient) Revisions(ctx context.Context, id domain.WorkItemID) ([]domain.Revision, error) {
	c.revisions.Add(1)
	if c.delay != nil {
		select {
		case <-time.After(c.delay(id)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := c.revErrs[id]; err != nil {
		return nil, err
	}
	revs, ok := c.revs[id]
	if !ok {
		return nil, devops.ErrNotFound
	}
	return revs, nil
}
