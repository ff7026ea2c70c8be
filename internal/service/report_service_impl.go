package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/devops"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/worklog"
)

type reportService struct {
	client   devops.Client
	locator  LocatorService
	observer UseCaseObserver
	now      func() time.Time
}

func NewReportService(client devops.Client, observers ...UseCaseObserver) ReportService {
	return &reportService{
		client:   client,
		locator:  NewLocatorService(client),
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// itemResult is what one worker hands back to the collecting goroutine.
type itemResult struct {
	id  domain.WorkItemID
	log worklog.ItemLog
	err error
}

func (s *reportService) Generate(ctx context.Context, req contract.ReportRequest) (resp *contract.ReportResponse, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"user":   req.User,
		"window": req.Window.String(),
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "report",
			StartedAt: startedAt,
			Duration:  s.now().Sub(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if req.User == "" {
		return nil, contract.ErrUserRequired
	}
	if err = req.Window.Validate(); err != nil {
		return nil, err
	}

	var ids []domain.WorkItemID
	if len(req.WorkItems) > 0 {
		ids = uniqueValidIDs(req.WorkItems)
	} else {
		ids, err = s.locator.Locate(ctx, req.Window)
		if err != nil {
			return nil, err
		}
	}
	fields["scanned"] = len(ids)

	if req.Progress != nil {
		req.Progress.OnScanStarted(len(ids))
	}

	filter := worklog.Filter{User: req.User, Window: req.Window}
	totals := worklog.DailyTotals{}
	resp = &contract.ReportResponse{
		Window:  req.Window,
		User:    req.User,
		Scanned: len(ids),
	}

	// Single owner: only this goroutine touches resp.
	for r := range s.fanOut(ctx, ids, filter, req.Concurrency) {
		if req.Progress != nil {
			req.Progress.OnItemDone(r.id, r.err)
		}
		if r.err != nil {
			resp.Failures = append(resp.Failures, contract.ItemFailure{
				WorkItem: r.id,
				Kind:     failureKind(r.err),
				Err:      r.err,
			})
			continue
		}
		if r.log.HasEntries() {
			resp.Items = append(resp.Items, r.log)
		}
	}

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("report interrupted: %w", err)
	}

	sort.Slice(resp.Items, func(i, j int) bool { return resp.Items[i].WorkItem < resp.Items[j].WorkItem })
	sort.Slice(resp.Failures, func(i, j int) bool { return resp.Failures[i].WorkItem < resp.Failures[j].WorkItem })

	// Fold in id order so float sums do not depend on completion order.
	for _, item := range resp.Items {
		totals.Merge(item.Totals)
	}
	resp.Totals = totals.Sorted()
	resp.TotalHours = totals.Sum()
	resp.GeneratedAt = s.now()

	fields["items"] = len(resp.Items)
	fields["failures"] = len(resp.Failures)
	fields["total_hours"] = resp.TotalHours

	if len(ids) > 0 && len(resp.Failures) == len(ids) {
		err = fmt.Errorf("%w (%d scanned), first: %v", contract.ErrAllItemsFailed, len(ids), resp.Failures[0].Err)
		return resp, err
	}
	return resp, nil
}

// fanOut processes ids on at most workers goroutines and streams each
// result back. The channel closes once every id has been handled.
func (s *reportService) fanOut(ctx context.Context, ids []domain.WorkItemID, filter worklog.Filter, workers int) <-chan itemResult {
	if workers <= 0 {
		workers = contract.DefaultConcurrency
	}
	results := make(chan itemResult)
	semaphore := make(chan struct{}, workers)

	go func() {
		var wg sync.WaitGroup
		for _, id := range ids {
			wg.Add(1)
			semaphore <- struct{}{}

			go func(id domain.WorkItemID) {
				defer wg.Done()
				defer func() { <-semaphore }()
				results <- s.processItem(ctx, id, filter)
			}(id)
		}
		wg.Wait()
		close(results)
	}()

	return results
}

func (s *reportService) processItem(ctx context.Context, id domain.WorkItemID, filter worklog.Filter) itemResult {
	if err := ctx.Err(); err != nil {
		return itemResult{id: id, err: err}
	}
	revs, err := s.client.Revisions(ctx, id)
	if err != nil {
		return itemResult{id: id, err: fmt.Errorf("fetching revisions of #%d: %w", id, err)}
	}
	log, err := worklog.Aggregate(id, revs, filter)
	return itemResult{id: id, log: log, err: err}
}

func failureKind(err error) contract.FailureKind {
	if errors.Is(err, domain.ErrMalformedRevision) {
		return contract.FailureMalformedRevision
	}
	return contract.FailureFetch
}
