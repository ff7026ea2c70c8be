package devops

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
	"golang.org/x/oauth2"
)

const (
	wiqlAPIVersion      = "5.1"
	revisionsAPIVersion = "5.0"

	opQuery     = "query_work_items"
	opRevisions = "list_revisions"
)

// Client is the query and revision-history collaborator.
type Client interface {
	// QueryWorkItems returns ids of work items changed inside the window.
	QueryWorkItems(ctx context.Context, window domain.DateWindow) ([]domain.WorkItemID, error)

	// Revisions returns the full revision history of a work item in
	// revision order.
	Revisions(ctx context.Context, id domain.WorkItemID) ([]domain.Revision, error)
}

// httpClient implements Client using the Azure DevOps REST API.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the organization and project in cfg.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	var transport http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: 5 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost: cfg.Concurrency,
	}
	if cfg.Auth == AuthBearer {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   transport,
		}
	}
	return &httpClient{
		cfg:      cfg,
		http:     &http.Client{Transport: transport},
		observer: observer,
	}
}

func (c *httpClient) QueryWorkItems(ctx context.Context, window domain.DateWindow) ([]domain.WorkItemID, error) {
	body, err := json.Marshal(wiqlRequest{Query: BuildChangedInWindowQuery(window)})
	if err != nil {
		return nil, fmt.Errorf("marshaling wiql request: %w", err)
	}

	endpoint := c.projectURL("_apis/wit/wiql", url.Values{"api-version": {wiqlAPIVersion}})

	var resp wiqlResponse
	if err := c.call(ctx, opQuery, 0, http.MethodPost, endpoint, body, &resp); err != nil {
		return nil, err
	}
	if resp.WorkItems == nil {
		return nil, &APIError{Op: opQuery, Err: fmt.Errorf("%w: missing workItems", ErrMalformedResponse)}
	}

	ids := make([]domain.WorkItemID, 0, len(*resp.WorkItems))
	for _, ref := range *resp.WorkItems {
		ids = append(ids, domain.WorkItemID(ref.ID))
	}
	return ids, nil
}

func (c *httpClient) Revisions(ctx context.Context, id domain.WorkItemID) ([]domain.Revision, error) {
	pageSize := c.cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultConfig().PageSize
	}

	var revs []domain.Revision
	for skip := 0; ; {
		endpoint := c.projectURL(fmt.Sprintf("_apis/wit/workItems/%d/revisions", id), url.Values{
			"api-version": {revisionsAPIVersion},
			"$top":        {strconv.Itoa(pageSize)},
			"$skip":       {strconv.Itoa(skip)},
		})

		var page revisionsPage
		if err := c.call(ctx, opRevisions, int64(id), http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		if page.Value == nil {
			return nil, &APIError{Op: opRevisions, Err: fmt.Errorf("%w: missing value", ErrMalformedResponse)}
		}

		for _, p := range *page.Value {
			revs = append(revs, p.toDomain())
		}
		if len(*page.Value) < pageSize {
			return revs, nil
		}
		skip += len(*page.Value)
	}
}

// call performs one request with the configured timeout and decodes a JSON
// response into out.
func (c *httpClient) call(ctx context.Context, op string, workItem int64, method, endpoint string, body []byte, out any) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	status, err := c.doRequest(ctx, method, endpoint, body, out)
	if err != nil {
		err = classify(ctx, op, status, err)
	}

	event := CallEvent{
		Op:        op,
		WorkItem:  workItem,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	}
	c.observer.OnCallComplete(event)
	return err
}

func (c *httpClient) doRequest(ctx context.Context, method, endpoint string, body []byte, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Auth != AuthBearer {
		req.SetBasicAuth(c.cfg.User, c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, &statusError{code: resp.StatusCode, body: truncate(string(respBody), 200)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.StatusCode, nil
}

func (c *httpClient) projectURL(path string, query url.Values) string {
	return fmt.Sprintf("%s/%s/%s/%s?%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.Organization),
		url.PathEscape(c.cfg.Project),
		path,
		query.Encode(),
	)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

// classify maps transport and HTTP failures onto the package sentinels.
func classify(ctx context.Context, op string, status int, err error) error {
	if errors.Is(err, ErrMalformedResponse) {
		return &APIError{Op: op, Status: status, Err: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &APIError{Op: op, Err: ErrTimeout}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return &APIError{Op: op, Err: ctx.Err()}
	}

	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.code == http.StatusUnauthorized || se.code == http.StatusForbidden:
			return &APIError{Op: op, Status: status, Err: fmt.Errorf("%w: %s", ErrUnauthorized, se.body)}
		case se.code == http.StatusNotFound:
			return &APIError{Op: op, Status: status, Err: fmt.Errorf("%w: %s", ErrNotFound, se.body)}
		case se.code >= 500:
			return &APIError{Op: op, Status: status, Err: fmt.Errorf("%w: %s", ErrUnavailable, se.body)}
		default:
			return &APIError{Op: op, Status: status, Err: se}
		}
	}

	if isConnectionError(err) {
		return &APIError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	return &APIError{Op: op, Status: status, Err: err}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrMalformedResponse):
		return "MALFORMED"
	default:
		return "UNKNOWN"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
