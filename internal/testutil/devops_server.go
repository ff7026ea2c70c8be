package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
)

const (
	FakeOrg     = "contoso"
	FakeProject = "Fabrikam"
)

var revisionsPath = regexp.MustCompile(`^/` + FakeOrg + `/` + FakeProject + `/_apis/wit/workItems/(\d+)/revisions$`)

// FakeDevOps is an httptest server speaking the subset of the Azure DevOps
// work item API that chronos uses.
type FakeDevOps struct {
	Server *httptest.Server

	mu        sync.Mutex
	queryIDs  []int64
	revisions map[int64][]map[string]any
	failures  map[int64]int
	lastQuery string
	lastAuth  string

	revisionCalls atomic.Int32
	queryCalls    atomic.Int32
	inFlight      atomic.Int32
	maxInFlight   atomic.Int32

	// Delay is applied to every revisions request.
	Delay time.Duration
}

// NewFakeDevOps starts a fake server that is closed when the test completes.
func NewFakeDevOps(t *testing.T) *FakeDevOps {
	t.Helper()
	f := &FakeDevOps{
		revisions: map[int64][]map[string]any{},
		failures:  map[int64]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to configure clients with.
func (f *FakeDevOps) URL() string {
	return f.Server.URL
}

// SetQueryResult sets the ids returned by the WIQL endpoint.
func (f *FakeDevOps) SetQueryResult(ids ...int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryIDs = ids
}

// AddWorkItem registers the revision history served for id.
func (f *FakeDevOps) AddWorkItem(id int64, revs []domain.Revision) {
	payloads := make([]map[string]any, 0, len(revs))
	for _, r := range revs {
		payloads = append(payloads, RevisionPayload(r))
	}
	f.AddRawRevisions(id, payloads)
}

// AddRawRevisions registers raw revision payloads for id.
func (f *FakeDevOps) AddRawRevisions(id int64, payloads []map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revisions[id] = payloads
}

// FailWorkItem makes revisions requests for id answer with status.
func (f *FakeDevOps) FailWorkItem(id int64, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = status
}

// LastQuery returns the most recent WIQL query text.
func (f *FakeDevOps) LastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

// LastAuthorization returns the most recent Authorization header.
func (f *FakeDevOps) LastAuthorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *FakeDevOps) RevisionCalls() int { return int(f.revisionCalls.Load()) }
func (f *FakeDevOps) QueryCalls() int    { return int(f.queryCalls.Load()) }

// MaxInFlight is the highest number of concurrent revisions requests seen.
func (f *FakeDevOps) MaxInFlight() int { return int(f.maxInFlight.Load()) }

func (f *FakeDevOps) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.lastAuth = r.Header.Get("Authorization")
	f.mu.Unlock()

	if r.URL.Path == "/"+FakeOrg+"/"+FakeProject+"/_apis/wit/wiql" && r.Method == http.MethodPost {
		f.handleQuery(w, r)
		return
	}
	if m := revisionsPath.FindStringSubmatch(r.URL.Path); m != nil && r.Method == http.MethodGet {
		id, _ := strconv.ParseInt(m[1], 10, 64)
		f.handleRevisions(w, r, id)
		return
	}
	http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
}

func (f *FakeDevOps) handleQuery(w http.ResponseWriter, r *http.Request) {
	f.queryCalls.Add(1)
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.lastQuery = body.Query
	refs := make([]map[string]any, 0, len(f.queryIDs))
	for _, id := range f.queryIDs {
		refs = append(refs, map[string]any{"id": id, "url": fmt.Sprintf("%s/_apis/wit/workItems/%d", f.Server.URL, id)})
	}
	f.mu.Unlock()

	writeJSON(w, map[string]any{"queryType": "flat", "workItems": refs})
}

func (f *FakeDevOps) handleRevisions(w http.ResponseWriter, r *http.Request, id int64) {
	f.revisionCalls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		prev := f.maxInFlight.Load()
		if n <= prev || f.maxInFlight.CompareAndSwap(prev, n) {
			break
		}
	}
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}

	f.mu.Lock()
	status, failing := f.failures[id]
	all, ok := f.revisions[id]
	f.mu.Unlock()

	if failing {
		http.Error(w, `{"message":"injected failure"}`, status)
		return
	}
	if !ok {
		http.Error(w, `{"message":"work item does not exist"}`, http.StatusNotFound)
		return
	}

	top, err := strconv.Atoi(r.URL.Query().Get("$top"))
	if err != nil || top <= 0 {
		top = 200
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("$skip"))
	if skip > len(all) {
		skip = len(all)
	}
	end := skip + top
	if end > len(all) {
		end = len(all)
	}
	page := all[skip:end]
	writeJSON(w, map[string]any{"count": len(page), "value": page})
}

// RevisionPayload renders a domain revision as the REST API would.
func RevisionPayload(r domain.Revision) map[string]any {
	fields := map[string]any{}
	if !r.ChangedDate.IsZero() {
		fields["System.ChangedDate"] = r.ChangedDate.UTC().Format(time.RFC3339Nano)
	}
	if r.ChangedBy != nil {
		fields["System.ChangedBy"] = map[string]any{
			"id":          r.ChangedBy.ID.String(),
			"displayName": r.ChangedBy.DisplayName,
			"uniqueName":  r.ChangedBy.UniqueName,
		}
	}
	if r.CompletedWork != nil {
		fields["Microsoft.VSTS.Scheduling.CompletedWork"] = *r.CompletedWork
	}
	if r.Title != nil {
		fields["System.Title"] = *r.Title
	}
	return map[string]any{"rev": r.Rev, "fields": fields}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
