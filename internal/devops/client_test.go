package devops

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Organization = testutil.FakeOrg
	cfg.Project = testutil.FakeProject
	cfg.User = testutil.DefaultUser
	cfg.Token = "secret-pat"
	return cfg
}

func TestClient_QueryWorkItems(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)
	fake.SetQueryResult(12, 7, 31)

	client := NewClient(testConfig(fake.URL()), NoopObserver{})
	window := domain.DateWindow{From: domain.NewDate(2025, 6, 9), To: domain.NewDate(2025, 6, 15)}

	ids, err := client.QueryWorkItems(context.Background(), window)

	require.NoError(t, err)
	assert.Equal(t, []domain.WorkItemID{12, 7, 31}, ids)
	assert.Equal(t,
		"SELECT [System.Id] FROM workitems WHERE [System.ChangedDate] >= '2025-06-09' AND [System.ChangedDate] <= '2025-06-15' ORDER BY [System.ChangedDate] DESC",
		fake.LastQuery())
}

func TestClient_BasicAuthWithPAT(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)
	fake.SetQueryResult()

	client := NewClient(testConfig(fake.URL()), NoopObserver{})
	_, err := client.QueryWorkItems(context.Background(), testutil.DefaultWindow())
	require.NoError(t, err)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(testutil.DefaultUser+":secret-pat"))
	assert.Equal(t, want, fake.LastAuthorization())
}

func TestClient_BearerAuth(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)
	fake.SetQueryResult()

	cfg := testConfig(fake.URL())
	cfg.Auth = AuthBearer
	client := NewClient(cfg, NoopObserver{})
	_, err := client.QueryWorkItems(context.Background(), testutil.DefaultWindow())
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-pat", fake.LastAuthorization())
}

func TestClient_Revisions_DecodesFields(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)
	revs := []domain.Revision{
		testutil.NewTestRevision(testutil.WithRev(1), testutil.WithTitle("Write docs")),
		testutil.NewTestRevision(testutil.WithRev(2), testutil.WithCompletedWork(1.5)),
	}
	fake.AddWorkItem(42, revs)

	client := NewClient(testConfig(fake.URL()), NoopObserver{})
	got, err := client.Revisions(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Rev)
	assert.Nil(t, got[0].CompletedWork)
	require.NotNil(t, got[0].Title)
	assert.Equal(t, "Write docs", *got[0].Title)
	require.NotNil(t, got[1].CompletedWork)
	assert.Equal(t, 1.5, *got[1].CompletedWork)
	require.NotNil(t, got[1].ChangedBy)
	assert.Equal(t, revs[1].ChangedBy.ID, got[1].ChangedBy.ID)
	assert.Equal(t, testutil.DefaultUser, got[1].ChangedBy.UniqueName)
	assert.True(t, testutil.DefaultChangedDate.Equal(got[1].ChangedDate))
}

func TestClient_Revisions_Pages(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)
	values := make([]float64, 7)
	for i := range values {
		values[i] = float64(i)
	}
	fake.AddWorkItem(42, testutil.RevisionSeries(values...))

	cfg := testConfig(fake.URL())
	cfg.PageSize = 3
	client := NewClient(cfg, NoopObserver{})

	got, err := client.Revisions(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, got, 7)
	for i, r := range got {
		assert.Equal(t, i+1, r.Rev, "server order is preserved")
	}
	assert.Equal(t, 3, fake.RevisionCalls())
}

func TestClient_Revisions_ExactMultipleOfPageSize(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)
	fake.AddWorkItem(42, testutil.RevisionSeries(1, 2, 3, 4))

	cfg := testConfig(fake.URL())
	cfg.PageSize = 2
	client := NewClient(cfg, NoopObserver{})

	got, err := client.Revisions(context.Background(), 42)

	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, 3, fake.RevisionCalls(), "an empty trailing page ends paging")
}

func TestClient_Revisions_MissingAuthorDecodesAsNil(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)
	fake.AddRawRevisions(42, []map[string]any{
		{"rev": 1, "fields": map[string]any{
			"System.ChangedDate": "2025-06-11T09:30:00.123Z",
			"Microsoft.VSTS.Scheduling.CompletedWork": 2,
		}},
		{"rev": 2, "fields": map[string]any{
			"System.ChangedDate": "not a date",
			"System.ChangedBy":   map[string]any{"displayName": "Ada", "uniqueName": "ada@example.com"},
		}},
	})

	client := NewClient(testConfig(fake.URL()), NoopObserver{})
	got, err := client.Revisions(context.Background(), 42)

	require.NoError(t, err, "per-revision problems do not fail the fetch")
	require.Len(t, got, 2)
	assert.Nil(t, got[0].ChangedBy)
	assert.True(t, got[1].ChangedDate.IsZero())
	assert.ErrorIs(t, got[0].Validate(42), domain.ErrMalformedRevision)
	assert.ErrorIs(t, got[1].Validate(42), domain.ErrMalformedRevision)
}

func TestClient_Revisions_NotFound(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)

	client := NewClient(testConfig(fake.URL()), NoopObserver{})
	_, err := client.Revisions(context.Background(), 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, opRevisions, apiErr.Op)
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusServiceUnavailable, ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			fake := testutil.NewFakeDevOps(t)
			fake.FailWorkItem(5, tc.status)

			client := NewClient(testConfig(fake.URL()), NoopObserver{})
			_, err := client.Revisions(context.Background(), 5)

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"workItems": "nope"`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.QueryWorkItems(context.Background(), testutil.DefaultWindow())

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_MissingValueIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 0}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Revisions(context.Background(), 1)

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"workItems": []}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.TimeoutMs = 50
	client := NewClient(cfg, NoopObserver{})

	_, err := client.QueryWorkItems(context.Background(), testutil.DefaultWindow())

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	cfg.TimeoutMs = 1000
	client := NewClient(cfg, NoopObserver{})

	_, err := client.QueryWorkItems(context.Background(), testutil.DefaultWindow())

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_ObserverCalled(t *testing.T) {
	fake := testutil.NewFakeDevOps(t)
	fake.FailWorkItem(8, http.StatusUnauthorized)
	fake.AddWorkItem(9, testutil.RevisionSeries(1))

	obs := &captureObserver{}
	client := NewClient(testConfig(fake.URL()), obs)

	_, err := client.Revisions(context.Background(), 9)
	require.NoError(t, err)
	_, err = client.Revisions(context.Background(), 8)
	require.Error(t, err)

	events := obs.all()
	require.Len(t, events, 2)
	assert.True(t, events[0].Success)
	assert.Equal(t, int64(9), events[0].WorkItem)
	assert.Equal(t, http.StatusOK, events[0].Status)
	assert.False(t, events[1].Success)
	assert.Equal(t, "UNAUTHORIZED", events[1].ErrorCode)
	assert.Equal(t, opRevisions, events[1].Op)
}

type captureObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *captureObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *captureObserver) all() []CallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]CallEvent(nil), o.events...)
}
