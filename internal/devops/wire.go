package devops

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/google/uuid"
)

// Field reference names used in revision payloads.
const (
	FieldChangedDate   = "System.ChangedDate"
	FieldChangedBy     = "System.ChangedBy"
	FieldCompletedWork = "Microsoft.VSTS.Scheduling.CompletedWork"
	FieldTitle         = "System.Title"
)

// wiqlRequest is the JSON body sent to POST _apis/wit/wiql.
type wiqlRequest struct {
	Query string `json:"query"`
}

// wiqlResponse is the subset of the WIQL result we need.
type wiqlResponse struct {
	WorkItems *[]workItemRef `json:"workItems"`
}

type workItemRef struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// revisionsPage is one page of GET _apis/wit/workItems/{id}/revisions.
type revisionsPage struct {
	Count int                `json:"count"`
	Value *[]revisionPayload `json:"value"`
}

type revisionPayload struct {
	Rev    int            `json:"rev"`
	Fields revisionFields `json:"fields"`
}

// revisionFields keeps ChangedDate and ChangedBy loosely typed so one bad
// revision surfaces as a malformed revision rather than failing the page.
type revisionFields struct {
	ChangedDate   string          `json:"System.ChangedDate"`
	ChangedBy     json.RawMessage `json:"System.ChangedBy"`
	CompletedWork *float64        `json:"Microsoft.VSTS.Scheduling.CompletedWork"`
	Title         *string         `json:"System.Title"`
}

type identityRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

func (p revisionPayload) toDomain() domain.Revision {
	rev := domain.Revision{
		Rev:           p.Rev,
		CompletedWork: p.Fields.CompletedWork,
		Title:         p.Fields.Title,
	}
	if p.Fields.ChangedDate != "" {
		if t, err := time.Parse(time.RFC3339Nano, p.Fields.ChangedDate); err == nil {
			rev.ChangedDate = t.UTC()
		}
	}
	rev.ChangedBy = parseIdentity(p.Fields.ChangedBy)
	return rev
}

// parseIdentity accepts an IdentityRef object or the legacy
// "Display Name <handle>" string form. It returns nil when no handle can be found.
func parseIdentity(raw json.RawMessage) *domain.Identity {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var ref identityRef
	if err := json.Unmarshal(raw, &ref); err == nil {
		if ref.UniqueName == "" {
			return nil
		}
		id, _ := uuid.Parse(ref.ID)
		return &domain.Identity{ID: id, DisplayName: ref.DisplayName, UniqueName: ref.UniqueName}
	}

	var legacy string
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil
	}
	open := strings.LastIndexByte(legacy, '<')
	if open < 0 || !strings.HasSuffix(legacy, ">") {
		return nil
	}
	handle := legacy[open+1 : len(legacy)-1]
	if handle == "" {
		return nil
	}
	return &domain.Identity{
		DisplayName: strings.TrimSpace(legacy[:open]),
		UniqueName:  handle,
	}
}
