package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// WorkItemID identifies a work item in the tracking system.
type WorkItemID int64

// Valid reports whether the id is a usable positive identifier.
func (id WorkItemID) Valid() bool {
	return id > 0
}

func (id WorkItemID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseWorkItemID parses a decimal work item id, rejecting non-positive values.
func ParseWorkItemID(s string) (WorkItemID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid work item id %q: %w", s, err)
	}
	id := WorkItemID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("invalid work item id %q: must be positive", s)
	}
	return id, nil
}

// Identity is the author of a change. UniqueName is the contact handle and
// the only field used for matching.
type Identity struct {
	ID          uuid.UUID
	DisplayName string
	UniqueName  string
}

// SameUser reports whether handle names this identity. Comparison is exact
// and case-sensitive.
func (i Identity) SameUser(handle string) bool {
	return i.UniqueName == handle
}

func (i Identity) String() string {
	return fmt.Sprintf("%s <%s>", i.DisplayName, i.UniqueName)
}

// Revision is one historical snapshot of a work item.
type Revision struct {
	Rev         int
	ChangedDate time.Time
	ChangedBy   *Identity

	// CompletedWork is the running total of completed hours, nil when the
	// field was never set at this revision.
	CompletedWork *float64
	Title         *string
}

// Validate checks the fields every revision must carry.
func (r Revision) Validate(item WorkItemID) error {
	if r.ChangedBy == nil {
		return &MalformedRevisionError{WorkItem: item, Rev: r.Rev, Field: "System.ChangedBy"}
	}
	if r.ChangedDate.IsZero() {
		return &MalformedRevisionError{WorkItem: item, Rev: r.Rev, Field: "System.ChangedDate"}
	}
	return nil
}

// HasCompletedWork reports whether the completed-work field is present.
func (r Revision) HasCompletedWork() bool {
	return r.CompletedWork != nil
}

// DailyTotal is the accumulated hours attributed to one calendar date.
type DailyTotal struct {
	Date  Date    `json:"date" yaml:"date"`
	Hours float64 `json:"hours" yaml:"hours"`
}
