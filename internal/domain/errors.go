package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWindow indicates a date window whose upper bound precedes
	// its lower bound.
	ErrInvalidWindow = errors.New("invalid date window")

	// ErrMalformedRevision indicates a revision missing a required field.
	ErrMalformedRevision = errors.New("malformed revision")
)

// MalformedRevisionError names the revision and field that failed validation.
type MalformedRevisionError struct {
	WorkItem WorkItemID
	Rev      int
	Field    string
}

func (e *MalformedRevisionError) Error() string {
	return fmt.Sprintf("work item %d revision %d: missing %s", e.WorkItem, e.Rev, e.Field)
}

func (e *MalformedRevisionError) Unwrap() error {
	return ErrMalformedRevision
}
