package contract

import (
	"testing"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/stretchr/testify/assert"
)

// --- ReportRequest constructor defaults ---

func TestNewReportRequest_SetsDefaults(t *testing.T) {
	w := domain.DateWindow{From: domain.NewDate(2025, 6, 9), To: domain.NewDate(2025, 6, 15)}

	req := NewReportRequest("ada@example.com", w)

	assert.Equal(t, "ada@example.com", req.User)
	assert.Equal(t, w, req.Window)
	assert.Equal(t, 4, req.Concurrency)
	assert.Nil(t, req.WorkItems)
	assert.Nil(t, req.Progress)
}

func TestNewReportRequest_EmptyUserPreserved(t *testing.T) {
	// Empty user is preserved in the DTO; the service rejects it
	req := NewReportRequest("", domain.DateWindow{})
	assert.Equal(t, "", req.User)
}
