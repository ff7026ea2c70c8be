package devops

import (
	"testing"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildChangedInWindowQuery(t *testing.T) {
	w := domain.DateWindow{From: domain.NewDate(2024, 12, 30), To: domain.NewDate(2025, 1, 5)}

	q := BuildChangedInWindowQuery(w)

	assert.Equal(t,
		"SELECT [System.Id] FROM workitems WHERE [System.ChangedDate] >= '2024-12-30' AND [System.ChangedDate] <= '2025-01-05' ORDER BY [System.ChangedDate] DESC",
		q)
}
