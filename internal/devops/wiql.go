package devops

import (
	"fmt"

	"github.com/alexanderramin/chronos/internal/domain"
)

// BuildChangedInWindowQuery returns the WIQL selecting work items whose
// ChangedDate falls inside the window, most recently changed first.
func BuildChangedInWindowQuery(window domain.DateWindow) string {
	return fmt.Sprintf(
		"SELECT [System.Id] FROM workitems WHERE [%s] >= '%s' AND [%s] <= '%s' ORDER BY [%s] DESC",
		FieldChangedDate, window.From, FieldChangedDate, window.To, FieldChangedDate,
	)
}
