package staging

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"itsmpipe/ticket"
)

// WriteFile serializes the full extract to the intermediate staging file,
// overwriting any previous run's output. Column order matches the
// destination table.
func WriteFile(path string, tickets []ticket.Ticket) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create staging file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(ticket.Columns); err != nil {
		return fmt.Errorf("write staging headers: %w", err)
	}

	for _, tk := range tickets {
		if err := writer.Write(rowFor(tk)); err != nil {
			return fmt.Errorf("write staging row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush staging file: %w", err)
	}

	return nil
}

func rowFor(tk ticket.Ticket) []string {
	hours := ""
	if tk.HasResolutionTime() {
		hours = strconv.FormatFloat(tk.ResolutionHours, 'g', -1, 64)
	}

	return []string{
		tk.BusinessService,
		tk.Category,
		tk.Number,
		tk.Priority,
		tk.SLADue,
		formatTimestamp(tk.CreatedAt),
		formatTimestamp(tk.ResolvedAt),
		tk.AssignedTo,
		tk.State,
		tk.CmdbCI,
		tk.CallerID,
		tk.ShortDescription,
		tk.AssignmentGroup,
		tk.CloseCode,
		tk.CloseNotes,
		hours,
	}
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(time.RFC3339)
}
