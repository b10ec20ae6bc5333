package ticket

import (
	"fmt"
	"strings"
	"time"
)

// Ticket is the staged ITSM incident record shared by the extractor,
// the staging file and the destination table.
type Ticket struct {
	BusinessService  string
	Category         string
	Number           string
	Priority         string
	SLADue           string
	CreatedAt        time.Time
	ResolvedAt       time.Time
	AssignedTo       string
	State            string
	CmdbCI           string
	CallerID         string
	ShortDescription string
	AssignmentGroup  string
	CloseCode        string
	CloseNotes       string
	ResolutionHours  float64
}

// SourceColumns lists the fifteen columns expected in the source sheet,
// in destination-table order.
var SourceColumns = []string{
	"inc_business_service",
	"inc_category",
	"inc_number",
	"inc_priority",
	"inc_sla_due",
	"inc_sys_created_on",
	"inc_resolved_at",
	"inc_assigned_to",
	"inc_state",
	"inc_cmdb_ci",
	"inc_caller_id",
	"inc_short_description",
	"inc_assignment_group",
	"inc_close_code",
	"inc_close_notes",
}

// Columns is SourceColumns plus the derived resolution duration column.
var Columns = append(append([]string(nil), SourceColumns...), "resolution_time_hours")

// HasResolutionTime reports whether both timestamps needed for the
// duration derivation are present.
func (t Ticket) HasResolutionTime() bool {
	return !t.CreatedAt.IsZero() && !t.ResolvedAt.IsZero()
}

// DeriveResolutionHours sets ResolutionHours from the created/resolved
// pair. Missing timestamps leave the field at zero; negative durations
// are kept as-is so the quality checks can flag them.
func (t *Ticket) DeriveResolutionHours() {
	if !t.HasResolutionTime() {
		t.ResolutionHours = 0
		return
	}
	t.ResolutionHours = t.ResolvedAt.Sub(t.CreatedAt).Hours()
}

// ParseTimestamp parses the datetime formats seen in ServiceNow exports.
// An empty value is not an error: the record simply has no timestamp.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"02.01.2006 15:04",
		"01/02/2006 15:04:05",
		"01-02-2006 15:04",
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", value)
}
