package extract

import (
	"fmt"

	"go.uber.org/zap"

	"itsmpipe/config"
	"itsmpipe/staging"
	"itsmpipe/ticket"
)

type Result struct {
	RowsRead        int
	RowsWritten     int
	MissingByColumn map[string]int
}

// Run reads the source sheet, derives resolution hours for every record,
// and writes the full table to the staging file. Any read or parse
// failure is logged with context and returned so the orchestrator sees a
// task failure.
func Run(source config.SourceConfig, stagingPath string, logger *zap.Logger) (*Result, error) {
	records, err := ReadSheet(source.Path, source.Sheet)
	if err != nil {
		logger.Error("extract failed", zap.String("path", source.Path), zap.Error(err))
		return nil, err
	}

	tickets := make([]ticket.Ticket, 0, len(records))
	for _, record := range records {
		tk, err := ticketFromRecord(record)
		if err != nil {
			logger.Error("extract failed",
				zap.String("path", source.Path),
				zap.Int("row", record.RowNumber),
				zap.Error(err),
			)
			return nil, fmt.Errorf("row %d: %w", record.RowNumber, err)
		}
		tk.DeriveResolutionHours()
		tickets = append(tickets, tk)
	}

	result := &Result{
		RowsRead:        len(tickets),
		MissingByColumn: countMissing(tickets),
	}

	logger.Info("extracted records",
		zap.Int("count", result.RowsRead),
		zap.Strings("columns", ticket.Columns),
	)
	for _, column := range ticket.SourceColumns {
		if missing := result.MissingByColumn[column]; missing > 0 {
			logger.Info("missing values", zap.String("column", column), zap.Int("count", missing))
		}
	}

	if err := staging.WriteFile(stagingPath, tickets); err != nil {
		logger.Error("extract failed", zap.String("staging", stagingPath), zap.Error(err))
		return nil, err
	}
	result.RowsWritten = len(tickets)

	logger.Info("extract saved to staging area", zap.String("staging", stagingPath))

	return result, nil
}

func ticketFromRecord(record Record) (ticket.Ticket, error) {
	createdAt, err := ticket.ParseTimestamp(record.Get("inc_sys_created_on"))
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("parse inc_sys_created_on: %w", err)
	}
	resolvedAt, err := ticket.ParseTimestamp(record.Get("inc_resolved_at"))
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("parse inc_resolved_at: %w", err)
	}

	return ticket.Ticket{
		BusinessService:  record.Get("inc_business_service"),
		Category:         record.Get("inc_category"),
		Number:           record.Get("inc_number"),
		Priority:         record.Get("inc_priority"),
		SLADue:           record.Get("inc_sla_due"),
		CreatedAt:        createdAt,
		ResolvedAt:       resolvedAt,
		AssignedTo:       record.Get("inc_assigned_to"),
		State:            record.Get("inc_state"),
		CmdbCI:           record.Get("inc_cmdb_ci"),
		CallerID:         record.Get("inc_caller_id"),
		ShortDescription: record.Get("inc_short_description"),
		AssignmentGroup:  record.Get("inc_assignment_group"),
		CloseCode:        record.Get("inc_close_code"),
		CloseNotes:       record.Get("inc_close_notes"),
	}, nil
}

func countMissing(tickets []ticket.Ticket) map[string]int {
	missing := make(map[string]int, len(ticket.SourceColumns))
	for _, tk := range tickets {
		for column, value := range map[string]string{
			"inc_business_service":  tk.BusinessService,
			"inc_category":          tk.Category,
			"inc_number":            tk.Number,
			"inc_priority":          tk.Priority,
			"inc_sla_due":           tk.SLADue,
			"inc_assigned_to":       tk.AssignedTo,
			"inc_state":             tk.State,
			"inc_cmdb_ci":           tk.CmdbCI,
			"inc_caller_id":         tk.CallerID,
			"inc_short_description": tk.ShortDescription,
			"inc_assignment_group":  tk.AssignmentGroup,
			"inc_close_code":        tk.CloseCode,
			"inc_close_notes":       tk.CloseNotes,
		} {
			if value == "" {
				missing[column]++
			}
		}
		if tk.CreatedAt.IsZero() {
			missing["inc_sys_created_on"]++
		}
		if tk.ResolvedAt.IsZero() {
			missing["inc_resolved_at"]++
		}
	}
	return missing
}
