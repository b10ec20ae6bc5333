package staging

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"itsmpipe/ticket"
)

// ReadFile parses the intermediate staging file back into ticket records
// for the load step.
func ReadFile(path string) ([]ticket.Ticket, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open staging file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(ticket.Columns)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read staging header: %w", err)
	}
	for i, expected := range ticket.Columns {
		if headers[i] != expected {
			return nil, fmt.Errorf("staging column %d: expected %q, got %q", i, expected, headers[i])
		}
	}

	tickets := make([]ticket.Ticket, 0, 256)
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read staging row %d: %w", rowNumber+1, err)
		}

		tk, err := ticketFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("staging row %d: %w", rowNumber+1, err)
		}
		tickets = append(tickets, tk)
		rowNumber++
	}

	return tickets, nil
}

func ticketFromRow(row []string) (ticket.Ticket, error) {
	createdAt, err := parseTimestamp(row[5])
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("parse created timestamp: %w", err)
	}
	resolvedAt, err := parseTimestamp(row[6])
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("parse resolved timestamp: %w", err)
	}

	tk := ticket.Ticket{
		BusinessService:  row[0],
		Category:         row[1],
		Number:           row[2],
		Priority:         row[3],
		SLADue:           row[4],
		CreatedAt:        createdAt,
		ResolvedAt:       resolvedAt,
		AssignedTo:       row[7],
		State:            row[8],
		CmdbCI:           row[9],
		CallerID:         row[10],
		ShortDescription: row[11],
		AssignmentGroup:  row[12],
		CloseCode:        row[13],
		CloseNotes:       row[14],
	}

	if row[15] != "" {
		hours, err := strconv.ParseFloat(row[15], 64)
		if err != nil {
			return ticket.Ticket{}, fmt.Errorf("parse resolution hours %q: %w", row[15], err)
		}
		tk.ResolutionHours = hours
	}

	return tk, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}
