package extract

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"itsmpipe/config"
	"itsmpipe/staging"
	"itsmpipe/ticket"
)

func writeFixtureWorkbook(t *testing.T, dir string, rows [][]any) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	if _, err := file.NewSheet("Raw Data"); err != nil {
		t.Fatalf("create sheet: %v", err)
	}

	headers := make([]any, len(ticket.SourceColumns))
	for i, column := range ticket.SourceColumns {
		headers[i] = column
	}
	if err := file.SetSheetRow("Raw Data", "A1", &headers); err != nil {
		t.Fatalf("write header row: %v", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := file.SetSheetRow("Raw Data", cell, &row); err != nil {
			t.Fatalf("write row %d: %v", i+2, err)
		}
	}

	path := filepath.Join(dir, "tickets.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestRun_DerivesResolutionHours(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := writeFixtureWorkbook(t, dir, [][]any{
		{"Email", "Software", "INC001", "2 - High", "2024-01-03",
			"2024-01-01 00:00:00", "2024-01-02 00:00:00",
			"Jordan Mills", "Closed", "mail-gw-01", "Sam Lee",
			"Mail delivery delayed", "Messaging", "Solved (Permanently)", "Queue flushed"},
		{"VPN", "Network", "INC002", "3 - Moderate", "",
			"2024-01-01 06:00:00", "",
			"", "In Progress", "vpn-01", "Ada Ray",
			"VPN drops", "Network Ops", "", ""},
	})

	stagingPath := filepath.Join(dir, "itsm_staging.csv")
	result, err := Run(configFor(source), stagingPath, zap.NewNop())
	if err != nil {
		t.Fatalf("run extract: %v", err)
	}

	if result.RowsRead != 2 || result.RowsWritten != 2 {
		t.Fatalf("expected 2 rows read and written, got %+v", result)
	}
	if result.MissingByColumn["inc_resolved_at"] != 1 {
		t.Fatalf("expected 1 missing resolved timestamp, got %d", result.MissingByColumn["inc_resolved_at"])
	}
	if result.MissingByColumn["inc_assigned_to"] != 1 {
		t.Fatalf("expected 1 missing assignee, got %d", result.MissingByColumn["inc_assigned_to"])
	}

	tickets, err := staging.ReadFile(stagingPath)
	if err != nil {
		t.Fatalf("read staging output: %v", err)
	}
	if tickets[0].ResolutionHours != 24.0 {
		t.Fatalf("expected 24.0 derived hours, got %v", tickets[0].ResolutionHours)
	}
	if tickets[1].HasResolutionTime() {
		t.Fatalf("unresolved ticket should have no resolution time: %+v", tickets[1])
	}
}

func TestRun_MissingSheetFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	file := excelize.NewFile()
	path := filepath.Join(dir, "wrong.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	file.Close()

	_, err := Run(configFor(path), filepath.Join(dir, "out.csv"), zap.NewNop())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRun_BadTimestampFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := writeFixtureWorkbook(t, dir, [][]any{
		{"Email", "Software", "INC001", "2 - High", "",
			"definitely not a date", "2024-01-02 00:00:00",
			"", "Closed", "", "", "", "", "", ""},
	})

	_, err := Run(configFor(source), filepath.Join(dir, "out.csv"), zap.NewNop())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func configFor(path string) config.SourceConfig {
	return config.SourceConfig{Path: path, Sheet: "Raw Data"}
}
