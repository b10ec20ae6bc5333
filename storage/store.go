package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"itsmpipe/config"
	"itsmpipe/ticket"
)

const TableName = "itsm_raw_tickets"

// Store wraps the staging-table connection. The same code path serves
// the local sqlite default and a Postgres warehouse; only the driver
// name and placeholder style differ.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects the named staging database, retrying transient
// connection failures before giving up.
func Open(conn config.Connection) (*Store, error) {
	driver, err := sqlDriverName(conn.Driver)
	if err != nil {
		return nil, err
	}

	attempts := conn.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := conn.ConnectDelay
	if delay <= 0 {
		delay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open(driver, conn.DSN)
		if err == nil {
			if err = db.Ping(); err == nil {
				return &Store{db: db, driver: conn.Driver}, nil
			}
			_ = db.Close()
		}
		lastErr = err
		if attempt < attempts {
			time.Sleep(time.Duration(attempt) * delay)
		}
	}

	return nil, fmt.Errorf("connect staging database after %d attempts: %w", attempts, lastErr)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the staging table if it does not exist. Existing
// tables and their contents are left untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	inc_business_service TEXT,
	inc_category TEXT,
	inc_number TEXT,
	inc_priority TEXT,
	inc_sla_due TEXT,
	inc_sys_created_on TIMESTAMP,
	inc_resolved_at TIMESTAMP,
	inc_assigned_to TEXT,
	inc_state TEXT,
	inc_cmdb_ci TEXT,
	inc_caller_id TEXT,
	inc_short_description TEXT,
	inc_assignment_group TEXT,
	inc_close_code TEXT,
	inc_close_notes TEXT,
	resolution_time_hours NUMERIC
);`, TableName)

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}
	return nil
}

// ReplaceTickets swaps the staging table's entire contents for the given
// extract in one transaction. Returns the number of rows loaded.
func (s *Store) ReplaceTickets(ctx context.Context, tickets []ticket.Ticket) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s;", TableName)); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear staging table: %w", err)
	}

	insertStmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s);",
		TableName,
		strings.Join(ticket.Columns, ", "),
		s.placeholders(len(ticket.Columns)),
	)

	stmt, err := tx.PrepareContext(ctx, insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, tk := range tickets {
		if _, err := stmt.ExecContext(ctx, insertArgs(tk)...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert ticket %s: %w", tk.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit load: %w", err)
	}
	return len(tickets), nil
}

// CountRows returns the staging table's current row count.
func (s *Store) CountRows(ctx context.Context) (int, error) {
	return s.scanCount(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s;", TableName))
}

// CountDuplicateIncidents counts incident numbers that appear on more
// than one row.
func (s *Store) CountDuplicateIncidents(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`
SELECT COUNT(*) FROM (
	SELECT inc_number, COUNT(*)
	FROM %s
	GROUP BY inc_number
	HAVING COUNT(*) > 1
) t;`, TableName)
	return s.scanCount(ctx, query)
}

// CountResolutionOutliers counts rows whose resolution duration is
// negative or exceeds maxHours. Rows without a duration are not
// outliers.
func (s *Store) CountResolutionOutliers(ctx context.Context, maxHours float64) (int, error) {
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE resolution_time_hours > %s OR resolution_time_hours < 0;",
		TableName,
		s.placeholder(1),
	)
	return s.scanCount(ctx, query, maxHours)
}

func (s *Store) scanCount(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("query staging table: %w", err)
	}
	return count, nil
}

func insertArgs(tk ticket.Ticket) []any {
	var createdAt, resolvedAt, hours any
	if !tk.CreatedAt.IsZero() {
		createdAt = tk.CreatedAt.UTC().Format("2006-01-02 15:04:05")
	}
	if !tk.ResolvedAt.IsZero() {
		resolvedAt = tk.ResolvedAt.UTC().Format("2006-01-02 15:04:05")
	}
	if tk.HasResolutionTime() {
		hours = tk.ResolutionHours
	}

	return []any{
		tk.BusinessService,
		tk.Category,
		tk.Number,
		tk.Priority,
		tk.SLADue,
		createdAt,
		resolvedAt,
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

func (s *Store) placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = s.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

func (s *Store) placeholder(position int) string {
	if strings.EqualFold(s.driver, "postgres") {
		return fmt.Sprintf("$%d", position)
	}
	return "?"
}

func sqlDriverName(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}
