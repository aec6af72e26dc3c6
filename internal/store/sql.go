package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/bpo-report/pkg/constants"
	"github.com/iwvelando/bpo-report/pkg/optimization"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id            TEXT PRIMARY KEY,
	created_at    BIGINT NOT NULL,
	monthly_cost  DOUBLE PRECISION NOT NULL,
	total_savings DOUBLE PRECISION NOT NULL,
	summary       TEXT NOT NULL
)`

// SQL archives reports through database/sql. Queries are written with "?"
// placeholders and rebound for postgres.
type SQL struct {
	db     *sql.DB
	driver string
}

// OpenSQL connects to sqlite (modernc.org/sqlite) or postgres (lib/pq),
// verifies the connection and creates the reports table.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	switch driver {
	case constants.StoreDriverSQLite:
		dsn = sqliteDSN(dsn)
	case constants.StoreDriverPostgres:
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("postgres store requires a dsn")
		}
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == constants.StoreDriverSQLite {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create reports table: %w", err)
	}

	return &SQL{db: db, driver: driver}, nil
}

func sqliteDSN(dsn string) string {
	if strings.TrimSpace(dsn) == "" {
		return ":memory:"
	}
	return dsn
}

// Save inserts a report.
func (s *SQL) Save(ctx context.Context, report optimization.Report) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT EXISTS(SELECT 1 FROM reports WHERE id = ?)`), report.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check report existence: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, report.ID)
	}

	summary, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode report summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO reports (id, created_at, monthly_cost, total_savings, summary)
		VALUES (?, ?, ?, ?, ?)
	`), report.ID, report.GeneratedAt.UnixNano(), report.Summary.Input.MonthlyCost, report.Summary.TotalSavings, string(summary))
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Get retrieves a report by id.
func (s *SQL) Get(ctx context.Context, id string) (optimization.Report, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, created_at, summary FROM reports WHERE id = ?`), id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return optimization.Report{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return optimization.Report{}, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// List returns up to limit reports, newest first.
func (s *SQL) List(ctx context.Context, limit int) ([]optimization.Report, error) {
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, created_at, summary FROM reports
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]optimization.Report, 0, limit)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (optimization.Report, error) {
	var (
		report    optimization.Report
		createdAt int64
		summary   string
	)
	if err := row.Scan(&report.ID, &createdAt, &summary); err != nil {
		return optimization.Report{}, err
	}
	if err := json.Unmarshal([]byte(summary), &report.Summary); err != nil {
		return optimization.Report{}, fmt.Errorf("failed to decode report summary: %w", err)
	}
	report.GeneratedAt = time.Unix(0, createdAt).UTC()
	return report, nil
}

// Ping verifies the database connection.
func (s *SQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQL) Driver() string { return s.driver }

// Close closes the database. Calling it again is a no-op.
func (s *SQL) Close() error {
	return s.db.Close()
}

// rebind rewrites "?" placeholders as $1..$n for postgres.
func (s *SQL) rebind(query string) string {
	if s.driver != constants.StoreDriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
