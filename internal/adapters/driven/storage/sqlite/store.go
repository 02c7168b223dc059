package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "court_cases.db"

// Ensure Store implements the interface.
var _ driven.CaseStore = (*Store)(nil)

// Store is a SQLite-backed driven.CaseStore.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.courtfetch/data/court_cases.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".courtfetch", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return Open(filepath.Join(dataDir, DatabaseFile))
}

// Open opens or creates the database at dbPath and applies migrations.
func Open(dbPath string) (*Store, error) {
	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Searches ====================

// RecordSearch stores a lookup attempt.
func (s *Store) RecordSearch(ctx context.Context, id domain.CaseIdentifier) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (case_number, case_type, filing_year, search_date)
		VALUES (?, ?, ?, ?)
	`, id.CaseNumber, id.CaseType, id.FilingYear, s.now())
	if err != nil {
		return 0, fmt.Errorf("recording search: %w", err)
	}
	return res.LastInsertId()
}

// MarkSearchFailed attaches an error message to a search.
func (s *Store) MarkSearchFailed(ctx context.Context, searchID int64, message string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE searches SET error_message = ? WHERE id = ?`, message, searchID)
	if err != nil {
		return fmt.Errorf("marking search failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecentSearches returns the latest searches joined with their cases.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.case_number, s.case_type, s.filing_year, s.search_date,
		       COALESCE(s.error_message, ''),
		       c.id, c.petitioner, c.respondent, c.status
		FROM searches s
		LEFT JOIN cases c ON c.id = (
			SELECT id FROM cases
			WHERE case_number = s.case_number
			  AND case_type = s.case_type
			  AND filing_year = s.filing_year
			ORDER BY search_date DESC, id DESC
			LIMIT 1
		)
		ORDER BY s.search_date DESC, s.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent searches: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			r                              domain.SearchRecord
			caseID                         sql.NullInt64
			petitioner, respondent, status sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.CaseNumber, &r.CaseType, &r.FilingYear, &r.SearchedAt,
			&r.ErrorMessage, &caseID, &petitioner, &respondent, &status); err != nil {
			return nil, fmt.Errorf("scanning search: %w", err)
		}
		r.CaseID = caseID.Int64
		r.Petitioner = petitioner.String
		r.Respondent = respondent.String
		r.Status = status.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// ==================== Cases ====================

// SaveCase stores a case and its orders in one transaction.
func (s *Store) SaveCase(ctx context.Context, c *domain.Case) error {
	if c == nil {
		return domain.ErrInvalidInput
	}
	if c.SearchedAt.IsZero() {
		c.SearchedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO cases (case_number, case_type, filing_year, petitioner, respondent, status, next_date, search_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.CaseNumber, c.CaseType, c.FilingYear, c.Petitioner, c.Respondent, c.Status, c.NextDate, c.SearchedAt)
	if err != nil {
		return fmt.Errorf("saving case: %w", err)
	}
	caseID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading case id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO orders (case_id, order_date, order_text, pdf_url, pdf_filename, pdf_text)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	orderIDs := make([]int64, len(c.Orders))
	for i := range c.Orders {
		o := &c.Orders[i]
		res, err := stmt.ExecContext(ctx, caseID, o.OrderDate, o.OrderText, o.PDFURL, o.PDFFilename, o.PDFText)
		if err != nil {
			return fmt.Errorf("saving order: %w", err)
		}
		if orderIDs[i], err = res.LastInsertId(); err != nil {
			return fmt.Errorf("reading order id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	c.ID = caseID
	for i := range c.Orders {
		c.Orders[i].ID = orderIDs[i]
		c.Orders[i].CaseID = caseID
	}
	return nil
}

// GetCase returns a case with its orders, newest order first.
func (s *Store) GetCase(ctx context.Context, id int64) (*domain.Case, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, case_number, case_type, filing_year, petitioner, respondent, status, next_date, search_date
		FROM cases WHERE id = ?
	`, id)

	c, err := scanCase(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, case_id, order_date, order_text, pdf_url, pdf_filename, pdf_text
		FROM orders WHERE case_id = ?
		ORDER BY order_date DESC, id DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CaseID, &o.OrderDate, &o.OrderText, &o.PDFURL, &o.PDFFilename, &o.PDFText); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		c.Orders = append(c.Orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return c, nil
}

// ListCases returns all cases, newest search first, without orders.
func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, case_number, case_type, filing_year, petitioner, respondent, status, next_date, search_date
		FROM cases
		ORDER BY search_date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.Case //nolint:prealloc // size unknown from query
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, *c)
	}
	return cases, rows.Err()
}

// Reset deletes every search, case and order.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"orders", "cases", "searches"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(row scanner) (*domain.Case, error) {
	var c domain.Case
	err := row.Scan(&c.ID, &c.CaseNumber, &c.CaseType, &c.FilingYear,
		&c.Petitioner, &c.Respondent, &c.Status, &c.NextDate, &c.SearchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning case: %w", err)
	}
	return &c, nil
}
