// Package store is the relational persistence layer behind ingestion and
// query access. The store location selects the backend: postgres:// and
// postgresql:// DSNs use pgx, anything else is a SQLite database file path.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "pgx"

	// Rows per INSERT batch are sized so the bind-parameter count stays
	// well below every backend's statement limit.
	maxInsertParams = 800
)

type Store struct {
	db       *sql.DB
	driver   string
	location string
}

// Open resolves a store location into a live handle. For file-backed
// locations the parent directory is created first.
func Open(location string) (*Store, error) {
	driver := driverSQLite
	if strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") {
		driver = driverPostgres
	} else if dir := filepath.Dir(location); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open(driver, location)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store ping: %w", err)
	}

	return &Store{db: db, driver: driver, location: location}, nil
}

func (s *Store) Location() string {
	return s.location
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ListTables reports table names in the store's natural order. The first
// entry is what a session adopts as the primary table.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`
	if s.driver == driverPostgres {
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE'`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// TableColumns reports the ordered column names of one table.
func (s *Store) TableColumns(ctx context.Context, table string) ([]string, error) {
	var rows *sql.Rows
	var err error
	if s.driver == driverPostgres {
		rows, err = s.db.QueryContext(ctx,
			`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position`,
			table,
		)
	} else {
		// PRAGMA does not take bind parameters; the identifier is quoted.
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(table)))
	}
	if err != nil {
		return nil, fmt.Errorf("table columns: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		if s.driver == driverPostgres {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, fmt.Errorf("scan column name: %w", err)
			}
			columns = append(columns, name)
			continue
		}

		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table columns: %w", err)
	}
	return columns, nil
}

// CountRows re-reads the row count of a table straight from the store.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(table))
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return count, nil
}

// ImportTable bulk-writes all rows into the named table under the given
// conflict policy. The whole import runs in one transaction so a failure
// leaves either the previous table state or nothing, per the backend's own
// transaction semantics.
func (s *Store) ImportTable(ctx context.Context, table string, data *domain.TableData, policy domain.ConflictPolicy) error {
	if table == "" {
		return domain.WrapError(domain.ErrInvalidInput, "import table", fmt.Errorf("table name is empty"))
	}
	if data == nil || len(data.Columns) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "import table", fmt.Errorf("no columns to import"))
	}

	switch policy {
	case domain.PolicyReplace, domain.PolicyAppend, domain.PolicyFail:
	default:
		return domain.WrapError(domain.ErrInvalidInput, "import table", fmt.Errorf("unknown conflict policy %q", policy))
	}

	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return domain.WrapError(domain.ErrStoreWrite, "import table", err)
	}
	if exists && policy == domain.PolicyFail {
		return domain.WrapError(domain.ErrStoreWrite, "import table", fmt.Errorf("table %q already exists", table))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapError(domain.ErrStoreWrite, "begin import tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if policy == domain.PolicyReplace {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(table))); err != nil {
			return domain.WrapError(domain.ErrStoreWrite, "drop existing table", err)
		}
		exists = false
	}

	numeric := numericColumns(data)
	if !exists {
		if _, err := tx.ExecContext(ctx, s.createTableSQL(table, data.Columns, numeric)); err != nil {
			return domain.WrapError(domain.ErrStoreWrite, "create table", err)
		}
	}

	if err := s.insertRows(ctx, tx, table, data, numeric); err != nil {
		return domain.WrapError(domain.ErrStoreWrite, "bulk insert", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(domain.ErrStoreWrite, "commit import tx", err)
	}
	return nil
}

func (s *Store) tableExists(ctx context.Context, table string) (bool, error) {
	tables, err := s.ListTables(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range tables {
		if t == table {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) createTableSQL(table string, columns []string, numeric []bool) string {
	numericType := "REAL"
	if s.driver == driverPostgres {
		numericType = "DOUBLE PRECISION"
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(table))
	b.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(col))
		if numeric[i] {
			b.WriteString(" " + numericType)
		} else {
			b.WriteString(" TEXT")
		}
	}
	b.WriteString(")")
	return b.String()
}

func (s *Store) insertRows(ctx context.Context, tx *sql.Tx, table string, data *domain.TableData, numeric []bool) error {
	if len(data.Rows) == 0 {
		return nil
	}

	cols := len(data.Columns)
	batchRows := maxInsertParams / cols
	if batchRows < 1 {
		batchRows = 1
	}

	var head strings.Builder
	head.WriteString("INSERT INTO ")
	head.WriteString(quoteIdent(table))
	head.WriteString(" (")
	for i, col := range data.Columns {
		if i > 0 {
			head.WriteString(", ")
		}
		head.WriteString(quoteIdent(col))
	}
	head.WriteString(") VALUES ")

	for offset := 0; offset < len(data.Rows); offset += batchRows {
		end := offset + batchRows
		if end > len(data.Rows) {
			end = len(data.Rows)
		}
		batch := data.Rows[offset:end]

		var b strings.Builder
		b.WriteString(head.String())
		args := make([]any, 0, len(batch)*cols)
		param := 1
		for i, row := range batch {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j := 0; j < cols; j++ {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(s.placeholder(param))
				param++
				args = append(args, cellValue(row, j, numeric[j]))
			}
			b.WriteString(")")
		}

		if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
			return fmt.Errorf("insert batch at row %d: %w", offset, err)
		}
	}
	return nil
}

func (s *Store) placeholder(n int) string {
	if s.driver == driverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// rebind rewrites ?-style placeholders to $N for postgres. Queries passed
// through it are internal constants, never caller text containing literals.
func (s *Store) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}
	var b strings.Builder
	n := 1
	for _, r := range query {
		if r == '?' {
			b.WriteString("$" + strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cellValue maps one CSV cell to a bind argument: empty cells become NULL,
// numeric-column cells are stored as floats, everything else as text.
func cellValue(row []string, idx int, numeric bool) any {
	var cell string
	if idx < len(row) {
		cell = row[idx]
	}
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	if numeric {
		if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			return f
		}
	}
	return cell
}

// numericColumns runs the same affinity rule as profiling: a column is
// numeric when it has a non-null value and all non-null values parse.
func numericColumns(data *domain.TableData) []bool {
	numeric := make([]bool, len(data.Columns))
	for idx := range data.Columns {
		seen := false
		isNumeric := true
		for _, row := range data.Rows {
			var cell string
			if idx < len(row) {
				cell = row[idx]
			}
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
				isNumeric = false
				break
			}
		}
		numeric[idx] = seen && isNumeric
	}
	return numeric
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
