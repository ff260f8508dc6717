package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

// Column names of the transcription dataset the read queries rely on.
const (
	specialtyColumn     = "medical_specialty"
	transcriptionColumn = "transcription"
	descriptionColumn   = "description"
	keywordsColumn      = "keywords"
)

const defaultQueryLimit = 10

// Session is a caller-owned read session over the store's primary table:
// whichever table the store reports first. The cached table name and column
// list never refresh on their own; call Connect again to observe schema
// changes. All reads are best-effort and return empty results on failure.
type Session struct {
	store  *Store
	logger *slog.Logger

	mu           sync.Mutex
	primaryTable string
	columns      []string
}

func NewSession(st *Store, logger *slog.Logger) *Session {
	return &Session{store: st, logger: logger}
}

// Connect discovers tables and adopts the first one as primary, replacing
// any previously cached state. It reports false, not an error, when the
// store holds no tables.
func (s *Session) Connect(ctx context.Context) bool {
	tables, err := s.store.ListTables(ctx)
	if err != nil {
		s.logger.Error("list tables", "location", s.store.Location(), "error", err)
		s.setPrimary("", nil)
		return false
	}
	if len(tables) == 0 {
		s.logger.Warn("no tables found in store", "location", s.store.Location())
		s.setPrimary("", nil)
		return false
	}

	columns, err := s.store.TableColumns(ctx, tables[0])
	if err != nil {
		s.logger.Error("introspect primary table", "table", tables[0], "error", err)
		s.setPrimary("", nil)
		return false
	}

	s.setPrimary(tables[0], columns)
	s.logger.Info("connected to primary table", "table", tables[0], "columns", len(columns))
	return true
}

// PrimaryTable returns the cached primary table name, empty before a
// successful Connect.
func (s *Session) PrimaryTable() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.primaryTable
}

// Columns returns the cached column list of the primary table.
func (s *Session) Columns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s *Session) setPrimary(table string, columns []string) {
	s.mu.Lock()
	s.primaryTable = table
	s.columns = columns
	s.mu.Unlock()
}

// ensurePrimary lazily connects when no primary table is cached yet.
func (s *Session) ensurePrimary(ctx context.Context) (string, bool) {
	if table := s.PrimaryTable(); table != "" {
		return table, true
	}
	if !s.Connect(ctx) {
		return "", false
	}
	return s.PrimaryTable(), true
}

// ExecuteQuery runs a parameterized read query and maps the result set to
// rows in cursor column order. Execution failures are logged and surface as
// an empty slice, never as an error.
func (s *Session) ExecuteQuery(ctx context.Context, query string, args ...any) []domain.Row {
	if _, ok := s.ensurePrimary(ctx); !ok {
		return []domain.Row{}
	}

	rows, err := s.store.db.QueryContext(ctx, s.store.rebind(query), args...)
	if err != nil {
		s.logger.Error("execute query", "error", err)
		return []domain.Row{}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		s.logger.Error("read result columns", "error", err)
		return []domain.Row{}
	}

	results := make([]domain.Row, 0, defaultQueryLimit)
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			s.logger.Error("scan result row", "error", err)
			return []domain.Row{}
		}

		mapped := make(map[string]any, len(columns))
		for i, col := range columns {
			mapped[col] = normalizeValue(values[i])
		}
		results = append(results, domain.Row{Columns: columns, Values: mapped})
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("iterate result rows", "error", err)
		return []domain.Row{}
	}
	return results
}

// SpecialtySummary groups the primary table by specialty and orders the
// counts descending. Tie order between equal counts is the store's natural
// order and is not specified.
func (s *Session) SpecialtySummary(ctx context.Context) []domain.SpecialtyCount {
	table, ok := s.ensurePrimary(ctx)
	if !ok {
		return []domain.SpecialtyCount{}
	}

	query := fmt.Sprintf(
		`SELECT %s, COUNT(*) AS count FROM %s GROUP BY %s ORDER BY count DESC`,
		quoteIdent(specialtyColumn), quoteIdent(table), quoteIdent(specialtyColumn),
	)

	rows := s.ExecuteQuery(ctx, query)
	summary := make([]domain.SpecialtyCount, 0, len(rows))
	for _, row := range rows {
		summary = append(summary, domain.SpecialtyCount{
			Specialty: toString(row.Get(specialtyColumn)),
			Count:     toInt(row.Get("count")),
		})
	}
	return summary
}

// Search matches the term as a substring against the transcription,
// description, and keywords columns, OR-combined, capped at limit rows.
// Case sensitivity follows the backend's LIKE semantics.
func (s *Session) Search(ctx context.Context, term string, limit int) []domain.Row {
	table, ok := s.ensurePrimary(ctx)
	if !ok {
		return []domain.Row{}
	}
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	query := fmt.Sprintf(
		`SELECT * FROM %s WHERE %s LIKE ? OR %s LIKE ? OR %s LIKE ? LIMIT ?`,
		quoteIdent(table),
		quoteIdent(transcriptionColumn), quoteIdent(descriptionColumn), quoteIdent(keywordsColumn),
	)

	pattern := "%" + term + "%"
	return s.ExecuteQuery(ctx, query, pattern, pattern, pattern, limit)
}

// FilterBySpecialty matches the specialty label as a substring, capped at
// limit rows.
func (s *Session) FilterBySpecialty(ctx context.Context, specialty string, limit int) []domain.Row {
	table, ok := s.ensurePrimary(ctx)
	if !ok {
		return []domain.Row{}
	}
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	query := fmt.Sprintf(
		`SELECT * FROM %s WHERE %s LIKE ? LIMIT ?`,
		quoteIdent(table), quoteIdent(specialtyColumn),
	)

	return s.ExecuteQuery(ctx, query, "%"+specialty+"%", limit)
}

func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func toInt(v any) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case int:
		return t
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(t)
		return n
	default:
		return 0
	}
}
