package ports

import (
	"context"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

// TabularReader reads one delimited tabular file fully into memory.
type TabularReader interface {
	Read(path string) (*domain.TableData, error)
}

// TableStore bulk-writes tables and introspects what the store holds.
// The store's own transaction semantics are relied upon for atomicity.
type TableStore interface {
	ImportTable(ctx context.Context, table string, data *domain.TableData, policy domain.ConflictPolicy) error
	ListTables(ctx context.Context) ([]string, error)
	TableColumns(ctx context.Context, table string) ([]string, error)
	CountRows(ctx context.Context, table string) (int, error)
	Location() string
	Close() error
}

// StoreSession is a caller-owned read session bound to the store's primary
// table. Queries are best-effort: execution failures surface as empty results.
type StoreSession interface {
	Connect(ctx context.Context) bool
	ExecuteQuery(ctx context.Context, query string, args ...any) []domain.Row
	SpecialtySummary(ctx context.Context) []domain.SpecialtyCount
	Search(ctx context.Context, term string, limit int) []domain.Row
	FilterBySpecialty(ctx context.Context, specialty string, limit int) []domain.Row
}

// InsightGenerator renders the analysis prompt for one record, performs a
// single completion call, and parses the response into a ClinicalInsight.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, specialty, transcription string) (*domain.ClinicalInsight, error)
}
