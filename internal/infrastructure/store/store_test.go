package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "processed", "transcriptions.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func transcriptionData() *domain.TableData {
	return &domain.TableData{
		Columns: []string{"description", "medical_specialty", "transcription", "keywords", "age"},
		Rows: [][]string{
			{"chest pain", "Cardiology", "2-D M-MODE echo", "cardio, echo", "61"},
			{"headache", "Neurology", "patient reports migraines", "neuro", "45"},
			{"follow-up", "Cardiology", "stress test normal", "cardio", ""},
		},
	}
}

func TestImportTableCreatesAndCounts(t *testing.T) {
	st := openTempStore(t)
	ctx := context.Background()

	if err := st.ImportTable(ctx, "mtsamples", transcriptionData(), domain.PolicyReplace); err != nil {
		t.Fatalf("ImportTable() error = %v", err)
	}

	tables, err := st.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if len(tables) != 1 || tables[0] != "mtsamples" {
		t.Fatalf("tables = %v, want [mtsamples]", tables)
	}

	count, err := st.CountRows(ctx, "mtsamples")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	columns, err := st.TableColumns(ctx, "mtsamples")
	if err != nil {
		t.Fatalf("TableColumns() error = %v", err)
	}
	want := []string{"description", "medical_specialty", "transcription", "keywords", "age"}
	if len(columns) != len(want) {
		t.Fatalf("columns = %v, want %v", columns, want)
	}
	for i, col := range want {
		if columns[i] != col {
			t.Fatalf("column[%d] = %s, want %s", i, columns[i], col)
		}
	}
}

func TestImportTableReplaceIsIdempotent(t *testing.T) {
	st := openTempStore(t)
	ctx := context.Background()
	data := transcriptionData()

	for i := 0; i < 2; i++ {
		if err := st.ImportTable(ctx, "mtsamples", data, domain.PolicyReplace); err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
	}

	count, err := st.CountRows(ctx, "mtsamples")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if count != len(data.Rows) {
		t.Fatalf("count after double replace = %d, want %d", count, len(data.Rows))
	}
}

func TestImportTableAppendAccumulates(t *testing.T) {
	st := openTempStore(t)
	ctx := context.Background()
	data := transcriptionData()

	if err := st.ImportTable(ctx, "mtsamples", data, domain.PolicyReplace); err != nil {
		t.Fatalf("initial import: %v", err)
	}
	if err := st.ImportTable(ctx, "mtsamples", data, domain.PolicyAppend); err != nil {
		t.Fatalf("append import: %v", err)
	}

	count, err := st.CountRows(ctx, "mtsamples")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if count != 2*len(data.Rows) {
		t.Fatalf("count after append = %d, want %d", count, 2*len(data.Rows))
	}
}

func TestImportTableFailPolicyRejectsExisting(t *testing.T) {
	st := openTempStore(t)
	ctx := context.Background()
	data := transcriptionData()

	if err := st.ImportTable(ctx, "mtsamples", data, domain.PolicyReplace); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	err := st.ImportTable(ctx, "mtsamples", data, domain.PolicyFail)
	if err == nil {
		t.Fatalf("expected error for existing table")
	}
	if !domain.IsKind(err, domain.ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite kind, got %v", err)
	}
}

func TestImportTableRejectsUnknownPolicy(t *testing.T) {
	st := openTempStore(t)

	err := st.ImportTable(context.Background(), "mtsamples", transcriptionData(), domain.ConflictPolicy("merge"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput kind, got %v", err)
	}
}

func TestNumericColumnsAffinity(t *testing.T) {
	data := transcriptionData()
	numeric := numericColumns(data)

	want := []bool{false, false, false, false, true}
	for i := range want {
		if numeric[i] != want[i] {
			t.Fatalf("numeric[%d] = %v, want %v (column %s)", i, numeric[i], want[i], data.Columns[i])
		}
	}
}

func TestRebindRewritesPlaceholdersForPostgres(t *testing.T) {
	sqlite := &Store{driver: driverSQLite}
	if got := sqlite.rebind("SELECT * FROM t WHERE a = ? AND b = ?"); got != "SELECT * FROM t WHERE a = ? AND b = ?" {
		t.Fatalf("sqlite rebind changed query: %s", got)
	}

	pg := &Store{driver: driverPostgres}
	want := "SELECT * FROM t WHERE a = $1 AND b = $2"
	if got := pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"); got != want {
		t.Fatalf("postgres rebind = %s, want %s", got, want)
	}
}

func TestQuoteIdentEscapesQuotes(t *testing.T) {
	if got := quoteIdent(`na"me`); got != `"na""me"` {
		t.Fatalf("quoteIdent = %s", got)
	}
}
