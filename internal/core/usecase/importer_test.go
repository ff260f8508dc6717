package usecase

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
	"github.com/mkotelnikov/transcription-insights/internal/infrastructure/store"
	"github.com/mkotelnikov/transcription-insights/internal/infrastructure/tabular"
)

const sampleCSV = "description,medical_specialty,transcription,age\n" +
	"chest pain,Cardiology,2-D M-MODE echo,61\n" +
	"headache,Neurology,patient reports migraines,45\n" +
	"follow-up,Cardiology,stress test normal,\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "processed", "transcriptions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewImporter(tabular.NewReader(), st, discardLogger(), nil), st
}

func writeSample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestAnalyzeFileProfilesColumns(t *testing.T) {
	importer, _ := newTestImporter(t)
	path := writeSample(t, "mtsamples.csv")

	analysis, err := importer.AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	if analysis.RowCount != 3 || analysis.ColumnCount != 4 {
		t.Fatalf("analysis = %d rows / %d columns, want 3/4", analysis.RowCount, analysis.ColumnCount)
	}

	byName := map[string]domain.ColumnProfile{}
	for _, col := range analysis.Columns {
		byName[col.Name] = col
	}
	if byName["age"].Kind != domain.ColumnNumeric {
		t.Fatalf("age kind = %s, want numeric", byName["age"].Kind)
	}
	if byName["age"].NullCount != 1 {
		t.Fatalf("age nulls = %d, want 1", byName["age"].NullCount)
	}
	if byName["medical_specialty"].DistinctCount != 2 {
		t.Fatalf("specialty distinct = %d, want 2", byName["medical_specialty"].DistinctCount)
	}
}

func TestAnalyzeFileMissingPath(t *testing.T) {
	importer, _ := newTestImporter(t)

	_, err := importer.AnalyzeFile(filepath.Join(t.TempDir(), "absent.csv"))
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound kind, got %v", err)
	}
}

func TestImportFileVerifiesAgainstStore(t *testing.T) {
	importer, st := newTestImporter(t)
	path := writeSample(t, "mtsamples.csv")

	result, err := importer.ImportFile(context.Background(), path, "", domain.PolicyReplace)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	if result.TableName != "mtsamples" {
		t.Fatalf("table = %s, want mtsamples", result.TableName)
	}
	if result.RowsImported != 3 {
		t.Fatalf("rows imported = %d, want 3", result.RowsImported)
	}
	if result.RunID == "" {
		t.Fatalf("run id is empty")
	}
	if result.StoreLocation != st.Location() {
		t.Fatalf("store location = %s, want %s", result.StoreLocation, st.Location())
	}

	// The reported count is the store's, not the in-memory frame's.
	count, err := st.CountRows(context.Background(), "mtsamples")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if count != result.RowsImported {
		t.Fatalf("store count = %d, result = %d", count, result.RowsImported)
	}
}

func TestImportFileMissingPath(t *testing.T) {
	importer, _ := newTestImporter(t)

	_, err := importer.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), "", domain.PolicyReplace)
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound kind, got %v", err)
	}
}

func TestTableNameFromPath(t *testing.T) {
	cases := map[string]string{
		"/data/raw/mtsamples.csv": "mtsamples",
		"My File.csv":             "my_file",
		"Samples Export.XLSX":     "samples_export",
	}
	for path, want := range cases {
		if got := TableNameFromPath(path); got != want {
			t.Errorf("TableNameFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
