package usecase

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
	"github.com/mkotelnikov/transcription-insights/internal/core/ports"
	"github.com/mkotelnikov/transcription-insights/internal/observability/metrics"
)

const serviceIngest = "ingest"

// Importer analyzes tabular files and bulk-loads them into the store.
// Analysis never touches the store; imports are fatal on failure and make
// no partial-success guarantee beyond the store's own transaction scope.
type Importer struct {
	reader  ports.TabularReader
	store   ports.TableStore
	logger  *slog.Logger
	metrics *metrics.PipelineMetrics
}

func NewImporter(
	reader ports.TabularReader,
	store ports.TableStore,
	logger *slog.Logger,
	pipelineMetrics *metrics.PipelineMetrics,
) *Importer {
	return &Importer{
		reader:  reader,
		store:   store,
		logger:  logger,
		metrics: pipelineMetrics,
	}
}

// AnalyzeFile reads the full file and returns row/column counts plus a
// profile per column.
func (uc *Importer) AnalyzeFile(path string) (*domain.FileAnalysis, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			uc.logger.Error("tabular file not found", "path", path)
			return nil, domain.WrapError(domain.ErrNotFound, "analyze file", err)
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze file", err)
	}

	data, err := uc.reader.Read(path)
	if err != nil {
		uc.logger.Error("read tabular file", "path", path, "error", err)
		return nil, err
	}

	analysis := &domain.FileAnalysis{
		Path:        path,
		SizeBytes:   info.Size(),
		RowCount:    len(data.Rows),
		ColumnCount: len(data.Columns),
		Columns:     domain.Profile(data),
	}

	uc.logger.Info("file analysis completed",
		"path", path,
		"rows", analysis.RowCount,
		"columns", analysis.ColumnCount,
	)
	return analysis, nil
}

// ImportFile bulk-writes all rows of the file into the named table under
// the given conflict policy, then confirms the write by re-reading the row
// count and column list from the store.
func (uc *Importer) ImportFile(
	ctx context.Context,
	path, tableName string,
	policy domain.ConflictPolicy,
) (result *domain.ImportResult, err error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := uc.logger.With("run_id", runID, "path", path)

	rowsImported := 0
	defer func() {
		uc.metrics.FinishImport(serviceIngest, rowsImported, time.Since(start), err)
	}()

	if _, statErr := os.Stat(path); statErr != nil {
		logger.Error("import source not found", "error", statErr)
		return nil, domain.WrapError(domain.ErrNotFound, "import file", statErr)
	}

	if tableName == "" {
		tableName = TableNameFromPath(path)
		logger.Info("using table name derived from file", "table", tableName)
	}
	logger.Info("starting import", "table", tableName, "policy", string(policy))

	data, err := uc.reader.Read(path)
	if err != nil {
		logger.Error("read tabular data", "error", err)
		return nil, err
	}
	logger.Info("read tabular data", "rows", len(data.Rows), "columns", len(data.Columns))

	if err = uc.store.ImportTable(ctx, tableName, data, policy); err != nil {
		logger.Error("bulk write failed", "table", tableName, "error", err)
		return nil, err
	}

	// Confirm the write from the store, not from the in-memory frame.
	rowsImported, err = uc.store.CountRows(ctx, tableName)
	if err != nil {
		logger.Error("verify row count", "table", tableName, "error", err)
		return nil, domain.WrapError(domain.ErrStoreWrite, "verify import", err)
	}
	columns, err := uc.store.TableColumns(ctx, tableName)
	if err != nil {
		logger.Error("verify columns", "table", tableName, "error", err)
		return nil, domain.WrapError(domain.ErrStoreWrite, "verify import", err)
	}

	elapsed := time.Since(start)
	result = &domain.ImportResult{
		RunID:         runID,
		TableName:     tableName,
		RowsImported:  rowsImported,
		ColumnCount:   len(data.Columns),
		Columns:       columns,
		Elapsed:       elapsed,
		ElapsedMs:     float64(elapsed.Microseconds()) / 1000.0,
		StoreLocation: uc.store.Location(),
	}

	logger.Info("import completed",
		"table", tableName,
		"rows_imported", rowsImported,
		"duration_ms", result.ElapsedMs,
	)
	return result, nil
}

// TableNameFromPath derives the destination table name from the file stem:
// lower-cased, spaces replaced with underscores.
func TableNameFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(strings.ToLower(stem), " ", "_")
}
