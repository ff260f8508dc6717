package ports

import (
	"context"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

// FileImporter is the inbound contract for file analysis and bulk import.
type FileImporter interface {
	AnalyzeFile(path string) (*domain.FileAnalysis, error)
	ImportFile(ctx context.Context, path, tableName string, policy domain.ConflictPolicy) (*domain.ImportResult, error)
}

// TranscriptionQueryService is the inbound contract for reads over the
// primary table.
type TranscriptionQueryService interface {
	SpecialtySummary(ctx context.Context) []domain.SpecialtyCount
	Search(ctx context.Context, term string, limit int) []domain.Row
	FilterBySpecialty(ctx context.Context, specialty string, limit int) []domain.Row
}

// InsightAnalyzer is the inbound contract for single-record analysis.
type InsightAnalyzer interface {
	Analyze(ctx context.Context, record domain.TranscriptionRecord) (*domain.ClinicalInsight, error)
}
