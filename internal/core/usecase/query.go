package usecase

import (
	"context"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
	"github.com/mkotelnikov/transcription-insights/internal/core/ports"
)

// QueryService exposes the read operations of the store session. All reads
// are best-effort: a failure yields an empty result, never an error.
type QueryService struct {
	session ports.StoreSession
}

func NewQueryService(session ports.StoreSession) *QueryService {
	return &QueryService{session: session}
}

// Connect re-discovers the primary table; false when the store is empty.
func (uc *QueryService) Connect(ctx context.Context) bool {
	return uc.session.Connect(ctx)
}

func (uc *QueryService) SpecialtySummary(ctx context.Context) []domain.SpecialtyCount {
	return uc.session.SpecialtySummary(ctx)
}

func (uc *QueryService) Search(ctx context.Context, term string, limit int) []domain.Row {
	return uc.session.Search(ctx, term, limit)
}

func (uc *QueryService) FilterBySpecialty(ctx context.Context, specialty string, limit int) []domain.Row {
	return uc.session.FilterBySpecialty(ctx, specialty, limit)
}
