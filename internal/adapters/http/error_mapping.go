package httpadapter

import (
	"net/http"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrSchemaValidation):
		// The model endpoint answered, but with output failing the schema.
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
