package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
	"github.com/mkotelnikov/transcription-insights/internal/core/ports"
	"github.com/mkotelnikov/transcription-insights/internal/observability/metrics"
)

const maxSearchLimit = 100

type Router struct {
	query   ports.TranscriptionQueryService
	insight ports.InsightAnalyzer
	metrics *metrics.HTTPServerMetrics
	limits  RateLimits
}

func NewRouter(
	query ports.TranscriptionQueryService,
	insight ports.InsightAnalyzer,
	serverMetrics *metrics.HTTPServerMetrics,
	limits RateLimits,
) *Router {
	return &Router{
		query:   query,
		insight: insight,
		metrics: serverMetrics,
		limits:  limits,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/specialties", rt.specialtySummary)
	mux.HandleFunc("/v1/transcriptions/search", rt.searchTranscriptions)
	mux.HandleFunc("/v1/transcriptions", rt.filterTranscriptions)
	mux.HandleFunc("/v1/insights", rt.analyzeTranscription)
	mux.Handle("/metrics", rt.metrics.Handler())

	handler := rateLimitMiddleware(rt.limits, mux)
	handler = rt.metrics.Middleware("api", handler)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) specialtySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"specialties": rt.query.SpecialtySummary(r.Context()),
	})
}

func (rt *Router) searchTranscriptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'q' is required"})
		return
	}

	rows := rt.query.Search(r.Context(), term, parseLimit(r))
	writeJSON(w, http.StatusOK, map[string]any{"results": rows, "count": len(rows)})
}

func (rt *Router) filterTranscriptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	specialty := strings.TrimSpace(r.URL.Query().Get("specialty"))
	if specialty == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'specialty' is required"})
		return
	}

	rows := rt.query.FilterBySpecialty(r.Context(), specialty, parseLimit(r))
	writeJSON(w, http.StatusOK, map[string]any{"results": rows, "count": len(rows)})
}

func (rt *Router) analyzeTranscription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var record domain.TranscriptionRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	insight, err := rt.insight.Analyze(r.Context(), record)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
