package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkotelnikov/transcription-insights/internal/config"
	"github.com/mkotelnikov/transcription-insights/internal/core/ports"
	"github.com/mkotelnikov/transcription-insights/internal/core/usecase"
	"github.com/mkotelnikov/transcription-insights/internal/infrastructure/llm/openai"
	"github.com/mkotelnikov/transcription-insights/internal/infrastructure/store"
	"github.com/mkotelnikov/transcription-insights/internal/infrastructure/tabular"
	"github.com/mkotelnikov/transcription-insights/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Store   *store.Store
	Session *store.Session

	Importer  *usecase.Importer
	Query     *usecase.QueryService
	Insight   *usecase.InsightService
	HTTPStats *metrics.HTTPServerMetrics

	closeFn func()
}

// New wires the pipeline: store handle, caller-owned session, and the three
// use cases, with both metric families on one registry.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	st, err := store.Open(cfg.StoreLocation)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	session := store.NewSession(st, logger)

	registry := prometheus.NewRegistry()
	httpStats := metrics.NewHTTPServerMetricsOn("api", registry)
	pipelineStats := metrics.NewPipelineMetricsOn(registry)

	reader := tabular.NewReader()
	importer := usecase.NewImporter(reader, st, logger, pipelineStats)
	query := usecase.NewQueryService(session)

	newGenerator := func(apiKey, model string, temperature float64) ports.InsightGenerator {
		return openai.New(cfg.OpenAIBaseURL, apiKey, model, temperature)
	}
	insight := usecase.NewInsightService(
		usecase.InsightDefaults{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			Temperature: cfg.ModelTemperature,
		},
		newGenerator,
		logger,
		pipelineStats,
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     st,
		Session:   session,
		Importer:  importer,
		Query:     query,
		Insight:   insight,
		HTTPStats: httpStats,

		closeFn: func() {
			_ = st.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
