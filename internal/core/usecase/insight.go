package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
	"github.com/mkotelnikov/transcription-insights/internal/core/ports"
	"github.com/mkotelnikov/transcription-insights/internal/observability/metrics"
)

const serviceInsight = "insight"

// GeneratorFactory builds a bound insight generator for one resolved
// key/model/temperature triple.
type GeneratorFactory func(apiKey, model string, temperature float64) ports.InsightGenerator

// InsightDefaults are the process-configuration fallbacks Initialize
// resolves against when explicit arguments are absent.
type InsightDefaults struct {
	APIKey      string
	Model       string
	Temperature float64
}

// InsightService analyzes single transcription records. It starts
// uninitialized and becomes ready after Initialize; re-initializing
// overwrites the bound generator. A failed Analyze changes no state.
type InsightService struct {
	defaults     InsightDefaults
	newGenerator GeneratorFactory
	logger       *slog.Logger
	metrics      *metrics.PipelineMetrics

	mu        sync.Mutex
	generator ports.InsightGenerator
}

func NewInsightService(
	defaults InsightDefaults,
	newGenerator GeneratorFactory,
	logger *slog.Logger,
	pipelineMetrics *metrics.PipelineMetrics,
) *InsightService {
	return &InsightService{
		defaults:     defaults,
		newGenerator: newGenerator,
		logger:       logger,
		metrics:      pipelineMetrics,
	}
}

// Initialize resolves API key, model, and temperature from the arguments
// with fallback to process configuration, and binds a fresh generator.
// A missing API key in both sources is fatal and non-retryable.
func (uc *InsightService) Initialize(apiKey, model string, temperature *float64) error {
	key := apiKey
	if key == "" {
		key = uc.defaults.APIKey
	}
	if key == "" {
		uc.logger.Error("no model API key provided")
		return domain.WrapError(domain.ErrInvalidInput, "initialize insight model",
			errors.New("model API key is required"))
	}

	resolvedModel := model
	if resolvedModel == "" {
		resolvedModel = uc.defaults.Model
	}
	temp := uc.defaults.Temperature
	if temperature != nil {
		temp = *temperature
	}

	uc.mu.Lock()
	uc.generator = uc.newGenerator(key, resolvedModel, temp)
	uc.mu.Unlock()

	uc.logger.Info("insight model initialized", "model", resolvedModel, "temperature", temp)
	return nil
}

// Analyze renders the prompt for one record and performs a single
// completion call. Empty transcription text is a caller-contract violation
// and fails before any network activity; identical records re-submitted
// always produce a fresh model call.
func (uc *InsightService) Analyze(ctx context.Context, record domain.TranscriptionRecord) (insight *domain.ClinicalInsight, err error) {
	start := time.Now()
	defer func() {
		uc.metrics.FinishInsight(serviceInsight, time.Since(start), err)
	}()

	if strings.TrimSpace(record.Transcription) == "" {
		uc.logger.Error("empty transcription text")
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze transcription",
			errors.New("transcription text is empty"))
	}

	generator := uc.current()
	if generator == nil {
		if err = uc.Initialize("", "", nil); err != nil {
			return nil, err
		}
		generator = uc.current()
	}

	specialty := record.Specialty
	if specialty == "" {
		specialty = domain.UnknownSpecialty
	}

	uc.logger.Info("analyzing transcription", "specialty", specialty)
	insight, err = generator.GenerateInsight(ctx, specialty, record.Transcription)
	if err != nil {
		uc.logger.Error("transcription analysis failed", "specialty", specialty, "error", err)
		return nil, err
	}

	uc.logger.Info("transcription analyzed",
		"specialty", specialty,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return insight, nil
}

func (uc *InsightService) current() ports.InsightGenerator {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.generator
}
