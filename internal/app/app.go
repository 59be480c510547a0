package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/matchreel/external/forzasys"
	"github.com/riskibarqy/matchreel/external/sheets"
	"github.com/riskibarqy/matchreel/internal/config"
	"github.com/riskibarqy/matchreel/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchreel/internal/platform/id"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
	"github.com/riskibarqy/matchreel/internal/platform/resilience"
	"github.com/riskibarqy/matchreel/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var recorder *metrics.Recorder
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		recorder = metrics.NewRecorder(metrics.WithRuntimeCollectors())
		metricsHandler = recorder.Handler()
	}

	breaker := resilience.BreakerConfig{
		Enabled:          cfg.CircuitEnabled,
		FailureThreshold: cfg.CircuitFailureCount,
		OpenTimeout:      cfg.CircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.CircuitHalfOpenMaxReq,
	}

	sheetClient := sheets.NewClient(sheets.ClientConfig{
		BaseURL:        cfg.SheetsBaseURL,
		SpreadsheetID:  cfg.SheetsSpreadsheetID,
		Range:          cfg.SheetsRange,
		APIKey:         cfg.SheetsAPIKey,
		Timeout:        cfg.ProviderTimeout,
		MaxRetries:     cfg.ProviderMaxRetries,
		Logger:         logger,
		Metrics:        recorder,
		CircuitBreaker: breaker,
	})
	providerClient := forzasys.NewClient(forzasys.ClientConfig{
		BaseURL:        cfg.ProviderBaseURL,
		League:         cfg.ProviderLeague,
		EventsCount:    cfg.ProviderEventsCount,
		Timeout:        cfg.ProviderTimeout,
		MaxRetries:     cfg.ProviderMaxRetries,
		Logger:         logger,
		Metrics:        recorder,
		CircuitBreaker: breaker,
	})

	fixtureSvc := usecase.NewFixtureService(sheetClient, providerClient, cfg.FetchConcurrency, recorder, logger)
	timelineSvc := usecase.NewTimelineService(providerClient, recorder, logger)
	lineupSvc := usecase.NewLineupService(providerClient, recorder, logger)
	playbackSvc := usecase.NewPlaybackService(providerClient)
	feedSvc := usecase.NewFeedService(
		usecase.FeedServiceConfig{
			Source:      cfg.FeedSource,
			Concurrency: cfg.FetchConcurrency,
			SessionTTL:  cfg.FeedSessionTTL,
		},
		sheetClient,
		providerClient,
		id.NewRandomGenerator("fs_"),
		recorder,
		logger,
	)

	handler := httpapi.NewHandler(fixtureSvc, timelineSvc, lineupSvc, playbackSvc, feedSvc, logger)
	router := httpapi.NewRouter(handler, logger, metricsHandler, cfg.CORSAllowedOrigins)

	logger.Info("http server configured",
		"feed_source", cfg.FeedSource,
		"fetch_concurrency", cfg.FetchConcurrency,
		"metrics_enabled", cfg.MetricsEnabled,
		"circuit_enabled", cfg.CircuitEnabled,
	)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
