package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tamu-aesl/adams/internal/adapters/mcptool"
	"github.com/tamu-aesl/adams/internal/config"
	"github.com/tamu-aesl/adams/internal/core/ports"
	"github.com/tamu-aesl/adams/internal/core/usecase"
	"github.com/tamu-aesl/adams/internal/infrastructure/cache"
	"github.com/tamu-aesl/adams/internal/infrastructure/download"
	"github.com/tamu-aesl/adams/internal/infrastructure/extractor/pdftext"
	"github.com/tamu-aesl/adams/internal/infrastructure/httpapi"
	"github.com/tamu-aesl/adams/internal/infrastructure/ratelimit"
	"github.com/tamu-aesl/adams/internal/infrastructure/resilience"
	"github.com/tamu-aesl/adams/internal/infrastructure/search/adamsrest"
	"github.com/tamu-aesl/adams/internal/infrastructure/search/adamsxml"
	"github.com/tamu-aesl/adams/internal/infrastructure/search/googlecse"
	"github.com/tamu-aesl/adams/internal/infrastructure/storage/localfs"
	"github.com/tamu-aesl/adams/internal/observability/logging"
	"github.com/tamu-aesl/adams/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.SearchMetrics
	Server  *mcptool.Server
}

func New(cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(mcptool.ServerName, cfg.LogLevel)
	stats := metrics.NewSearchMetrics(mcptool.ServerName)

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
	}
	limiter := ratelimit.New(cfg.CallsPerMinute)
	exec := resilience.NewExecutor(resilience.DefaultConfig())
	caller := httpapi.NewCaller(httpClient, limiter, exec)

	modern := adamsrest.New(cfg.AdamsBaseURL, cfg.AdamsAPIKey, caller)
	legacy := adamsxml.New(cfg.LegacyBaseURL, caller)

	// An unconfigured web client stays out of the backend set entirely
	// so the orchestrator never calls it with missing credentials.
	var web ports.SearchBackend
	if cse := googlecse.New("", cfg.GoogleAPIKey, cfg.GoogleCX, cfg.WebSearchDomain, caller); cse.Configured() {
		web = cse
	}

	boosts, err := config.LoadBoosts(cfg.BoostsPath)
	if err != nil {
		return nil, fmt.Errorf("load score boosts: %w", err)
	}

	results := cache.New(
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		cfg.CacheMaxEntries,
		nil,
	)

	searchSvc := usecase.NewSearchService(
		modern,
		legacy,
		web,
		results,
		usecase.NewScorer(boosts),
		stats,
		logger,
		cfg.DocsBaseURL,
	)

	store, err := localfs.New(cfg.DownloadDir)
	if err != nil {
		return nil, fmt.Errorf("init download storage: %w", err)
	}
	fetcher := download.NewFetcher(caller, cfg.MaxDownloadBytes)
	downloadSvc := usecase.NewDownloadService(modern, fetcher, store, stats, logger, cfg.DocsBaseURL, cfg.DownloadWorkers)
	summarizeSvc := usecase.NewSummarizeService(store, pdftext.New(), store.BasePath())

	srv := mcptool.New(searchSvc, downloadSvc, summarizeSvc, modern, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: stats,
		Server:  srv,
	}, nil
}
