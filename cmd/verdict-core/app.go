package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/custodia-labs/verdict-core/internal/adapters/driven/ai"
	"github.com/custodia-labs/verdict-core/internal/adapters/driven/corpus"
	"github.com/custodia-labs/verdict-core/internal/adapters/driven/extract"
	"github.com/custodia-labs/verdict-core/internal/adapters/driven/ner"
	"github.com/custodia-labs/verdict-core/internal/adapters/driven/pdf"
	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/services"
	"github.com/custodia-labs/verdict-core/internal/normalisers"
	"github.com/custodia-labs/verdict-core/internal/runtime"
)

// app holds the wired pipeline for one CLI invocation.
type app struct {
	orchestrator *services.Orchestrator
	providers    *runtime.Providers
	logger       *slog.Logger
}

// buildApp wires providers and services from environment configuration.
// Configuration from environment:
//
//	EMBEDDING_PROVIDER, EMBEDDING_MODEL, EMBEDDING_API_KEY, EMBEDDING_BASE_URL
//	REASONING_PROVIDER, REASONING_MODEL, REASONING_API_KEY, REASONING_BASE_URL
//	NER_URL, OUTPUT_DIR, LOG_LEVEL
func buildApp(ctx context.Context) (*app, error) {
	logger := newLogger(getEnv("LOG_LEVEL", "info"))
	factory := ai.NewFactory()
	providers := runtime.NewProviders()

	// Embedding is mandatory: classification and section mapping need it.
	embedSettings := &domain.EmbeddingSettings{
		Provider: domain.AIProvider(getEnv("EMBEDDING_PROVIDER", string(domain.AIProviderOllama))),
		Model:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		APIKey:   getEnv("EMBEDDING_API_KEY", ""),
		BaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
	}
	embedding, err := factory.CreateEmbeddingService(embedSettings)
	if err != nil {
		return nil, fmt.Errorf("create embedding service: %w", err)
	}
	if embedding == nil {
		return nil, fmt.Errorf("embedding service not configured (set EMBEDDING_PROVIDER, EMBEDDING_MODEL and, for hosted providers, EMBEDDING_API_KEY)")
	}
	if err := providers.ValidateAndSetEmbedding(ctx, embedding); err != nil {
		return nil, fmt.Errorf("embedding service unavailable: %w", err)
	}
	logger.Info("embedding service ready", "provider", embedSettings.Provider, "model", embedding.Model())

	// Reasoning is optional: the analyzer falls back to its template.
	reasonSettings := domain.DefaultReasoningSettings()
	reasonSettings.Provider = domain.AIProvider(getEnv("REASONING_PROVIDER", string(reasonSettings.Provider)))
	reasonSettings.Model = getEnv("REASONING_MODEL", reasonSettings.Model)
	reasonSettings.APIKey = getEnv("REASONING_API_KEY", "")
	reasonSettings.BaseURL = getEnv("REASONING_BASE_URL", "")
	reasonSettings.Timeout = time.Duration(getEnvInt("REASONING_TIMEOUT_SEC", int(reasonSettings.Timeout/time.Second))) * time.Second
	reasonSettings.MaxOutputTokens = getEnvInt("REASONING_MAX_TOKENS", reasonSettings.MaxOutputTokens)

	reasoning, err := factory.CreateReasoningService(&reasonSettings)
	if err != nil {
		return nil, fmt.Errorf("create reasoning service: %w", err)
	}
	if reasoning != nil {
		if err := providers.ValidateAndSetReasoning(ctx, reasoning); err != nil {
			logger.Warn("reasoning service unavailable, analysis will use the fallback template", "error", err)
		} else {
			logger.Info("reasoning service ready", "provider", reasonSettings.Provider, "model", reasoning.Model())
		}
	} else {
		logger.Info("reasoning not configured, analysis will use the fallback template")
	}

	// NER is optional: extraction degrades to pattern matching without it.
	if nerURL := getEnv("NER_URL", ""); nerURL != "" {
		recogniser, err := ner.NewHTTPRecogniser(domain.NERSettings{
			BaseURL: nerURL,
			Timeout: time.Duration(getEnvInt("NER_TIMEOUT_SEC", 15)) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("create NER recogniser: %w", err)
		}
		if err := recogniser.HealthCheck(ctx); err != nil {
			logger.Warn("NER sidecar unavailable, evidence extraction will be degraded", "error", err)
		} else {
			providers.SetEntityRecogniser(recogniser)
			logger.Info("NER sidecar ready", "url", nerURL)
		}
	}

	index, err := corpus.NewIndex(providers.EmbeddingService())
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	providers.SetCorpusIndexes(index, index)
	logger.Info("corpus loaded", "sections", index.Count())

	outputDir := getEnv("OUTPUT_DIR", "documents")
	classifier := services.NewClassifier(providers, services.ClassifierConfig{Logger: logger})
	retriever := services.NewSectionRetriever(providers, services.SectionRetrieverConfig{Logger: logger})
	evidence := services.NewEvidenceExtractor(providers, services.EvidenceExtractorConfig{Logger: logger})
	analyzer := services.NewAnalyzer(providers, services.AnalyzerConfig{
		Timeout:         reasonSettings.Timeout,
		MaxOutputTokens: reasonSettings.MaxOutputTokens,
		Logger:          logger,
	})
	compiler := services.NewReportCompiler(pdf.NewRenderer(), services.ReportCompilerConfig{
		OutputDir: outputDir,
		Logger:    logger,
	})
	orchestrator := services.NewOrchestrator(
		classifier,
		retriever,
		evidence,
		analyzer,
		compiler,
		extract.NewPlainTextExtractor(),
		normalisers.DefaultRegistry(),
		services.OrchestratorConfig{UploadDir: outputDir, Logger: logger},
	)

	return &app{
		orchestrator: orchestrator,
		providers:    providers,
		logger:       logger,
	}, nil
}

// close releases the provider connections.
func (a *app) close() {
	_ = a.providers.Close()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
