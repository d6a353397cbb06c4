package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dealership-chat-router/config"
	_ "dealership-chat-router/docs" // Swagger docs
	decisionSqlite "dealership-chat-router/internal/decision/repository/sqlite"
	"dealership-chat-router/internal/httpserver"
	"dealership-chat-router/internal/metrics"
	"dealership-chat-router/internal/middleware"
	"dealership-chat-router/internal/registry"
	routingHTTP "dealership-chat-router/internal/routing/delivery/http"
	routingUC "dealership-chat-router/internal/routing/usecase"
	"dealership-chat-router/pkg/classify"
	"dealership-chat-router/pkg/log"
	"dealership-chat-router/pkg/sentiment"
)

// @title       Dealership Chat Router API
// @description Conversational message router: classifies customer intent, selects the answering agent, and escalates to humans.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Dealership Chat Router...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Agent registry — a broken catalog is fatal
	profiles := make([]registry.AgentProfile, 0, len(cfg.Agents))
	for _, a := range cfg.Agents {
		profiles = append(profiles, registry.AgentProfile{
			ID:           a.ID,
			DisplayName:  a.DisplayName,
			IntentLabels: a.IntentLabels,
			Priority:     a.Priority,
		})
	}
	reg, err := registry.New(profiles, cfg.Routing.DefaultAgentID)
	if err != nil {
		logger.Error(ctx, "Invalid agent registry: ", err)
		return
	}
	logger.Infof(ctx, "Agent registry loaded: %d agents, default %q", len(reg.List()), cfg.Routing.DefaultAgentID)

	// 4. Provider clients
	classifierClient := classify.NewClient(cfg.Classifier.URL, cfg.Classifier.APIKey, cfg.Classifier.Timeout)
	sentimentClient := sentiment.NewClient(cfg.Sentiment.URL, cfg.Sentiment.APIKey, cfg.Sentiment.Timeout)

	// 5. Decision store
	store, err := decisionSqlite.New(cfg.Store.Path, logger)
	if err != nil {
		logger.Error(ctx, "Failed to open decision store: ", err)
		return
	}
	defer store.Close()

	// 6. Metrics collector
	collector := metrics.New(logger, cfg.Metrics.BufferSize)
	defer collector.Close()

	// 7. Routing UseCase
	uc, err := routingUC.New(logger, reg, classifierClient, sentimentClient, store, collector, routingUC.Config{
		EscalateNegative:    cfg.Routing.EscalateNegative,
		WatchNegative:       cfg.Routing.WatchNegative,
		MinConfidence:       cfg.Routing.MinConfidence,
		RecoverConfidence:   cfg.Routing.RecoverConfidence,
		LowConfidenceStreak: cfg.Routing.LowConfidenceStreak,
		HistoryWindow:       cfg.Routing.HistoryWindow,
		ContextTTL:          cfg.Routing.ContextTTL,
		ContextCapacity:     cfg.Routing.ContextCapacity,
		ClassifierTimeout:   cfg.Classifier.Timeout,
		SentimentTimeout:    cfg.Sentiment.Timeout,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize router: ", err)
		return
	}

	// 8. Delivery + middleware
	routingHandler := routingHTTP.New(logger, uc, collector)
	mw := middleware.New(logger, cfg.Security)

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		RoutingHandler: routingHandler,
		Middleware:     mw,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
