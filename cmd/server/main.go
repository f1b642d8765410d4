package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vondralink/backend/config"
	httpDelivery "github.com/vondralink/backend/internal/delivery/http"
	"github.com/vondralink/backend/internal/domain"
	"github.com/vondralink/backend/internal/infrastructure/activity"
	"github.com/vondralink/backend/internal/infrastructure/intent"
	"github.com/vondralink/backend/internal/infrastructure/searchapi"
	"github.com/vondralink/backend/internal/usecase"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "vondralink",
	})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	if cfg.Server.Environment == "development" {
		logger.SetLevel(log.DebugLevel)
	}

	logger.Info("Starting VondraLink Backend v1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"backend", cfg.Backend.BaseURL,
	)

	// Initialize infrastructure dependencies
	backendClient := searchapi.NewClient(cfg.Backend.BaseURL, logger)

	activityStore, err := activity.NewMemoryStore(cfg.Activity.MaxUsers, cfg.Activity.MaxHistory, logger)
	if err != nil {
		logger.Fatal("Failed to create activity store", "error", err)
	}

	var analyzer domain.IntentAnalyzer
	if cfg.AI.APIKey != "" {
		analyzer = intent.NewAnalyzer(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, logger)
		logger.Info("Intent analyzer configured", "model", cfg.AI.Model)
	} else {
		logger.Warn("Intent analyzer disabled: no AI API key configured")
	}

	// Initialize usecase layer
	pairingService := usecase.NewPairingService(logger)
	searchService := usecase.NewSearchService(
		backendClient,
		analyzer,
		pairingService,
		activityStore,
		usecase.SearchServiceConfig{
			Limit:  cfg.Search.Limit,
			UseMMR: cfg.Search.UseMMR,
			Lambda: cfg.Search.Lambda,
		},
		logger,
	)
	recommendationService := usecase.NewRecommendationService(backendClient, activityStore, logger)

	// Initialize delivery layer
	handler := httpDelivery.NewHandler(searchService, recommendationService, activityStore, logger)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("Listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatal("Server stopped", "error", err)
	}
}
