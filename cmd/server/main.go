package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/plantid/backend/config"
	httpDelivery "github.com/plantid/backend/internal/delivery/http"
	"github.com/plantid/backend/internal/infrastructure/gemini"
	"github.com/plantid/backend/internal/infrastructure/metrics"
	"github.com/plantid/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Plant Identifier Backend v%s", httpDelivery.Version)
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	geminiClient, err := gemini.NewClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	// Enable debug mode in development environment
	debug := cfg.Server.Environment == "development"
	if debug {
		geminiClient.SetDebug(true)
		log.Printf("Gemini client debug mode enabled")
	}

	log.Printf("Gemini model: %s (key: %s...)", geminiClient.Name(), maskKey(cfg.Gemini.APIKey))

	var recorder usecase.IdentificationRecorder
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		identificationMetrics, err := metrics.NewIdentificationMetrics(prometheus.NewRegistry())
		if err != nil {
			log.Fatalf("Failed to register metrics: %v", err)
		}
		recorder = identificationMetrics
		metricsHandler = identificationMetrics.Handler()
		log.Printf("Metrics exposed on %s", cfg.Metrics.Path)
	}

	// Initialize usecase layer
	identificationService := usecase.NewIdentificationService(
		geminiClient,
		recorder,
		usecase.IdentificationServiceConfig{
			APIKey:             cfg.Gemini.APIKey,
			EnableDebugLogging: debug,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(identificationService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, metricsHandler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// maskKey shows at most the first four characters of a secret
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4]
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
