package main

import (
	"fmt"
	"log"

	_ "github.com/makeupcoders/invoicegenius-api/docs"
	"github.com/makeupcoders/invoicegenius-api/internal/config"
	"github.com/makeupcoders/invoicegenius-api/internal/handler"
	"github.com/makeupcoders/invoicegenius-api/internal/openrouter"
	"github.com/makeupcoders/invoicegenius-api/internal/server"
	"github.com/makeupcoders/invoicegenius-api/internal/service"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize OpenRouter client for the AI fill feature
	openRouterClient := openrouter.NewClient(&openrouter.Config{
		APIKey:  cfg.OpenRouterAPIKey,
		ModelID: cfg.OpenRouterModelID,
		Timeout: cfg.OpenRouterTimeout,
	})

	// Create the session store and services
	log.Println("Creating editing services...")
	sessions := session.NewStore(cfg.SessionTTL)
	editorService := service.NewEditorService(sessions)
	assistService := service.NewAssistService(sessions, openRouterClient)
	exportService := service.NewExportService(sessions)

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg, sessions)

	// Register routes
	router := appServer.GetRouter()
	handler.NewEditorHandler(editorService).RegisterRoutes(router)
	handler.NewAssistHandler(assistService).RegisterRoutes(router)
	handler.NewExportHandler(exportService).RegisterRoutes(router)
	handler.NewCurrencyHandler().RegisterRoutes(router)

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
