package main

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/supplyboard/backend-go/internal/alert"
	"github.com/supplyboard/backend-go/internal/cache"
	"github.com/supplyboard/backend-go/internal/config"
	"github.com/supplyboard/backend-go/internal/drive"
	"github.com/supplyboard/backend-go/internal/ingest"
	"github.com/supplyboard/backend-go/internal/repository/postgres"
	"github.com/supplyboard/backend-go/internal/storage"
	"github.com/supplyboard/backend-go/pkg/logger"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewDatasetRepository(db)

	// Initialize cache
	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	// Optional sources: Drive and object storage are only wired when
	// configured.
	var driveService *drive.Service
	if cfg.Drive.CredentialsJSON != "" {
		driveService, err = drive.NewService(cfg.Drive.CredentialsJSON)
		if err != nil {
			log.Fatalf("Failed to initialize Google Drive service: %v", err)
		}
	}

	var store storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		store, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
	}

	notifier := alert.NewNotifier(cfg.Alert)
	stageDir := filepath.Join(cfg.App.UploadDir, "snapshot")
	ingestService := ingest.NewService(repo, dashboardCache, notifier, driveService, store, stageDir)

	// Create router and register routes
	r := mux.NewRouter()
	ingestHandler := ingest.NewHandler(ingestService, driveService)
	ingestHandler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Ingest server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
