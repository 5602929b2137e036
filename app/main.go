package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/diarist/internal/common"
	"github.com/sushihentaime/diarist/internal/entryservice"
	"github.com/sushihentaime/diarist/internal/imageservice"
)

type application struct {
	config       *Config
	logger       *slog.Logger
	entryService *entryservice.EntryService
	imageService *imageservice.ImageService
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	// Prepare the upload directory
	blobs, err := imageservice.NewBlobStore(cfg.UploadDir)
	if err != nil {
		logger.Error("failed to prepare the upload directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	// Initialize the services
	app := &application{
		config:       cfg,
		logger:       logger,
		entryService: entryservice.NewEntryService(db, cache, blobs),
		imageService: imageservice.NewImageService(db, blobs, cache),
	}

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
