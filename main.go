package main

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/joho/godotenv"

	"truckcheck/config"
	"truckcheck/database"
	"truckcheck/export"
	"truckcheck/handlers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	cfg := config.Load()

	log.SetHandler(text.New(os.Stderr))
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown log level %q, staying on info", cfg.LogLevel)
	}

	store, err := database.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open report store: %v", err)
	}
	defer store.Close()
	log.Infof("Report store backend: %s", store.Kind())

	exporter := export.NewExporter(cfg)
	router := handlers.NewReportsHandler(store, exporter).Router()

	log.Infof("Listening on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
