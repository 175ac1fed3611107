package main

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/2021-nbs/zealthy-exercise/internal/config"
	"github.com/2021-nbs/zealthy-exercise/internal/gelf"
	"github.com/2021-nbs/zealthy-exercise/internal/handler"
	"github.com/2021-nbs/zealthy-exercise/internal/repository"
	"github.com/2021-nbs/zealthy-exercise/internal/router"
	"github.com/2021-nbs/zealthy-exercise/internal/service"
	"github.com/2021-nbs/zealthy-exercise/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr, "onboarding")
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Open SQLite and apply migrations
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Printf("Database ready at %s", cfg.DBPath)

	// Repositories
	subRepo := repository.NewSubmissionRepo(db)
	configRepo := repository.NewConfigRepo(db)

	// Services
	tokens := service.NewResumeTokens(cfg.ResumeSecret, cfg.ResumeTTL)
	configSvc, err := service.NewConfigService(configRepo)
	if err != nil {
		log.Fatalf("Failed to load field configuration: %v", err)
	}
	subSvc := service.NewSubmissionService(subRepo, tokens)

	// Handlers
	configH := handler.NewConfigHandler(configSvc)
	subH := handler.NewSubmissionHandler(subSvc)

	// Router
	r := router.New(configH, subH)

	log.Printf("Onboarding server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
