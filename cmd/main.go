package main

import (
	"fmt"
	"os"

	"github.com/yungbote/circuitboard-backend/internal/app"
	"github.com/yungbote/circuitboard-backend/internal/clients/gcp"
	"github.com/yungbote/circuitboard-backend/internal/clients/openai"
	"github.com/yungbote/circuitboard-backend/internal/composer"
	"github.com/yungbote/circuitboard-backend/internal/db"
	"github.com/yungbote/circuitboard-backend/internal/http/handlers"
	"github.com/yungbote/circuitboard-backend/internal/http/middleware"
	"github.com/yungbote/circuitboard-backend/internal/ingestion"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/repos"
	"github.com/yungbote/circuitboard-backend/internal/server"
	"github.com/yungbote/circuitboard-backend/internal/services"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Fatal("Could not load config", "error", err)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	circuitRepo := repos.NewCircuitRepo(thePG, log)
	contentItemRepo := repos.NewContentItemRepo(thePG, log)

	// Clients
	log.Info("Setting up clients...")
	creds := gcp.Credentials{Source: cfg.GCP.CredentialsSource}

	var objectStore gcp.ObjectStore
	if cfg.GCP.BucketName != "" {
		objectStore, err = gcp.NewBucketStore(log, gcp.BucketConfig{
			Credentials: creds,
			BucketName:  cfg.GCP.BucketName,
		})
		if err != nil {
			log.Fatal("Could not init bucket store", "error", err)
		}
	} else {
		log.Warn("CONTENT_GCS_BUCKET_NAME not set, raw artifacts will not be stored")
	}

	speechClient, err := gcp.NewSpeechClient(log, gcp.SpeechConfig{
		Credentials:                creds,
		LanguageCode:               cfg.GCP.Speech.LanguageCode,
		Model:                      cfg.GCP.Speech.Model,
		EnableAutomaticPunctuation: true,
	})
	if err != nil {
		log.Fatal("Could not init speech client", "error", err)
	}
	defer speechClient.Close()

	var documentClient gcp.DocumentClient
	if cfg.GCP.DocumentAI.ProjectID != "" && cfg.GCP.DocumentAI.ProcessorID != "" {
		documentClient, err = gcp.NewDocumentClient(log, gcp.DocumentConfig{
			Credentials:      creds,
			ProjectID:        cfg.GCP.DocumentAI.ProjectID,
			Location:         cfg.GCP.DocumentAI.Location,
			ProcessorID:      cfg.GCP.DocumentAI.ProcessorID,
			ProcessorVersion: cfg.GCP.DocumentAI.ProcessorVersion,
		})
		if err != nil {
			log.Fatal("Could not init documentai client", "error", err)
		}
		defer documentClient.Close()
	} else {
		log.Warn("Document AI not configured, PDF uploads will store with empty extracted text")
	}

	modelClient, err := openai.NewClient(log, openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAITimeout(),
	})
	if err != nil {
		log.Fatal("Could not init openai client", "error", err)
	}

	// Adapters and composer
	extractor := ingestion.NewDocumentExtractor(log, documentClient)
	transcriber := ingestion.NewTranscriber(log, speechClient)
	comp := composer.New(composer.Config{MaxKnowledgeBytes: cfg.Composer.MaxKnowledgeBytes})

	// Services
	log.Info("Setting up services...")
	circuitService := services.NewCircuitService(thePG, log, circuitRepo, contentItemRepo, objectStore)
	contentService := services.NewContentService(thePG, log, circuitRepo, contentItemRepo, extractor, transcriber, objectStore)
	chatService := services.NewChatService(log, circuitRepo, contentItemRepo, comp, modelClient)

	// Handlers
	circuitHandler := handlers.NewCircuitHandler(log, circuitService)
	contentHandler := handlers.NewContentHandler(log, contentService)
	chatHandler := handlers.NewChatHandler(log, chatService)
	authMiddleware := middleware.NewAuthMiddleware(log, cfg.JWTSecretKey, userRepo)

	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:   cfg.AllowOrigins,
		AuthMiddleware: authMiddleware,
		CircuitHandler: circuitHandler,
		ContentHandler: contentHandler,
		ChatHandler:    chatHandler,
	})

	log.Info("Starting HTTP server", "addr", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server exited", "error", err)
	}
}
