package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/krishkalaria12/Bingo/cmd"
	backend "github.com/krishkalaria12/Bingo/internal/api"
	"github.com/krishkalaria12/Bingo/internal/chat"
	"github.com/krishkalaria12/Bingo/internal/database"
	"github.com/krishkalaria12/Bingo/internal/llm"
	"github.com/krishkalaria12/Bingo/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type APIConfig struct {
	DatabaseURL       string `env:"DATABASE_URL,notEmpty,required"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY,notEmpty,required"`
	DeepSeekAPIKey    string `env:"DEEPSEEK_API_KEY,notEmpty,required"`
	GeminiModel       string `env:"GEMINI_MODEL" envDefault:""`
	DeepSeekModel     string `env:"DEEPSEEK_MODEL" envDefault:""`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL" envDefault:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	MediaBucketName   string `env:"MEDIA_BUCKET_NAME" envDefault:"bingo-media"`
	LocalStorageDir   string `env:"LOCAL_STORAGE_DIR" envDefault:""`
	AllowedOrigins    string `env:"ALLOWED_ORIGINS" envDefault:"*"`
	APIPort           string `env:"API_PORT" envDefault:"8001"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create gemini client: %v", err)
	}
	deepseek := llm.NewDeepSeek(cfg.DeepSeekAPIKey, cfg.DeepSeekModel, 0.7)

	models := llm.NewRegistry()
	models.Register(llm.ModelGemini, gemini)
	models.Register(llm.ModelDeepSeek, deepseek)

	var mediaStore storage.ObjectStore
	if cfg.LocalStorageDir != "" {
		mediaStore, err = storage.NewLocalObjectStore(cfg.LocalStorageDir)
	} else {
		mediaStore, err = storage.NewS3ObjectStore(storage.S3ClientConfig{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}
	if err != nil {
		log.Fatalf("Failed to create media store: %v", err)
	}
	if err := mediaStore.CreateBucket(ctx, cfg.MediaBucketName); err != nil {
		log.Fatalf("Failed to create media bucket: %v", err)
	}

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigins},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Id"},
	}))

	// API Handlers (dependency injection)
	backend.NewPostService(db, models).AddRoutes(r)
	backend.NewScheduleService(db).AddRoutes(r)
	backend.NewImageService(gemini, mediaStore, cfg.MediaBucketName).AddRoutes(r)
	backend.NewChatService(db, chat.NewSessionManager(db, cfg.DeepSeekAPIKey)).AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
