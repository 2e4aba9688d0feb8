package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Skufu/ddimatrix/internal/dataset"
	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/matrix"
	"github.com/Skufu/ddimatrix/internal/store"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Port           string
	DataDir        string
	Sheet          string
	ConflictPolicy matrix.ConflictPolicy
	MaxUploadBytes int64
	DatabaseURL    string
	PairsTable     string
	PairsOrderBy   string
	EnableDB       bool
}

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app := &App{
		Registry:       dataset.NewRegistry(cfg.Sheet, cfg.ConflictPolicy),
		DataDir:        cfg.DataDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	ctx := context.Background()
	if cfg.EnableDB {
		db, err := store.Connect(ctx, cfg.DatabaseURL, cfg.PairsTable, cfg.PairsOrderBy)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
		app.DB = db
		app.Source = db
		app.SourceName = db.Table()
	}

	loadDefault(app)

	router := setupRouter(app)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("server listening on :%s (data dir %s, %s)", cfg.Port, cfg.DataDir, cfg.ConflictPolicy)
	waitForShutdown(server)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	policy, err := matrix.ParseConflictPolicy(getEnv("CONFLICT_POLICY", "last-write-wins"))
	if err != nil {
		return nil, fmt.Errorf("CONFLICT_POLICY: %w", err)
	}

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "33554432"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DataDir:        getEnv("DATA_DIR", "./out"),
		Sheet:          getEnv("PAIRS_SHEET", edges.DefaultSheet),
		ConflictPolicy: policy,
		MaxUploadBytes: maxUpload,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PairsTable:     getEnv("PAIRS_TABLE", store.DefaultTable),
		PairsOrderBy:   os.Getenv("PAIRS_ORDER_BY"),
		EnableDB:       strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

// loadDefault selects the newest file of the data directory, if any.
func loadDefault(app *App) {
	files, err := dataset.Discover(app.DataDir)
	if errors.Is(err, dataset.ErrNoDataDir) {
		log.Printf("no data directory at %s; waiting for an upload", app.DataDir)
		return
	}
	if err != nil {
		log.Printf("scan data directory: %v", err)
		return
	}
	if len(files) == 0 {
		log.Printf("no *_matrix.xlsx or *_pairs.csv in %s; waiting for an upload", app.DataDir)
		return
	}
	if _, err := app.Registry.LoadFile(files[0]); err != nil {
		log.Printf("default dataset %s not loaded: %v", files[0].Name, err)
	}
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
