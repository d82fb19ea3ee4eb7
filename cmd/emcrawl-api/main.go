package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pevans/emcrawl/articles"
	"github.com/pevans/emcrawl/config"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()

	dbPath := "emcrawl.db"
	cfg, err := config.LoadConfigFile()
	if err != nil {
		log.Printf("Warning: failed to load config file: %v", err)
	}
	if cfg != nil && cfg.Storage.DSN != "" {
		dbPath = cfg.Storage.DSN
	}
	dbPath = getEnv("EMCRAWL_DB_DSN", dbPath)

	store, err := articles.NewArticleStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open article store: %v", err)
	}
	defer store.Close()

	server := articles.NewAPIServer(store)
	router := server.SetupRouter()

	addr := getEnv("EMCRAWL_API_ADDR", "localhost:8080")
	log.Printf("Starting article API server on http://%s/api/v1/articles", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
