package main

import (
	"context"
	"fmt"

	"github.com/evyataryagoni/geolocator/internal/config"
	"github.com/evyataryagoni/geolocator/internal/fetcher"
	"github.com/evyataryagoni/geolocator/internal/logger"
)

// This tool loads saved geolocation documents into Redis
// Usage: go run cmd/load-redis/main.go
func main() {
	appConfig := config.Load()
	log := logger.New(logger.Config{Level: "info", Pretty: appConfig.LogPretty})
	ctx := context.Background()

	fmt.Printf("📡 Connecting to Redis at %s...\n", appConfig.RedisAddr)
	redisFetcher, err := fetcher.NewRedisFetcher(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisFetcher.Close()

	fmt.Printf("📁 Loading documents from %s...\n", appConfig.DocumentsPath)
	count, err := redisFetcher.LoadFromFiles(ctx, appConfig.DocumentsPath)
	if err != nil {
		log.Fatal().Err(err).Int("loaded", count).Msg("Failed to load documents")
	}

	fmt.Printf("✅ Loaded %d documents\n", count)
	fmt.Println("\n💡 You can now run lookups with SOURCE_TYPE=redis")
}
