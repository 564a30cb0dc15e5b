package main

import (
	"context"
	"fmt"

	"github.com/evyataryagoni/geolocator/internal/config"
	"github.com/evyataryagoni/geolocator/internal/fetcher"
	"github.com/evyataryagoni/geolocator/internal/logger"
)

// This tool archives saved geolocation documents into MySQL
// The geo_documents table must already exist
// Usage: go run cmd/load-mysql/main.go
func main() {
	appConfig := config.Load()
	log := logger.New(logger.Config{Level: "info", Pretty: appConfig.LogPretty})
	ctx := context.Background()

	fmt.Println("📡 Connecting to MySQL...")
	mysqlFetcher, err := fetcher.NewMySQLFetcher(appConfig.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MySQL")
	}
	defer mysqlFetcher.Close()

	fmt.Printf("📁 Loading documents from %s...\n", appConfig.DocumentsPath)
	count, err := mysqlFetcher.LoadFromFiles(ctx, appConfig.DocumentsPath)
	if err != nil {
		log.Fatal().Err(err).Int("loaded", count).Msg("Failed to load documents")
	}

	fmt.Printf("✅ Loaded %d documents\n", count)
	fmt.Println("\n💡 You can now run lookups with SOURCE_TYPE=mysql")
}
