package main

import (
	"context"
	"fmt"
	"os"

	"github.com/evyataryagoni/geolocator/internal/cli"
	"github.com/evyataryagoni/geolocator/internal/config"
	"github.com/evyataryagoni/geolocator/internal/extractor"
	"github.com/evyataryagoni/geolocator/internal/fetcher"
	"github.com/evyataryagoni/geolocator/internal/formatter"
	"github.com/evyataryagoni/geolocator/internal/logger"
	"github.com/evyataryagoni/geolocator/internal/metrics"
	"github.com/evyataryagoni/geolocator/internal/service"
)

// GeoLocator looks up the approximate location of an IP address
// Usage: geolocator [ip]
func main() {
	os.Exit(run())
}

// run wires the application and returns the process exit code
func run() int {
	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)
	metricsCollector := metrics.New()

	ex, err := setupExtractor(appConfig, appLogger)
	if err != nil {
		fmt.Print(formatter.MsgUnexpected + "\n")
		return 1
	}

	// Build application layers
	// The document source is opened only after the input passes validation
	lookupService := service.NewDeferredLookupService(func(ctx context.Context) (fetcher.Fetcher, error) {
		return setupFetcher(ctx, appConfig, appLogger)
	}, ex, metricsCollector, appLogger)
	defer lookupService.Close()

	rootCmd := cli.NewRootCommand(cli.Options{
		Service:        lookupService,
		MaxInputLength: appConfig.MaxInputLength,
	})

	exitCode := 0
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		appLogger.Debug().Err(err).Msg("Lookup failed")
		exitCode = 1
	}

	writeMetrics(appConfig, metricsCollector, appLogger)
	return exitCode
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:      appConfig.LogLevel,
		Pretty:     appConfig.LogPretty,
		OutputFile: appConfig.LogFile,
	})

	appLogger.Debug().
		Str("source_type", appConfig.SourceType).
		Str("geo_api_url", appConfig.GeoAPIURL).
		Dur("http_timeout", appConfig.HTTPTimeout).
		Str("parse_mode", appConfig.ParseMode).
		Int("max_line_length", appConfig.MaxLineLength).
		Msg("Configuration loaded")

	return appLogger
}

// setupExtractor initializes the document extractor
// Supports line scanning and structural JSON parsing
func setupExtractor(appConfig *config.Config, log *logger.Logger) (extractor.Extractor, error) {
	ex, err := extractor.New(extractor.Config{
		Mode:          appConfig.ParseMode,
		MaxLineLength: appConfig.MaxLineLength,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize extractor")
		return nil, err
	}
	return ex, nil
}

// setupFetcher initializes the document source based on configuration
// Supports HTTP, file, MySQL, and Redis backends
func setupFetcher(ctx context.Context, appConfig *config.Config, log *logger.Logger) (fetcher.Fetcher, error) {
	docFetcher, err := fetcher.New(fetcher.Config{
		Type:          appConfig.SourceType,
		BaseURL:       appConfig.GeoAPIURL,
		Token:         appConfig.GeoAPIToken,
		Timeout:       appConfig.HTTPTimeout,
		SpoolDir:      appConfig.SpoolDir,
		DocumentsPath: appConfig.DocumentsPath,
		MySQLDSN:      appConfig.MySQLDSN,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	})
	if err != nil {
		log.Error().Err(err).Str("type", appConfig.SourceType).Msg("Failed to initialize document source")
		return nil, err
	}

	// Auto-load sample documents if Redis is empty
	if redisFetcher, ok := docFetcher.(*fetcher.RedisFetcher); ok {
		loadRedisDataIfEmpty(ctx, redisFetcher, appConfig.DocumentsPath, log)
	}

	log.Debug().Str("source", docFetcher.Name()).Msg("Document source initialized")
	return docFetcher, nil
}

// loadRedisDataIfEmpty seeds an empty Redis from the documents directory
// Failures are logged; lookups then report the missing document
func loadRedisDataIfEmpty(ctx context.Context, redisFetcher *fetcher.RedisFetcher, dir string, log *logger.Logger) {
	count, err := redisFetcher.SeedIfEmpty(ctx, dir)
	if err != nil {
		log.Warn().Err(err).Str("path", dir).Msg("Failed to load sample documents into Redis")
		return
	}
	if count > 0 {
		log.Info().Int("documents", count).Str("path", dir).Msg("Redis was empty, loaded sample documents")
	}
}

// writeMetrics exports the run's metrics when a textfile path is configured
func writeMetrics(appConfig *config.Config, m *metrics.Metrics, log *logger.Logger) {
	if appConfig.MetricsTextfile == "" {
		return
	}
	if err := m.WriteTextfile(appConfig.MetricsTextfile); err != nil {
		log.Warn().Err(err).Str("path", appConfig.MetricsTextfile).Msg("Failed to write metrics textfile")
	}
}
