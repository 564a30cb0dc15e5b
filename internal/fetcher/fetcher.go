package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDocumentNotFound is returned by backends that hold pre-fetched documents
// when no document exists for the requested IP
var ErrDocumentNotFound = errors.New("geolocation document not found")

// Fetcher retrieves the raw geolocation document for an IP address
// Allows multiple implementations (HTTP, file, Redis, MySQL) and easy testing with mocks
type Fetcher interface {
	// Name identifies the backend in logs and metrics
	Name() string

	// Fetch returns the raw document body for ip
	Fetch(ctx context.Context, ip string) ([]byte, error)

	// Close cleans up resources (database connections, clients, etc.)
	Close() error
}

// Config holds configuration for creating a fetcher
type Config struct {
	Type string // "http", "file", "redis" or "mysql"

	// HTTP-specific config
	BaseURL  string
	Token    string
	Timeout  time.Duration
	SpoolDir string

	// File-specific config
	DocumentsPath string

	// MySQL-specific config
	MySQLDSN string

	// Redis-specific config
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New creates a fetcher based on the configuration (factory pattern)
func New(cfg Config) (Fetcher, error) {
	fetcherType := strings.ToLower(strings.TrimSpace(cfg.Type))

	switch fetcherType {
	case "http", "":
		return NewHTTPFetcher(HTTPConfig{
			BaseURL:  cfg.BaseURL,
			Token:    cfg.Token,
			Timeout:  cfg.Timeout,
			SpoolDir: cfg.SpoolDir,
		}), nil

	case "file":
		return NewFileFetcher(cfg.DocumentsPath)

	case "redis":
		return NewRedisFetcher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	case "mysql":
		return NewMySQLFetcher(cfg.MySQLDSN)

	default:
		return nil, fmt.Errorf("unknown source type: %s (supported: http, file, redis, mysql)", cfg.Type)
	}
}
