package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Document source
	SourceType    string        // "http", "file", "redis" or "mysql"
	GeoAPIURL     string        // base URL of the geolocation provider
	GeoAPIToken   string        // optional provider token
	HTTPTimeout   time.Duration // request timeout for the http source
	SpoolDir      string        // temp directory for spooled downloads (empty = in memory)
	DocumentsPath string        // directory of <ip>.json documents

	// MySQL configuration
	MySQLDSN string // Data Source Name

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Parsing
	ParseMode      string // "lines" or "json"
	MaxLineLength  int    // line buffer size for the line extractor
	MaxInputLength int    // longest accepted IP token from the prompt

	// Logging
	LogLevel  string
	LogPretty bool
	LogFile   string

	// Metrics
	MetricsTextfile string // node-exporter textfile path (empty = disabled)
}

// Load reads configuration from environment variables
// with sensible defaults
func Load() *Config {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to parse .env file: %v", err)
	}

	return &Config{
		SourceType:    getEnv("SOURCE_TYPE", "http"),
		GeoAPIURL:     getEnv("GEO_API_URL", "https://ipinfo.io"),
		GeoAPIToken:   getEnv("GEO_API_TOKEN", ""),
		HTTPTimeout:   getEnvAsSeconds("HTTP_TIMEOUT", 10),
		SpoolDir:      getEnv("SPOOL_DIR", ""),
		DocumentsPath: getEnv("DOCUMENTS_PATH", "./data/documents"),

		MySQLDSN: getEnv("MYSQL_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ParseMode:      getEnv("PARSE_MODE", "lines"),
		MaxLineLength:  getEnvAsInt("MAX_LINE_LENGTH", 512),
		MaxInputLength: getEnvAsInt("MAX_INPUT_LENGTH", 99),

		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
		LogFile:   getEnv("LOG_FILE", ""),

		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloat reads an environment variable as a float64
// Returns default if not set or invalid
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsSeconds reads a (possibly fractional) number of seconds as a duration
// Non-positive values fall back to the default
func getEnvAsSeconds(key string, defaultSeconds float64) time.Duration {
	seconds := getEnvAsFloat(key, defaultSeconds)
	if seconds <= 0 {
		seconds = defaultSeconds
	}
	return time.Duration(seconds * float64(time.Second))
}

// getEnvAsBool reads an environment variable as a boolean
// Accepts the forms strconv.ParseBool understands (1, t, true, 0, f, false...)
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
