package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://ipinfo.io"
	DefaultTimeout = 10 * time.Second
)

// HTTPConfig holds configuration for the HTTP fetcher
type HTTPConfig struct {
	BaseURL  string        // Provider base URL (default https://ipinfo.io)
	Token    string        // Optional API token, sent as ?token=
	Timeout  time.Duration // Request timeout
	SpoolDir string        // If set, bodies are downloaded to a temp file here first
}

// HTTPFetcher implements Fetcher against an ipinfo-compatible HTTP API
// Request format: GET <base>/<ip>/json
type HTTPFetcher struct {
	client   *resty.Client
	baseURL  string
	token    string
	spoolDir string
}

// NewHTTPFetcher creates a new HTTP fetcher
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "geolocator/1.0")

	return &HTTPFetcher{
		client:   client,
		baseURL:  baseURL,
		token:    cfg.Token,
		spoolDir: cfg.SpoolDir,
	}
}

// Name implements the Fetcher interface
func (f *HTTPFetcher) Name() string {
	return "http"
}

// URL builds the document URL for an IP address
func (f *HTTPFetcher) URL(ip string) string {
	return fmt.Sprintf("%s/%s/json", f.baseURL, url.PathEscape(ip))
}

// Fetch implements the Fetcher interface
//
// The body is returned whatever the HTTP status: the provider reports
// invalid IPs inside the document (with a 4xx status), and classifying
// that is the extractor's job. Only network-level failures are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, ip string) ([]byte, error) {
	req := f.client.R().SetContext(ctx)
	if f.token != "" {
		req.SetQueryParam("token", f.token)
	}

	if f.spoolDir != "" {
		return f.fetchSpooled(req, ip)
	}

	resp, err := req.Get(f.URL(ip))
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", f.baseURL, err)
	}
	return resp.Body(), nil
}

// fetchSpooled downloads the body into a temporary file, reads it back and
// removes the file on every path
func (f *HTTPFetcher) fetchSpooled(req *resty.Request, ip string) ([]byte, error) {
	tmp, err := os.CreateTemp(f.spoolDir, "geo_*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	spoolPath := tmp.Name()
	tmp.Close()
	defer os.Remove(spoolPath)

	absPath, err := filepath.Abs(spoolPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve spool file: %w", err)
	}

	if _, err := req.SetOutput(absPath).Get(f.URL(ip)); err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", f.baseURL, err)
	}

	body, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read spool file: %w", err)
	}
	return body, nil
}

// Close implements the Fetcher interface
// The resty client holds no resources that need explicit release
func (f *HTTPFetcher) Close() error {
	return nil
}
