package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evyataryagoni/geolocator/internal/extractor"
	"github.com/evyataryagoni/geolocator/internal/fetcher"
	"github.com/evyataryagoni/geolocator/internal/logger"
	"github.com/evyataryagoni/geolocator/internal/metrics"
	"github.com/evyataryagoni/geolocator/internal/models"
	"github.com/go-playground/validator/v10"
)

// Lookup failure classes; match with errors.Is
var (
	ErrInvalidInput     = errors.New("invalid IP address input")
	ErrTransportFailure = errors.New("failed to retrieve geolocation data")
	ErrAPIError         = errors.New("invalid or unreachable IP address")
	ErrEmptyResult      = errors.New("no valid data returned")

	// ErrSourceUnavailable means the document source could not be opened
	ErrSourceUnavailable = errors.New("geolocation source unavailable")
)

// SourceOpener connects the document source on first use
type SourceOpener func(ctx context.Context) (fetcher.Fetcher, error)

// LookupService handles business logic for IP geolocation lookups
//
// Responsibilities:
//   - Validate input
//   - Fetch the raw document
//   - Extract fields and classify the outcome
//   - Record metrics and logs
type LookupService struct {
	fetcher   fetcher.Fetcher
	open      SourceOpener
	extractor extractor.Extractor
	validator *validator.Validate
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewLookupService creates a new lookup service
//
// Parameters:
//   - f: any implementation of the Fetcher interface
//   - ex: any implementation of the Extractor interface
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewLookupService(f fetcher.Fetcher, ex extractor.Extractor, m *metrics.Metrics, log *logger.Logger) *LookupService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &LookupService{
		fetcher:   f,
		extractor: ex,
		validator: validator.New(),
		metrics:   m,
		logger:    log.WithComponent("LookupService"),
	}
}

// NewDeferredLookupService creates a lookup service whose document source
// is opened by open only once an input has passed validation, so invalid
// input is reported without touching Redis, MySQL or the documents directory
func NewDeferredLookupService(open SourceOpener, ex extractor.Extractor, m *metrics.Metrics, log *logger.Logger) *LookupService {
	s := NewLookupService(nil, ex, m, log)
	s.open = open
	return s
}

// Lookup fetches and parses the geolocation document for an IP address
//
// Flow:
//  1. Validate input (at least 3 characters; no fetch otherwise)
//  2. Fetch the document (single attempt, no retry)
//  3. Extract fields
//  4. Classify: success, API error or empty result
//
// The outcome is returned whenever extraction ran, even when it is
// reported as an error, so callers can still inspect its kind.
func (s *LookupService) Lookup(ctx context.Context, ip string) (models.ParseOutcome, error) {
	log := s.logger.WithIP(ip)

	// Step 1: Validate input
	if err := s.validator.Var(ip, "required,min=3"); err != nil {
		log.Warn().Msg("Invalid IP address input")
		s.recordError("invalid_input")
		return models.Empty(), ErrInvalidInput
	}

	if err := s.ensureSource(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to open document source")
		s.recordError("source")
		return models.Empty(), fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	// Step 2: Fetch the raw document
	log.Debug().Str("source", s.fetcher.Name()).Msg("Fetching geolocation document")
	start := time.Now()
	doc, err := s.fetcher.Fetch(ctx, ip)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.FetchDuration.WithLabelValues(s.fetcher.Name()).Observe(elapsed.Seconds())
	}
	if err != nil {
		log.Error().Err(err).Str("source", s.fetcher.Name()).Msg("Failed to fetch geolocation document")
		s.recordError("transport")
		return models.Empty(), fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	if s.metrics != nil {
		s.metrics.DocumentSize.WithLabelValues(s.fetcher.Name()).Observe(float64(len(doc)))
	}

	// Step 3: Extract fields
	outcome := s.extractor.Extract(doc)

	// Step 4: Classify
	switch outcome.Kind {
	case models.OutcomeAPIError:
		log.Warn().Msg("Provider reported the IP as invalid or unreachable")
		s.recordError(outcome.Kind.String())
		return outcome, ErrAPIError

	case models.OutcomeEmpty:
		log.Warn().Int("bytes", len(doc)).Msg("No recognizable fields in document")
		s.recordError(outcome.Kind.String())
		return outcome, ErrEmptyResult
	}

	rec := outcome.Record
	log.Info().
		Str("city", rec.City).
		Str("region", rec.Region).
		Str("country", rec.Country).
		Str("org", rec.Org).
		Str("loc", rec.Loc).
		Dur("fetch_duration", elapsed).
		Msg("IP lookup successful")
	if s.metrics != nil {
		s.metrics.LookupsTotal.WithLabelValues(outcome.Kind.String()).Inc()
		s.recordFields(rec)
	}
	return outcome, nil
}

// ensureSource opens the deferred document source once
func (s *LookupService) ensureSource(ctx context.Context) error {
	if s.fetcher != nil {
		return nil
	}
	if s.open == nil {
		return errors.New("no document source configured")
	}
	f, err := s.open(ctx)
	if err != nil {
		return err
	}
	s.fetcher = f
	return nil
}

// recordError tracks a failed lookup
func (s *LookupService) recordError(errorType string) {
	if s.metrics == nil {
		return
	}
	s.metrics.LookupsTotal.WithLabelValues(errorType).Inc()
	s.metrics.LookupErrors.WithLabelValues(errorType).Inc()
}

// recordFields counts which fields a successful lookup populated
func (s *LookupService) recordFields(rec models.GeoRecord) {
	for field, value := range map[string]string{
		"city":    rec.City,
		"region":  rec.Region,
		"country": rec.Country,
		"org":     rec.Org,
		"loc":     rec.Loc,
	} {
		if value != "" {
			s.metrics.FieldsExtracted.WithLabelValues(field).Inc()
		}
	}
}

// Close cleans up resources
// This will close the underlying fetcher (database connections, etc.)
func (s *LookupService) Close() error {
	if s.fetcher == nil {
		return nil
	}
	return s.fetcher.Close()
}
