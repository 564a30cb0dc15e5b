package extractor

import (
	"fmt"
	"strings"

	"github.com/evyataryagoni/geolocator/internal/models"
)

// Extractor turns a raw geolocation document into a ParseOutcome
// Implementations must not keep state between calls
type Extractor interface {
	Extract(doc []byte) models.ParseOutcome
}

const (
	ModeLines = "lines" // line-oriented substring scan
	ModeJSON  = "json"  // structural parse of a flat object
)

// Config holds configuration for creating an extractor
type Config struct {
	Mode          string // "lines" or "json"
	MaxLineLength int    // chunk size for the line scanner (0 = no chunking)
}

// New creates an extractor based on the configuration (factory pattern)
func New(cfg Config) (Extractor, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))

	switch mode {
	case ModeLines, "":
		return NewLineExtractor(cfg.MaxLineLength), nil

	case ModeJSON:
		return NewJSONExtractor(), nil

	default:
		return nil, fmt.Errorf("unknown parse mode: %s (supported: lines, json)", cfg.Mode)
	}
}

// marker is one of the fixed keys searched for in a document
type marker struct {
	key   string
	field func(*models.GeoRecord) *string // nil for the error marker
}

const errorKey = "error"

// markers are tested in this order; the first one found on a line wins
var markers = []marker{
	{key: "city", field: func(r *models.GeoRecord) *string { return &r.City }},
	{key: "region", field: func(r *models.GeoRecord) *string { return &r.Region }},
	{key: "country", field: func(r *models.GeoRecord) *string { return &r.Country }},
	{key: "org", field: func(r *models.GeoRecord) *string { return &r.Org }},
	{key: "loc", field: func(r *models.GeoRecord) *string { return &r.Loc }},
	{key: errorKey},
}

// outcome classifies a finished record
func outcome(rec models.GeoRecord) models.ParseOutcome {
	if rec.IsEmpty() {
		return models.Empty()
	}
	return models.Success(rec)
}
