package models

// GeoRecord holds the fields extracted from a geolocation document
// An empty string means the field was not present in the document
type GeoRecord struct {
	City    string `json:"city,omitempty"`    // City name
	Region  string `json:"region,omitempty"`  // Region / state
	Country string `json:"country,omitempty"` // Country code
	Org     string `json:"org,omitempty"`     // Organization (usually "AS<number> <name>")
	Loc     string `json:"loc,omitempty"`     // Coordinates as "lat,lon"
}

// IsEmpty reports whether none of the five fields are populated
func (r GeoRecord) IsEmpty() bool {
	return r.City == "" && r.Region == "" && r.Country == "" && r.Org == "" && r.Loc == ""
}

// OutcomeKind tags the result of one extraction pass
type OutcomeKind int

const (
	OutcomeEmpty    OutcomeKind = iota // No recognizable fields
	OutcomeSuccess                     // At least one field populated
	OutcomeAPIError                    // Document carried an explicit error marker
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeAPIError:
		return "api_error"
	default:
		return "empty"
	}
}

// ParseOutcome is the result of parsing one document
// Record is only meaningful when Kind is OutcomeSuccess
type ParseOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	Record GeoRecord   `json:"record"`
}

// Success wraps a populated record
func Success(rec GeoRecord) ParseOutcome {
	return ParseOutcome{Kind: OutcomeSuccess, Record: rec}
}

// APIError is the outcome for documents flagged with an error marker
func APIError() ParseOutcome {
	return ParseOutcome{Kind: OutcomeAPIError}
}

// Empty is the outcome for documents with no recognizable fields
func Empty() ParseOutcome {
	return ParseOutcome{Kind: OutcomeEmpty}
}
