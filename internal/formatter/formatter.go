package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evyataryagoni/geolocator/internal/models"
	"github.com/evyataryagoni/geolocator/internal/service"
)

const (
	Banner       = "=== GeoLocator (IP Address Lookup) ===\n\n"
	Prompt       = "Enter an IP address (e.g., 8.8.8.8): "
	ResultHeader = "=== GeoLocator Results ==="
	Placeholder  = "N/A"
)

// User-facing error lines
const (
	MsgInvalidInput      = "Error: Invalid IP address input."
	MsgTransportFailure  = "Error: Failed to retrieve data. Please check your internet connection."
	MsgAPIError          = "Error: Invalid or unreachable IP address."
	MsgEmptyResult       = "Error: No valid data returned. The IP may be unreachable or invalid."
	MsgUnexpected        = "Error: Failed to retrieve or parse IP data."
	MsgSourceUnavailable = "Error: Could not open the geolocation data source."
)

// FormatOutcome renders a parse outcome as user-facing text
func FormatOutcome(o models.ParseOutcome) string {
	switch o.Kind {
	case models.OutcomeSuccess:
		return FormatRecord(o.Record)
	case models.OutcomeAPIError:
		return MsgAPIError + "\n"
	default:
		return MsgEmptyResult + "\n"
	}
}

// FormatRecord renders the results block; absent fields print as N/A
func FormatRecord(rec models.GeoRecord) string {
	var b strings.Builder
	b.WriteString(ResultHeader + "\n")
	fmt.Fprintf(&b, "City: %s\n", orPlaceholder(rec.City))
	fmt.Fprintf(&b, "Region: %s\n", orPlaceholder(rec.Region))
	fmt.Fprintf(&b, "Country: %s\n", orPlaceholder(rec.Country))
	fmt.Fprintf(&b, "Organization: %s\n", orPlaceholder(rec.Org))
	fmt.Fprintf(&b, "Coordinates: %s\n", orPlaceholder(rec.Loc))
	b.WriteString("\nLookup complete.\n")
	return b.String()
}

// FormatError maps a lookup error to its single user-facing line
func FormatError(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return MsgInvalidInput + "\n"
	case errors.Is(err, service.ErrTransportFailure):
		return MsgTransportFailure + "\n"
	case errors.Is(err, service.ErrAPIError):
		return MsgAPIError + "\n"
	case errors.Is(err, service.ErrEmptyResult):
		return MsgEmptyResult + "\n"
	case errors.Is(err, service.ErrSourceUnavailable):
		return MsgSourceUnavailable + "\n"
	default:
		return MsgUnexpected + "\n"
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
