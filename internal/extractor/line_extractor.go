package extractor

import (
	"strings"

	"github.com/evyataryagoni/geolocator/internal/models"
)

// LineExtractor scans a document line by line and matches keys by substring
//
// A line "contains" a key when the quoted key (e.g. `"city"`) appears anywhere
// in it. This is not a structural JSON test: nested or unrelated keys with the
// same name match too, including `"error"`.
type LineExtractor struct {
	maxLineLength int
}

// NewLineExtractor creates a line extractor
//
// Parameters:
//   - maxLineLength: line buffer size; a line is scanned as consecutive chunks
//     of at most maxLineLength-1 bytes, the last byte being reserved for the
//     terminator like a C line buffer (0 disables chunking)
func NewLineExtractor(maxLineLength int) *LineExtractor {
	if maxLineLength < 0 {
		maxLineLength = 0
	}
	return &LineExtractor{maxLineLength: maxLineLength}
}

// Extract implements the Extractor interface
//
// Flow:
//  1. Split the document into lines (and chunks)
//  2. For each line find the first marker it contains
//  3. An error marker ends the pass with APIError, dropping parsed fields
//  4. A data marker sets its field if still unset and a quoted value follows
func (e *LineExtractor) Extract(doc []byte) models.ParseOutcome {
	var rec models.GeoRecord

	for _, line := range e.lines(string(doc)) {
		m, ok := matchMarker(line)
		if !ok {
			continue
		}

		if m.field == nil {
			return models.APIError()
		}

		// First match per key wins
		field := m.field(&rec)
		if *field != "" {
			continue
		}

		if value, ok := quotedValue(line, m.key); ok {
			*field = value
		}
	}

	return outcome(rec)
}

// lines splits the document on newlines, then splits long lines into chunks
func (e *LineExtractor) lines(doc string) []string {
	if doc == "" {
		return nil
	}

	raw := strings.Split(doc, "\n")
	if e.maxLineLength == 0 {
		return raw
	}

	chunk := max(e.maxLineLength-1, 1)
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		for len(line) > chunk {
			out = append(out, line[:chunk])
			line = line[chunk:]
		}
		out = append(out, line)
	}
	return out
}

// matchMarker returns the first marker (in priority order) found in the line
func matchMarker(line string) (marker, bool) {
	for _, m := range markers {
		if strings.Contains(line, `"`+m.key+`"`) {
			return m, true
		}
	}
	return marker{}, false
}

// quotedValue returns the string between the first pair of quotes after key
// The separator between key and value is an optional colon with optional
// whitespace around it. Escapes are not decoded.
func quotedValue(line, key string) (string, bool) {
	quotedKey := `"` + key + `"`
	idx := strings.Index(line, quotedKey)
	if idx < 0 {
		return "", false
	}

	rest := strings.TrimLeft(line[idx+len(quotedKey):], " \t")
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimLeft(rest, " \t")

	if !strings.HasPrefix(rest, `"`) {
		return "", false
	}
	rest = rest[1:]

	end := strings.IndexByte(rest, '"')
	if end <= 0 {
		return "", false
	}
	return rest[:end], true
}
