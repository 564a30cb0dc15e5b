package extractor

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/evyataryagoni/geolocator/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONExtractor walks the document as a flat JSON object
// Only top-level keys are considered, so nested "error" or "city" keys
// no longer produce false positives
type JSONExtractor struct{}

// NewJSONExtractor creates a structural extractor
func NewJSONExtractor() *JSONExtractor {
	return &JSONExtractor{}
}

// Extract implements the Extractor interface
//
// Like the line scanner, the first occurrence of a key wins and a
// top-level "error" key aborts with ApiError. Undecodable documents and
// non-object documents yield Empty.
func (e *JSONExtractor) Extract(doc []byte) models.ParseOutcome {
	iter := json.BorrowIterator(doc)
	defer json.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return models.Empty()
	}

	var rec models.GeoRecord
	apiError := false
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		if key == errorKey {
			apiError = true
			return false
		}
		field := fieldFor(&rec, key)
		// Non-string values (numbers, objects, null) are ignored
		if field == nil || *field != "" || it.WhatIsNext() != jsoniter.StringValue {
			it.Skip()
			return it.Error == nil
		}
		*field = it.ReadString()
		return it.Error == nil
	})

	if apiError {
		return models.APIError()
	}
	if iter.Error != nil {
		return models.Empty()
	}
	return outcome(rec)
}

// fieldFor returns the record field stored under key, or nil
func fieldFor(rec *models.GeoRecord, key string) *string {
	for _, m := range markers {
		if m.key == key && m.field != nil {
			return m.field(rec)
		}
	}
	return nil
}
