package fetcher

import "context"

// MockFetcher is a test double for the Fetcher interface
// It allows tests to control behavior and verify interactions
type MockFetcher struct {
	// Documents holds the mock data (IP address -> raw document)
	Documents map[string][]byte

	// Track method calls for verification in tests
	FetchCalls  []string
	CloseCalled bool

	// Control behavior for error scenarios
	FetchError error
	CloseError error
}

// NewMockFetcher creates a mock fetcher pre-populated with common test documents
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Documents: map[string][]byte{
			"8.8.8.8": []byte(`{
  "ip": "8.8.8.8",
  "city": "Mountain View",
  "region": "California",
  "country": "US",
  "loc": "37.4056,-122.0775",
  "org": "AS15169 Google LLC"
}`),
			"1.1.1.1": []byte(`{
  "ip": "1.1.1.1",
  "city": "Sydney",
  "region": "New South Wales",
  "country": "AU"
}`),
			"999.1.1.1": []byte(`{
  "status": 404,
  "error": {
    "title": "Wrong ip",
    "message": "Please provide a valid IP address"
  }
}`),
			"10.0.0.1": []byte(`{
  "ip": "10.0.0.1",
  "bogon": true
}`),
		},
		FetchCalls: []string{},
	}
}

// Name implements the Fetcher interface
func (m *MockFetcher) Name() string {
	return "mock"
}

// Fetch implements the Fetcher interface
// Tracks calls and returns configured documents or errors
// Unknown IPs return an empty body, like a provider returning nothing useful
func (m *MockFetcher) Fetch(ctx context.Context, ip string) ([]byte, error) {
	m.FetchCalls = append(m.FetchCalls, ip)

	if m.FetchError != nil {
		return nil, m.FetchError
	}

	return m.Documents[ip], nil
}

// Close implements the Fetcher interface
func (m *MockFetcher) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
