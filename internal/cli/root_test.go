package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/evyataryagoni/geolocator/internal/extractor"
	"github.com/evyataryagoni/geolocator/internal/fetcher"
	"github.com/evyataryagoni/geolocator/internal/formatter"
	"github.com/evyataryagoni/geolocator/internal/logger"
	"github.com/evyataryagoni/geolocator/internal/models"
	"github.com/evyataryagoni/geolocator/internal/service"
)

// mockLookuper records the IPs it was asked for
type mockLookuper struct {
	calls   []string
	outcome models.ParseOutcome
	err     error
}

func (m *mockLookuper) Lookup(ctx context.Context, ip string) (models.ParseOutcome, error) {
	m.calls = append(m.calls, ip)
	return m.outcome, m.err
}

// run executes the root command with the given stdin and args
func run(t *testing.T, opts Options, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(opts)
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	// A nil slice would make cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// newService builds a real service over the mock fetcher
func newService() (*service.LookupService, *fetcher.MockFetcher) {
	mockFetcher := fetcher.NewMockFetcher()
	return service.NewLookupService(mockFetcher, extractor.NewLineExtractor(512), nil, logger.Nop()), mockFetcher
}

// TestRootCommand_PromptSuccess tests the interactive flow end to end
func TestRootCommand_PromptSuccess(t *testing.T) {
	svc, _ := newService()

	out, err := run(t, Options{Service: svc}, "8.8.8.8\n")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := formatter.Banner + formatter.Prompt + "\n" +
		"=== GeoLocator Results ===\n" +
		"City: Mountain View\n" +
		"Region: California\n" +
		"Country: US\n" +
		"Organization: AS15169 Google LLC\n" +
		"Coordinates: 37.4056,-122.0775\n" +
		"\nLookup complete.\n"
	if out != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
}

// TestRootCommand_ArgumentSkipsPrompt tests passing the IP as an argument
func TestRootCommand_ArgumentSkipsPrompt(t *testing.T) {
	svc, mockFetcher := newService()

	out, err := run(t, Options{Service: svc}, "", "1.1.1.1")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, formatter.Prompt) {
		t.Error("expected no prompt when IP is given as argument")
	}
	if !strings.Contains(out, "City: Sydney\n") || !strings.Contains(out, "Organization: N/A\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if len(mockFetcher.FetchCalls) != 1 || mockFetcher.FetchCalls[0] != "1.1.1.1" {
		t.Errorf("expected fetch for 1.1.1.1, got %v", mockFetcher.FetchCalls)
	}
}

// TestRootCommand_InvalidInput tests that short input fails without fetching
func TestRootCommand_InvalidInput(t *testing.T) {
	svc, mockFetcher := newService()

	out, err := run(t, Options{Service: svc}, "1\n")

	if !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.HasSuffix(out, formatter.MsgInvalidInput+"\n") {
		t.Errorf("expected invalid input message, got:\n%s", out)
	}
	if len(mockFetcher.FetchCalls) != 0 {
		t.Errorf("expected no fetch, got %v", mockFetcher.FetchCalls)
	}
}

// TestRootCommand_Failures tests each failure class prints one line and returns an error
func TestRootCommand_Failures(t *testing.T) {
	tests := []struct {
		name       string
		stdin      string
		fetchError error
		wantErr    error
		wantMsg    string
	}{
		{"empty stdin", "", nil, service.ErrInvalidInput, formatter.MsgInvalidInput},
		{"transport", "8.8.8.8", errors.New("dial tcp: refused"), service.ErrTransportFailure, formatter.MsgTransportFailure},
		{"api error", "999.1.1.1", nil, service.ErrAPIError, formatter.MsgAPIError},
		{"empty result", "10.0.0.1", nil, service.ErrEmptyResult, formatter.MsgEmptyResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockFetcher := newService()
			mockFetcher.FetchError = tt.fetchError

			out, err := run(t, Options{Service: svc}, tt.stdin)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.HasSuffix(out, tt.wantMsg+"\n") {
				t.Errorf("expected %q at end of output, got:\n%s", tt.wantMsg, out)
			}
			if strings.Contains(out, formatter.ResultHeader) {
				t.Error("expected no results block on failure")
			}
		})
	}
}

// TestRootCommand_ReadsFirstToken tests that only the first word is used
func TestRootCommand_ReadsFirstToken(t *testing.T) {
	lookuper := &mockLookuper{outcome: models.Success(models.GeoRecord{City: "X"})}

	_, err := run(t, Options{Service: lookuper}, "   8.8.8.8 extra words\n")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lookuper.calls) != 1 || lookuper.calls[0] != "8.8.8.8" {
		t.Errorf("expected lookup for 8.8.8.8, got %v", lookuper.calls)
	}
}

// TestRootCommand_TruncatesInput tests the input length cap
func TestRootCommand_TruncatesInput(t *testing.T) {
	lookuper := &mockLookuper{outcome: models.Success(models.GeoRecord{City: "X"})}

	run(t, Options{Service: lookuper}, strings.Repeat("a", 150))
	run(t, Options{Service: lookuper, MaxInputLength: 5}, "", "2001:db8::1")

	if len(lookuper.calls) != 2 {
		t.Fatalf("expected 2 lookups, got %d", len(lookuper.calls))
	}
	if len(lookuper.calls[0]) != DefaultMaxInputLength {
		t.Errorf("expected %d bytes, got %d", DefaultMaxInputLength, len(lookuper.calls[0]))
	}
	if lookuper.calls[1] != "2001:" {
		t.Errorf("expected '2001:', got '%s'", lookuper.calls[1])
	}
}

// TestRootCommand_TooManyArgs tests argument validation
func TestRootCommand_TooManyArgs(t *testing.T) {
	lookuper := &mockLookuper{}

	_, err := run(t, Options{Service: lookuper}, "", "8.8.8.8", "1.1.1.1")

	if err == nil {
		t.Error("expected error for two arguments, got nil")
	}
	if len(lookuper.calls) != 0 {
		t.Errorf("expected no lookup, got %v", lookuper.calls)
	}
}

// TestRootCommand_InvalidInputWithUnavailableSource tests that input is validated before the source is opened
func TestRootCommand_InvalidInputWithUnavailableSource(t *testing.T) {
	opens := 0
	open := func(ctx context.Context) (fetcher.Fetcher, error) {
		opens++
		return nil, errors.New("failed to connect to Redis: connection refused")
	}
	svc := service.NewDeferredLookupService(open, extractor.NewLineExtractor(512), nil, logger.Nop())

	out, err := run(t, Options{Service: svc}, "1\n")

	if !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	want := formatter.Banner + formatter.Prompt + "\n" + formatter.MsgInvalidInput + "\n"
	if out != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
	if opens != 0 {
		t.Errorf("expected source not opened, got %d opens", opens)
	}
}

// TestRootCommand_SourceUnavailable tests the message for a source that cannot be opened
func TestRootCommand_SourceUnavailable(t *testing.T) {
	open := func(ctx context.Context) (fetcher.Fetcher, error) {
		return fetcher.NewFileFetcher("/nonexistent/documents")
	}
	svc := service.NewDeferredLookupService(open, extractor.NewLineExtractor(512), nil, logger.Nop())

	out, err := run(t, Options{Service: svc}, "", "8.8.8.8")

	if !errors.Is(err, service.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
	if !strings.HasSuffix(out, formatter.MsgSourceUnavailable+"\n") {
		t.Errorf("expected source unavailable message, got:\n%s", out)
	}
	if strings.Contains(out, formatter.MsgTransportFailure) {
		t.Error("expected no internet connection hint for a local source")
	}
}
