package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/evyataryagoni/geolocator/internal/formatter"
	"github.com/evyataryagoni/geolocator/internal/models"
	"github.com/spf13/cobra"
)

// DefaultMaxInputLength caps the token read from the prompt
const DefaultMaxInputLength = 99

// Lookuper performs one geolocation lookup
// Satisfied by *service.LookupService
type Lookuper interface {
	Lookup(ctx context.Context, ip string) (models.ParseOutcome, error)
}

// Options configures the root command
type Options struct {
	Service        Lookuper
	MaxInputLength int // longest prompt token kept (0 = DefaultMaxInputLength)
}

// NewRootCommand creates the geolocator command
//
// Usage: geolocator [ip]
// Without an argument the IP is read from stdin after a prompt.
// Results and error lines go to stdout; any failure makes Execute return
// a non-nil error so main can exit with status 1.
func NewRootCommand(opts Options) *cobra.Command {
	maxInput := opts.MaxInputLength
	if maxInput <= 0 {
		maxInput = DefaultMaxInputLength
	}

	return &cobra.Command{
		Use:           "geolocator [ip]",
		Short:         "Look up the approximate location of an IP address",
		Long:          "GeoLocator queries an ipinfo-compatible service and prints city, region, country, organization and coordinates for an IP address.",
		Version:       "1.0.0",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.Banner)

			var ip string
			if len(args) == 1 {
				ip = truncate(args[0], maxInput)
			} else {
				fmt.Fprint(out, formatter.Prompt)
				ip = readToken(cmd.InOrStdin(), maxInput)
				fmt.Fprintln(out)
			}

			outcome, err := opts.Service.Lookup(cmd.Context(), ip)
			if err != nil {
				fmt.Fprint(out, formatter.FormatError(err))
				return err
			}

			fmt.Fprint(out, formatter.FormatOutcome(outcome))
			return nil
		},
	}
}

// readToken returns the first whitespace-delimited word from r, truncated
// to limit bytes; empty when r holds no word
func readToken(r io.Reader, limit int) string {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	if !scanner.Scan() {
		return ""
	}
	return truncate(scanner.Text(), limit)
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
