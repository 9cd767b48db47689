// Package report renders a finished pricing run for the console.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qcserestipy/mcpricer/pkg/montecarlo"
	"github.com/qcserestipy/mcpricer/pkg/option"
)

const (
	separator = "---------------------------------"
	places    = 6
)

// Summary is everything the console report shows about one run.
type Summary struct {
	Option    option.Option
	Paths     int
	Result    montecarlo.Result
	Elapsed   time.Duration // wall clock including setup
	Reference float64       // closed-form price
}

// NewSummary attaches the Black-Scholes reference to a result.
func NewSummary(o option.Option, paths int, res montecarlo.Result, elapsed time.Duration) Summary {
	return Summary{
		Option:    o,
		Paths:     paths,
		Result:    res,
		Elapsed:   elapsed,
		Reference: option.BlackScholes(o),
	}
}

// FormatPrice rounds a price for display.
func FormatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Write prints the thread count, the elapsed seconds and the price, each
// followed by a separator line.
func Write(w io.Writer, s Summary) error {
	kind := s.Option.Kind.String()
	title := strings.ToUpper(kind[:1]) + kind[1:]

	lines := []string{
		fmt.Sprintf("Using %d threads", s.Result.Workers),
		separator,
		fmt.Sprintf("Simulated %d paths (%d antithetic pairs)", s.Paths, s.Result.Pairs),
		separator,
		fmt.Sprintf("Time elapsed: %.6f", s.Elapsed.Seconds()),
		separator,
		fmt.Sprintf("European %s Option Price: %s", title, FormatPrice(s.Result.Price)),
		fmt.Sprintf("95%% confidence interval: [%s, %s]", FormatPrice(s.Result.ConfLow), FormatPrice(s.Result.ConfHigh)),
		fmt.Sprintf("Black-Scholes reference: %s", FormatPrice(s.Reference)),
		separator,
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}
