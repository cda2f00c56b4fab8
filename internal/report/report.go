// Package report renders per-period summaries.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/revoult/savings/internal/model"
	"github.com/revoult/savings/internal/money"
	"github.com/revoult/savings/internal/period"
)

// Result pairs a period with its summary.
type Result struct {
	Period  *period.Period
	Summary model.Summary
}

// Format selects the output renderer.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want %s or %s)", s, FormatText, FormatCSV)
	}
}

// Writer emits results one at a time.
type Writer interface {
	Write(r Result) error
	Close() error
}

// NewWriter returns a Writer for format f.
func NewWriter(w io.Writer, f Format, currency string) (Writer, error) {
	switch f {
	case FormatText:
		return &textWriter{w: w, currency: currency}, nil
	case FormatCSV:
		return newCSVWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", f)
	}
}

var (
	blockRule = strings.Repeat("-", 52)
	totalRule = strings.Repeat("_", 18)
)

type textWriter struct {
	w        io.Writer
	currency string
}

func (t *textWriter) Write(r Result) error {
	return WriteText(t.w, r, t.currency)
}

func (t *textWriter) Close() error { return nil }

// WriteText writes one summary block:
//
//	----------------------------------------------------
//	2023-01-01 - 2023-01-31
//
//	Funding: 100.00 PLN
//	...
func WriteText(w io.Writer, r Result, currency string) error {
	s := r.Summary
	var b strings.Builder
	fmt.Fprintln(&b, blockRule)
	fmt.Fprintf(&b, "%s\n\n", r.Period)
	fmt.Fprintf(&b, "Funding: %s\n", money.Format(s.Funding, currency))
	fmt.Fprintf(&b, "Cashout: %s\n", money.Format(s.Cashout, currency))
	fmt.Fprintf(&b, "Interest: %s\n", money.Format(s.Interest, currency))
	fmt.Fprintln(&b, totalRule)
	fmt.Fprintf(&b, "Total: %s\n", money.Format(s.Total(), currency))
	fmt.Fprintln(&b, totalRule)
	fmt.Fprintln(&b, blockRule)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
