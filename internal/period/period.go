// Package period derives a statement's reporting window from its filename.
//
// Statement exports are named <dd_mm_yyyy>__<dd_mm_yyyy>.csv, start date first.
package period

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/revoult/savings/internal/model"
	"github.com/revoult/savings/internal/statement"
)

const (
	separator     = "__"
	extension     = ".csv"
	namePattern   = "start_date__end_date.csv"
	datePattern   = "dd_mm_yyyy"
	displayFormat = "2006-01-02"
)

// FormatError reports a filename that does not encode a valid period.
// Half is "start" or "end" for a malformed date, empty when the name itself is malformed.
type FormatError struct {
	Name  string
	Half  string
	Value string
}

func (e *FormatError) Error() string {
	if e.Half == "" {
		return fmt.Sprintf("invalid filename: %s, correct one is: %s", e.Name, namePattern)
	}
	return fmt.Sprintf("invalid %s date format in %s: %q, correct one: %s", e.Half, e.Name, e.Value, datePattern)
}

// Period is the reporting window of one statement file.
type Period struct {
	Start      time.Time
	End        time.Time
	SourceName string
	Rows       []model.Row
}

// Parse builds a Period from a statement filename. Directory components are ignored.
func Parse(filename string) (*Period, error) {
	name := filepath.Base(filename)
	stem := strings.TrimSuffix(name, extension)

	parts := strings.Split(stem, separator)
	if len(parts) != 2 {
		return nil, &FormatError{Name: name}
	}

	start, err := parseDate(parts[0])
	if err != nil {
		return nil, &FormatError{Name: name, Half: "start", Value: parts[0]}
	}
	end, err := parseDate(parts[1])
	if err != nil {
		return nil, &FormatError{Name: name, Half: "end", Value: parts[1]}
	}

	return &Period{Start: start, End: end, SourceName: name}, nil
}

// parseDate parses "dd_mm_yyyy" into a UTC date, rejecting dates that do not
// exist on the calendar.
func parseDate(s string) (time.Time, error) {
	fields := strings.Split(s, "_")
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}

	// Day and month take one or two digits, the year exactly four.
	widths := [3][2]int{{1, 2}, {1, 2}, {4, 4}}

	var nums [3]int
	for i, f := range fields {
		if f == "" || strings.TrimLeft(f, "0123456789") != "" {
			return time.Time{}, fmt.Errorf("component %q is not numeric", f)
		}
		if len(f) < widths[i][0] || len(f) > widths[i][1] {
			return time.Time{}, fmt.Errorf("component %q has %d digits", f, len(f))
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("component %q: %w", f, err)
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return time.Time{}, fmt.Errorf("no such date %s", s)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (31 April -> 1 May); a changed day means the input was not a real date.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("no such date %s", s)
	}
	return t, nil
}

// Reversed reports whether the filename puts the end date before the start date.
func (p *Period) Reversed() bool {
	return p.End.Before(p.Start)
}

// Load reads the period's rows from path using the given column layout.
func (p *Period) Load(path string, layout statement.Layout) error {
	rows, err := statement.Load(path, layout)
	if err != nil {
		return err
	}
	p.Rows = rows
	return nil
}

// String renders the period as "2023-01-01 - 2023-01-31".
func (p *Period) String() string {
	return p.Start.Format(displayFormat) + " - " + p.End.Format(displayFormat)
}
