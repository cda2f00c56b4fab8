package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revoult/savings/internal/model"
	"github.com/revoult/savings/internal/period"
)

// Header is the CSV header of a summary export.
const Header = "source,start,end,funding,cashout,interest,total"

const (
	numFields   = 7
	dateFormat  = "2006-01-02"
	colSource   = 0
	colStart    = 1
	colEnd      = 2
	colFunding  = 3
	colCashout  = 4
	colInterest = 5
	colTotal    = 6
)

type csvWriter struct {
	cw          *csv.Writer
	wroteHeader bool
}

func newCSVWriter(w io.Writer) *csvWriter {
	return &csvWriter{cw: csv.NewWriter(w)}
}

func (c *csvWriter) Write(r Result) error {
	if !c.wroteHeader {
		if err := c.cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		c.wroteHeader = true
	}
	if err := c.cw.Write(MarshalResult(r)); err != nil {
		return fmt.Errorf("writing %s: %w", r.Period.SourceName, err)
	}
	return nil
}

// Close writes the header for an empty export and flushes.
func (c *csvWriter) Close() error {
	if !c.wroteHeader {
		if err := c.cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		c.wroteHeader = true
	}
	c.cw.Flush()
	return c.cw.Error()
}

// MarshalResult converts a Result to a CSV row.
func MarshalResult(r Result) []string {
	row := make([]string, numFields)
	row[colSource] = r.Period.SourceName
	row[colStart] = r.Period.Start.Format(dateFormat)
	row[colEnd] = r.Period.End.Format(dateFormat)
	row[colFunding] = r.Summary.Funding.StringFixed(2)
	row[colCashout] = r.Summary.Cashout.StringFixed(2)
	row[colInterest] = r.Summary.Interest.StringFixed(2)
	row[colTotal] = r.Summary.Total().StringFixed(2)
	return row
}

// UnmarshalResult converts a CSV row to a Result. The total column is derived
// from the other amounts and only checked to be numeric.
//
// The reading half of the codec is for consumers of a summary export, such as
// scripts merging several runs; savings itself only writes.
func UnmarshalResult(record []string) (Result, error) {
	if len(record) != numFields {
		return Result{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	start, err := time.Parse(dateFormat, record[colStart])
	if err != nil {
		return Result{}, fmt.Errorf("parsing start %q: %w", record[colStart], err)
	}
	end, err := time.Parse(dateFormat, record[colEnd])
	if err != nil {
		return Result{}, fmt.Errorf("parsing end %q: %w", record[colEnd], err)
	}

	var amounts [4]decimal.Decimal
	for i, col := range []int{colFunding, colCashout, colInterest, colTotal} {
		amounts[i], err = decimal.NewFromString(record[col])
		if err != nil {
			return Result{}, fmt.Errorf("parsing amount %q: %w", record[col], err)
		}
	}

	return Result{
		Period:  &period.Period{Start: start, End: end, SourceName: record[colSource]},
		Summary: model.Summary{Funding: amounts[0], Cashout: amounts[1], Interest: amounts[2]},
	}, nil
}

// ReadCSV reads a summary export written by the csv format. It is the
// counterpart of the csv Writer for callers importing this package.
func ReadCSV(r io.Reader) ([]Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading summary CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var results []Result
	for i, rec := range records[1:] {
		res, err := UnmarshalResult(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		results = append(results, res)
	}
	return results, nil
}
