// Package runner processes a directory of statement exports into reports.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/revoult/savings/internal/aggregate"
	"github.com/revoult/savings/internal/period"
	"github.com/revoult/savings/internal/report"
	"github.com/revoult/savings/internal/statement"
)

// Runner turns every statement file of a directory into one report entry.
type Runner struct {
	Layout    statement.Layout
	Currency  string
	Format    report.Format
	Jobs      int  // <= 1 processes files one by one
	KeepGoing bool // write good files and report all failures instead of stopping at the first
	Logger    *log.Logger
}

// FileError ties a processing failure to its file.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

type outcome struct {
	result report.Result
	err    error
}

// Run scans dir and writes one report entry per file to w, in filename order.
// Without KeepGoing, entries before the first failed file are written and its error is returned.
// With KeepGoing, every good file is written and all failures are returned joined.
func (r *Runner) Run(ctx context.Context, dir string, w io.Writer) error {
	logger := r.logger()

	files, err := statement.Scan(dir)
	if err != nil {
		return err
	}
	logger.Debug("scanned directory", "dir", dir, "files", len(files))

	outcomes, err := r.processAll(ctx, files)
	if err != nil {
		return err
	}

	out, err := report.NewWriter(w, r.Format, r.Currency)
	if err != nil {
		return err
	}

	var errs []error
	for i, o := range outcomes {
		if o.err != nil {
			ferr := &FileError{Name: files[i].Name, Err: o.err}
			if !r.KeepGoing {
				if cerr := out.Close(); cerr != nil {
					return errors.Join(ferr, cerr)
				}
				return ferr
			}
			logger.Error("failed to process file", "file", files[i].Name, "error", o.err)
			errs = append(errs, ferr)
			continue
		}
		if err := out.Write(o.result); err != nil {
			return err
		}
	}
	if err := out.Close(); err != nil {
		return err
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(errs), len(files), errors.Join(errs...))
	}
	return nil
}

// processAll runs ProcessFile over files with at most r.Jobs in flight.
// Outcomes are stored by index so ordering does not depend on scheduling.
// Without KeepGoing, files after the first failure are skipped; files before
// it still run since their entries are written.
func (r *Runner) processAll(ctx context.Context, files []statement.FileInfo) ([]outcome, error) {
	outcomes := make([]outcome, len(files))

	var mu sync.Mutex
	firstFailed := len(files)
	skip := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return !r.KeepGoing && i > firstFailed
	}
	fail := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		if i < firstFailed {
			firstFailed = i
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := r.Jobs
	if jobs < 1 {
		jobs = 1
	}
	g.SetLimit(jobs)

	for i, f := range files {
		i, f := i, f // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if skip(i) {
				r.logger().Debug("skipped file after earlier failure", "file", f.Name)
				return nil
			}
			res, err := r.ProcessFile(f)
			if err != nil {
				fail(i)
			}
			outcomes[i] = outcome{result: res, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ProcessFile parses the period from the file's name, loads its rows and summarizes them.
func (r *Runner) ProcessFile(f statement.FileInfo) (report.Result, error) {
	logger := r.logger()

	p, err := period.Parse(f.Name)
	if err != nil {
		return report.Result{}, err
	}
	if p.Reversed() {
		logger.Warn("period ends before it starts", "file", f.Name, "start", p.Start.Format("2006-01-02"), "end", p.End.Format("2006-01-02"))
	}

	if err := p.Load(f.Path, r.Layout); err != nil {
		return report.Result{}, err
	}

	s, err := aggregate.Summarize(p.Rows, r.Currency)
	if err != nil {
		return report.Result{}, err
	}
	logger.Debug("summarized file", "file", f.Name, "rows", len(p.Rows), "total", s.Total().StringFixed(2))

	return report.Result{Period: p, Summary: s}, nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
