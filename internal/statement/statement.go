// Package statement discovers statement exports on disk and reads their rows.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/revoult/savings/internal/model"
)

// Layout names the columns a statement export is read from.
type Layout struct {
	Description string `yaml:"description"`
	MoneyIn     string `yaml:"money_in"`
	MoneyOut    string `yaml:"money_out"`
}

// DefaultLayout returns the column names of a Revolut savings export.
func DefaultLayout() Layout {
	return Layout{
		Description: "Description",
		MoneyIn:     "Money in",
		MoneyOut:    "Money out",
	}
}

// FileInfo describes a CSV file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

const bom = "\ufeff"

// ReadRows reads a statement CSV with a header row, picking the layout's columns by name.
// Other columns are ignored and their order does not matter.
func ReadRows(r io.Reader, layout Layout) ([]model.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading statement header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		idx[strings.TrimSpace(h)] = i
	}

	var cols [3]int
	for i, name := range []string{layout.Description, layout.MoneyIn, layout.MoneyOut} {
		c, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("statement has no %q column", name)
		}
		cols[i] = c
	}

	var rows []model.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading statement CSV: %w", err)
		}
		rows = append(rows, model.Row{
			Description: field(rec, cols[0]),
			MoneyIn:     field(rec, cols[1]),
			MoneyOut:    field(rec, cols[2]),
		})
	}
	return rows, nil
}

// field returns rec[i], or "" for a short record.
func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// Load opens path and reads its rows.
func Load(path string, layout Layout) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f, layout)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// Scan returns the CSV files directly inside dir, sorted by name.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading statement dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
