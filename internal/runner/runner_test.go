package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revoult/savings/internal/money"
	"github.com/revoult/savings/internal/period"
	"github.com/revoult/savings/internal/report"
	"github.com/revoult/savings/internal/statement"
)

const header = "Date,Description,Money in,Money out,Balance\n"

func writeStatement(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(header+body), 0o644))
}

func newRunner(logs io.Writer) *Runner {
	return &Runner{
		Layout:   statement.DefaultLayout(),
		Currency: money.DefaultCurrency,
		Format:   report.FormatText,
		Jobs:     1,
		Logger:   log.New(logs),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "01_01_2023__31_01_2023.csv",
		"2023-01-02,Deposit,\"100,00 PLN\",,\n"+
			"2023-01-09,Withdrawal,,\"40,00 PLN\",\n"+
			"2023-01-31,Gross interest payment,\"5,00 PLN\",,\n")

	var out, logs bytes.Buffer
	require.NoError(t, newRunner(&logs).Run(context.Background(), dir, &out))

	got := out.String()
	assert.Contains(t, got, "2023-01-01 - 2023-01-31\n")
	assert.Contains(t, got, "Funding: 100.00 PLN\n")
	assert.Contains(t, got, "Cashout: 40.00 PLN\n")
	assert.Contains(t, got, "Interest: 5.00 PLN\n")
	assert.Contains(t, got, "Total: 65.00 PLN\n")
}

func TestRun_FilenameOrder(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "01_02_2023__28_02_2023.csv", "x,Deposit,\"2,00 PLN\",,\n")
	writeStatement(t, dir, "01_01_2023__31_01_2023.csv", "x,Deposit,\"1,00 PLN\",,\n")
	writeStatement(t, dir, "01_03_2023__31_03_2023.csv", "x,Deposit,\"3,00 PLN\",,\n")

	for _, jobs := range []int{1, 3, 8} {
		r := newRunner(io.Discard)
		r.Jobs = jobs
		var out bytes.Buffer
		require.NoError(t, r.Run(context.Background(), dir, &out))

		got := out.String()
		jan := strings.Index(got, "2023-01-01 - 2023-01-31")
		feb := strings.Index(got, "2023-02-01 - 2023-02-28")
		mar := strings.Index(got, "2023-03-01 - 2023-03-31")
		require.True(t, jan >= 0 && feb >= 0 && mar >= 0, "jobs=%d output:\n%s", jobs, got)
		assert.True(t, jan < feb && feb < mar, "jobs=%d: blocks out of order", jobs)
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "01_01_2023__31_01_2023.csv", "x,Deposit,\"1,00 PLN\",,\n")
	writeStatement(t, dir, "01_02_2023__31_02_2023.csv", "x,Deposit,\"2,00 PLN\",,\n")
	writeStatement(t, dir, "01_03_2023__31_03_2023.csv", "x,Deposit,\"3,00 PLN\",,\n")

	var out bytes.Buffer
	err := newRunner(io.Discard).Run(context.Background(), dir, &out)
	require.Error(t, err)

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "01_02_2023__31_02_2023.csv", fileErr.Name)

	var fe *period.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "end", fe.Half)

	assert.Contains(t, out.String(), "2023-01-01 - 2023-01-31")
	assert.NotContains(t, out.String(), "2023-03-01")
}

func TestRun_SkipsFilesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "01_01_2023__31_01_2023.csv", "x,Deposit,\"1,00 PLN\",,\n")
	writeStatement(t, dir, "01_02_2023__28_02_2023.csv", "x,Deposit,\"bad\",,\n")
	writeStatement(t, dir, "01_03_2023__31_03_2023.csv", "x,Deposit,\"3,00 PLN\",,\n")

	var out, logs bytes.Buffer
	r := newRunner(&logs)
	r.Logger.SetLevel(log.DebugLevel)
	err := r.Run(context.Background(), dir, &out)
	require.Error(t, err)

	assert.Contains(t, logs.String(), "skipped file after earlier failure")
	assert.Equal(t, 1, strings.Count(logs.String(), "summarized file"))
	assert.Contains(t, out.String(), "2023-01-01 - 2023-01-31")
}

func TestRun_KeepGoing(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "01_01_2023__31_01_2023.csv", "x,Deposit,\"1,00 PLN\",,\n")
	writeStatement(t, dir, "01_02_2023__28_02_2023.csv", "x,Deposit,\"oops\",,\n")
	writeStatement(t, dir, "statement.csv", "x,Deposit,\"9,00 PLN\",,\n")
	writeStatement(t, dir, "01_03_2023__31_03_2023.csv", "x,Deposit,\"3,00 PLN\",,\n")

	var out, logs bytes.Buffer
	r := newRunner(&logs)
	r.KeepGoing = true
	r.Jobs = 2
	err := r.Run(context.Background(), dir, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 4 files failed")
	assert.Contains(t, err.Error(), "01_02_2023__28_02_2023.csv")
	assert.Contains(t, err.Error(), "statement.csv")

	var me *money.FormatError
	assert.True(t, errors.As(err, &me))
	var pe *period.FormatError
	assert.True(t, errors.As(err, &pe))

	assert.Contains(t, out.String(), "2023-01-01 - 2023-01-31")
	assert.Contains(t, out.String(), "2023-03-01 - 2023-03-31")
	assert.NotContains(t, out.String(), "2023-02-01")
	assert.Contains(t, logs.String(), "failed to process file")
}

func TestRun_ReversedPeriodWarns(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "31_01_2023__01_01_2023.csv", "x,Deposit,\"1,00 PLN\",,\n")

	var out, logs bytes.Buffer
	require.NoError(t, newRunner(&logs).Run(context.Background(), dir, &out))
	assert.Contains(t, out.String(), "2023-01-31 - 2023-01-01")
	assert.Contains(t, logs.String(), "period ends before it starts")
}

func TestRun_CSVFormat(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "01_01_2023__31_01_2023.csv",
		"x,Deposit,\"100,00 PLN\",,\nx,Withdrawal,,\"40,00 PLN\",\nx,Gross interest,\"5,00 PLN\",,\n")

	r := newRunner(io.Discard)
	r.Format = report.FormatCSV
	var out bytes.Buffer
	require.NoError(t, r.Run(context.Background(), dir, &out))

	results, err := report.ReadCSV(&out)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "65.00", results[0].Summary.Total().StringFixed(2))
}

func TestRun_EmptyDir(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newRunner(io.Discard).Run(context.Background(), t.TempDir(), &out))
	assert.Empty(t, out.String())
}

func TestRun_MissingDir(t *testing.T) {
	var out bytes.Buffer
	err := newRunner(io.Discard).Run(context.Background(), filepath.Join(t.TempDir(), "nope"), &out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "01_01_2023__31_01_2023.csv", "x,Deposit,\"1,00 PLN\",,\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := newRunner(io.Discard).Run(ctx, dir, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestProcessFile_Fixture(t *testing.T) {
	r := newRunner(io.Discard)
	res, err := r.ProcessFile(statement.FileInfo{
		Name: "01_01_2023__31_01_2023.csv",
		Path: "../../testdata/01_01_2023__31_01_2023.csv",
	})
	require.NoError(t, err)
	assert.Len(t, res.Period.Rows, 7)
	assert.Equal(t, "3251.87", res.Summary.Total().StringFixed(2))
}

func TestProcessFile_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	name := "01_01_2023__31_01_2023.csv"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("Description,Money in\nDeposit,1\n"), 0o644))

	_, err := newRunner(io.Discard).ProcessFile(statement.FileInfo{Name: name, Path: filepath.Join(dir, name)})
	assert.ErrorContains(t, err, "Money out")
}
