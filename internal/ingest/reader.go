// Package ingest loads tables from CSV and XLSX files.
//
// The first column holds the time index and the header row holds the column
// names. Empty cells and the usual NaN spellings are read as missing values.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/soltixdb/gapscan/internal/frame"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Reader reads a table from a CSV or XLSX file.
type Reader struct {
	path     string
	fileType string // "csv" or "xlsx"
	sheet    string
	location *time.Location
	maxRows  int
	logger   *logging.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithSheet selects the worksheet of an XLSX file. Defaults to the first one.
func WithSheet(name string) Option {
	return func(r *Reader) { r.sheet = name }
}

// WithLocation sets the zone for index labels that carry none.
func WithLocation(loc *time.Location) Option {
	return func(r *Reader) { r.location = loc }
}

// WithMaxRows rejects files with more data rows than n. Zero disables the check.
func WithMaxRows(n int) Option {
	return func(r *Reader) { r.maxRows = n }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// NewReader creates a reader; the file type follows the extension.
func NewReader(path string, opts ...Option) *Reader {
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		fileType = "xlsx"
	}
	r := &Reader{path: path, fileType: fileType, location: time.UTC, logger: logging.Global()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read is a shorthand for NewReader(path, opts...).Read().
func Read(path string, opts ...Option) (*frame.Table, error) {
	return NewReader(path, opts...).Read()
}

// Read loads the file into a table.
func (r *Reader) Read() (*frame.Table, error) {
	start := time.Now()

	var rows [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}

	t, err := ParseRows(rows, r.location, r.maxRows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}

	r.logger.Debug("Table loaded",
		"path", r.path,
		"type", r.fileType,
		"rows", t.Len(),
		"columns", t.Width(),
		"duration_ms", time.Since(start).Milliseconds())
	return t, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("excel file %s has no sheets", r.path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// ReadCSV reads all CSV records from src. Rows may have different lengths;
// short rows are padded with missing cells by ParseRows.
func ReadCSV(src io.Reader) ([][]string, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// ParseRows turns a header row plus data rows into a table. Rows are sorted
// by time; a duplicated time label is an error.
func ParseRows(rows [][]string, loc *time.Location, maxRows int) (*frame.Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("need a header row and at least one data row, got %d rows", len(rows))
	}
	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("need a time column and at least one series column")
	}
	body := rows[1:]
	if maxRows > 0 && len(body) > maxRows {
		return nil, fmt.Errorf("too many rows: %d (max %d)", len(body), maxRows)
	}

	columns := make([]string, len(header)-1)
	for i, h := range header[1:] {
		columns[i] = strings.TrimSpace(h)
		if columns[i] == "" {
			columns[i] = fmt.Sprintf("col%d", i+1)
		}
	}

	type record struct {
		ts    time.Time
		cells []string
	}
	records := make([]record, 0, len(body))
	for i, row := range body {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue // blank line
		}
		ts, err := frame.ParseTime(strings.TrimSpace(row[0]), loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, record{ts: ts, cells: row[1:]})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].ts.Before(records[j].ts) })

	index := make([]time.Time, len(records))
	data := make([][]float64, len(columns))
	for c := range data {
		data[c] = make([]float64, len(records))
	}
	for i, rec := range records {
		if i > 0 && rec.ts.Equal(index[i-1]) {
			return nil, fmt.Errorf("duplicate time label %s", rec.ts.Format(time.RFC3339))
		}
		index[i] = rec.ts
		for c := range columns {
			data[c][i] = frame.Missing()
			if c >= len(rec.cells) {
				continue
			}
			v, ok, err := utils.ParseCell(rec.cells[c])
			if err != nil {
				return nil, fmt.Errorf("%s at %s: invalid number %q", columns[c], rec.ts.Format(time.RFC3339), rec.cells[c])
			}
			if ok {
				data[c][i] = v
			}
		}
	}

	return frame.New(index, columns, data)
}
