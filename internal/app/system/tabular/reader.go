// internal/app/system/tabular/reader.go
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column order for user import files. The header row is recognized by
// its first cell; files without a header are treated as starting with
// data on line 1.
var ImportColumns = []string{"Name", "Email", "Phone", "Employee ID", "Location", "Is Admin"}

// ErrTooManyRows is returned when a file exceeds the configured row
// limit.
var ErrTooManyRows = errors.New("file has too many rows")

// Row is one data row of an import file, with its 1-based source line
// for error reporting.
type Row struct {
	Line       int
	Name       string
	Email      string
	Phone      string
	EmployeeID string
	Location   string
	IsAdmin    string
}

// ReadOptions controls import parsing.
type ReadOptions struct {
	// MaxRows caps data rows (0 means unlimited).
	MaxRows int
}

// ReadCSV parses a comma-separated import file. Malformed CSV aborts
// the whole file; blank rows are skipped.
func ReadCSV(r io.Reader, opts ReadOptions) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	line := 0
	for {
		rec, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return assemble(records, opts)
}

// ReadXLSX parses the first sheet of an Excel import file.
func ReadXLSX(r io.Reader, opts ReadOptions) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return assemble(records, opts)
}

// assemble turns raw records into Rows: strips a BOM, skips a header
// row and blank rows, pads short rows, and enforces the row cap.
func assemble(records [][]string, opts ReadOptions) ([]Row, error) {
	var rows []Row
	for i, rec := range records {
		line := i + 1
		if len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\uFEFF")
		}
		for j := range rec {
			rec[j] = strings.TrimSpace(rec[j])
		}
		if isBlank(rec) {
			continue
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			return nil, ErrTooManyRows
		}
		rows = append(rows, Row{
			Line:       line,
			Name:       field(rec, 0),
			Email:      field(rec, 1),
			Phone:      field(rec, 2),
			EmployeeID: field(rec, 3),
			Location:   field(rec, 4),
			IsAdmin:    field(rec, 5),
		})
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if f != "" {
			return false
		}
	}
	return true
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	c0 := strings.ToLower(rec[0])
	return c0 == "name" || c0 == "full name" || c0 == "full_name"
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
