package spreadsheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Supported upload extensions, lowercase and without the dot.
const (
	ExtCSV  = "csv"
	ExtXLS  = "xls"
	ExtXLSX = "xlsx"
)

var ErrUnsupportedExtension = errors.New("unsupported file type: expected .csv, .xls or .xlsx")

// ParseError wraps any decoding failure of an uploaded file.
type ParseError struct {
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %q: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Result is the first sheet of the upload. Rows hold nil for empty cells and
// always have len(Headers) cells or more.
type Result struct {
	Headers []string
	Rows    [][]*string
}

// Extension returns the normalised extension of fileName if it is supported.
func Extension(fileName string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case ExtCSV, ExtXLS, ExtXLSX:
		return ext, nil
	}
	return "", ErrUnsupportedExtension
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes the first sheet of file. The format is chosen by the file
// extension. The first row is the header row; every later row is data, blank rows
// included.
func (p *Parser) Parse(file []byte, fileName string) (*Result, error) {
	ext, err := Extension(fileName)
	if err != nil {
		return nil, err
	}

	var grid [][]string
	switch ext {
	case ExtCSV:
		grid, err = readCSV(file)
	case ExtXLSX:
		grid, err = readXLSX(file)
	case ExtXLS:
		grid, err = readXLS(file)
	}
	if err != nil {
		return nil, &ParseError{FileName: fileName, Err: err}
	}
	if len(grid) == 0 {
		return nil, &ParseError{FileName: fileName, Err: errors.New("file has no header row")}
	}

	return normalize(grid), nil
}

func normalize(grid [][]string) *Result {
	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([][]*string, 0, len(grid)-1)
	for _, raw := range grid[1:] {
		width := len(headers)
		if len(raw) > width {
			width = len(raw)
		}

		row := make([]*string, width)
		for i := 0; i < len(raw); i++ {
			v := strings.TrimSpace(raw[i])
			if v == "" {
				continue
			}
			row[i] = &v
		}
		rows = append(rows, row)
	}

	return &Result{Headers: headers, Rows: rows}
}

// Cell returns row[idx] or nil when idx is -1 or past the end of the row.
func Cell(row []*string, idx int) *string {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
