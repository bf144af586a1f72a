package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(file []byte) ([][]string, error) {
	file = bytes.TrimPrefix(file, utf8BOM)
	if !utf8.Valid(file) {
		return nil, errors.New("csv is not valid UTF-8")
	}

	r := csv.NewReader(bytes.NewReader(file))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var grid [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		grid = append(grid, rec)
	}
	return grid, nil
}
