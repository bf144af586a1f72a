package spreadsheet

import (
	"bytes"
	"errors"

	"github.com/xuri/excelize/v2"
)

func readXLSX(file []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	return f.GetRows(sheets[0])
}
