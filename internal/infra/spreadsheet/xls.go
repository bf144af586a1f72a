package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
)

func readXLS(file []byte) (grid [][]string, err error) {
	// The BIFF reader panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("corrupt xls file: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(file), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
