package spreadsheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func values(row []*string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		if c == nil {
			out[i] = nil
			continue
		}
		out[i] = *c
	}
	return out
}

func TestParseCSV(t *testing.T) {
	file := []byte("Email , Site\n a@acme.io ,https://acme.io\nbad,x\n")

	res, err := NewParser().Parse(file, "leads.CSV")

	require.NoError(t, err)
	assert.Equal(t, []string{"Email", "Site"}, res.Headers)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []any{"a@acme.io", "https://acme.io"}, values(res.Rows[0]))
	assert.Equal(t, []any{"bad", "x"}, values(res.Rows[1]))
}

func TestParseCSVRaggedAndEmptyCells(t *testing.T) {
	file := []byte("\xEF\xBB\xBFEmail,Site,Name\na@acme.io\n,https://b.com,\n,,\nc@acme.io,,Carol,extra\n")

	res, err := NewParser().Parse(file, "leads.csv")

	require.NoError(t, err)
	assert.Equal(t, []string{"Email", "Site", "Name"}, res.Headers)
	require.Len(t, res.Rows, 4)
	assert.Equal(t, []any{"a@acme.io", nil, nil}, values(res.Rows[0]))
	assert.Equal(t, []any{nil, "https://b.com", nil}, values(res.Rows[1]))
	assert.Equal(t, []any{nil, nil, nil}, values(res.Rows[2]))
	assert.Equal(t, []any{"c@acme.io", nil, "Carol", "extra"}, values(res.Rows[3]))
}

func TestParseCSVInvalidUTF8(t *testing.T) {
	_, err := NewParser().Parse([]byte("Email\n\xff\xfe\n"), "leads.csv")

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "leads.csv", perr.FileName)
}

func TestParseEmptyFile(t *testing.T) {
	_, err := NewParser().Parse(nil, "leads.csv")

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := NewParser().Parse([]byte("x"), "leads.pdf")

	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Business Email", "Website"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"a@acme.io", "https://acme.io"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"b@acme.io"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"ignored"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := NewParser().Parse(buf.Bytes(), "book.xlsx")

	require.NoError(t, err)
	assert.Equal(t, []string{"Business Email", "Website"}, res.Headers)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, []any{"a@acme.io", "https://acme.io"}, values(res.Rows[0]))
	assert.Equal(t, []any{nil, nil}, values(res.Rows[1]))
	assert.Equal(t, []any{"b@acme.io", nil}, values(res.Rows[2]))
}

func TestParseXLSXNumericCellsAreStringified(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Email", "Employees"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"a@acme.io", 42}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := NewParser().Parse(buf.Bytes(), "book.xlsx")

	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"a@acme.io", "42"}, values(res.Rows[0]))
}

func TestParseCorruptWorkbook(t *testing.T) {
	for _, name := range []string{"book.xlsx", "book.xls"} {
		_, err := NewParser().Parse([]byte("definitely not a workbook"), name)

		var perr *ParseError
		assert.True(t, errors.As(err, &perr), name)
	}
}

func TestCell(t *testing.T) {
	v := "x"
	row := []*string{&v, nil}

	assert.Equal(t, &v, Cell(row, 0))
	assert.Nil(t, Cell(row, 1))
	assert.Nil(t, Cell(row, 2))
	assert.Nil(t, Cell(row, -1))
}
