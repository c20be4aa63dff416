// Package spreadsheet turns uploaded attendance workbooks into import rows.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"catering-backoffice/internal/payroll"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxXLSRows = 100000

var (
	ErrNoWorksheet        = errors.New("no worksheet found")
	ErrEmptyWorksheet     = errors.New("worksheet is empty")
	ErrMultipleWorksheets = errors.New("multiple worksheets found; please upload a file with a single sheet")
)

// xlsBook is the part of *xls.WorkBook the reader needs.
type xlsBook interface {
	NumSheets() int
	ReadAllCells(max int) [][]string
}

// ReadRows returns the cells of the first worksheet. Legacy .xls files go
// through the BIFF reader and must hold a single sheet; everything else is
// opened as xlsx. xlsx cells are
// read raw so date and time serials reach the normalizer unformatted.
func ReadRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("open xls: %w", err)
		}
		return readXLS(workbook)
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open xlsx: %w", err)
		}
		defer func() { _ = file.Close() }()

		sheet := file.GetSheetName(0)
		if sheet == "" {
			return nil, ErrNoWorksheet
		}
		rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, ErrEmptyWorksheet
		}
		return rows, nil
	}
}

// readXLS refuses multi-sheet workbooks: the BIFF reader can only read every
// sheet at once, which would splice later sheets into the import.
func readXLS(book xlsBook) ([][]string, error) {
	switch n := book.NumSheets(); {
	case n == 0:
		return nil, ErrNoWorksheet
	case n > 1:
		return nil, ErrMultipleWorksheets
	}
	rows := book.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}
	return rows, nil
}

// ToRawRows keys every data row by the header row, which is the first row
// with any content. Blank rows are dropped.
func ToRawRows(rows [][]string) ([]payroll.RawRow, error) {
	start := -1
	for i, row := range rows {
		if !blank(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrEmptyWorksheet
	}

	header := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]payroll.RawRow, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if blank(row) {
			continue
		}
		raw := payroll.RawRow{}
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			raw[name] = strings.TrimSpace(row[i])
		}
		out = append(out, raw)
	}
	return out, nil
}

// Read is ReadRows followed by ToRawRows.
func Read(reader io.Reader, filename string) ([]payroll.RawRow, error) {
	rows, err := ReadRows(reader, filename)
	if err != nil {
		return nil, err
	}
	return ToRawRows(rows)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
