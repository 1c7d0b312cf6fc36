package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"pos/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ImportProducts reads the first sheet of an uploaded workbook (or a csv
// file) and returns its products in row order. Any structural or row
// error fails the whole import.
func ImportProducts(fileName string, reader io.Reader, opts Options) ([]domain.Product, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &ImportError{Message: "Failed to read the uploaded file.", Err: fmt.Errorf("read file: %w", err)}
	}
	if len(data) == 0 {
		return nil, emptySheet()
	}

	rows, err := readRows(fileName, data)
	if err != nil {
		return nil, err
	}
	return importRows(rows, opts)
}

func importRows(rows [][]Cell, opts Options) ([]domain.Product, error) {
	if len(rows) < 2 {
		return nil, emptySheet()
	}

	columns := ResolveColumns(headerText(rows[0]))
	if missingFields := columns.Missing(); len(missingFields) > 0 {
		return nil, &ImportError{
			Message: fmt.Sprintf(
				"Required columns (Code, Name, Price) were not found or are mislabeled; missing: %s.",
				strings.Join(missingFields, ", "),
			),
			Err: ErrColumnsNotFound,
		}
	}

	products := make([]domain.Product, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		product, ok, err := ValidateRow(index+1, rows[index], columns, opts)
		if err != nil {
			return nil, &ImportError{Message: err.Error(), Err: err}
		}
		if !ok {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func emptySheet() error {
	return &ImportError{Message: "Excel file is empty or missing data.", Err: ErrEmptySheet}
}

func readRows(fileName string, data []byte) ([][]Cell, error) {
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	if ext == ".csv" {
		return readCSVRows(data)
	}

	rows, excelErr := readWorkbookRows(data)
	if excelErr == nil {
		return rows, nil
	}
	var importErr *ImportError
	if errors.As(excelErr, &importErr) {
		return nil, excelErr
	}
	if ext == "" && utf8.Valid(data) {
		if csvRows, csvErr := readCSVRows(data); csvErr == nil {
			return csvRows, nil
		}
	}
	return nil, &ImportError{
		Message: "The uploaded file could not be read as a spreadsheet.",
		Err:     fmt.Errorf("%w: %v", ErrUnreadableFile, excelErr),
	}
}

func readWorkbookRows(data []byte) ([][]Cell, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, emptySheet()
	}
	sheet := sheets[0]

	raw, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}

	rows := make([][]Cell, len(raw))
	for rowIdx, values := range raw {
		cells := make([]Cell, len(values))
		for colIdx, value := range values {
			if value == "" {
				continue
			}
			cellType := excelize.CellTypeUnset
			if axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1); err == nil {
				if typ, err := file.GetCellType(sheet, axis); err == nil {
					cellType = typ
				}
			}
			cells[colIdx] = classifyCell(value, cellType)
		}
		rows[rowIdx] = trimTrailingEmpty(cells)
	}
	return rows, nil
}

// classifyCell keeps string-typed cells as text and turns everything that
// parses as a finite number (numbers, dates, booleans, formula results)
// into a number.
func classifyCell(raw string, cellType excelize.CellType) Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return TextCell(raw)
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return TextCell(raw)
	}
	return NumberCell(parsed)
}

func readCSVRows(data []byte) ([][]Cell, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ImportError{
			Message: "The uploaded csv file could not be read.",
			Err:     fmt.Errorf("%w: read csv rows: %v", ErrUnreadableFile, err),
		}
	}

	rows := make([][]Cell, len(records))
	for idx, record := range records {
		rows[idx] = textRow(record)
	}
	return rows, nil
}
