package excel

import (
	"errors"
	"fmt"
	"strings"

	"pos/internal/domain"
)

var (
	ErrEmptySheet      = errors.New("excel file is empty or missing data")
	ErrColumnsNotFound = errors.New("required columns not found or mislabeled")
	ErrUnreadableFile  = errors.New("file is not a readable spreadsheet")
)

// RowError reports the first bad row of an import. Row is the 1-based
// spreadsheet row number, header included.
type RowError struct {
	Row    int
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s is %s.", e.Row, e.Field, e.Reason)
}

// ImportError is returned for any failed import. The whole import is
// discarded when one is returned.
type ImportError struct {
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	return e.Message
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

type Options struct {
	// StrictPrice rejects rows whose price is not a number in
	// [0, domain.MaxPrice) instead of importing them at price 0.
	StrictPrice bool
}

// ValidateRow turns one data row into a product. ok is false for rows
// without any cells, which are skipped silently.
func ValidateRow(rowNumber int, row []Cell, idx ColumnIndex, opts Options) (domain.Product, bool, error) {
	if len(row) == 0 {
		return domain.Product{}, false, nil
	}

	codeCell := cellAt(row, idx.Code)
	if codeCell.Missing() {
		return domain.Product{}, false, missing(rowNumber, FieldCode)
	}
	nameCell := cellAt(row, idx.Name)
	if nameCell.Missing() {
		return domain.Product{}, false, missing(rowNumber, FieldName)
	}
	priceCell := cellAt(row, idx.Price)
	if priceCell.Missing() {
		return domain.Product{}, false, missing(rowNumber, FieldPrice)
	}

	code := strings.TrimSpace(codeCell.String())
	if code == "" {
		return domain.Product{}, false, missing(rowNumber, FieldCode)
	}
	name := strings.TrimSpace(nameCell.String())
	if name == "" {
		return domain.Product{}, false, missing(rowNumber, FieldName)
	}

	price, ok := priceCell.Number()
	if !ok || price < 0 || price >= domain.MaxPrice {
		if opts.StrictPrice {
			return domain.Product{}, false, &RowError{Row: rowNumber, Field: FieldPrice, Reason: "invalid"}
		}
		price = 0
	}

	return domain.Product{Code: code, Name: name, Price: price}, true, nil
}

func missing(rowNumber int, field string) error {
	return &RowError{Row: rowNumber, Field: field, Reason: "missing"}
}
