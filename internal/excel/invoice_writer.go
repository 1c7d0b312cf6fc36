package excel

import (
	"fmt"
	"io"

	"pos/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	invoiceSheet = "Invoice"
	summarySheet = "Summary"
)

var invoiceHeader = []string{"Code", "Name", "Price", "Quantity", "Line Total", "Notes"}

// WriteInvoice renders an invoice as a workbook. The product
// columns use the same headers the importer resolves and the order totals
// live on a second sheet, so the file can be uploaded again as a product list.
func WriteInvoice(w io.Writer, invoice domain.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), invoiceSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, title := range invoiceHeader {
		if err := setCell(f, invoiceSheet, col+1, 1, title); err != nil {
			return err
		}
	}

	rowIdx := 2
	for _, line := range invoice.Lines {
		values := []any{line.Code, line.Name, line.Price, line.Quantity, line.LineTotal, line.Notes}
		for col, value := range values {
			if err := setCell(f, invoiceSheet, col+1, rowIdx, value); err != nil {
				return err
			}
		}
		rowIdx++
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	summary := [][2]any{
		{"Invoice", invoice.ID},
		{"Seller", invoice.SellerName},
		{"Buyer", invoice.BuyerName},
		{"Total Quantity", invoice.TotalQty},
		{"Total Amount", invoice.TotalAmount},
		{"Order Notes", invoice.OrderNotes},
	}
	for idx, pair := range summary {
		if err := setCell(f, summarySheet, 1, idx+1, pair[0]); err != nil {
			return err
		}
		if err := setCell(f, summarySheet, 2, idx+1, pair[1]); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(invoiceSheet, "B", "B", 32); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
