// Package export renders normalized records as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"bakeryconsole/backend/internal/domain"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	salesSheet = "Sales"
	itemsSheet = "Items"
)

var (
	salesHeader = []any{"Sale ID", "Created At", "Cashier", "Receipt Issued", "Payment Methods", "Items", "Total"}
	itemsHeader = []any{"Sale ID", "Product ID", "Product", "Quantity", "Unit Price", "Subtotal"}
)

// WriteSales writes one row per sale plus an item sheet with one row per line.
func WriteSales(w io.Writer, sales []domain.Sale) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return err
	}
	if err := setRow(f, salesSheet, 1, salesHeader); err != nil {
		return err
	}
	if err := setRow(f, itemsSheet, 1, itemsHeader); err != nil {
		return err
	}

	itemRow := 2
	for i, sale := range sales {
		cashier := ""
		if sale.CashierName != nil {
			cashier = *sale.CashierName
		}
		methods := make([]string, 0, len(sale.Payments))
		for _, p := range sale.Payments {
			methods = append(methods, p.MethodName)
		}
		row := []any{
			sale.ID,
			sale.CreatedAt,
			cashier,
			sale.ReceiptIssued,
			strings.Join(methods, ", "),
			len(sale.Items),
			sale.TotalAmount.InexactFloat64(),
		}
		if err := setRow(f, salesSheet, i+2, row); err != nil {
			return err
		}

		for _, item := range sale.Items {
			line := []any{
				sale.ID,
				item.Product,
				item.ProductName,
				item.Quantity,
				item.UnitPrice.InexactFloat64(),
				item.Subtotal.InexactFloat64(),
			}
			if err := setRow(f, itemsSheet, itemRow, line); err != nil {
				return err
			}
			itemRow++
		}
	}

	if err := f.SetPanes(salesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
