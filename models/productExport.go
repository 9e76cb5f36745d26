package models

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportInventoryXlsx streams the current inventory as a spreadsheet.
func ExportInventoryXlsx(ctx context.Context, w io.Writer) error {
	products, err := ListProduct(ctx, ProductFilter{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheetName := "Inventory"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headings := []string{"SKU", "Name", "Category", "Supplier", "Price", "Cost", "Stock", "Threshold", "Status"}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	rowNo := 2
	for _, p := range products {
		supplierName := ""
		if p.Supplier != nil {
			supplierName = p.Supplier.Name
		}
		f.SetCellValue(sheetName, "A"+fmt.Sprint(rowNo), p.Sku)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(rowNo), p.Name)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(rowNo), string(p.Category))
		f.SetCellValue(sheetName, "D"+fmt.Sprint(rowNo), supplierName)
		f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), p.Price.InexactFloat64())
		f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), p.Cost.InexactFloat64())
		f.SetCellValue(sheetName, "G"+fmt.Sprint(rowNo), p.StockLevel)
		f.SetCellValue(sheetName, "H"+fmt.Sprint(rowNo), p.LowStockThreshold)
		f.SetCellValue(sheetName, "I"+fmt.Sprint(rowNo), string(p.StockStatus()))
		rowNo++
	}

	return f.Write(w)
}
