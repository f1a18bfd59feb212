// Package export writes the estimate history as a spreadsheet.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/pintorpro/internal/estimate"
)

// SheetName is the worksheet holding the history rows.
const SheetName = "Presupuestos"

// Header is the first row of the history sheet.
var Header = []string{
	"ID", "Fecha", "Cliente", "Dirección", "Teléfono",
	"Medida", "Unidad", "Pintura", "Precio bruto", "Descuento %",
	"Descuento", "Precio neto", "Adicionales", "Total",
}

var columnWidths = []float64{20, 12, 25, 30, 15, 10, 8, 10, 14, 12, 12, 14, 14, 14}

// HistoryWorkbook returns an XLSX file with one row per estimate, in the
// given order.
func HistoryWorkbook(estimates []estimate.Estimate) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create money style: %w", err)
	}

	for col, title := range Header {
		if err := setCell(f, col+1, 1, title); err != nil {
			f.Close()
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("convert column number: %w", err)
		}
		if err := f.SetColWidth(SheetName, name, name, columnWidths[col]); err != nil {
			f.Close()
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	last, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetCellStyle(SheetName, "A1", last+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("set header style: %w", err)
	}

	for i, e := range estimates {
		row := i + 2
		c := e.Calculation
		values := []any{
			// Ids exceed float64 precision, so they are written as text.
			fmt.Sprintf("%d", e.ID),
			e.CreatedDate,
			e.Client.Name,
			e.Client.Address,
			e.Client.Phone,
			c.Area.Round(2).InexactFloat64(),
			c.MeasureKind.Unit(),
			c.PaintVolume.Round(2).InexactFloat64(),
			c.GrossPrice.Round(0).InexactFloat64(),
			c.DiscountPercent.InexactFloat64(),
			c.DiscountAmount.Round(0).InexactFloat64(),
			c.NetPrice.InexactFloat64(),
			e.ExtrasTotal().InexactFloat64(),
			e.Total.InexactFloat64(),
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	if len(estimates) > 0 {
		from := "I2"
		to := fmt.Sprintf("N%d", len(estimates)+1)
		if err := f.SetCellStyle(SheetName, from, to, moneyStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("set money style: %w", err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("convert coordinates: %w", err)
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
