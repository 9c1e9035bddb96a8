package admin

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

// ExportHeaders are the columns of the spreadsheet export.
var ExportHeaders = []string{"ID", "Nombre", "Categoría", "Precio", "Precio Grande", "Descripción", "Imagen", "Personalizable"}

// ExportXLSX writes the draft products as a spreadsheet.
func (e *Editor) ExportXLSX(w io.Writer) error {
	products := e.Products()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Productos")
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range ExportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.CategoryID)
		row.AddCell().SetValue(p.BasePrice)
		if p.LargePrice != nil {
			row.AddCell().SetValue(*p.LargePrice)
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(deref(p.Description))
		row.AddCell().SetValue(deref(p.Image))
		if p.AllowsCustomization {
			row.AddCell().SetValue("sí")
		} else {
			row.AddCell().SetValue("no")
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
