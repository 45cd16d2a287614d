package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// professionalExportColumn defines a column in the professionals spreadsheet.
type professionalExportColumn struct {
	Header string
	Width  float64
	Value  func(p Professional) any
}

var professionalExportColumns = []professionalExportColumn{
	{"pid", 14, func(p Professional) any { return p.PID }},
	{"name", 30, func(p Professional) any { return p.Name }},
	{"role", 26, func(p Professional) any { return p.Role }},
	{"level", 16, func(p Professional) any { return p.Level }},
	{"is_vacancy", 12, func(p Professional) any { return fmt.Sprint(p.IsVacancy) }},
	{"hourly_cost", 14, func(p Professional) any { return p.HourlyCost }},
}

// ExportProfessionals writes every professional to an .xlsx file whose
// columns match the import template, so the file can be edited and imported
// back.
func ExportProfessionals(app core.App) ([]byte, error) {
	profs, err := AllProfessionals(app)
	if err != nil {
		return nil, err
	}
	return GenerateProfessionalsExcel(profs)
}

// AllProfessionals returns every professional sorted by name.
func AllProfessionals(app core.App) ([]Professional, error) {
	records, err := app.FindAllRecords("professionals")
	if err != nil {
		return nil, fmt.Errorf("listing professionals: %w", err)
	}
	out := make([]Professional, 0, len(records))
	for _, r := range records {
		out = append(out, professionalFromRecord(r))
	}
	SortProfessionals(out)
	return out, nil
}

// GenerateProfessionalsExcel creates the professionals workbook: a header
// row followed by one row per professional.
func GenerateProfessionalsExcel(profs []Professional) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Profissionais"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	dataStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create data style: %w", err)
	}

	cols := columnLetters(len(professionalExportColumns))
	last := cols[len(cols)-1]
	for i, c := range professionalExportColumns {
		f.SetCellValue(sheetName, cols[i]+"1", c.Header)
		f.SetColWidth(sheetName, cols[i], cols[i], c.Width)
	}
	f.SetCellStyle(sheetName, "A1", last+"1", headerStyle)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for i, p := range profs {
		row := fmt.Sprint(i + 2)
		for j, c := range professionalExportColumns {
			v := c.Value(p)
			if s, ok := v.(string); ok {
				v = sanitizeExcelCell(s)
			}
			f.SetCellValue(sheetName, cols[j]+row, v)
		}
		f.SetCellStyle(sheetName, "A"+row, last+row, dataStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
