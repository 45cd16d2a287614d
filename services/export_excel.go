package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetInfo       = "Informações do Projeto"
	sheetFinancial  = "Resumo Financeiro"
	sheetAllocation = "Tabela de Alocação"
)

// GenerateProjectExcel creates the project workbook with three sheets:
// project information, financial summary and the weekly allocation table.
func GenerateProjectExcel(data ProjectExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetInfo); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(sheetFinancial); err != nil {
		return nil, fmt.Errorf("create financial sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetAllocation); err != nil {
		return nil, fmt.Errorf("create allocation sheet: %w", err)
	}

	// ── Styles ──────────────────────────────────────────────────────────

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D9E1F2"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	// ── Sheet 1: project information ────────────────────────────────────

	p := data.Project
	info := [][]any{
		{"Campo", "Valor"},
		{"Nome do Projeto", sanitizeExcelCell(p.Name)},
		{"Data de Início", p.StartDate.BR()},
		{"Duração", fmt.Sprintf("%d meses", p.DurationMonths)},
		{"Taxa de Impostos", FormatPercent(p.TaxRate)},
		{"Taxa de Margem", FormatPercent(p.MarginRate)},
		{"Semanas", len(data.Weeks)},
		{"Profissionais Alocados", len(data.Allocations)},
	}
	if err := writeKeyValueSheet(f, sheetInfo, info, headerStyle, cellStyle, 25, 40); err != nil {
		return nil, err
	}

	// ── Sheet 2: financial summary ──────────────────────────────────────

	pr := data.Pricing
	financial := [][]any{
		{"Métrica", "Valor"},
		{"Horas Totais", FormatHours(pr.TotalHours)},
		{"Custo Total", FormatBRL(pr.TotalCost)},
		{"Venda Total", FormatBRL(pr.TotalSelling)},
		{"Margem Total", FormatBRL(pr.TotalMargin)},
		{"Impostos Totais", FormatBRL(pr.TotalTax)},
		{"Preço Final", FormatBRL(pr.FinalPrice)},
		{"Margem Final (%)", FormatPercent(pr.FinalMarginPercent)},
	}
	if err := writeKeyValueSheet(f, sheetFinancial, financial, headerStyle, cellStyle, 25, 25); err != nil {
		return nil, err
	}

	if len(pr.MonthlyBreakdown) > 0 {
		start := len(financial) + 2
		monthHeaders := []string{"Mês", "Horas", "Custo", "Venda"}
		cols := columnLetters(len(monthHeaders))
		for i, h := range monthHeaders {
			f.SetCellValue(sheetFinancial, fmt.Sprintf("%s%d", cols[i], start), h)
		}
		f.SetCellStyle(sheetFinancial, fmt.Sprintf("A%d", start), fmt.Sprintf("%s%d", cols[len(cols)-1], start), headerStyle)
		for i, m := range pr.MonthlyBreakdown {
			r := start + 1 + i
			f.SetCellValue(sheetFinancial, fmt.Sprintf("A%d", r), m.Month)
			f.SetCellValue(sheetFinancial, fmt.Sprintf("B%d", r), FormatHours(m.Hours))
			f.SetCellValue(sheetFinancial, fmt.Sprintf("C%d", r), FormatBRL(m.Cost))
			f.SetCellValue(sheetFinancial, fmt.Sprintf("D%d", r), FormatBRL(m.Selling))
			f.SetCellStyle(sheetFinancial, fmt.Sprintf("A%d", r), fmt.Sprintf("D%d", r), cellStyle)
		}
		f.SetColWidth(sheetFinancial, "C", "D", 20)
	}

	// ── Sheet 3: allocation table ───────────────────────────────────────

	headers := []string{"ID", "Nome", "Função", "Nível", "Custo Horário", "Taxa de Venda", "Margem (%)"}
	fixed := len(headers)
	for _, w := range data.Weeks {
		headers = append(headers, fmt.Sprintf("Semana %d\n%s\n(%sh disponíveis)",
			w.Number, w.Start.Format("02/01/2006"), FormatNumberBR(w.AvailableHours, 0)))
	}
	headers = append(headers, "Total de Horas")
	cols := columnLetters(len(headers))
	last := cols[len(cols)-1]

	for i, h := range headers {
		f.SetCellValue(sheetAllocation, cols[i]+"1", h)
	}
	f.SetCellStyle(sheetAllocation, "A1", last+"1", headerStyle)
	f.SetRowHeight(sheetAllocation, 1, 48)

	weekTotals := make([]float64, len(data.Weeks))
	var grandTotal float64
	row := 2
	for _, a := range data.Allocations {
		r := fmt.Sprint(row)
		f.SetCellValue(sheetAllocation, "A"+r, sanitizeExcelCell(a.Professional.PID))
		f.SetCellValue(sheetAllocation, "B"+r, sanitizeExcelCell(a.Professional.Name))
		f.SetCellValue(sheetAllocation, "C"+r, sanitizeExcelCell(a.Professional.Role))
		f.SetCellValue(sheetAllocation, "D"+r, sanitizeExcelCell(a.Professional.Level))
		f.SetCellValue(sheetAllocation, "E"+r, FormatBRL(a.CostHourlyRate))
		f.SetCellValue(sheetAllocation, "F"+r, FormatBRL(a.SellingHourlyRate))
		f.SetCellValue(sheetAllocation, "G"+r, FormatPercent(a.MarginPercent()))

		var rowTotal float64
		for i, w := range data.Weeks {
			hours := 0.0
			if wa, ok := a.HoursForWeek(w.Number); ok {
				hours = wa.HoursAllocated
			}
			rowTotal += hours
			weekTotals[i] += hours
			f.SetCellValue(sheetAllocation, cols[fixed+i]+r, hours)
		}
		grandTotal += rowTotal
		f.SetCellValue(sheetAllocation, last+r, rowTotal)
		f.SetCellStyle(sheetAllocation, "A"+r, last+r, cellStyle)
		row++
	}

	r := fmt.Sprint(row)
	f.SetCellValue(sheetAllocation, "A"+r, "TOTAL")
	for i, t := range weekTotals {
		f.SetCellValue(sheetAllocation, cols[fixed+i]+r, t)
	}
	f.SetCellValue(sheetAllocation, last+r, grandTotal)
	f.SetCellStyle(sheetAllocation, "A"+r, last+r, totalStyle)

	widths := []float64{12, 28, 24, 12, 16, 16, 12}
	for i, w := range widths {
		f.SetColWidth(sheetAllocation, cols[i], cols[i], w)
	}
	if len(data.Weeks) > 0 {
		f.SetColWidth(sheetAllocation, cols[fixed], cols[fixed+len(data.Weeks)-1], 14)
	}
	f.SetColWidth(sheetAllocation, last, last, 16)
	f.SetPanes(sheetAllocation, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeKeyValueSheet(f *excelize.File, sheet string, rows [][]any, headerStyle, cellStyle int, widthA, widthB float64) error {
	for i, kv := range rows {
		r := i + 1
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", r), kv[0]); err != nil {
			return fmt.Errorf("%s: %w", sheet, err)
		}
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), kv[1])
		style := cellStyle
		if i == 0 {
			style = headerStyle
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r), style)
	}
	f.SetColWidth(sheet, "A", "A", widthA)
	f.SetColWidth(sheet, "B", "B", widthB)
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
