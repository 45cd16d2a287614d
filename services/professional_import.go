package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// ImportResult summarises a professionals import.
type ImportResult struct {
	Created      int      `json:"created"`
	Updated      int      `json:"updated"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"error_details"`
}

// importColumns maps accepted header spellings to canonical column keys.
var importColumns = map[string]string{
	"pid":         "pid",
	"name":        "name",
	"nome":        "name",
	"role":        "role",
	"função":      "role",
	"funcao":      "role",
	"level":       "level",
	"nível":       "level",
	"nivel":       "level",
	"is_vacancy":  "is_vacancy",
	"vaga":        "is_vacancy",
	"hourly_cost": "hourly_cost",
	"custo_hora":  "hourly_cost",
	"custo":       "hourly_cost",
}

var requiredImportColumns = []string{"name", "role", "level", "hourly_cost"}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	return headers, allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// ImportProfessionals upserts professionals from a .csv or .xlsx file.
// Rows with a pid update the professional with that pid; rows without one
// update the professional with the same name. Invalid rows are reported and
// skipped while valid rows are still applied.
func ImportProfessionals(app core.App, fileName string, file io.Reader) (ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return ImportResult{}, invalid("Formato de arquivo não suportado: use .csv ou .xlsx")
	}
	if err != nil {
		return ImportResult{}, invalid("%s", err.Error())
	}

	columnIdx := make(map[string]int)
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(h), "*")))
		if key, ok := importColumns[norm]; ok {
			columnIdx[key] = i
		}
	}
	var missing []string
	for _, c := range requiredImportColumns {
		if _, ok := columnIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return ImportResult{}, invalid("Colunas obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	col, err := app.FindCollectionByNameOrId("professionals")
	if err != nil {
		return ImportResult{}, fmt.Errorf("professionals collection: %w", err)
	}

	result := ImportResult{ErrorDetails: []string{}}
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2
		value := func(key string) string {
			i, ok := columnIdx[key]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		if isBlankRow(row) {
			continue
		}

		created, err := importRow(app, col, value)
		if err != nil {
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, fmt.Sprintf("Linha %d: %s", rowNum, err.Error()))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	log.Printf("professionals: import %s created=%d updated=%d errors=%d",
		fileName, result.Created, result.Updated, result.Errors)
	return result, nil
}

func importRow(app core.App, col *core.Collection, value func(string) string) (bool, error) {
	name := value("name")
	role := value("role")
	level := value("level")
	if name == "" {
		return false, fmt.Errorf("nome é obrigatório")
	}
	if role == "" {
		return false, fmt.Errorf("função é obrigatória")
	}
	if level == "" {
		return false, fmt.Errorf("nível é obrigatório")
	}

	cost, err := ParseDecimal(value("hourly_cost"))
	if err != nil || cost < 0 {
		return false, fmt.Errorf("custo horário inválido %q", value("hourly_cost"))
	}
	vacancy, err := parseBool(value("is_vacancy"))
	if err != nil {
		return false, fmt.Errorf("valor de vaga inválido %q", value("is_vacancy"))
	}

	pid := value("pid")
	var rec *core.Record
	if pid != "" {
		rec, _ = app.FindFirstRecordByData(col, "pid", pid)
	} else {
		rec, _ = app.FindFirstRecordByData(col, "name", name)
	}

	created := rec == nil
	in := ProfessionalInput{
		Name:       &name,
		Role:       &role,
		Level:      &level,
		IsVacancy:  &vacancy,
		HourlyCost: &cost,
	}
	if pid != "" {
		in.PID = &pid
	}

	if created {
		_, err = CreateProfessional(app, in)
	} else {
		_, err = UpdateProfessional(app, rec.Id, in)
	}
	return created, err
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "no", "não", "nao", "n":
		return false, nil
	case "true", "1", "yes", "sim", "s", "y":
		return true, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// GenerateImportTemplate creates a downloadable .xlsx template for the
// professionals import.
func GenerateImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Profissionais"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})

	headers := []struct {
		name     string
		required bool
		example  any
	}{
		{"pid", false, "P-0001"},
		{"name", true, "Ana Souza"},
		{"role", true, "Desenvolvedor Backend"},
		{"level", true, "Sênior"},
		{"is_vacancy", false, "false"},
		{"hourly_cost", true, 120.0},
	}
	columns := columnLetters(len(headers))
	for i, h := range headers {
		cell := columns[i] + "1"
		f.SetCellValue(sheetName, cell, h.name)
		style := optionalHeaderStyle
		if h.required {
			style = requiredHeaderStyle
		}
		f.SetCellStyle(sheetName, cell, cell, style)
		f.SetCellValue(sheetName, columns[i]+"2", h.example)
		f.SetColWidth(sheetName, columns[i], columns[i], 22)
	}

	dv := excelize.NewDataValidation(true)
	dv.Sqref = "E2:E1048576"
	if err := dv.SetDropList([]string{"true", "false"}); err != nil {
		return nil, fmt.Errorf("vacancy dropdown: %w", err)
	}
	if err := f.AddDataValidation(sheetName, dv); err != nil {
		return nil, fmt.Errorf("add data validation: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
