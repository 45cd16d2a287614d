package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// ExportFormat is a supported project export format.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
	ExportPNG  ExportFormat = "png"
)

// ParseExportFormat validates a ?format= value; empty means xlsx.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return ExportXLSX, nil
	case ExportXLSX, ExportPDF, ExportPNG:
		return f, nil
	}
	return "", invalid("Formato inválido. Use 'xlsx', 'pdf' ou 'png'.")
}

// ContentType returns the MIME type of the export.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportPDF:
		return "application/pdf"
	case ExportPNG:
		return "image/png"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ProjectExport holds everything an exporter needs about one project.
type ProjectExport struct {
	Project     Project
	Weeks       []Week
	Allocations []Allocation
	Pricing     ProjectPricing
	GeneratedAt time.Time
}

// BuildProjectExport loads a project with its timeline and pricing.
func BuildProjectExport(app core.App, cal *Calendar, id string) (ProjectExport, error) {
	p, err := GetProject(app, id)
	if err != nil {
		return ProjectExport{}, err
	}
	return ProjectExport{
		Project:     p,
		Weeks:       cal.WeeklyBreakdown(p.StartDate.Time(), p.DurationMonths),
		Allocations: p.Allocations,
		Pricing:     CalculatePricing(p.TaxRate, p.Allocations),
		GeneratedAt: time.Now(),
	}, nil
}

// Render produces the export bytes in the given format.
func (d ProjectExport) Render(format ExportFormat) ([]byte, error) {
	switch format {
	case ExportXLSX:
		return GenerateProjectExcel(d)
	case ExportPDF:
		return GenerateProjectPDF(d)
	case ExportPNG:
		return GenerateProjectPNG(d)
	}
	return nil, invalid("Formato inválido. Use 'xlsx', 'pdf' ou 'png'.")
}

// ExportFilename builds projeto_<name>_<timestamp>.xlsx for spreadsheets and
// <name>_<timestamp>.<ext> otherwise. Spaces in the name become underscores.
func ExportFilename(projectName string, format ExportFormat, now time.Time) string {
	clean := strings.ReplaceAll(strings.TrimSpace(projectName), " ", "_")
	clean = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, clean)
	ts := now.Format("20060102_150405")
	if format == ExportXLSX {
		return fmt.Sprintf("projeto_%s_%s.%s", clean, ts, format)
	}
	return fmt.Sprintf("%s_%s.%s", clean, ts, format)
}

// weekLabel is the short header used for a week column.
func weekLabel(w Week) string {
	return fmt.Sprintf("S%d %s", w.Number, w.Start.Format("02/01"))
}
