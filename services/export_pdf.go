package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateProjectPDF renders the project header, pricing summary and the
// allocation summary table as a landscape A4 PDF.
func GenerateProjectPDF(data ProjectExport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addProjectHeader(m, data)
	addPricingSummary(m, data.Pricing)
	addAllocationHeader(m)
	for _, a := range data.Allocations {
		addAllocationRow(m, a)
	}
	addAllocationTotals(m, data.Pricing)
	addGeneratedFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

var (
	pdfHeaderBg = &props.Color{Red: 68, Green: 114, Blue: 196}
	pdfMuted    = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfLightBg  = &props.Color{Red: 240, Green: 240, Blue: 240}
)

func addProjectHeader(m core.Maroto, data ProjectExport) {
	p := data.Project
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(p.Name, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	info := props.Text{Size: 9, Align: align.Left, Color: pdfMuted}
	m.AddRows(
		row.New(7).Add(
			col.New(3).Add(text.New("Início: "+p.StartDate.BR(), info)),
			col.New(3).Add(text.New(fmt.Sprintf("Duração: %d meses", p.DurationMonths), info)),
			col.New(3).Add(text.New("Impostos: "+FormatPercent(p.TaxRate), info)),
			col.New(3).Add(text.New("Margem: "+FormatPercent(p.MarginRate), info)),
		),
	)
	m.AddRows(row.New(4))
}

func addPricingSummary(m core.Maroto, pr ProjectPricing) {
	cell := &props.Cell{BackgroundColor: pdfLightBg}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	value := props.Text{Size: 9, Align: align.Right}

	lines := [][2]string{
		{"Horas Totais", FormatHours(pr.TotalHours)},
		{"Custo Total", FormatBRL(pr.TotalCost)},
		{"Venda Total", FormatBRL(pr.TotalSelling)},
		{"Margem Total", FormatBRL(pr.TotalMargin)},
		{"Impostos", FormatBRL(pr.TotalTax)},
		{"Preço Final", FormatBRL(pr.FinalPrice)},
		{"Margem Final", FormatPercent(pr.FinalMarginPercent)},
	}
	for _, l := range lines {
		m.AddRows(
			row.New(6).Add(
				col.New(4).Add(text.New(l[0], label)).WithStyle(cell),
				col.New(3).Add(text.New(l[1], value)).WithStyle(cell),
				col.New(5),
			),
		)
	}
	m.AddRows(row.New(6))
}

func addAllocationHeader(m core.Maroto) {
	center := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: pdfWhite}
	left := center
	left.Align = align.Left
	cell := props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(
		row.New(8).Add(
			col.New(3).Add(text.New("Profissional", left)).WithStyle(&cell),
			col.New(2).Add(text.New("Função", left)).WithStyle(&cell),
			col.New(1).Add(text.New("Nível", center)).WithStyle(&cell),
			col.New(1).Add(text.New("Custo/h", center)).WithStyle(&cell),
			col.New(1).Add(text.New("Venda/h", center)).WithStyle(&cell),
			col.New(1).Add(text.New("Horas", center)).WithStyle(&cell),
			col.New(1).Add(text.New("Custo", center)).WithStyle(&cell),
			col.New(1).Add(text.New("Venda", center)).WithStyle(&cell),
			col.New(1).Add(text.New("Margem", center)).WithStyle(&cell),
		),
	)
}

func addAllocationRow(m core.Maroto, a Allocation) {
	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	hours := a.TotalHours()
	name := a.Professional.Name
	if a.Professional.IsVacancy {
		name += " (vaga)"
	}
	m.AddRows(
		row.New(7).Add(
			col.New(3).Add(text.New(name, left)),
			col.New(2).Add(text.New(a.Professional.Role, left)),
			col.New(1).Add(text.New(a.Professional.Level, base)),
			col.New(1).Add(text.New(FormatBRL(a.CostHourlyRate), right)),
			col.New(1).Add(text.New(FormatBRL(a.SellingHourlyRate), right)),
			col.New(1).Add(text.New(FormatHours(hours), right)),
			col.New(1).Add(text.New(FormatBRL(hours*a.CostHourlyRate), right)),
			col.New(1).Add(text.New(FormatBRL(hours*a.SellingHourlyRate), right)),
			col.New(1).Add(text.New(FormatPercent(a.MarginPercent()), right)),
		),
	)
}

func addAllocationTotals(m core.Maroto, pr ProjectPricing) {
	cell := &props.Cell{BackgroundColor: pdfLightBg}
	bold := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New("TOTAL", bold)).WithStyle(cell),
			col.New(1).Add(text.New(FormatHours(pr.TotalHours), bold)).WithStyle(cell),
			col.New(1).Add(text.New(FormatBRL(pr.TotalCost), bold)).WithStyle(cell),
			col.New(1).Add(text.New(FormatBRL(pr.TotalSelling), bold)).WithStyle(cell),
			col.New(1).Add(text.New(FormatPercent(pr.FinalMarginPercent), bold)).WithStyle(cell),
		),
	)
}

func addGeneratedFooter(m core.Maroto, data ProjectExport) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					"Gerado em "+data.GeneratedAt.Format("02/01/2006 15:04"),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
