package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	pngMargin     = 20
	pngRowHeight  = 22
	pngNameWidth  = 220
	pngRoleWidth  = 160
	pngWeekWidth  = 64
	pngTotalWidth = 80
	pngTitleBand  = 50
	pngMinWidth   = 900
)

var (
	pngBlue      = color.RGBA{R: 68, G: 114, B: 196, A: 255}
	pngLightBlue = color.RGBA{R: 217, G: 225, B: 242, A: 255}
	pngGrid      = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	pngText      = color.RGBA{R: 33, G: 37, B: 41, A: 255}
)

// GenerateProjectPNG draws a title band, the project info, the weekly hours
// table and the financial summary into a PNG image.
func GenerateProjectPNG(data ProjectExport) ([]byte, error) {
	tableWidth := pngNameWidth + pngRoleWidth + len(data.Weeks)*pngWeekWidth + pngTotalWidth
	width := max(tableWidth+2*pngMargin, pngMinWidth)

	summary := pngSummaryLines(data.Pricing)
	tableRows := len(data.Allocations) + 2
	height := pngTitleBand + pngMargin + 3*pngRowHeight + pngMargin +
		tableRows*pngRowHeight + pngMargin + len(summary)*pngRowHeight + pngMargin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	c := &pngCanvas{img: img}

	// Title band
	c.fill(0, 0, width, pngTitleBand, pngBlue)
	c.text(pngMargin, 30, data.Project.Name, color.White)

	// Project info
	y := pngTitleBand + pngMargin
	p := data.Project
	c.text(pngMargin, y+14, fmt.Sprintf("Inicio: %s   Duracao: %d meses", p.StartDate.BR(), p.DurationMonths), pngText)
	y += pngRowHeight
	c.text(pngMargin, y+14, fmt.Sprintf("Impostos: %s   Margem: %s", FormatPercent(p.TaxRate), FormatPercent(p.MarginRate)), pngText)
	y += pngRowHeight
	c.text(pngMargin, y+14, "Gerado em "+data.GeneratedAt.Format("02/01/2006 15:04"), pngText)
	y += pngRowHeight + pngMargin

	// Allocation table
	x := pngMargin
	c.fill(x, y, tableWidth, pngRowHeight, pngBlue)
	cx := x
	c.text(cx+4, y+15, "Profissional", color.White)
	cx += pngNameWidth
	c.text(cx+4, y+15, "Funcao", color.White)
	cx += pngRoleWidth
	for _, w := range data.Weeks {
		c.text(cx+4, y+15, weekLabel(w), color.White)
		cx += pngWeekWidth
	}
	c.text(cx+4, y+15, "Total", color.White)
	y += pngRowHeight

	weekTotals := make([]float64, len(data.Weeks))
	var grand float64
	for _, a := range data.Allocations {
		cx = x
		c.text(cx+4, y+15, a.Professional.Name, pngText)
		cx += pngNameWidth
		c.text(cx+4, y+15, a.Professional.Role, pngText)
		cx += pngRoleWidth
		var rowTotal float64
		for i, w := range data.Weeks {
			var h float64
			if wa, ok := a.HoursForWeek(w.Number); ok {
				h = wa.HoursAllocated
			}
			weekTotals[i] += h
			rowTotal += h
			c.text(cx+4, y+15, FormatNumberBR(h, 0), pngText)
			cx += pngWeekWidth
		}
		grand += rowTotal
		c.text(cx+4, y+15, FormatHours(rowTotal), pngText)
		c.hline(x, y+pngRowHeight-1, tableWidth, pngGrid)
		y += pngRowHeight
	}

	c.fill(x, y, tableWidth, pngRowHeight, pngLightBlue)
	c.text(x+4, y+15, "TOTAL", pngText)
	cx = x + pngNameWidth + pngRoleWidth
	for _, t := range weekTotals {
		c.text(cx+4, y+15, FormatNumberBR(t, 0), pngText)
		cx += pngWeekWidth
	}
	c.text(cx+4, y+15, FormatHours(grand), pngText)
	y += pngRowHeight + pngMargin

	// Financial summary
	for _, line := range summary {
		c.text(pngMargin, y+15, line[0], pngText)
		c.text(pngMargin+200, y+15, line[1], pngText)
		y += pngRowHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func pngSummaryLines(pr ProjectPricing) [][2]string {
	return [][2]string{
		{"Custo Total", FormatBRL(pr.TotalCost)},
		{"Venda Total", FormatBRL(pr.TotalSelling)},
		{"Margem Total", FormatBRL(pr.TotalMargin)},
		{"Impostos", FormatBRL(pr.TotalTax)},
		{"Preco Final", FormatBRL(pr.FinalPrice)},
		{"Margem Final", FormatPercent(pr.FinalMarginPercent)},
	}
}

type pngCanvas struct {
	img *image.RGBA
}

func (c *pngCanvas) fill(x, y, w, h int, col color.Color) {
	draw.Draw(c.img, image.Rect(x, y, x+w, y+h), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *pngCanvas) hline(x, y, w int, col color.Color) {
	c.fill(x, y, w, 1, col)
}

func (c *pngCanvas) text(x, y int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(asciiFold(s))
}

// asciiFold removes diacritics; the bitmap face only covers ASCII.
func asciiFold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
