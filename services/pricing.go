// Package services holds the staffing domain: calendar, pricing,
// allocations, professionals, offers, projects and exports.
package services

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SellingRate returns the hourly selling rate for an allocation. A positive
// explicit rate wins. Otherwise the rate is cost / (1 - m), where m is
// marginRate taken as a percentage when it is greater than 1 and as a
// fraction otherwise. When 1 - m <= 0 the cost is returned unchanged.
func SellingRate(cost, marginRate float64, explicit *float64) float64 {
	if explicit != nil && *explicit > 0 {
		return *explicit
	}
	m := decimal.NewFromFloat(marginRate)
	if marginRate > 1 {
		m = m.Div(hundred)
	}
	divisor := decimal.NewFromInt(1).Sub(m)
	if !divisor.IsPositive() {
		return cost
	}
	return decimal.NewFromFloat(cost).Div(divisor).InexactFloat64()
}

// PrefillSellingRate is the form helper used when adding a professional:
// cost / (1 - marginPercent/100), or cost when the margin is 100% or more.
func PrefillSellingRate(cost, marginPercent float64) float64 {
	if marginPercent >= 100 {
		return cost
	}
	divisor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(marginPercent).Div(hundred))
	return decimal.NewFromFloat(cost).Div(divisor).InexactFloat64()
}

// AllocationMarginPercent is (selling - cost) / selling * 100, or 0 when
// selling is not positive.
func AllocationMarginPercent(cost, selling float64) float64 {
	if selling <= 0 {
		return 0
	}
	s := decimal.NewFromFloat(selling)
	return s.Sub(decimal.NewFromFloat(cost)).Div(s).Mul(hundred).InexactFloat64()
}

// WeekPricing sums hours, cost and selling value for one project week.
type WeekPricing struct {
	WeekNumber int     `json:"week_number"`
	WeekStart  Date    `json:"week_start"`
	Hours      float64 `json:"hours"`
	Cost       float64 `json:"cost"`
	Selling    float64 `json:"selling"`
}

// MonthPricing sums weeks by the month of their Monday.
type MonthPricing struct {
	Month   string  `json:"month"`
	Hours   float64 `json:"hours"`
	Cost    float64 `json:"cost"`
	Selling float64 `json:"selling"`
}

// ProjectPricing is the result of a pricing run.
type ProjectPricing struct {
	TotalHours         float64        `json:"total_hours"`
	TotalCost          float64        `json:"total_cost"`
	TotalSelling       float64        `json:"total_selling"`
	TotalMargin        float64        `json:"total_margin"`
	TotalTax           float64        `json:"total_tax"`
	FinalPrice         float64        `json:"final_price"`
	FinalMarginPercent float64        `json:"final_margin_percent"`
	MonthlyBreakdown   []MonthPricing `json:"monthly_breakdown"`
	WeeklyBreakdown    []WeekPricing  `json:"weekly_breakdown"`
}

type bucket struct {
	hours, cost, selling decimal.Decimal
}

func (b *bucket) add(hours, cost, selling decimal.Decimal) {
	b.hours = b.hours.Add(hours)
	b.cost = b.cost.Add(cost)
	b.selling = b.selling.Add(selling)
}

// CalculatePricing prices a project from its allocations. Cost uses the
// rate frozen on each allocation; tax is applied on the selling total.
func CalculatePricing(taxRate float64, allocations []Allocation) ProjectPricing {
	var total bucket
	weeks := make(map[int]*bucket)
	weekStarts := make(map[int]Date)
	months := make(map[string]*bucket)

	for _, a := range allocations {
		costRate := decimal.NewFromFloat(a.CostHourlyRate)
		sellRate := decimal.NewFromFloat(a.SellingHourlyRate)
		for _, w := range a.Weeks {
			h := decimal.NewFromFloat(w.HoursAllocated)
			c := h.Mul(costRate)
			s := h.Mul(sellRate)
			total.add(h, c, s)

			wb, ok := weeks[w.WeekNumber]
			if !ok {
				wb = &bucket{}
				weeks[w.WeekNumber] = wb
				weekStarts[w.WeekNumber] = w.WeekStart
			}
			wb.add(h, c, s)

			key := w.WeekStart.Time().Format("2006-01")
			mb, ok := months[key]
			if !ok {
				mb = &bucket{}
				months[key] = mb
			}
			mb.add(h, c, s)
		}
	}

	margin := total.selling.Sub(total.cost)
	tax := total.selling.Mul(decimal.NewFromFloat(taxRate)).Div(hundred)
	final := total.selling.Add(tax)

	var finalMargin decimal.Decimal
	if total.selling.IsPositive() {
		finalMargin = decimal.NewFromInt(1).Sub(total.cost.Div(total.selling)).Mul(hundred)
	}

	p := ProjectPricing{
		TotalHours:         total.hours.InexactFloat64(),
		TotalCost:          total.cost.InexactFloat64(),
		TotalSelling:       total.selling.InexactFloat64(),
		TotalMargin:        margin.InexactFloat64(),
		TotalTax:           tax.InexactFloat64(),
		FinalPrice:         final.InexactFloat64(),
		FinalMarginPercent: finalMargin.InexactFloat64(),
		MonthlyBreakdown:   []MonthPricing{},
		WeeklyBreakdown:    []WeekPricing{},
	}

	for n, b := range weeks {
		p.WeeklyBreakdown = append(p.WeeklyBreakdown, WeekPricing{
			WeekNumber: n,
			WeekStart:  weekStarts[n],
			Hours:      b.hours.InexactFloat64(),
			Cost:       b.cost.InexactFloat64(),
			Selling:    b.selling.InexactFloat64(),
		})
	}
	sort.Slice(p.WeeklyBreakdown, func(i, j int) bool {
		return p.WeeklyBreakdown[i].WeekNumber < p.WeeklyBreakdown[j].WeekNumber
	})

	for key, b := range months {
		p.MonthlyBreakdown = append(p.MonthlyBreakdown, MonthPricing{
			Month:   key,
			Hours:   b.hours.InexactFloat64(),
			Cost:    b.cost.InexactFloat64(),
			Selling: b.selling.InexactFloat64(),
		})
	}
	sort.Slice(p.MonthlyBreakdown, func(i, j int) bool {
		return p.MonthlyBreakdown[i].Month < p.MonthlyBreakdown[j].Month
	})

	return p
}
