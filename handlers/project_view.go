package handlers

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
	"staffpricing/templates"
)

// maxSelectOptions caps the lists loaded into form selects.
const maxSelectOptions = 1000

// unallocated returns the professionals not yet on the project.
func unallocated(all []services.Professional, allocs []services.Allocation) []services.Professional {
	taken := make(map[string]bool, len(allocs))
	for _, a := range allocs {
		taken[a.ProfessionalID] = true
	}
	out := make([]services.Professional, 0, len(all))
	for _, p := range all {
		if !taken[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// HandleProjectView renders the project detail page: allocation editor,
// add-professional and apply-offer forms, and the current pricing.
// Route: GET /projects/{id}
func HandleProjectView(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := services.GetProject(app, e.Request.PathValue("id"))
		if err != nil {
			return htmlError(e, "project_view", err)
		}

		profs, err := services.AllProfessionals(app)
		if err != nil {
			return htmlError(e, "project_view", err)
		}
		offers, err := services.ListOffers(app, services.ListQuery{Limit: maxSelectOptions})
		if err != nil {
			return htmlError(e, "project_view", err)
		}

		pricing := services.CalculatePricing(p.TaxRate, p.Allocations)
		data := templates.ProjectDetailData{
			Project:       p,
			Weeks:         cal.WeeklyBreakdown(p.StartDate.Time(), p.DurationMonths),
			Pricing:       &pricing,
			Offers:        offers.Items,
			Professionals: unallocated(profs, p.Allocations),
		}
		return templates.ProjectDetailPage(data, navData(e, templates.ViewProjects)).Render(e.Request.Context(), e.Response)
	}
}

// HandleProjectPrice runs a pricing and returns the pricing panel fragment.
// Route: POST /projects/{id}/price
func HandleProjectPrice(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		pricing, err := services.PriceProject(app, e.Request.PathValue("id"))
		if err != nil {
			return htmlError(e, "project_price", err)
		}
		return templates.PricingPanel(pricing).Render(e.Request.Context(), e.Response)
	}
}
