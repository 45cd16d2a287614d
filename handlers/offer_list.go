package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
	"staffpricing/templates"
)

// HandleOfferList renders the offers view, ordered by the sort parameter.
// Route: GET /offers
func HandleOfferList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := parseListQuery(e)
		page, err := services.ListOffers(app, q)
		if err != nil {
			return htmlError(e, "offer_list", err)
		}

		data := templates.OfferListData{Items: page.Items, Sort: q.Sort}

		var component templ.Component
		if isHTMX(e) {
			component = templates.OfferListContent(data)
		} else {
			component = templates.OfferListPage(data, navData(e, templates.ViewOffers))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// Route: DELETE /offers/{id}
func HandleOfferDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeleteOffer(app, e.Request.PathValue("id")); err != nil {
			return htmlError(e, "offer_delete", err)
		}
		SetToast(e, "success", "Oferta excluída")
		return e.String(http.StatusOK, "")
	}
}
