package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
)

// Offers are served under both /api/offers and /api/templates.

// HandleAPIOfferList returns {items, total} with each offer's items.
// Route: GET /api/offers
func HandleAPIOfferList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		page, err := services.ListOffers(app, parseListQuery(e))
		if err != nil {
			return apiError(e, "api_offers", err)
		}
		return e.JSON(http.StatusOK, page)
	}
}

// Route: GET /api/offers/{id}
func HandleAPIOfferGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		o, err := services.GetOffer(app, e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, "api_offers", err)
		}
		return e.JSON(http.StatusOK, o)
	}
}

// Route: POST /api/offers
func HandleAPIOfferCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.OfferInput
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		o, err := services.CreateOffer(app, in)
		if err != nil {
			return apiError(e, "api_offers", err)
		}
		return e.JSON(http.StatusCreated, o)
	}
}

// Route: PUT|PATCH /api/offers/{id}
func HandleAPIOfferUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.OfferInput
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		o, err := services.UpdateOffer(app, e.Request.PathValue("id"), in)
		if err != nil {
			return apiError(e, "api_offers", err)
		}
		return e.JSON(http.StatusOK, o)
	}
}

// Route: DELETE /api/offers/{id}
func HandleAPIOfferDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeleteOffer(app, e.Request.PathValue("id")); err != nil {
			return apiError(e, "api_offers", err)
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Oferta excluída"})
	}
}

// Route: GET /api/offers/{id}/items
func HandleAPIOfferItemList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		o, err := services.GetOffer(app, e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, "api_offer_items", err)
		}
		return e.JSON(http.StatusOK, o.Items)
	}
}

// Route: POST /api/offers/{id}/items
func HandleAPIOfferItemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.OfferItemInput
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		item, err := services.AddOfferItem(app, e.Request.PathValue("id"), in)
		if err != nil {
			return apiError(e, "api_offer_items", err)
		}
		return e.JSON(http.StatusCreated, item)
	}
}

// Route: PUT|PATCH /api/offers/{id}/items/{itemId}
func HandleAPIOfferItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.OfferItemInput
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		item, err := services.UpdateOfferItem(app, e.Request.PathValue("id"), e.Request.PathValue("itemId"), in)
		if err != nil {
			return apiError(e, "api_offer_items", err)
		}
		return e.JSON(http.StatusOK, item)
	}
}

// Route: DELETE /api/offers/{id}/items/{itemId}
func HandleAPIOfferItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeleteOfferItem(app, e.Request.PathValue("id"), e.Request.PathValue("itemId")); err != nil {
			return apiError(e, "api_offer_items", err)
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Item removido"})
	}
}
