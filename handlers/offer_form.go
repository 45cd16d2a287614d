package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
	"staffpricing/templates"
)

// offerFormItems reads the parallel item_* arrays of the offer form. Rows
// with neither a role nor a professional are ignored.
func offerFormItems(r *http.Request) ([]services.OfferItemInput, []templates.OfferItemRow, error) {
	roles := r.Form["item_role"]
	levels := r.Form["item_level"]
	qtys := r.Form["item_quantity"]
	pcts := r.Form["item_pct"]
	profs := r.Form["item_professional"]

	at := func(vals []string, i int) string {
		if i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	var inputs []services.OfferItemInput
	var rows []templates.OfferItemRow
	for i := range roles {
		row := templates.OfferItemRow{
			Role:                 at(roles, i),
			Level:                at(levels, i),
			Quantity:             at(qtys, i),
			AllocationPercentage: at(pcts, i),
			ProfessionalID:       at(profs, i),
		}
		if row.Role == "" && row.ProfessionalID == "" {
			continue
		}
		rows = append(rows, row)

		in := services.OfferItemInput{
			Role:           row.Role,
			Level:          row.Level,
			ProfessionalID: row.ProfessionalID,
		}
		if row.Quantity != "" {
			qty, err := strconv.Atoi(row.Quantity)
			if err != nil {
				return nil, rows, fmt.Errorf("Quantidade inválida na linha %d", i+1)
			}
			in.Quantity = qty
		}
		pct, err := parseFloatField(row.AllocationPercentage)
		if err != nil {
			return nil, rows, fmt.Errorf("Percentual inválido na linha %d", i+1)
		}
		in.AllocationPercentage = pct
		inputs = append(inputs, in)
	}
	return inputs, rows, nil
}

func renderOfferForm(app *pocketbase.PocketBase, e *core.RequestEvent, data templates.OfferFormData) error {
	profs, err := services.AllProfessionals(app)
	if err != nil {
		return htmlError(e, "offer_form", err)
	}
	data.Professionals = profs
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	return templates.OfferFormPage(data, navData(e, templates.ViewOffers)).Render(e.Request.Context(), e.Response)
}

// saveOffer reads the form and creates (id == "") or updates an offer.
func saveOffer(app *pocketbase.PocketBase, e *core.RequestEvent, id string) error {
	if err := e.Request.ParseForm(); err != nil {
		return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
	}
	name := strings.TrimSpace(e.Request.FormValue("name"))
	items, rows, err := offerFormItems(e.Request)
	data := templates.OfferFormData{ID: id, Name: name, Items: rows}
	if err != nil {
		SetToast(e, "warning", "Corrija os erros abaixo")
		data.Errors = map[string]string{"items": err.Error()}
		return renderOfferForm(app, e, data)
	}

	if err := services.ValidateOffer(name, len(items)); err != nil {
		SetToast(e, "warning", err.Error())
		data.Errors = map[string]string{"form": err.Error()}
		return renderOfferForm(app, e, data)
	}

	in := services.OfferInput{Name: &name, Items: &items}
	if id == "" {
		_, err = services.CreateOffer(app, in)
	} else {
		_, err = services.UpdateOffer(app, id, in)
	}
	if err != nil {
		if isUserError(err) {
			SetToast(e, "warning", err.Error())
			data.Errors = map[string]string{"form": err.Error()}
			return renderOfferForm(app, e, data)
		}
		return htmlError(e, "offer_form", err)
	}

	if id == "" {
		SetToast(e, "success", "Oferta criada com sucesso")
	} else {
		SetToast(e, "success", "Oferta atualizada")
	}
	return redirectAfterSave(e, "/offers")
}

// Route: GET /offers/create
func HandleOfferCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderOfferForm(app, e, templates.OfferFormData{
			Items: []templates.OfferItemRow{{}},
		})
	}
}

// Route: POST /offers
func HandleOfferSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return saveOffer(app, e, "")
	}
}

// Route: GET /offers/{id}/edit
func HandleOfferEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		o, err := services.GetOffer(app, e.Request.PathValue("id"))
		if err != nil {
			return htmlError(e, "offer_edit", err)
		}
		rows := make([]templates.OfferItemRow, 0, len(o.Items))
		for _, it := range o.Items {
			rows = append(rows, templates.OfferItemRow{
				Role:                 it.Role,
				Level:                it.Level,
				Quantity:             strconv.Itoa(it.Quantity),
				AllocationPercentage: services.FormatRate(it.AllocationPercentage),
				ProfessionalID:       it.ProfessionalID,
			})
		}
		return renderOfferForm(app, e, templates.OfferFormData{ID: o.ID, Name: o.Name, Items: rows})
	}
}

// Route: POST /offers/{id}/save
func HandleOfferUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return saveOffer(app, e, e.Request.PathValue("id"))
	}
}

// HandleOfferItemRow returns an empty item row for the offer form.
// Route: GET /offers/item-row
func HandleOfferItemRow(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		profs, err := services.AllProfessionals(app)
		if err != nil {
			return htmlError(e, "offer_item_row", err)
		}
		return templates.OfferItemRowFragment(templates.OfferItemRow{}, profs).Render(e.Request.Context(), e.Response)
	}
}
