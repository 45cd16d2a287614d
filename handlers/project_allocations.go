package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
	"staffpricing/templates"
)

const (
	sellingFieldPrefix = "selling_"
	hoursFieldPrefix   = "hours_"
)

// allocationFormUpdates turns the editor's selling_<allocationId> and
// hours_<weeklyId> inputs into bulk update rows, in key order.
func allocationFormUpdates(r *http.Request) ([]services.AllocationUpdate, error) {
	keys := make([]string, 0, len(r.PostForm))
	for k := range r.PostForm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var updates []services.AllocationUpdate
	for _, k := range keys {
		switch {
		case strings.HasPrefix(k, sellingFieldPrefix):
			v, err := parseFloatField(r.PostForm.Get(k))
			if err != nil {
				return nil, errors.New("Taxa de venda inválida")
			}
			if v == nil {
				continue
			}
			updates = append(updates, services.AllocationUpdate{
				AllocationID:      strings.TrimPrefix(k, sellingFieldPrefix),
				SellingHourlyRate: v,
			})
		case strings.HasPrefix(k, hoursFieldPrefix):
			v, err := parseFloatField(r.PostForm.Get(k))
			if err != nil {
				return nil, errors.New("Horas inválidas")
			}
			if v == nil {
				zero := 0.0
				v = &zero
			}
			updates = append(updates, services.AllocationUpdate{
				WeeklyAllocationID: strings.TrimPrefix(k, hoursFieldPrefix),
				HoursAllocated:     v,
			})
		}
	}
	return updates, nil
}

// marginPercent converts a stored margin rate to a percentage, reading
// values up to 1 as fractions.
func marginPercent(rate float64) float64 {
	if rate <= 1 {
		return rate * 100
	}
	return rate
}

// HandleAllocationsSave applies the allocation editor form in one
// transaction.
// Route: POST /projects/{id}/allocations/save
func HandleAllocationsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}
		updates, err := allocationFormUpdates(e.Request)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}
		n, err := services.UpdateAllocations(app, id, updates)
		if err != nil {
			return htmlError(e, "allocations_save", err)
		}
		SetToast(e, "success", fmt.Sprintf("%d alterações salvas", n))
		return redirectAfterSave(e, "/projects/"+id)
	}
}

// HandleAllocationPreview recomputes the margin and total hours of one
// editor row from the unsaved inputs.
// Route: POST /projects/{id}/allocations/{allocationId}/preview
func HandleAllocationPreview(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		allocationID := e.Request.PathValue("allocationId")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}

		allocs, err := services.LoadAllocations(app, projectID)
		if err != nil {
			return htmlError(e, "allocation_preview", err)
		}
		var alloc *services.Allocation
		for i := range allocs {
			if allocs[i].ID == allocationID {
				alloc = &allocs[i]
				break
			}
		}
		if alloc == nil {
			return ErrorToast(e, http.StatusNotFound, "Alocação não encontrada")
		}

		selling := alloc.SellingHourlyRate
		if v, err := parseFloatField(e.Request.FormValue(sellingFieldPrefix + alloc.ID)); err == nil && v != nil {
			selling = *v
		}
		var total float64
		for _, w := range alloc.Weeks {
			hours := w.HoursAllocated
			if v, err := parseFloatField(e.Request.FormValue(hoursFieldPrefix + w.ID)); err == nil && v != nil {
				hours = *v
			}
			total += hours
		}

		margin := services.AllocationMarginPercent(alloc.CostHourlyRate, selling)
		return templates.RowSummary(margin, total).Render(e.Request.Context(), e.Response)
	}
}

// HandlePrefillRate returns the selling rate input pre-filled from the
// chosen professional's cost and the project margin.
// Route: GET /projects/{id}/prefill-rate?professional_id=
func HandlePrefillRate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		profID := e.Request.URL.Query().Get("professional_id")
		if profID == "" {
			return templates.SellingRateInput(0).Render(e.Request.Context(), e.Response)
		}
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Projeto não encontrado")
		}
		prof, err := services.GetProfessional(app, profID)
		if err != nil {
			return htmlError(e, "prefill_rate", err)
		}
		rate := services.PrefillSellingRate(prof.HourlyCost, marginPercent(project.GetFloat("margin_rate")))
		return templates.SellingRateInput(rate).Render(e.Request.Context(), e.Response)
	}
}

// HandleAddProfessional allocates a professional from the detail page.
// Route: POST /projects/{id}/allocations
func HandleAddProfessional(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}
		profID := e.Request.FormValue("professional_id")
		if profID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Selecione um profissional")
		}
		rate, err := formFloat(e.Request, "selling_hourly_rate")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Taxa de venda inválida")
		}

		result, err := services.AddProfessional(app, cal, id, profID, rate)
		if err != nil {
			return htmlError(e, "add_professional", err)
		}
		SetToast(e, "success", fmt.Sprintf("%s adicionado ao projeto", result.ProfessionalName))
		return redirectAfterSave(e, "/projects/"+id)
	}
}

// HandleApplyOffer allocates the professionals of an offer.
// Route: POST /projects/{id}/apply-offer
func HandleApplyOffer(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}
		offerID := e.Request.FormValue("offer_id")
		if offerID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Selecione uma oferta")
		}

		result, err := services.ApplyOffer(app, cal, id, offerID)
		if err != nil {
			return htmlError(e, "apply_offer", err)
		}
		msg := "Nenhum profissional novo a alocar"
		if len(result.Allocations) > 0 {
			msg = fmt.Sprintf("Oferta aplicada: %s", strings.Join(result.Allocations, ", "))
		}
		SetToast(e, "success", msg)
		return redirectAfterSave(e, "/projects/"+id)
	}
}

// HandleRemoveAllocation removes an allocation row from the editor.
// Route: DELETE /projects/{id}/allocations/{allocationId}
func HandleRemoveAllocation(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name, err := services.RemoveAllocation(app, e.Request.PathValue("id"), e.Request.PathValue("allocationId"))
		if err != nil {
			return htmlError(e, "remove_allocation", err)
		}
		SetToast(e, "success", fmt.Sprintf("%s removido do projeto", name))
		return e.String(http.StatusOK, "")
	}
}
