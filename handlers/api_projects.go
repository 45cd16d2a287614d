package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/config"
	"staffpricing/services"
)

type applyOfferRequest struct {
	OfferID string `json:"offer_id"`
}

type addProfessionalRequest struct {
	ProfessionalID    string   `json:"professional_id"`
	SellingHourlyRate *float64 `json:"selling_hourly_rate"`
}

// withPricingDefaults fills tax and margin on create when the caller left
// them out.
func withPricingDefaults(in services.ProjectInput, cfg config.PricingConfig) services.ProjectInput {
	if in.TaxRate == nil {
		tax := cfg.DefaultTaxRate
		in.TaxRate = &tax
	}
	if in.MarginRate == nil {
		margin := cfg.DefaultMarginRate
		in.MarginRate = &margin
	}
	return in
}

// Route: GET /api/projects
func HandleAPIProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		page, err := services.ListProjects(app, parseListQuery(e))
		if err != nil {
			return apiError(e, "api_projects", err)
		}
		return e.JSON(http.StatusOK, page)
	}
}

// Route: GET /api/projects/{id}
func HandleAPIProjectGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := services.GetProject(app, e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, "api_projects", err)
		}
		return e.JSON(http.StatusOK, p)
	}
}

// HandleAPIProjectCreate creates a project, optionally cloning another
// project's allocations through from_project_id.
// Route: POST /api/projects
func HandleAPIProjectCreate(app *pocketbase.PocketBase, cal *services.Calendar, cfg config.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.ProjectInput
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		p, err := services.CreateProject(app, cal, withPricingDefaults(in, cfg))
		if err != nil {
			return apiError(e, "api_projects", err)
		}
		return e.JSON(http.StatusCreated, p)
	}
}

// Route: PUT|PATCH /api/projects/{id}
func HandleAPIProjectUpdate(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in services.ProjectInput
		if err := decodeJSON(e, &in); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		p, err := services.UpdateProject(app, cal, e.Request.PathValue("id"), in)
		if err != nil {
			return apiError(e, "api_projects", err)
		}
		return e.JSON(http.StatusOK, p)
	}
}

// Route: DELETE /api/projects/{id}
func HandleAPIProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeleteProject(app, e.Request.PathValue("id")); err != nil {
			return apiError(e, "api_projects", err)
		}
		return e.JSON(http.StatusOK, map[string]string{"message": "Projeto excluído"})
	}
}

// Route: GET /api/projects/{id}/timeline
func HandleAPIProjectTimeline(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		weeks, err := services.Timeline(app, cal, e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, "api_projects_timeline", err)
		}
		return e.JSON(http.StatusOK, weeks)
	}
}

// Route: GET /api/projects/{id}/allocation-table
func HandleAPIAllocationTable(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		table, err := services.GetAllocationTable(app, cal, e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, "api_allocation_table", err)
		}
		return e.JSON(http.StatusOK, table)
	}
}

// Route: GET /api/projects/{id}/pricing
func HandleAPIProjectPricing(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		pricing, err := services.PriceProject(app, e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, "api_pricing", err)
		}
		return e.JSON(http.StatusOK, pricing)
	}
}

// HandleAPIApplyOffer applies an offer given in the path or as {"offer_id"}.
// Route: POST /api/projects/{id}/offers[/{offerId}]
func HandleAPIApplyOffer(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		offerID := e.Request.PathValue("offerId")
		if offerID == "" {
			var in applyOfferRequest
			if err := decodeJSON(e, &in); err != nil {
				return detail(e, http.StatusBadRequest, err.Error())
			}
			offerID = in.OfferID
		}
		if offerID == "" {
			return detail(e, http.StatusBadRequest, "offer_id é obrigatório")
		}
		result, err := services.ApplyOffer(app, cal, e.Request.PathValue("id"), offerID)
		if err != nil {
			return apiError(e, "api_apply_offer", err)
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleAPIAddProfessional allocates a professional at 100%. The
// professional and rate come from the JSON body or, when there is none, from
// the professional_id and selling_hourly_rate query parameters.
// Route: POST /api/projects/{id}/allocations
func HandleAPIAddProfessional(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in addProfessionalRequest
		if e.Request.ContentLength != 0 {
			if err := decodeJSON(e, &in); err != nil {
				return detail(e, http.StatusBadRequest, err.Error())
			}
		} else {
			q := e.Request.URL.Query()
			in.ProfessionalID = q.Get("professional_id")
			if v := q.Get("selling_hourly_rate"); v != "" {
				rate, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return detail(e, http.StatusBadRequest, "selling_hourly_rate inválido")
				}
				in.SellingHourlyRate = &rate
			}
		}
		if in.ProfessionalID == "" {
			return detail(e, http.StatusBadRequest, "professional_id é obrigatório")
		}

		result, err := services.AddProfessional(app, cal, e.Request.PathValue("id"), in.ProfessionalID, in.SellingHourlyRate)
		if err != nil {
			return apiError(e, "api_add_professional", err)
		}
		return e.JSON(http.StatusCreated, result)
	}
}

// HandleAPIUpdateAllocations applies a bulk update; any invalid row rejects
// the whole request.
// Route: PATCH /api/projects/{id}/allocations
func HandleAPIUpdateAllocations(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var updates []services.AllocationUpdate
		if err := decodeJSON(e, &updates); err != nil {
			return detail(e, http.StatusBadRequest, err.Error())
		}
		n, err := services.UpdateAllocations(app, e.Request.PathValue("id"), updates)
		if err != nil {
			return apiError(e, "api_update_allocations", err)
		}
		return e.JSON(http.StatusOK, map[string]any{
			"message":       fmt.Sprintf("%d itens atualizados", n),
			"updated_count": n,
		})
	}
}

// Route: DELETE /api/projects/{id}/allocations/{allocationId}
func HandleAPIRemoveAllocation(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name, err := services.RemoveAllocation(app, e.Request.PathValue("id"), e.Request.PathValue("allocationId"))
		if err != nil {
			return apiError(e, "api_remove_allocation", err)
		}
		return e.JSON(http.StatusOK, map[string]string{
			"message": fmt.Sprintf("%s removido do projeto", name),
		})
	}
}

// HandleAPIProjectExport downloads the project as xlsx (default), pdf or png.
// Route: GET /api/projects/{id}/export?format=
func HandleAPIProjectExport(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		format, err := services.ParseExportFormat(e.Request.URL.Query().Get("format"))
		if err != nil {
			return apiError(e, "api_export", err)
		}
		data, err := services.BuildProjectExport(app, cal, e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, "api_export", err)
		}
		out, err := data.Render(format)
		if err != nil {
			log.Printf("api_export: rendering %s for %s: %v", format, data.Project.ID, err)
			return detail(e, http.StatusInternalServerError, "Falha ao gerar a exportação")
		}
		filename := services.ExportFilename(data.Project.Name, format, time.Now())
		return sendAttachment(e, format.ContentType(), filename, out)
	}
}
