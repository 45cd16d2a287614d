package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/config"
	"staffpricing/services"
	"staffpricing/templates"
)

// projectFormInput reads the project form into a ProjectInput.
func projectFormInput(r *http.Request) (services.ProjectInput, templates.ProjectFormData, map[string]string) {
	errs := map[string]string{}
	in := services.ProjectInput{
		Name:          formString(r, "name"),
		FromProjectID: r.FormValue("from_project_id"),
	}

	if raw := r.FormValue("start_date"); raw != "" {
		t, err := services.ParseDate(raw)
		if err != nil {
			errs["start_date"] = "Data de início inválida"
		} else {
			d := services.NewDate(t)
			in.StartDate = &d
		}
	}

	months, err := formInt(r, "duration_months")
	if err != nil {
		errs["duration_months"] = "Duração inválida"
	}
	in.DurationMonths = months

	if in.TaxRate, err = formFloat(r, "tax_rate"); err != nil {
		errs["tax_rate"] = "Impostos inválidos"
	}
	if in.MarginRate, err = formFloat(r, "margin_rate"); err != nil {
		errs["margin_rate"] = "Margem inválida"
	}

	data := templates.ProjectFormData{
		Name:           r.FormValue("name"),
		StartDate:      r.FormValue("start_date"),
		DurationMonths: r.FormValue("duration_months"),
		TaxRate:        r.FormValue("tax_rate"),
		MarginRate:     r.FormValue("margin_rate"),
		FromProjectID:  in.FromProjectID,
		Errors:         errs,
	}
	return in, data, errs
}

func renderProjectForm(app *pocketbase.PocketBase, e *core.RequestEvent, data templates.ProjectFormData) error {
	if data.ID == "" {
		page, err := services.ListProjects(app, services.ListQuery{Limit: maxSelectOptions})
		if err != nil {
			return htmlError(e, "project_form", err)
		}
		data.Projects = page.Items
	}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	return templates.ProjectFormPage(data, navData(e, templates.ViewProjects)).Render(e.Request.Context(), e.Response)
}

func isUserError(err error) bool {
	return errors.Is(err, services.ErrInvalid) || errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrNotFound)
}

// Route: GET /projects/create
func HandleProjectCreate(app *pocketbase.PocketBase, cfg config.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.ProjectFormData{
			DurationMonths: "3",
			TaxRate:        services.FormatRate(cfg.DefaultTaxRate),
			MarginRate:     services.FormatRate(cfg.DefaultMarginRate),
		}
		return renderProjectForm(app, e, data)
	}
}

// HandleProjectSave creates a project and opens its detail page.
// Route: POST /projects
func HandleProjectSave(app *pocketbase.PocketBase, cal *services.Calendar, cfg config.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}
		in, data, errs := projectFormInput(e.Request)
		if len(errs) > 0 {
			SetToast(e, "warning", "Corrija os erros abaixo")
			return renderProjectForm(app, e, data)
		}

		p, err := services.CreateProject(app, cal, withPricingDefaults(in, cfg))
		if err != nil {
			if !isUserError(err) {
				return htmlError(e, "project_create", err)
			}
			SetToast(e, "warning", err.Error())
			data.Errors = map[string]string{"form": err.Error()}
			return renderProjectForm(app, e, data)
		}

		SetToast(e, "success", "Projeto criado com sucesso")
		return redirectAfterSave(e, "/projects/"+p.ID)
	}
}

// Route: GET /projects/{id}/edit
func HandleProjectEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := services.GetProject(app, e.Request.PathValue("id"))
		if err != nil {
			return htmlError(e, "project_edit", err)
		}
		return renderProjectForm(app, e, templates.ProjectFormData{
			ID:             p.ID,
			Name:           p.Name,
			StartDate:      p.StartDate.String(),
			DurationMonths: strconv.Itoa(p.DurationMonths),
			TaxRate:        services.FormatRate(p.TaxRate),
			MarginRate:     services.FormatRate(p.MarginRate),
		})
	}
}

// HandleProjectUpdate saves the project; a changed start date or duration
// re-syncs every allocation's weeks.
// Route: POST /projects/{id}/save
func HandleProjectUpdate(app *pocketbase.PocketBase, cal *services.Calendar) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}
		in, data, errs := projectFormInput(e.Request)
		data.ID = id
		in.FromProjectID = ""
		if len(errs) > 0 {
			SetToast(e, "warning", "Corrija os erros abaixo")
			return renderProjectForm(app, e, data)
		}

		if _, err := services.UpdateProject(app, cal, id, in); err != nil {
			if !isUserError(err) {
				return htmlError(e, "project_update", err)
			}
			SetToast(e, "warning", err.Error())
			data.Errors = map[string]string{"form": err.Error()}
			return renderProjectForm(app, e, data)
		}

		SetToast(e, "success", "Projeto atualizado")
		return redirectAfterSave(e, "/projects/"+id)
	}
}
