package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
	"staffpricing/templates"
)

// professionalFormInput reads the professional form. Field errors are
// returned keyed by input name.
func professionalFormInput(r *http.Request) (services.ProfessionalInput, templates.ProfessionalFormData, map[string]string) {
	errs := map[string]string{}
	in := services.ProfessionalInput{
		PID:   formString(r, "pid"),
		Name:  formString(r, "name"),
		Role:  formString(r, "role"),
		Level: formString(r, "level"),
	}
	vacancy := formBool(r, "is_vacancy")
	in.IsVacancy = &vacancy

	cost, err := formFloat(r, "hourly_cost")
	if err != nil {
		errs["hourly_cost"] = "Custo horário inválido"
	}
	in.HourlyCost = cost

	data := templates.ProfessionalFormData{
		PID:        r.FormValue("pid"),
		Name:       r.FormValue("name"),
		Role:       r.FormValue("role"),
		Level:      r.FormValue("level"),
		IsVacancy:  vacancy,
		HourlyCost: r.FormValue("hourly_cost"),
		Errors:     errs,
	}
	return in, data, errs
}

// renderProfessionalFormError re-renders the form with the service error, or
// falls back to a toast for unexpected failures.
func renderProfessionalFormError(e *core.RequestEvent, data templates.ProfessionalFormData, err error) error {
	if !errors.Is(err, services.ErrInvalid) && !errors.Is(err, services.ErrConflict) {
		return htmlError(e, "professional_form", err)
	}
	SetToast(e, "warning", "Corrija os erros abaixo")
	data.Errors = map[string]string{"form": err.Error()}
	return templates.ProfessionalFormPage(data, navData(e, templates.ViewProfessionals)).Render(e.Request.Context(), e.Response)
}

// Route: GET /professionals/create
func HandleProfessionalCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.ProfessionalFormData{
			Level:      "Pleno",
			HourlyCost: "0",
			Errors:     map[string]string{},
		}
		return templates.ProfessionalFormPage(data, navData(e, templates.ViewProfessionals)).Render(e.Request.Context(), e.Response)
	}
}

// Route: POST /professionals
func HandleProfessionalSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}
		in, data, errs := professionalFormInput(e.Request)
		if len(errs) > 0 {
			SetToast(e, "warning", "Corrija os erros abaixo")
			return templates.ProfessionalFormPage(data, navData(e, templates.ViewProfessionals)).Render(e.Request.Context(), e.Response)
		}

		if _, err := services.CreateProfessional(app, in); err != nil {
			return renderProfessionalFormError(e, data, err)
		}

		SetToast(e, "success", "Profissional criado com sucesso")
		return redirectAfterSave(e, "/professionals")
	}
}

// Route: GET /professionals/{id}/edit
func HandleProfessionalEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := services.GetProfessional(app, e.Request.PathValue("id"))
		if err != nil {
			return htmlError(e, "professional_edit", err)
		}
		data := templates.ProfessionalFormData{
			ID:         p.ID,
			PID:        p.PID,
			Name:       p.Name,
			Role:       p.Role,
			Level:      p.Level,
			IsVacancy:  p.IsVacancy,
			HourlyCost: services.FormatRate(p.HourlyCost),
			Errors:     map[string]string{},
		}
		return templates.ProfessionalFormPage(data, navData(e, templates.ViewProfessionals)).Render(e.Request.Context(), e.Response)
	}
}

// Route: POST /professionals/{id}/save
func HandleProfessionalUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dados do formulário inválidos")
		}
		in, data, errs := professionalFormInput(e.Request)
		data.ID = id
		if len(errs) > 0 {
			SetToast(e, "warning", "Corrija os erros abaixo")
			return templates.ProfessionalFormPage(data, navData(e, templates.ViewProfessionals)).Render(e.Request.Context(), e.Response)
		}

		if _, err := services.UpdateProfessional(app, id, in); err != nil {
			return renderProfessionalFormError(e, data, err)
		}

		SetToast(e, "success", "Profissional atualizado")
		return redirectAfterSave(e, "/professionals")
	}
}
