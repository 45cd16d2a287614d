package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
	"staffpricing/templates"
)

// HandleProfessionalList renders the professionals view. htmx requests
// (the search box) get only the content section.
// Route: GET /professionals
func HandleProfessionalList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := parseListQuery(e)
		page, err := services.ListProfessionals(app, q)
		if err != nil {
			return htmlError(e, "professional_list", err)
		}

		data := templates.ProfessionalListData{
			Items:  page.Items,
			Total:  page.Total,
			Search: q.Search,
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.ProfessionalListContent(data)
		} else {
			component = templates.ProfessionalListPage(data, navData(e, templates.ViewProfessionals))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleProfessionalDelete removes a professional. The row is swapped out by
// htmx on success; an allocated professional yields a 409 toast.
// Route: DELETE /professionals/{id}
func HandleProfessionalDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeleteProfessional(app, e.Request.PathValue("id")); err != nil {
			return htmlError(e, "professional_delete", err)
		}
		SetToast(e, "success", "Profissional excluído")
		return e.String(http.StatusOK, "")
	}
}
