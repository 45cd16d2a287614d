package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/services"
	"staffpricing/templates"
)

// HandleProjectList renders the projects view with search and sort.
// Route: GET /projects
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := parseListQuery(e)
		page, err := services.ListProjects(app, q)
		if err != nil {
			return htmlError(e, "project_list", err)
		}

		data := templates.ProjectListData{
			Items:  page.Items,
			Search: q.Search,
			Sort:   q.Sort,
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.ProjectListContent(data)
		} else {
			component = templates.ProjectListPage(data, navData(e, templates.ViewProjects))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleProjectDelete removes a project with its allocations.
// Route: DELETE /projects/{id}
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeleteProject(app, e.Request.PathValue("id")); err != nil {
			return htmlError(e, "project_delete", err)
		}
		SetToast(e, "success", "Projeto excluído")
		return e.String(http.StatusOK, "")
	}
}
