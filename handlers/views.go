package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"

	"staffpricing/config"
	"staffpricing/services"
	"staffpricing/templates"
)

// Deps carries what the route handlers need.
type Deps struct {
	App      *pocketbase.PocketBase
	Calendar *services.Calendar
	Config   *config.Config
}

// View maps a named top-level view to the handler that renders it.
type View struct {
	Name    string
	Path    string
	Handler func(*pocketbase.PocketBase) func(*core.RequestEvent) error
}

// Views lists the three navigable views. Every mutation redirects back to
// one of them, so each render re-fetches its collections.
var Views = []View{
	{templates.ViewProfessionals, "/professionals", HandleProfessionalList},
	{templates.ViewOffers, "/offers", HandleOfferList},
	{templates.ViewProjects, "/projects", HandleProjectList},
}

// DefaultView is where "/" and a successful login land.
const DefaultView = "/projects"

// RegisterRoutes mounts the login pages, the HTML views and the JSON API.
func RegisterRoutes(se *core.ServeEvent, d Deps) {
	auth := d.Config.Auth

	se.Router.GET(auth.LoginPath, HandleLoginPage(d.App, auth))
	se.Router.POST(auth.LoginPath, HandleLoginSubmit(d.App, auth))
	se.Router.POST("/logout", HandleLogout(auth))
	se.Router.POST("/api/auth/login", HandleAPILogin(d.App, auth))

	pages := se.Router.Group("")
	pages.BindFunc(AuthMiddleware(d.App, auth))
	registerViews(pages, d)

	api := se.Router.Group("/api")
	api.BindFunc(AuthMiddleware(d.App, auth))
	registerAPI(api, d)
}

func registerViews(r *router.RouterGroup[*core.RequestEvent], d Deps) {
	app, cal, pricing := d.App, d.Calendar, d.Config.Pricing

	for _, v := range Views {
		r.GET(v.Path, v.Handler(app))
	}
	r.GET("/{$}", func(e *core.RequestEvent) error {
		return e.Redirect(http.StatusFound, DefaultView)
	})

	// ── Professionals ────────────────────────────────────────
	r.GET("/professionals/create", HandleProfessionalCreate(app))
	r.POST("/professionals", HandleProfessionalSave(app))
	r.GET("/professionals/import", HandleProfessionalImportPage(app))
	r.POST("/professionals/import", HandleProfessionalImportUpload(app))
	r.GET("/professionals/{id}/edit", HandleProfessionalEdit(app))
	r.POST("/professionals/{id}/save", HandleProfessionalUpdate(app))
	r.DELETE("/professionals/{id}", HandleProfessionalDelete(app))

	// ── Offers ───────────────────────────────────────────────
	r.GET("/offers/create", HandleOfferCreate(app))
	r.GET("/offers/item-row", HandleOfferItemRow(app))
	r.POST("/offers", HandleOfferSave(app))
	r.GET("/offers/{id}/edit", HandleOfferEdit(app))
	r.POST("/offers/{id}/save", HandleOfferUpdate(app))
	r.DELETE("/offers/{id}", HandleOfferDelete(app))

	// ── Projects ─────────────────────────────────────────────
	r.GET("/projects/create", HandleProjectCreate(app, pricing))
	r.POST("/projects", HandleProjectSave(app, cal, pricing))
	r.GET("/projects/{id}", HandleProjectView(app, cal))
	r.GET("/projects/{id}/edit", HandleProjectEdit(app))
	r.POST("/projects/{id}/save", HandleProjectUpdate(app, cal))
	r.DELETE("/projects/{id}", HandleProjectDelete(app))
	r.POST("/projects/{id}/price", HandleProjectPrice(app))
	r.GET("/projects/{id}/prefill-rate", HandlePrefillRate(app))
	r.POST("/projects/{id}/apply-offer", HandleApplyOffer(app, cal))
	r.POST("/projects/{id}/allocations", HandleAddProfessional(app, cal))
	r.POST("/projects/{id}/allocations/save", HandleAllocationsSave(app))
	r.POST("/projects/{id}/allocations/{allocationId}/preview", HandleAllocationPreview(app))
	r.DELETE("/projects/{id}/allocations/{allocationId}", HandleRemoveAllocation(app))
}

func registerAPI(r *router.RouterGroup[*core.RequestEvent], d Deps) {
	app, cal, pricing := d.App, d.Calendar, d.Config.Pricing

	r.POST("/auth/logout", HandleAPILogout(d.Config.Auth))
	r.GET("/auth/me", HandleAPIMe())

	// ── Professionals ────────────────────────────────────────
	r.GET("/professionals", HandleAPIProfessionalList(app))
	r.POST("/professionals", HandleAPIProfessionalCreate(app))
	r.POST("/professionals/import-csv", HandleAPIProfessionalImport(app))
	r.GET("/professionals/template", HandleAPIProfessionalTemplate())
	r.GET("/professionals/export", HandleAPIProfessionalExport(app))
	r.GET("/professionals/{id}", HandleAPIProfessionalGet(app))
	r.PUT("/professionals/{id}", HandleAPIProfessionalUpdate(app))
	r.PATCH("/professionals/{id}", HandleAPIProfessionalUpdate(app))
	r.DELETE("/professionals/{id}", HandleAPIProfessionalDelete(app))

	// ── Offers, also served as templates ─────────────────────
	for _, prefix := range []string{"/offers", "/templates"} {
		r.GET(prefix, HandleAPIOfferList(app))
		r.POST(prefix, HandleAPIOfferCreate(app))
		r.GET(prefix+"/{id}", HandleAPIOfferGet(app))
		r.PUT(prefix+"/{id}", HandleAPIOfferUpdate(app))
		r.PATCH(prefix+"/{id}", HandleAPIOfferUpdate(app))
		r.DELETE(prefix+"/{id}", HandleAPIOfferDelete(app))
		r.GET(prefix+"/{id}/items", HandleAPIOfferItemList(app))
		r.POST(prefix+"/{id}/items", HandleAPIOfferItemAdd(app))
		r.PUT(prefix+"/{id}/items/{itemId}", HandleAPIOfferItemUpdate(app))
		r.PATCH(prefix+"/{id}/items/{itemId}", HandleAPIOfferItemUpdate(app))
		r.DELETE(prefix+"/{id}/items/{itemId}", HandleAPIOfferItemDelete(app))
	}

	// ── Projects ─────────────────────────────────────────────
	r.GET("/projects", HandleAPIProjectList(app))
	r.POST("/projects", HandleAPIProjectCreate(app, cal, pricing))
	r.GET("/projects/{id}", HandleAPIProjectGet(app))
	r.PUT("/projects/{id}", HandleAPIProjectUpdate(app, cal))
	r.PATCH("/projects/{id}", HandleAPIProjectUpdate(app, cal))
	r.DELETE("/projects/{id}", HandleAPIProjectDelete(app))
	r.GET("/projects/{id}/timeline", HandleAPIProjectTimeline(app, cal))
	r.GET("/projects/{id}/allocation-table", HandleAPIAllocationTable(app, cal))
	r.GET("/projects/{id}/pricing", HandleAPIProjectPricing(app))
	r.GET("/projects/{id}/export", HandleAPIProjectExport(app, cal))
	r.POST("/projects/{id}/offers", HandleAPIApplyOffer(app, cal))
	r.POST("/projects/{id}/offers/{offerId}", HandleAPIApplyOffer(app, cal))
	r.POST("/projects/{id}/templates/{offerId}", HandleAPIApplyOffer(app, cal))
	r.POST("/projects/{id}/allocations", HandleAPIAddProfessional(app, cal))
	r.PATCH("/projects/{id}/allocations", HandleAPIUpdateAllocations(app))
	r.DELETE("/projects/{id}/allocations/{allocationId}", HandleAPIRemoveAllocation(app))
}
