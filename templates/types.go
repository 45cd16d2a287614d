// Package templates renders the server-side HTML pages. The pages are
// written as .templ files and compiled with `templ generate`; this file
// holds the view models they render.
package templates

import "staffpricing/services"

// View names used by the navigation bar.
const (
	ViewProfessionals = "professionals"
	ViewOffers        = "offers"
	ViewProjects      = "projects"
)

// NavLink is one entry of the navigation bar.
type NavLink struct {
	View  string
	Title string
	Path  string
}

// NavLinks lists the three top-level views in display order.
var NavLinks = []NavLink{
	{ViewProfessionals, "Profissionais", "/professionals"},
	{ViewOffers, "Ofertas", "/offers"},
	{ViewProjects, "Projetos", "/projects"},
}

// CurrentUser is the signed-in staff member shown in the header.
type CurrentUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Label is the name shown in the header, falling back to the e-mail.
func (u CurrentUser) Label() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// NavData drives the shared page chrome.
type NavData struct {
	ActiveView string
	User       *CurrentUser
}

// TitleFor returns the page title of a view, or "" when unknown.
func TitleFor(view string) string {
	for _, l := range NavLinks {
		if l.View == view {
			return l.Title
		}
	}
	return ""
}

// LoginData is the login form model. Action is the path the form posts to.
type LoginData struct {
	Action string
	Email  string
	Next   string
	Error  string
}

type sortOption struct {
	Value string
	Label string
}

var offerSortOptions = []sortOption{
	{"name", "Nome (A-Z)"},
	{"-name", "Nome (Z-A)"},
	{"-count", "Mais itens"},
	{"count", "Menos itens"},
}

var projectSortOptions = []sortOption{
	{"name", "Nome (A-Z)"},
	{"-name", "Nome (Z-A)"},
	{"-start_date", "Início mais recente"},
	{"start_date", "Início mais antigo"},
	{"-created_at", "Criados recentemente"},
	{"created_at", "Criados há mais tempo"},
	{"-count", "Mais alocações"},
	{"count", "Menos alocações"},
}

// ProfessionalListData is the professionals view model.
type ProfessionalListData struct {
	Items  []services.Professional
	Total  int
	Search string
}

// ProfessionalFormData is the create / edit form model.
type ProfessionalFormData struct {
	ID         string
	PID        string
	Name       string
	Role       string
	Level      string
	IsVacancy  bool
	HourlyCost string
	Errors     map[string]string
}

// IsEdit reports whether the form edits an existing professional.
func (d ProfessionalFormData) IsEdit() bool { return d.ID != "" }

func (d ProfessionalFormData) title() string {
	if d.IsEdit() {
		return "Editar profissional"
	}
	return "Novo profissional"
}

func (d ProfessionalFormData) action() string {
	if d.IsEdit() {
		return "/professionals/" + d.ID + "/save"
	}
	return "/professionals"
}

// OfferListData is the offers view model.
type OfferListData struct {
	Items []services.Offer
	Sort  string
}

// OfferItemRow is one editable item line of the offer form.
type OfferItemRow struct {
	Role                 string
	Level                string
	Quantity             string
	AllocationPercentage string
	ProfessionalID       string
}

func (r OfferItemRow) quantity() string {
	if r.Quantity == "" {
		return "1"
	}
	return r.Quantity
}

func (r OfferItemRow) percentage() string {
	if r.AllocationPercentage == "" {
		return "100"
	}
	return r.AllocationPercentage
}

// OfferFormData is the create / edit form model.
type OfferFormData struct {
	ID            string
	Name          string
	Items         []OfferItemRow
	Professionals []services.Professional
	Errors        map[string]string
}

func (d OfferFormData) title() string {
	if d.ID != "" {
		return "Editar oferta"
	}
	return "Nova oferta"
}

func (d OfferFormData) action() string {
	if d.ID != "" {
		return "/offers/" + d.ID + "/save"
	}
	return "/offers"
}

// ProjectListData is the projects view model.
type ProjectListData struct {
	Items  []services.Project
	Search string
	Sort   string
}

// ProjectFormData is the create / edit form model.
type ProjectFormData struct {
	ID             string
	Name           string
	StartDate      string
	DurationMonths string
	TaxRate        string
	MarginRate     string
	FromProjectID  string
	Projects       []services.Project
	Errors         map[string]string
}

func (d ProjectFormData) title() string {
	if d.ID != "" {
		return "Editar projeto"
	}
	return "Novo projeto"
}

func (d ProjectFormData) action() string {
	if d.ID != "" {
		return "/projects/" + d.ID + "/save"
	}
	return "/projects"
}

func (d ProjectFormData) cancel() string {
	if d.ID != "" {
		return "/projects/" + d.ID
	}
	return "/projects"
}

// ProjectDetailData is the project detail view model.
type ProjectDetailData struct {
	Project       services.Project
	Weeks         []services.Week
	Pricing       *services.ProjectPricing
	Offers        []services.Offer
	Professionals []services.Professional
}

func sellingRateValue(rate float64) string {
	if rate > 0 {
		return services.FormatRate(rate)
	}
	return ""
}
