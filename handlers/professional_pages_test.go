package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"staffpricing/services"
	"staffpricing/testhelpers"
)

func TestHandleProfessionalList_FullPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProfessional(t, app, "Ana <Souza>", 100)

	req := httptest.NewRequest(http.MethodGet, "/professionals", nil)
	rec := httptest.NewRecorder()
	if err := HandleProfessionalList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "<!doctype html>", `id="professionals-view"`, "Ana &lt;Souza&gt;")
	testhelpers.AssertHTMLNotContains(t, body, "Ana <Souza>")
}

func TestHandleProfessionalList_HTMXSearch(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProfessional(t, app, "Ana", 100)
	testhelpers.CreateTestProfessional(t, app, "Bruno", 80)

	req := httptest.NewRequest(http.MethodGet, "/professionals?search=bru", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleProfessionalList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, `id="professionals-view"`, "Bruno")
	testhelpers.AssertHTMLNotContains(t, body, "<!doctype html>", ">Ana<")
}

func TestHandleProfessionalSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{
		"name":        {"Carla"},
		"role":        {"Analista"},
		"level":       {"Sênior"},
		"hourly_cost": {"1.234,50"},
	}
	req := newFormRequest(http.MethodPost, "/professionals", form, nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleProfessionalSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/professionals")
	page, err := services.ListProfessionals(app, services.ListQuery{})
	if err != nil || len(page.Items) != 1 {
		t.Fatalf("expected 1 professional, got %v (%v)", page.Items, err)
	}
	if page.Items[0].HourlyCost != 1234.5 {
		t.Errorf("expected Brazilian decimal to parse as 1234.5, got %v", page.Items[0].HourlyCost)
	}
}

func TestHandleProfessionalSave_InvalidCost(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{"name": {"Carla"}, "role": {"Analista"}, "level": {"Sênior"}, "hourly_cost": {"abc"}}
	req := newFormRequest(http.MethodPost, "/professionals", form, nil)
	rec := httptest.NewRecorder()
	if err := HandleProfessionalSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Custo horário inválido", `value="Carla"`)
	if rec.Header().Get("Location") != "" {
		t.Error("expected the form to be re-rendered, not redirected")
	}
}

func TestHandleProfessionalUpdate_PlainRedirect(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 100)

	form := url.Values{
		"pid":         {prof.GetString("pid")},
		"name":        {"Ana Paula"},
		"role":        {"Desenvolvedor"},
		"level":       {"Sênior"},
		"hourly_cost": {"110"},
	}
	req := newFormRequest(http.MethodPost, "/professionals/"+prof.Id+"/save", form, map[string]string{"id": prof.Id})
	rec := httptest.NewRecorder()
	if err := HandleProfessionalUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/professionals" {
		t.Errorf("expected 302 to /professionals, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	p, _ := services.GetProfessional(app, prof.Id)
	if p.Name != "Ana Paula" || p.Level != "Sênior" || p.HourlyCost != 110 {
		t.Errorf("unexpected professional after update %+v", p)
	}
}

func TestHandleProfessionalDelete_Allocated(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 100)
	project := testhelpers.CreateTestProject(t, app, "Alfa", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 1)
	if _, err := services.AddProfessional(app, testCalendar(), project.Id, prof.Id, nil); err != nil {
		t.Fatalf("allocating: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/professionals/"+prof.Id, nil)
	req.SetPathValue("id", prof.Id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleProfessionalDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if toast := toastFrom(t, rec.Header().Get("HX-Trigger")); toast["type"] != "error" {
		t.Errorf("expected an error toast, got %v", toast)
	}
}

func TestHandleProfessionalImportPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/professionals/import", nil)
	rec := httptest.NewRecorder()
	if err := HandleProfessionalImportPage(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `enctype="multipart/form-data"`, `name="file"`)
}
