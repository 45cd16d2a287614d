package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"staffpricing/services"
	"staffpricing/testhelpers"
)

func TestHandleOfferList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	testhelpers.CreateTestOffer(t, app, "Squad Web", 50, prof.Id)

	req := httptest.NewRequest(http.MethodGet, "/offers?sort=-name", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleOfferList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, `id="offers-view"`, "Squad Web")
	testhelpers.AssertHTMLNotContains(t, body, "<!doctype html>")
}

func TestHandleOfferSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)

	form := url.Values{
		"name":              {"Squad Web"},
		"item_role":         {"Designer", "", ""},
		"item_level":        {"Sênior", "", ""},
		"item_quantity":     {"1", "", ""},
		"item_pct":          {"50", "", "75"},
		"item_professional": {"", prof.Id, ""},
	}
	req := newFormRequest(http.MethodPost, "/offers", form, nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleOfferSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/offers")
	page, _ := services.ListOffers(app, services.ListQuery{})
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(page.Items))
	}
	items := page.Items[0].Items
	if len(items) != 2 {
		t.Fatalf("expected the blank row to be skipped, got %d items", len(items))
	}
	if items[1].ProfessionalID != prof.Id || items[1].AllocationPercentage != 100 {
		t.Errorf("unexpected professional item %+v", items[1])
	}
}

func TestHandleOfferSave_Rejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestOffer(t, app, "Squad", 100)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"no items", url.Values{"name": {"Nova"}, "item_role": {""}}, "Adicione pelo menos um item"},
		{"bad quantity", url.Values{"name": {"Nova"}, "item_role": {"Dev"}, "item_quantity": {"dois"}}, "Quantidade inválida na linha 1"},
		{"duplicate name", url.Values{"name": {"Squad"}, "item_role": {"Dev"}, "item_level": {"Pleno"}}, "Já existe uma oferta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newFormRequest(http.MethodPost, "/offers", tt.form, nil)
			rec := httptest.NewRecorder()
			if err := HandleOfferSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.want)
			if rec.Header().Get("Location") != "" {
				t.Error("expected the form to be re-rendered")
			}
		})
	}
}

func TestHandleOfferEdit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	offer := testhelpers.CreateTestOffer(t, app, "Squad", 50, prof.Id)

	req := httptest.NewRequest(http.MethodGet, "/offers/"+offer.Id+"/edit", nil)
	req.SetPathValue("id", offer.Id)
	rec := httptest.NewRecorder()
	if err := HandleOfferEdit(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Editar oferta", offer.Id+"/save", `value="Squad"`, `name="item_pct"`, `value="50"`)
}

func TestHandleOfferItemRow(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProfessional(t, app, "Ana", 60)

	req := httptest.NewRequest(http.MethodGet, "/offers/item-row", nil)
	rec := httptest.NewRecorder()
	if err := HandleOfferItemRow(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, `name="item_role"`, "Ana")
	testhelpers.AssertHTMLNotContains(t, body, "<!doctype html>")
}

func TestHandleOfferDelete_Page(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	offer := testhelpers.CreateTestOffer(t, app, "Squad", 100)

	req := httptest.NewRequest(http.MethodDelete, "/offers/"+offer.Id, nil)
	req.SetPathValue("id", offer.Id)
	rec := httptest.NewRecorder()
	if err := HandleOfferDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if toast := toastFrom(t, rec.Header().Get("HX-Trigger")); toast["type"] != "success" {
		t.Errorf("expected a success toast, got %v", toast)
	}
}
