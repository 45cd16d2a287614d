package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffpricing/services"
	"staffpricing/testhelpers"
)

func TestHandleAPIOfferCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)

	body := fmt.Sprintf(`{"name":"Squad Web","items":[
		{"role":"Designer","level":"Sênior","quantity":1,"allocation_percentage":50},
		{"professional_id":%q}]}`, prof.Id)
	req := newJSONRequest(http.MethodPost, "/api/offers", body, nil)
	rec := httptest.NewRecorder()
	if err := HandleAPIOfferCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var o services.Offer
	decodeBody(t, rec, &o)
	if len(o.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(o.Items))
	}
	second := o.Items[1]
	if second.Role != "Desenvolvedor" || second.Level != "Pleno" {
		t.Errorf("expected role and level taken from the professional, got %s/%s", second.Role, second.Level)
	}
	if second.AllocationPercentage != 100 || second.Quantity != 1 {
		t.Errorf("expected defaults 100%% x1, got %v%% x%d", second.AllocationPercentage, second.Quantity)
	}
}

func TestHandleAPIOfferCreate_Rejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestOffer(t, app, "Squad", 100)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"no items", `{"name":"Vazia","items":[]}`, http.StatusBadRequest},
		{"blank name", `{"name":"  ","items":[{"role":"Dev","level":"Pleno"}]}`, http.StatusBadRequest},
		{"percentage over 100", `{"name":"X","items":[{"role":"Dev","level":"Pleno","allocation_percentage":120}]}`, http.StatusBadRequest},
		{"duplicate name", `{"name":"Squad","items":[{"role":"Dev","level":"Pleno"}]}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(http.MethodPost, "/api/offers", tt.body, nil)
			rec := httptest.NewRecorder()
			if err := HandleAPIOfferCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleAPIOfferList_SortByCount(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	ana := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	bia := testhelpers.CreateTestProfessional(t, app, "Bia", 60)
	testhelpers.CreateTestOffer(t, app, "Alfa", 100, ana.Id, bia.Id)
	testhelpers.CreateTestOffer(t, app, "Beta", 100, ana.Id)

	req := httptest.NewRequest(http.MethodGet, "/api/offers?sort=count", nil)
	rec := httptest.NewRecorder()
	if err := HandleAPIOfferList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var page services.Page[services.Offer]
	decodeBody(t, rec, &page)
	if page.Total != 2 || page.Items[0].Name != "Beta" {
		t.Errorf("expected Beta (1 item) first, got %+v", page.Items)
	}
}

func TestHandleAPIOfferItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	offer := testhelpers.CreateTestOffer(t, app, "Squad", 100, prof.Id)
	path := map[string]string{"id": offer.Id}

	req := newJSONRequest(http.MethodPost, "/api/offers/"+offer.Id+"/items",
		`{"role":"QA","level":"Júnior","quantity":2,"allocation_percentage":25}`, path)
	rec := httptest.NewRecorder()
	if err := HandleAPIOfferItemAdd(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var added services.OfferItem
	decodeBody(t, rec, &added)
	if added.SortOrder != 2 {
		t.Errorf("expected the new item to be appended, got sort order %d", added.SortOrder)
	}

	req = newJSONRequest(http.MethodPatch, "/", `{"role":"QA","level":"Pleno","allocation_percentage":75}`,
		map[string]string{"id": offer.Id, "itemId": added.ID})
	rec = httptest.NewRecorder()
	if err := HandleAPIOfferItemUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("update error: %v", err)
	}
	var updated services.OfferItem
	decodeBody(t, rec, &updated)
	if updated.Level != "Pleno" || updated.AllocationPercentage != 75 {
		t.Errorf("unexpected updated item %+v", updated)
	}

	req = newJSONRequest(http.MethodDelete, "/", "", map[string]string{"id": offer.Id, "itemId": added.ID})
	rec = httptest.NewRecorder()
	if err := HandleAPIOfferItemDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = newJSONRequest(http.MethodGet, "/", "", path)
	rec = httptest.NewRecorder()
	if err := HandleAPIOfferItemList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("list error: %v", err)
	}
	var items []services.OfferItem
	decodeBody(t, rec, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 item left, got %d", len(items))
	}

	req = newJSONRequest(http.MethodDelete, "/", "", map[string]string{"id": offer.Id, "itemId": items[0].ID})
	rec = httptest.NewRecorder()
	if err := HandleAPIOfferItemDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected the last item to be kept with 400, got %d", rec.Code)
	}
}

func TestHandleAPIOfferDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	offer := testhelpers.CreateTestOffer(t, app, "Squad", 100)

	req := newJSONRequest(http.MethodDelete, "/", "", map[string]string{"id": offer.Id})
	rec := httptest.NewRecorder()
	if err := HandleAPIOfferDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = newJSONRequest(http.MethodGet, "/", "", map[string]string{"id": offer.Id})
	rec = httptest.NewRecorder()
	if err := HandleAPIOfferGet(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}
