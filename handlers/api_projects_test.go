package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"staffpricing/config"
	"staffpricing/services"
	"staffpricing/testhelpers"
)

var jan6 = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func TestHandleAPIProjectCreate_Defaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := config.DefaultConfig().Pricing

	body := `{"name":"Portal","start_date":"2025-01-06","duration_months":1}`
	req := newJSONRequest(http.MethodPost, "/api/projects", body, nil)
	rec := httptest.NewRecorder()
	if err := HandleAPIProjectCreate(app, testCalendar(), cfg)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var p services.Project
	decodeBody(t, rec, &p)
	if p.TaxRate != cfg.DefaultTaxRate || p.MarginRate != cfg.DefaultMarginRate {
		t.Errorf("expected config defaults, got tax=%v margin=%v", p.TaxRate, p.MarginRate)
	}
	if p.StartDate.String() != "2025-01-06" {
		t.Errorf("expected start date 2025-01-06, got %s", p.StartDate)
	}
}

func TestHandleAPIProjectCreate_WithAllocations(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)

	body := fmt.Sprintf(`{"name":"Portal","start_date":"2025-01-06","duration_months":1,
		"margin_rate":40,"allocations":[{"professional_id":%q}]}`, prof.Id)
	req := newJSONRequest(http.MethodPost, "/api/projects", body, nil)
	rec := httptest.NewRecorder()
	if err := HandleAPIProjectCreate(app, testCalendar(), config.DefaultConfig().Pricing)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var p services.Project
	decodeBody(t, rec, &p)
	if len(p.Allocations) != 1 {
		t.Fatalf("expected 1 allocation, got %d", len(p.Allocations))
	}
	a := p.Allocations[0]
	if a.SellingHourlyRate != 100 {
		t.Errorf("expected selling rate 60/(1-0.4)=100, got %v", a.SellingHourlyRate)
	}
	if a.TotalHours() != 0 {
		t.Errorf("expected allocations created at create time to start empty, got %v hours", a.TotalHours())
	}
}

func TestHandleAPIProjectCreate_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"start_date":"2025-01-06","duration_months":1}`},
		{"zero duration", `{"name":"X","start_date":"2025-01-06","duration_months":0}`},
		{"bad date", `{"name":"X","start_date":"06/01/2025","duration_months":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(http.MethodPost, "/api/projects", tt.body, nil)
			rec := httptest.NewRecorder()
			if err := HandleAPIProjectCreate(app, testCalendar(), config.DefaultConfig().Pricing)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleAPIProjectTimeline(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Portal", jan6, 1)

	req := newJSONRequest(http.MethodGet, "/api/projects/"+project.Id+"/timeline", "",
		map[string]string{"id": project.Id})
	rec := httptest.NewRecorder()
	if err := HandleAPIProjectTimeline(app, testCalendar())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var weeks []struct {
		Number         int     `json:"week_number"`
		Start          string  `json:"week_start"`
		AvailableHours float64 `json:"available_hours"`
	}
	decodeBody(t, rec, &weeks)
	if len(weeks) != 4 {
		t.Fatalf("expected 4 weeks, got %d", len(weeks))
	}
	if weeks[0].Number != 1 || weeks[0].Start != "2025-01-06" || weeks[0].AvailableHours != 40 {
		t.Errorf("unexpected first week %+v", weeks[0])
	}
}

func TestHandleAPIProjectPricing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := testCalendar()
	project := testhelpers.CreateTestProject(t, app, "Portal", jan6, 1)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 50)
	rate := 100.0
	if _, err := services.AddProfessional(app, cal, project.Id, prof.Id, &rate); err != nil {
		t.Fatalf("allocating: %v", err)
	}

	req := newJSONRequest(http.MethodGet, "/api/projects/"+project.Id+"/pricing", "",
		map[string]string{"id": project.Id})
	rec := httptest.NewRecorder()
	if err := HandleAPIProjectPricing(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var pr services.ProjectPricing
	decodeBody(t, rec, &pr)
	if pr.TotalHours != 160 {
		t.Errorf("expected 160 hours, got %v", pr.TotalHours)
	}
	if pr.TotalCost != 8000 || pr.TotalSelling != 16000 {
		t.Errorf("expected cost 8000 and selling 16000, got %v / %v", pr.TotalCost, pr.TotalSelling)
	}
	if pr.TotalTax != 1760 || pr.FinalPrice != 17760 {
		t.Errorf("expected tax 1760 and final 17760, got %v / %v", pr.TotalTax, pr.FinalPrice)
	}
	if pr.FinalMarginPercent != 50 {
		t.Errorf("expected final margin 50%%, got %v", pr.FinalMarginPercent)
	}
	if len(pr.WeeklyBreakdown) != 4 || len(pr.MonthlyBreakdown) != 1 {
		t.Errorf("expected 4 weeks in 1 month, got %d / %d", len(pr.WeeklyBreakdown), len(pr.MonthlyBreakdown))
	}
}

func TestHandleAPIAddProfessional(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := testCalendar()
	project := testhelpers.CreateTestProject(t, app, "Portal", jan6, 1)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	path := map[string]string{"id": project.Id}

	t.Run("query parameters", func(t *testing.T) {
		req := newJSONRequest(http.MethodPost,
			"/api/projects/"+project.Id+"/allocations?professional_id="+prof.Id, "", path)
		rec := httptest.NewRecorder()
		if err := HandleAPIAddProfessional(app, cal)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var result services.AddProfessionalResult
		decodeBody(t, rec, &result)
		if result.WeeksCreated != 4 || result.SellingHourlyRate != 100 {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		body := fmt.Sprintf(`{"professional_id":%q}`, prof.Id)
		req := newJSONRequest(http.MethodPost, "/api/projects/"+project.Id+"/allocations", body, path)
		rec := httptest.NewRecorder()
		if err := HandleAPIAddProfessional(app, cal)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("missing professional", func(t *testing.T) {
		req := newJSONRequest(http.MethodPost, "/api/projects/"+project.Id+"/allocations", "", path)
		rec := httptest.NewRecorder()
		if err := HandleAPIAddProfessional(app, cal)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleAPIUpdateAllocations(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := testCalendar()
	project := testhelpers.CreateTestProject(t, app, "Portal", jan6, 1)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	if _, err := services.AddProfessional(app, cal, project.Id, prof.Id, nil); err != nil {
		t.Fatalf("allocating: %v", err)
	}
	allocs, err := services.LoadAllocations(app, project.Id)
	if err != nil || len(allocs) != 1 {
		t.Fatalf("loading allocations: %v (%d)", err, len(allocs))
	}
	a := allocs[0]
	path := map[string]string{"id": project.Id}

	t.Run("valid", func(t *testing.T) {
		body := fmt.Sprintf(`[{"allocation_id":%q,"selling_hourly_rate":120},
			{"weekly_allocation_id":%q,"hours_allocated":20}]`, a.ID, a.Weeks[0].ID)
		req := newJSONRequest(http.MethodPatch, "/api/projects/"+project.Id+"/allocations", body, path)
		rec := httptest.NewRecorder()
		if err := HandleAPIUpdateAllocations(app)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp struct {
			UpdatedCount int `json:"updated_count"`
		}
		decodeBody(t, rec, &resp)
		if resp.UpdatedCount != 2 {
			t.Errorf("expected 2 updates, got %d", resp.UpdatedCount)
		}
	})

	t.Run("over available hours rejects everything", func(t *testing.T) {
		body := fmt.Sprintf(`[{"allocation_id":%q,"selling_hourly_rate":200},
			{"weekly_allocation_id":%q,"hours_allocated":41}]`, a.ID, a.Weeks[1].ID)
		req := newJSONRequest(http.MethodPatch, "/api/projects/"+project.Id+"/allocations", body, path)
		rec := httptest.NewRecorder()
		if err := HandleAPIUpdateAllocations(app)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		after, _ := services.LoadAllocations(app, project.Id)
		if after[0].SellingHourlyRate != 120 {
			t.Errorf("expected the rate update to roll back, got %v", after[0].SellingHourlyRate)
		}
	})
}

func TestHandleAPIApplyOffer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Portal", jan6, 1)
	ana := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	bia := testhelpers.CreateTestProfessional(t, app, "Bia", 80)
	offer := testhelpers.CreateTestOffer(t, app, "Squad", 50, ana.Id, bia.Id)

	req := newJSONRequest(http.MethodPost, "/api/projects/"+project.Id+"/offers",
		fmt.Sprintf(`{"offer_id":%q}`, offer.Id), map[string]string{"id": project.Id})
	rec := httptest.NewRecorder()
	if err := HandleAPIApplyOffer(app, testCalendar())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var result services.ApplyOfferResult
	decodeBody(t, rec, &result)
	if len(result.Allocations) != 2 || result.WeeksCount != 4 {
		t.Errorf("unexpected result %+v", result)
	}

	allocs, _ := services.LoadAllocations(app, project.Id)
	for _, a := range allocs {
		if a.Weeks[0].HoursAllocated != 20 {
			t.Errorf("expected 50%% of 40h for %s, got %v", a.Professional.Name, a.Weeks[0].HoursAllocated)
		}
	}
}

func TestHandleAPIApplyOffer_MissingOffer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Portal", jan6, 1)

	req := newJSONRequest(http.MethodPost, "/api/projects/"+project.Id+"/offers", `{}`,
		map[string]string{"id": project.Id})
	rec := httptest.NewRecorder()
	if err := HandleAPIApplyOffer(app, testCalendar())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAPIRemoveAllocation_WrongProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := testCalendar()
	alfa := testhelpers.CreateTestProject(t, app, "Alfa", jan6, 1)
	beta := testhelpers.CreateTestProject(t, app, "Beta", jan6, 1)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	result, err := services.AddProfessional(app, cal, alfa.Id, prof.Id, nil)
	if err != nil {
		t.Fatalf("allocating: %v", err)
	}

	req := newJSONRequest(http.MethodDelete, "/", "",
		map[string]string{"id": beta.Id, "allocationId": result.AllocationID})
	rec := httptest.NewRecorder()
	if err := HandleAPIRemoveAllocation(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleAPIProjectExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Portal", jan6, 1)
	path := map[string]string{"id": project.Id}

	tests := []struct {
		format      string
		status      int
		contentType string
		prefix      string
	}{
		{"", http.StatusOK, services.ExportXLSX.ContentType(), "projeto_Portal_"},
		{"pdf", http.StatusOK, services.ExportPDF.ContentType(), "Portal_"},
		{"png", http.StatusOK, services.ExportPNG.ContentType(), "Portal_"},
		{"bad", http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			req := newJSONRequest(http.MethodGet, "/api/projects/"+project.Id+"/export?format="+tt.format, "", path)
			rec := httptest.NewRecorder()
			if err := HandleAPIProjectExport(app, testCalendar())(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("expected content type %q, got %q", tt.contentType, ct)
			}
			cd := rec.Header().Get("Content-Disposition")
			if !strings.Contains(cd, `filename="`+tt.prefix) {
				t.Errorf("expected filename prefix %q, got %q", tt.prefix, cd)
			}
		})
	}
}

func TestHandleAPIProjectDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Portal", jan6, 1)

	req := newJSONRequest(http.MethodDelete, "/", "", map[string]string{"id": project.Id})
	rec := httptest.NewRecorder()
	if err := HandleAPIProjectDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("projects", project.Id); err == nil {
		t.Error("expected project to be deleted")
	}
}
