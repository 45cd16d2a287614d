package services

import (
	"errors"
	"testing"
	"time"

	"staffpricing/testhelpers"
)

var jan6 = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }

func datep(t time.Time) *Date {
	d := NewDate(t)
	return &d
}

func TestCreateProject_WithAllocationsAtZeroHours(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)

	p, err := CreateProject(app, cal, ProjectInput{
		Name:           strp("Portal"),
		StartDate:      datep(jan6),
		DurationMonths: intp(1),
		TaxRate:        ptr(11),
		MarginRate:     ptr(40),
		Allocations:    []AllocationInput{{ProfessionalID: prof.Id}},
	})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if len(p.Allocations) != 1 {
		t.Fatalf("allocations = %d, want 1", len(p.Allocations))
	}
	a := p.Allocations[0]
	if !approx(a.SellingHourlyRate, 100) || a.CostHourlyRate != 60 {
		t.Errorf("rates = cost %v selling %v", a.CostHourlyRate, a.SellingHourlyRate)
	}
	if len(a.Weeks) != 4 {
		t.Fatalf("weeks = %d, want 4", len(a.Weeks))
	}
	for _, w := range a.Weeks {
		if w.HoursAllocated != 0 || w.AvailableHours != 40 {
			t.Errorf("week %d = %+v", w.WeekNumber, w)
		}
	}
}

func TestCreateProject_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)

	tests := []struct {
		name string
		in   ProjectInput
		kind error
	}{
		{"no name", ProjectInput{StartDate: datep(jan6), DurationMonths: intp(1)}, ErrInvalid},
		{"zero duration", ProjectInput{Name: strp("X"), StartDate: datep(jan6), DurationMonths: intp(0)}, ErrInvalid},
		{"negative tax", ProjectInput{Name: strp("X"), StartDate: datep(jan6), DurationMonths: intp(1), TaxRate: ptr(-1)}, ErrInvalid},
		{"unknown clone source", ProjectInput{Name: strp("X"), FromProjectID: "missing"}, ErrNotFound},
		{"unknown professional", ProjectInput{Name: strp("X"), StartDate: datep(jan6), DurationMonths: intp(1),
			Allocations: []AllocationInput{{ProfessionalID: "missing"}}}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CreateProject(app, cal, tt.in); !errors.Is(err, tt.kind) {
				t.Errorf("CreateProject() error = %v, want %v", err, tt.kind)
			}
		})
	}

	page, _ := ListProjects(app, ListQuery{})
	if page.Total != 0 {
		t.Errorf("failed creates left %d projects", page.Total)
	}
}

func TestCreateProject_CloneCopiesAllocationsAndWeeks(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	src := testhelpers.CreateTestProject(t, app, "Origem", jan6, 1)
	if _, err := AddProfessional(app, cal, src.Id, prof.Id, ptr(150)); err != nil {
		t.Fatalf("AddProfessional: %v", err)
	}

	clone, err := CreateProject(app, cal, ProjectInput{
		Name:           strp("Cópia"),
		StartDate:      datep(jan6),
		DurationMonths: intp(1),
		FromProjectID:  src.Id,
	})
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if len(clone.Allocations) != 1 {
		t.Fatalf("cloned allocations = %d", len(clone.Allocations))
	}
	a := clone.Allocations[0]
	if a.SellingHourlyRate != 150 || a.CostHourlyRate != 60 || a.TotalHours() != 160 {
		t.Errorf("cloned allocation = %+v (hours %v)", a, a.TotalHours())
	}
	orig, _ := GetProject(app, src.Id)
	if orig.Allocations[0].ID == a.ID {
		t.Error("clone reused the source allocation id")
	}
}

func TestUpdateProject_SyncsWeeks(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	proj := testhelpers.CreateTestProject(t, app, "Sync", jan6, 1)
	if _, err := AddProfessional(app, cal, proj.Id, prof.Id, nil); err != nil {
		t.Fatalf("AddProfessional: %v", err)
	}

	p, err := UpdateProject(app, cal, proj.Id, ProjectInput{DurationMonths: intp(2)})
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	weeks := p.Allocations[0].Weeks
	if len(weeks) != 8 {
		t.Fatalf("weeks after extend = %d, want 8", len(weeks))
	}
	for _, w := range weeks {
		want := 40.0
		if w.WeekNumber > 4 {
			want = 0
		}
		if w.HoursAllocated != want {
			t.Errorf("week %d hours = %v, want %v", w.WeekNumber, w.HoursAllocated, want)
		}
	}

	p, err = UpdateProject(app, cal, proj.Id, ProjectInput{DurationMonths: intp(1)})
	if err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if n := len(p.Allocations[0].Weeks); n != 4 {
		t.Errorf("weeks after shrink = %d, want 4", n)
	}

	// Moving the start to Jan 1 makes week 1 a holiday week.
	p, err = UpdateProject(app, cal, proj.Id, ProjectInput{StartDate: datep(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))})
	if err != nil {
		t.Fatalf("move start: %v", err)
	}
	w1, ok := p.Allocations[0].HoursForWeek(1)
	if !ok || w1.AvailableHours != 32 {
		t.Errorf("week 1 after move = %+v", w1)
	}
	if n := len(p.Allocations[0].Weeks); n != 5 {
		t.Errorf("weeks after move = %d, want 5", n)
	}
}

func TestUpdateProject_NameOnlyKeepsWeeks(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	proj := testhelpers.CreateTestProject(t, app, "Antigo", jan6, 1)
	AddProfessional(app, cal, proj.Id, prof.Id, nil)

	p, err := UpdateProject(app, cal, proj.Id, ProjectInput{Name: strp("Novo")})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if p.Name != "Novo" || p.Allocations[0].TotalHours() != 160 {
		t.Errorf("project = %s, hours %v", p.Name, p.Allocations[0].TotalHours())
	}
}

func TestDeleteProject_Cascades(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	proj := testhelpers.CreateTestProject(t, app, "Apagar", jan6, 1)
	AddProfessional(app, cal, proj.Id, prof.Id, nil)

	if err := DeleteProject(app, proj.Id); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	for _, c := range []string{"project_allocations", "weekly_allocations"} {
		recs, _ := app.FindAllRecords(c)
		if len(recs) != 0 {
			t.Errorf("%s left = %d", c, len(recs))
		}
	}
	if err := DeleteProject(app, proj.Id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v", err)
	}
}

func TestTimelineAndAllocationTable(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	proj := testhelpers.CreateTestProject(t, app, "Linha", jan6, 1)

	weeks, err := Timeline(app, cal, proj.Id)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}
	if len(weeks) != 4 || weeks[0].Number != 1 || !weeks[0].Start.Equal(jan6) {
		t.Errorf("weeks = %+v", weeks)
	}

	table, err := GetAllocationTable(app, cal, proj.Id)
	if err != nil {
		t.Fatalf("GetAllocationTable() error = %v", err)
	}
	if len(table.Weeks) != 4 || len(table.Allocations) != 0 {
		t.Errorf("table = %d weeks, %d allocations", len(table.Weeks), len(table.Allocations))
	}

	if _, err := Timeline(app, cal, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing project error = %v", err)
	}
}

func TestPriceProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	proj := testhelpers.CreateTestProject(t, app, "Preço", jan6, 1)
	if _, err := AddProfessional(app, cal, proj.Id, prof.Id, ptr(100)); err != nil {
		t.Fatalf("AddProfessional: %v", err)
	}

	p, err := PriceProject(app, proj.Id)
	if err != nil {
		t.Fatalf("PriceProject() error = %v", err)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"hours", p.TotalHours, 160},
		{"cost", p.TotalCost, 9600},
		{"selling", p.TotalSelling, 16000},
		{"margin", p.TotalMargin, 6400},
		{"tax", p.TotalTax, 1760},
		{"final", p.FinalPrice, 17760},
		{"final margin", p.FinalMarginPercent, 40},
	}
	for _, c := range checks {
		if !approx(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestBuildProjectExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	proj := testhelpers.CreateTestProject(t, app, "Exportar", jan6, 1)
	AddProfessional(app, cal, proj.Id, prof.Id, nil)

	data, err := BuildProjectExport(app, cal, proj.Id)
	if err != nil {
		t.Fatalf("BuildProjectExport() error = %v", err)
	}
	if data.Project.Name != "Exportar" || len(data.Weeks) != 4 || len(data.Allocations) != 1 {
		t.Errorf("export data = %+v", data)
	}
	if !approx(data.Pricing.TotalHours, 160) {
		t.Errorf("pricing hours = %v", data.Pricing.TotalHours)
	}
	if _, err := BuildProjectExport(app, cal, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing project error = %v", err)
	}
}

func TestListProjects_SortByAllocationCount(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cal := NewCalendar(8)
	ana := testhelpers.CreateTestProfessional(t, app, "Ana", 60)
	bia := testhelpers.CreateTestProfessional(t, app, "Bia", 70)
	busy := testhelpers.CreateTestProject(t, app, "Alfa", jan6, 1)
	quiet := testhelpers.CreateTestProject(t, app, "Beta", jan6, 1)
	testhelpers.CreateTestProject(t, app, "Gama", jan6, 1)
	for _, prof := range []string{ana.Id, bia.Id} {
		if _, err := AddProfessional(app, cal, busy.Id, prof, nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := AddProfessional(app, cal, quiet.Id, ana.Id, nil); err != nil {
		t.Fatal(err)
	}

	page, err := ListProjects(app, ListQuery{Sort: "-count"})
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	var got []string
	for _, p := range page.Items {
		got = append(got, p.Name)
	}
	if want := []string{"Alfa", "Beta", "Gama"}; !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if page.Items[0].AllocationCount != 2 || page.Items[2].AllocationCount != 0 {
		t.Errorf("counts = %d, %d", page.Items[0].AllocationCount, page.Items[2].AllocationCount)
	}

	page, _ = ListProjects(app, ListQuery{Sort: "count"})
	if page.Items[0].Name != "Gama" {
		t.Errorf("ascending first = %s, want Gama", page.Items[0].Name)
	}
}
