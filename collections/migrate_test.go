package collections_test

import (
	"testing"
	"time"

	"staffpricing/collections"
	"staffpricing/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

func TestMigrateAllocationCostRates_Backfills(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 95)
	proj := testhelpers.CreateTestProject(t, app, "Migrar", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 1)

	col, _ := app.FindCollectionByNameOrId("project_allocations")
	alloc := core.NewRecord(col)
	alloc.Set("project", proj.Id)
	alloc.Set("professional", prof.Id)
	alloc.Set("selling_hourly_rate", 150)
	if err := app.Save(alloc); err != nil {
		t.Fatalf("save allocation: %v", err)
	}

	if err := collections.MigrateAllocationCostRates(app); err != nil {
		t.Fatalf("MigrateAllocationCostRates() error: %v", err)
	}

	got, _ := app.FindRecordById("project_allocations", alloc.Id)
	if got.GetFloat("cost_hourly_rate") != 95 {
		t.Errorf("cost_hourly_rate = %v, want 95", got.GetFloat("cost_hourly_rate"))
	}
}

func TestMigrateAllocationCostRates_KeepsFrozenRate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Bruno", 80)
	proj := testhelpers.CreateTestProject(t, app, "Congelado", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 1)

	col, _ := app.FindCollectionByNameOrId("project_allocations")
	alloc := core.NewRecord(col)
	alloc.Set("project", proj.Id)
	alloc.Set("professional", prof.Id)
	alloc.Set("cost_hourly_rate", 60)
	if err := app.Save(alloc); err != nil {
		t.Fatalf("save allocation: %v", err)
	}

	if err := collections.MigrateAllocationCostRates(app); err != nil {
		t.Fatalf("MigrateAllocationCostRates() error: %v", err)
	}

	got, _ := app.FindRecordById("project_allocations", alloc.Id)
	if got.GetFloat("cost_hourly_rate") != 60 {
		t.Errorf("cost_hourly_rate = %v, want 60 (unchanged)", got.GetFloat("cost_hourly_rate"))
	}
}

func TestMigrateAllocationCostRates_NothingToDo(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.MigrateAllocationCostRates(app); err != nil {
		t.Fatalf("expected no error on empty data, got %v", err)
	}
}
