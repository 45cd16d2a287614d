// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"staffpricing/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProfessional creates a professional with the given name and hourly cost.
func CreateTestProfessional(t *testing.T, app *pocketbase.PocketBase, name string, hourlyCost float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("professionals")
	if err != nil {
		t.Fatalf("failed to find professionals collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("pid", collections.NewPID())
	record.Set("name", name)
	record.Set("role", "Desenvolvedor")
	record.Set("level", "Pleno")
	record.Set("hourly_cost", hourlyCost)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test professional: %v", err)
	}

	return record
}

// CreateTestProject creates a project starting on start and lasting months.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string, start time.Time, months int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("start_date", start)
	record.Set("duration_months", months)
	record.Set("tax_rate", 11)
	record.Set("margin_rate", 40)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestOffer creates an offer with one item per professional id, each
// allocated at pct percent.
func CreateTestOffer(t *testing.T, app *pocketbase.PocketBase, name string, pct float64, professionalIDs ...string) *core.Record {
	t.Helper()

	offersCol, err := app.FindCollectionByNameOrId("offers")
	if err != nil {
		t.Fatalf("failed to find offers collection: %v", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("offer_items")
	if err != nil {
		t.Fatalf("failed to find offer_items collection: %v", err)
	}

	offer := core.NewRecord(offersCol)
	offer.Set("name", name)
	if err := app.Save(offer); err != nil {
		t.Fatalf("failed to save test offer: %v", err)
	}

	for i, profID := range professionalIDs {
		item := core.NewRecord(itemsCol)
		item.Set("offer", offer.Id)
		item.Set("sort_order", i+1)
		item.Set("role", "Desenvolvedor")
		item.Set("level", "Pleno")
		item.Set("quantity", 1)
		item.Set("allocation_percentage", pct)
		item.Set("professional", profID)
		if err := app.Save(item); err != nil {
			t.Fatalf("failed to save test offer item: %v", err)
		}
	}

	return offer
}

// CreateTestStaff creates a staff auth record.
func CreateTestStaff(t *testing.T, app *pocketbase.PocketBase, email, password string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("staff")
	if err != nil {
		t.Fatalf("failed to find staff collection: %v", err)
	}

	record := core.NewRecord(col)
	record.SetEmail(email)
	record.SetPassword(password)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test staff: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s", frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
