package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Setup programmatically creates/ensures the staff, professionals, offers,
// offer_items, projects, project_allocations and weekly_allocations
// collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureAuthCollection(app, "staff", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: false})
	})

	professionals := ensureCollection(app, "professionals", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "pid", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "role", Required: true})
		c.Fields.Add(&core.TextField{Name: "level", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_vacancy"})
		c.Fields.Add(&core.NumberField{Name: "hourly_cost", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_professionals_pid", true, "pid", "")
	})

	offers := ensureCollection(app, "offers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_offers_name", true, "name", "")
	})

	ensureCollection(app, "offer_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "offer",
			Required:      true,
			CollectionId:  offers.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "role", Required: true})
		c.Fields.Add(&core.TextField{Name: "level", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true, OnlyInt: true, Min: types.Pointer(1.0)})
		c.Fields.Add(&core.NumberField{Name: "allocation_percentage", Min: types.Pointer(0.0), Max: types.Pointer(100.0)})
		c.Fields.Add(&core.RelationField{
			Name:         "professional",
			Required:     false,
			CollectionId: professionals.Id,
			MaxSelect:    1,
		})
	})

	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.DateField{Name: "start_date", Required: true})
		c.Fields.Add(&core.NumberField{Name: "duration_months", Required: true, OnlyInt: true, Min: types.Pointer(1.0)})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.NumberField{Name: "margin_rate", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	allocations := ensureCollection(app, "project_allocations", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "professional",
			Required:     true,
			CollectionId: professionals.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "cost_hourly_rate", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.NumberField{Name: "selling_hourly_rate", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_allocations_project_professional", true, "project, professional", "")
	})

	ensureCollection(app, "weekly_allocations", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "allocation",
			Required:      true,
			CollectionId:  allocations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "week_number", Required: true, OnlyInt: true, Min: types.Pointer(1.0)})
		c.Fields.Add(&core.DateField{Name: "week_start", Required: true})
		c.Fields.Add(&core.NumberField{Name: "hours_allocated", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.NumberField{Name: "available_hours", Min: types.Pointer(0.0)})
		c.AddIndex("idx_weekly_allocation_week", true, "allocation, week_number", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	return ensure(app, name, core.NewBaseCollection, addFields)
}

// ensureAuthCollection is ensureCollection for auth collections; the email and
// password fields come from core.NewAuthCollection.
func ensureAuthCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	return ensure(app, name, core.NewAuthCollection, addFields)
}

func ensure(app *pocketbase.PocketBase, name string, newCollection func(string, ...string) *core.Collection, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		return existing
	}

	collection := newCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
