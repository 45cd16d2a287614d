package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateAllocationCostRates backfills cost_hourly_rate on allocations that
// were stored before the professional's cost was frozen at allocation time.
// The professional's current hourly_cost is used. Safe to call on every
// startup -- returns early if nothing to migrate.
func MigrateAllocationCostRates(app *pocketbase.PocketBase) error {
	allocationsCol, err := app.FindCollectionByNameOrId("project_allocations")
	if err != nil {
		return fmt.Errorf("migrate: could not find project_allocations collection: %w", err)
	}

	missing, err := app.FindRecordsByFilter(
		allocationsCol,
		"cost_hourly_rate = 0",
		"",
		0,
		0,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query allocations: %w", err)
	}

	if len(missing) == 0 {
		return nil
	}

	log.Printf("migrate: found %d allocation(s) without a frozen cost rate\n", len(missing))

	for _, alloc := range missing {
		prof, err := app.FindRecordById("professionals", alloc.GetString("professional"))
		if err != nil {
			log.Printf("migrate: allocation %s references missing professional %s: %v\n",
				alloc.Id, alloc.GetString("professional"), err)
			continue
		}
		cost := prof.GetFloat("hourly_cost")
		if cost == 0 {
			continue
		}

		alloc.Set("cost_hourly_rate", cost)
		if err := app.Save(alloc); err != nil {
			log.Printf("migrate: failed to update allocation %s: %v\n", alloc.Id, err)
			continue
		}
	}

	log.Println("migrate: allocation cost rate backfill complete.")
	return nil
}
