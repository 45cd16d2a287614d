package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type professionalDef struct {
	pid        string
	name       string
	role       string
	level      string
	isVacancy  bool
	hourlyCost float64
}

type offerItemDef struct {
	role          string
	level         string
	quantity      int
	percentage    float64
	professionalPID string
}

type offerDef struct {
	name  string
	items []offerItemDef
}

var seedProfessionals = []professionalDef{
	{"P-0001", "Ana Souza", "Desenvolvedor Backend", "Sênior", false, 120},
	{"P-0002", "Bruno Lima", "Desenvolvedor Frontend", "Pleno", false, 85},
	{"P-0003", "Carla Mendes", "Gerente de Projetos", "Sênior", false, 140},
	{"P-0004", "Diego Rocha", "Analista de QA", "Júnior", false, 55},
	{"P-0005", "Vaga UX", "Designer UX", "Pleno", true, 90},
}

var seedOffers = []offerDef{
	{
		name: "Squad Web Padrão",
		items: []offerItemDef{
			{"Gerente de Projetos", "Sênior", 1, 50, "P-0003"},
			{"Desenvolvedor Backend", "Sênior", 1, 100, "P-0001"},
			{"Desenvolvedor Frontend", "Pleno", 1, 100, "P-0002"},
			{"Analista de QA", "Júnior", 1, 50, "P-0004"},
		},
	},
	{
		name: "Discovery",
		items: []offerItemDef{
			{"Designer UX", "Pleno", 1, 100, "P-0005"},
			{"Gerente de Projetos", "Sênior", 1, 25, ""},
		},
	},
}

// Seed populates professionals, offers and one empty demo project. It is
// safe to call on every startup because it returns early if any
// professional records already exist.
func Seed(app *pocketbase.PocketBase) error {
	professionalsCol, err := app.FindCollectionByNameOrId("professionals")
	if err != nil {
		return fmt.Errorf("seed: could not find professionals collection: %w", err)
	}
	existing, err := app.FindAllRecords(professionalsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query professionals: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Println("seed: professionals collection is empty – inserting seed data …")

	offersCol, err := app.FindCollectionByNameOrId("offers")
	if err != nil {
		return fmt.Errorf("seed: could not find offers collection: %w", err)
	}
	offerItemsCol, err := app.FindCollectionByNameOrId("offer_items")
	if err != nil {
		return fmt.Errorf("seed: could not find offer_items collection: %w", err)
	}
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}

	byPID := make(map[string]string, len(seedProfessionals))
	for _, d := range seedProfessionals {
		r := core.NewRecord(professionalsCol)
		r.Set("pid", d.pid)
		r.Set("name", d.name)
		r.Set("role", d.role)
		r.Set("level", d.level)
		r.Set("is_vacancy", d.isVacancy)
		r.Set("hourly_cost", d.hourlyCost)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: professional %q: %w", d.name, err)
		}
		byPID[d.pid] = r.Id
	}

	for _, od := range seedOffers {
		offer := core.NewRecord(offersCol)
		offer.Set("name", od.name)
		if err := app.Save(offer); err != nil {
			return fmt.Errorf("seed: offer %q: %w", od.name, err)
		}
		for i, it := range od.items {
			r := core.NewRecord(offerItemsCol)
			r.Set("offer", offer.Id)
			r.Set("sort_order", i+1)
			r.Set("role", it.role)
			r.Set("level", it.level)
			r.Set("quantity", it.quantity)
			r.Set("allocation_percentage", it.percentage)
			if it.professionalPID != "" {
				r.Set("professional", byPID[it.professionalPID])
			}
			if err := app.Save(r); err != nil {
				return fmt.Errorf("seed: offer item %q/%q: %w", od.name, it.role, err)
			}
		}
	}

	now := time.Now()
	project := core.NewRecord(projectsCol)
	project.Set("name", "Portal do Cliente")
	project.Set("start_date", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	project.Set("duration_months", 3)
	project.Set("tax_rate", 11)
	project.Set("margin_rate", 40)
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: project: %w", err)
	}

	log.Printf("seed: inserted %d professionals, %d offers and 1 project\n", len(seedProfessionals), len(seedOffers))
	return nil
}
