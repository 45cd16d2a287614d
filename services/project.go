package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// Project is a priced staffing engagement. AllocationCount is set by list
// and get alike; Allocations only by GetProject.
type Project struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	StartDate       Date         `json:"start_date"`
	DurationMonths  int          `json:"duration_months"`
	TaxRate         float64      `json:"tax_rate"`
	MarginRate      float64      `json:"margin_rate"`
	Created         time.Time    `json:"created_at"`
	Allocations     []Allocation `json:"allocations"`
	AllocationCount int          `json:"allocation_count"`
}

// AllocationInput is an allocation requested at project creation time.
type AllocationInput struct {
	ProfessionalID    string   `json:"professional_id"`
	SellingHourlyRate *float64 `json:"selling_hourly_rate"`
}

// ProjectInput is the create / partial-update payload. FromProjectID clones
// the allocations of an existing project on create.
type ProjectInput struct {
	Name           *string           `json:"name"`
	StartDate      *Date             `json:"start_date"`
	DurationMonths *int              `json:"duration_months"`
	TaxRate        *float64          `json:"tax_rate"`
	MarginRate     *float64          `json:"margin_rate"`
	Allocations    []AllocationInput `json:"allocations"`
	FromProjectID  string            `json:"from_project_id"`
}

// AllocationTable is the editor view of a project: its weeks and its
// allocations with weekly rows.
type AllocationTable struct {
	Weeks       []Week       `json:"weeks"`
	Allocations []Allocation `json:"allocations"`
}

func projectFromRecord(r *core.Record) Project {
	return Project{
		ID:             r.Id,
		Name:           r.GetString("name"),
		StartDate:      NewDate(r.GetDateTime("start_date").Time()),
		DurationMonths: r.GetInt("duration_months"),
		TaxRate:        r.GetFloat("tax_rate"),
		MarginRate:     r.GetFloat("margin_rate"),
		Created:        r.GetDateTime("created").Time(),
		Allocations:    []Allocation{},
	}
}

// ListProjects returns projects without their allocations but with their
// allocation counts, ordered by q.Sort (name by default).
func ListProjects(app core.App, q ListQuery) (Page[Project], error) {
	records, err := findAll(app, "projects", q)
	if err != nil {
		return Page[Project]{}, err
	}
	counts, err := allocationCounts(app)
	if err != nil {
		return Page[Project]{}, err
	}
	projects := make([]Project, 0, len(records))
	for _, r := range records {
		p := projectFromRecord(r)
		p.AllocationCount = counts[p.ID]
		projects = append(projects, p)
	}
	field, desc := ParseSort(q.Sort)
	SortProjects(projects, field, desc)
	return paginate(projects, q), nil
}

// GetProject loads a project with its allocations.
func GetProject(app core.App, id string) (Project, error) {
	rec, err := app.FindRecordById("projects", id)
	if err != nil {
		return Project{}, notFound("Projeto não encontrado")
	}
	p := projectFromRecord(rec)
	allocs, err := LoadAllocations(app, id)
	if err != nil {
		return Project{}, err
	}
	p.Allocations = allocs
	p.AllocationCount = len(allocs)
	return p, nil
}

// allocationCounts returns the number of allocations per project id.
func allocationCounts(app core.App) (map[string]int, error) {
	records, err := app.FindAllRecords("project_allocations")
	if err != nil {
		return nil, fmt.Errorf("counting allocations: %w", err)
	}
	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.GetString("project")]++
	}
	return counts, nil
}

// CreateProject stores a project. With FromProjectID set the source
// project's allocations are cloned; otherwise each requested allocation is
// created with zero hours per week.
func CreateProject(app core.App, cal *Calendar, in ProjectInput) (Project, error) {
	var source *core.Record
	if in.FromProjectID != "" {
		rec, err := app.FindRecordById("projects", in.FromProjectID)
		if err != nil {
			return Project{}, notFound("Projeto original não encontrado")
		}
		source = rec
	}

	var id string
	err := app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("projects")
		if err != nil {
			return fmt.Errorf("projects collection: %w", err)
		}
		rec := core.NewRecord(col)
		if err := applyProjectInput(rec, in, true); err != nil {
			return err
		}
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("saving project: %w", err)
		}
		id = rec.Id

		if source != nil {
			return cloneAllocations(txApp, source.Id, rec.Id)
		}

		weeks := projectWeeks(cal, rec)
		for _, a := range in.Allocations {
			prof, err := txApp.FindRecordById("professionals", a.ProfessionalID)
			if err != nil {
				return notFound("Profissional não encontrado")
			}
			rate := SellingRate(prof.GetFloat("hourly_cost"), rec.GetFloat("margin_rate"), a.SellingHourlyRate)
			if _, err := createAllocation(txApp, rec.Id, prof, rate, 0, weeks); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Project{}, err
	}

	if source != nil {
		log.Printf("projects: cloned %s into %s", source.Id, id)
	} else {
		log.Printf("projects: created %s with %d allocations", id, len(in.Allocations))
	}
	return GetProject(app, id)
}

// UpdateProject applies the non-nil fields of in and re-syncs allocation
// weeks when the start date or duration changes.
func UpdateProject(app core.App, cal *Calendar, id string, in ProjectInput) (Project, error) {
	rec, err := app.FindRecordById("projects", id)
	if err != nil {
		return Project{}, notFound("Projeto não encontrado")
	}

	oldStart := NewDate(rec.GetDateTime("start_date").Time())
	oldDuration := rec.GetInt("duration_months")

	err = app.RunInTransaction(func(txApp core.App) error {
		if err := applyProjectInput(rec, in, false); err != nil {
			return err
		}
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("saving project %s: %w", id, err)
		}

		newStart := NewDate(rec.GetDateTime("start_date").Time())
		if newStart != oldStart || rec.GetInt("duration_months") != oldDuration {
			n, err := SyncProjectWeeks(txApp, cal, rec)
			if err != nil {
				return err
			}
			log.Printf("projects: %s timeline changed, %d weeks", id, n)
		}
		return nil
	})
	if err != nil {
		return Project{}, err
	}
	return GetProject(app, id)
}

// DeleteProject removes a project; allocations and weekly rows cascade.
func DeleteProject(app core.App, id string) error {
	rec, err := app.FindRecordById("projects", id)
	if err != nil {
		return notFound("Projeto não encontrado")
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	log.Printf("projects: deleted %s", id)
	return nil
}

// Timeline returns the weekly breakdown of a project.
func Timeline(app core.App, cal *Calendar, id string) ([]Week, error) {
	rec, err := app.FindRecordById("projects", id)
	if err != nil {
		return nil, notFound("Projeto não encontrado")
	}
	return projectWeeks(cal, rec), nil
}

// GetAllocationTable returns the project weeks together with its allocations.
func GetAllocationTable(app core.App, cal *Calendar, id string) (AllocationTable, error) {
	weeks, err := Timeline(app, cal, id)
	if err != nil {
		return AllocationTable{}, err
	}
	allocs, err := LoadAllocations(app, id)
	if err != nil {
		return AllocationTable{}, err
	}
	return AllocationTable{Weeks: weeks, Allocations: allocs}, nil
}

// PriceProject runs CalculatePricing on the stored allocations of a project.
func PriceProject(app core.App, id string) (ProjectPricing, error) {
	p, err := GetProject(app, id)
	if err != nil {
		return ProjectPricing{}, err
	}
	pricing := CalculatePricing(p.TaxRate, p.Allocations)
	log.Printf("pricing: project %s cost=%.2f selling=%.2f final=%.2f margin=%.1f%%",
		id, pricing.TotalCost, pricing.TotalSelling, pricing.FinalPrice, pricing.FinalMarginPercent)
	return pricing, nil
}

func applyProjectInput(rec *core.Record, in ProjectInput, creating bool) error {
	if in.Name != nil {
		rec.Set("name", strings.TrimSpace(*in.Name))
	}
	if in.StartDate != nil {
		if in.StartDate.IsZero() {
			return invalid("Data de início é obrigatória")
		}
		rec.Set("start_date", in.StartDate.Time())
	}
	if in.DurationMonths != nil {
		if *in.DurationMonths < 1 {
			return invalid("Duração deve ser de pelo menos 1 mês")
		}
		rec.Set("duration_months", *in.DurationMonths)
	}
	if in.TaxRate != nil {
		if *in.TaxRate < 0 {
			return invalid("Taxa de impostos não pode ser negativa")
		}
		rec.Set("tax_rate", *in.TaxRate)
	}
	if in.MarginRate != nil {
		if *in.MarginRate < 0 {
			return invalid("Taxa de margem não pode ser negativa")
		}
		rec.Set("margin_rate", *in.MarginRate)
	}

	if rec.GetString("name") == "" {
		return invalid("Nome do projeto é obrigatório")
	}
	if creating {
		if in.StartDate == nil {
			return invalid("Data de início é obrigatória")
		}
		if in.DurationMonths == nil {
			return invalid("Duração é obrigatória")
		}
	}
	return nil
}
