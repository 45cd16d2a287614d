package services

import (
	"fmt"
	"log"
	"sort"

	"github.com/pocketbase/pocketbase/core"
)

// WeeklyAllocation is the hours booked for one professional in one project week.
type WeeklyAllocation struct {
	ID             string  `json:"id"`
	WeekNumber     int     `json:"week_number"`
	WeekStart      Date    `json:"week_start_date"`
	HoursAllocated float64 `json:"hours_allocated"`
	AvailableHours float64 `json:"available_hours"`
}

// Allocation links a professional to a project at frozen cost and selling rates.
type Allocation struct {
	ID                string             `json:"id"`
	ProjectID         string             `json:"project_id"`
	ProfessionalID    string             `json:"professional_id"`
	Professional      Professional       `json:"professional"`
	CostHourlyRate    float64            `json:"cost_hourly_rate"`
	SellingHourlyRate float64            `json:"selling_hourly_rate"`
	Weeks             []WeeklyAllocation `json:"weekly_allocations"`
}

// TotalHours sums the allocated hours across all weeks.
func (a Allocation) TotalHours() float64 {
	var sum float64
	for _, w := range a.Weeks {
		sum += w.HoursAllocated
	}
	return sum
}

// MarginPercent is the allocation margin at the current selling rate.
func (a Allocation) MarginPercent() float64 {
	return AllocationMarginPercent(a.CostHourlyRate, a.SellingHourlyRate)
}

// HoursForWeek returns the weekly row for week number n, if present.
func (a Allocation) HoursForWeek(n int) (WeeklyAllocation, bool) {
	for _, w := range a.Weeks {
		if w.WeekNumber == n {
			return w, true
		}
	}
	return WeeklyAllocation{}, false
}

// AllocationUpdate is one row of a bulk update: either a selling rate for an
// allocation or the hours of a weekly row.
type AllocationUpdate struct {
	AllocationID       string   `json:"allocation_id,omitempty"`
	SellingHourlyRate  *float64 `json:"selling_hourly_rate,omitempty"`
	WeeklyAllocationID string   `json:"weekly_allocation_id,omitempty"`
	HoursAllocated     *float64 `json:"hours_allocated,omitempty"`
}

// AddProfessionalResult describes a manual allocation.
type AddProfessionalResult struct {
	Message           string  `json:"message"`
	AllocationID      string  `json:"allocation_id"`
	ProfessionalName  string  `json:"professional_name"`
	SellingHourlyRate float64 `json:"selling_hourly_rate"`
	WeeksCreated      int     `json:"weeks_created"`
}

// ApplyOfferResult describes the allocations created from an offer.
type ApplyOfferResult struct {
	Message     string   `json:"message"`
	Allocations []string `json:"allocations"`
	WeeksCount  int      `json:"weeks_count"`
}

// LoadAllocations returns the allocations of a project with their
// professionals and weekly rows, ordered by professional name.
func LoadAllocations(app core.App, projectID string) ([]Allocation, error) {
	records, err := app.FindRecordsByFilter("project_allocations", "project = {:projectId}", "created", 0, 0,
		map[string]any{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("loading allocations for %s: %w", projectID, err)
	}

	out := make([]Allocation, 0, len(records))
	for _, rec := range records {
		a := Allocation{
			ID:                rec.Id,
			ProjectID:         projectID,
			ProfessionalID:    rec.GetString("professional"),
			CostHourlyRate:    rec.GetFloat("cost_hourly_rate"),
			SellingHourlyRate: rec.GetFloat("selling_hourly_rate"),
		}
		if prof, err := app.FindRecordById("professionals", a.ProfessionalID); err == nil {
			a.Professional = professionalFromRecord(prof)
		}

		weekly, err := app.FindRecordsByFilter("weekly_allocations", "allocation = {:id}", "week_number", 0, 0,
			map[string]any{"id": rec.Id})
		if err != nil {
			return nil, fmt.Errorf("loading weeks for allocation %s: %w", rec.Id, err)
		}
		a.Weeks = make([]WeeklyAllocation, 0, len(weekly))
		for _, w := range weekly {
			a.Weeks = append(a.Weeks, weeklyFromRecord(w))
		}
		out = append(out, a)
	}

	SortAllocations(out)
	return out, nil
}

func weeklyFromRecord(r *core.Record) WeeklyAllocation {
	return WeeklyAllocation{
		ID:             r.Id,
		WeekNumber:     r.GetInt("week_number"),
		WeekStart:      NewDate(r.GetDateTime("week_start").Time()),
		HoursAllocated: r.GetFloat("hours_allocated"),
		AvailableHours: r.GetFloat("available_hours"),
	}
}

// createAllocation stores an allocation with the professional's current cost
// frozen and one weekly row per week at pct percent of the available hours.
func createAllocation(app core.App, projectID string, prof *core.Record, selling, pct float64, weeks []Week) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId("project_allocations")
	if err != nil {
		return nil, fmt.Errorf("project_allocations collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("project", projectID)
	rec.Set("professional", prof.Id)
	rec.Set("cost_hourly_rate", prof.GetFloat("hourly_cost"))
	rec.Set("selling_hourly_rate", selling)
	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("saving allocation for %s: %w", prof.Id, err)
	}

	if err := createWeeklyRows(app, rec.Id, weeks, pct); err != nil {
		return nil, err
	}
	return rec, nil
}

func createWeeklyRows(app core.App, allocationID string, weeks []Week, pct float64) error {
	col, err := app.FindCollectionByNameOrId("weekly_allocations")
	if err != nil {
		return fmt.Errorf("weekly_allocations collection: %w", err)
	}
	for _, w := range weeks {
		hours := 0.0
		if pct > 0 {
			hours = w.AvailableHours * pct / 100
		}
		rec := core.NewRecord(col)
		rec.Set("allocation", allocationID)
		rec.Set("week_number", w.Number)
		rec.Set("week_start", w.Start)
		rec.Set("hours_allocated", hours)
		rec.Set("available_hours", w.AvailableHours)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("saving week %d of allocation %s: %w", w.Number, allocationID, err)
		}
	}
	return nil
}

// cloneAllocations copies every allocation of source into target, weekly
// rows included, keeping the frozen rates.
func cloneAllocations(app core.App, sourceID, targetID string) error {
	allocs, err := LoadAllocations(app, sourceID)
	if err != nil {
		return err
	}
	allocCol, err := app.FindCollectionByNameOrId("project_allocations")
	if err != nil {
		return fmt.Errorf("project_allocations collection: %w", err)
	}
	weekCol, err := app.FindCollectionByNameOrId("weekly_allocations")
	if err != nil {
		return fmt.Errorf("weekly_allocations collection: %w", err)
	}

	for _, a := range allocs {
		rec := core.NewRecord(allocCol)
		rec.Set("project", targetID)
		rec.Set("professional", a.ProfessionalID)
		rec.Set("cost_hourly_rate", a.CostHourlyRate)
		rec.Set("selling_hourly_rate", a.SellingHourlyRate)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("cloning allocation %s: %w", a.ID, err)
		}
		for _, w := range a.Weeks {
			wr := core.NewRecord(weekCol)
			wr.Set("allocation", rec.Id)
			wr.Set("week_number", w.WeekNumber)
			wr.Set("week_start", w.WeekStart.Time())
			wr.Set("hours_allocated", w.HoursAllocated)
			wr.Set("available_hours", w.AvailableHours)
			if err := app.Save(wr); err != nil {
				return fmt.Errorf("cloning week %d of allocation %s: %w", w.WeekNumber, a.ID, err)
			}
		}
	}
	return nil
}

// SyncProjectWeeks realigns every allocation of the project with its current
// timeline: common weeks get the new available hours, weeks past the end are
// deleted and new weeks are added with zero hours. It returns the number of
// weeks in the timeline.
func SyncProjectWeeks(app core.App, cal *Calendar, project *core.Record) (int, error) {
	weeks := cal.WeeklyBreakdown(project.GetDateTime("start_date").Time(), project.GetInt("duration_months"))
	byNumber := make(map[int]Week, len(weeks))
	for _, w := range weeks {
		byNumber[w.Number] = w
	}

	allocs, err := app.FindRecordsByFilter("project_allocations", "project = {:projectId}", "", 0, 0,
		map[string]any{"projectId": project.Id})
	if err != nil {
		return 0, fmt.Errorf("loading allocations for sync: %w", err)
	}

	for _, alloc := range allocs {
		existing, err := app.FindRecordsByFilter("weekly_allocations", "allocation = {:id}", "", 0, 0,
			map[string]any{"id": alloc.Id})
		if err != nil {
			return 0, fmt.Errorf("loading weeks for allocation %s: %w", alloc.Id, err)
		}

		seen := make(map[int]bool, len(existing))
		for _, wr := range existing {
			n := wr.GetInt("week_number")
			w, ok := byNumber[n]
			if !ok {
				if err := app.Delete(wr); err != nil {
					return 0, fmt.Errorf("deleting week %d of allocation %s: %w", n, alloc.Id, err)
				}
				continue
			}
			seen[n] = true
			wr.Set("available_hours", w.AvailableHours)
			wr.Set("week_start", w.Start)
			if err := app.Save(wr); err != nil {
				return 0, fmt.Errorf("updating week %d of allocation %s: %w", n, alloc.Id, err)
			}
		}

		var added []Week
		for _, w := range weeks {
			if !seen[w.Number] {
				added = append(added, w)
			}
		}
		if err := createWeeklyRows(app, alloc.Id, added, 0); err != nil {
			return 0, err
		}
	}

	return len(weeks), nil
}

// AddProfessional allocates a professional to every week of the project at
// 100% of the available hours. A nil or non-positive selling rate is derived
// from the project margin.
func AddProfessional(app core.App, cal *Calendar, projectID, professionalID string, selling *float64) (AddProfessionalResult, error) {
	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return AddProfessionalResult{}, notFound("Projeto não encontrado")
	}
	prof, err := app.FindRecordById("professionals", professionalID)
	if err != nil {
		return AddProfessionalResult{}, notFound("Profissional não encontrado")
	}
	if allocated, err := isAllocated(app, projectID, professionalID); err != nil {
		return AddProfessionalResult{}, err
	} else if allocated {
		return AddProfessionalResult{}, conflict("%s já está alocado neste projeto", prof.GetString("name"))
	}

	rate := SellingRate(prof.GetFloat("hourly_cost"), project.GetFloat("margin_rate"), selling)
	weeks := projectWeeks(cal, project)

	var allocID string
	err = app.RunInTransaction(func(txApp core.App) error {
		rec, err := createAllocation(txApp, projectID, prof, rate, 100, weeks)
		if err != nil {
			return err
		}
		allocID = rec.Id
		return nil
	})
	if err != nil {
		return AddProfessionalResult{}, err
	}

	log.Printf("allocations: added professional %s to project %s (%d weeks)", professionalID, projectID, len(weeks))
	return AddProfessionalResult{
		Message:           "Profissional adicionado ao projeto",
		AllocationID:      allocID,
		ProfessionalName:  prof.GetString("name"),
		SellingHourlyRate: rate,
		WeeksCreated:      len(weeks),
	}, nil
}

// ApplyOffer allocates each offer item's professional at the item's
// percentage. Items without a professional and professionals already on the
// project are skipped.
func ApplyOffer(app core.App, cal *Calendar, projectID, offerID string) (ApplyOfferResult, error) {
	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return ApplyOfferResult{}, notFound("Projeto não encontrado")
	}
	offer, err := GetOffer(app, offerID)
	if err != nil {
		return ApplyOfferResult{}, err
	}

	weeks := projectWeeks(cal, project)
	added := []string{}

	err = app.RunInTransaction(func(txApp core.App) error {
		for _, item := range offer.Items {
			if item.ProfessionalID == "" {
				continue
			}
			prof, err := txApp.FindRecordById("professionals", item.ProfessionalID)
			if err != nil {
				log.Printf("allocations: professional %s of offer item %s not found", item.ProfessionalID, item.ID)
				continue
			}
			allocated, err := isAllocated(txApp, projectID, prof.Id)
			if err != nil {
				return err
			}
			if allocated {
				continue
			}
			rate := SellingRate(prof.GetFloat("hourly_cost"), project.GetFloat("margin_rate"), nil)
			if _, err := createAllocation(txApp, projectID, prof, rate, item.AllocationPercentage, weeks); err != nil {
				return err
			}
			added = append(added, prof.GetString("name"))
		}
		return nil
	})
	if err != nil {
		return ApplyOfferResult{}, err
	}

	log.Printf("allocations: applied offer %s to project %s (%d added, %d weeks)", offerID, projectID, len(added), len(weeks))
	return ApplyOfferResult{
		Message:     "Oferta aplicada",
		Allocations: added,
		WeeksCount:  len(weeks),
	}, nil
}

// RemoveAllocation deletes an allocation of the project; its weekly rows go
// with it. It returns the professional's name.
func RemoveAllocation(app core.App, projectID, allocationID string) (string, error) {
	rec, err := app.FindRecordById("project_allocations", allocationID)
	if err != nil || rec.GetString("project") != projectID {
		return "", notFound("Alocação não encontrada")
	}
	name := ""
	if prof, err := app.FindRecordById("professionals", rec.GetString("professional")); err == nil {
		name = prof.GetString("name")
	}
	if err := app.Delete(rec); err != nil {
		return "", fmt.Errorf("deleting allocation %s: %w", allocationID, err)
	}
	log.Printf("allocations: removed %s (%s) from project %s", allocationID, name, projectID)
	return name, nil
}

// UpdateAllocations applies a bulk update in one transaction. Any invalid row
// aborts the whole update.
func UpdateAllocations(app core.App, projectID string, updates []AllocationUpdate) (int, error) {
	if _, err := app.FindRecordById("projects", projectID); err != nil {
		return 0, notFound("Projeto não encontrado")
	}

	updated := 0
	err := app.RunInTransaction(func(txApp core.App) error {
		for _, u := range updates {
			if u.AllocationID != "" {
				alloc, err := txApp.FindRecordById("project_allocations", u.AllocationID)
				if err != nil || alloc.GetString("project") != projectID {
					return notFound("Alocação não encontrada")
				}
				if u.SellingHourlyRate == nil {
					return invalid("selling_hourly_rate é obrigatório para atualizar alocações")
				}
				if !isFinite(*u.SellingHourlyRate) {
					return invalid("Taxa de venda inválida")
				}
				if *u.SellingHourlyRate < 0 {
					return invalid("Taxa de venda não pode ser negativa")
				}
				alloc.Set("selling_hourly_rate", *u.SellingHourlyRate)
				if err := txApp.Save(alloc); err != nil {
					return fmt.Errorf("saving allocation %s: %w", alloc.Id, err)
				}
				updated++
			}

			if u.WeeklyAllocationID != "" {
				weekly, err := txApp.FindRecordById("weekly_allocations", u.WeeklyAllocationID)
				if err != nil {
					return notFound("Alocação semanal não encontrada")
				}
				alloc, err := txApp.FindRecordById("project_allocations", weekly.GetString("allocation"))
				if err != nil || alloc.GetString("project") != projectID {
					return notFound("Alocação semanal não encontrada")
				}
				if u.HoursAllocated == nil {
					return invalid("hours_allocated é obrigatório para atualizar alocações semanais")
				}
				hours := *u.HoursAllocated
				available := weekly.GetFloat("available_hours")
				if !isFinite(hours) {
					return invalid("Horas inválidas (semana %d)", weekly.GetInt("week_number"))
				}
				if hours < 0 {
					return invalid("Horas não podem ser negativas (semana %d)", weekly.GetInt("week_number"))
				}
				if hours > available {
					return invalid("Horas (%g) excedem as horas disponíveis (%g) para a semana %d",
						hours, available, weekly.GetInt("week_number"))
				}
				weekly.Set("hours_allocated", hours)
				if err := txApp.Save(weekly); err != nil {
					return fmt.Errorf("saving weekly allocation %s: %w", weekly.Id, err)
				}
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("allocations: updated %d items in project %s", updated, projectID)
	return updated, nil
}

func isAllocated(app core.App, projectID, professionalID string) (bool, error) {
	existing, err := app.FindRecordsByFilter("project_allocations",
		"project = {:projectId} && professional = {:professionalId}", "", 1, 0,
		map[string]any{"projectId": projectID, "professionalId": professionalID})
	if err != nil {
		return false, fmt.Errorf("checking allocation: %w", err)
	}
	return len(existing) > 0, nil
}

func projectWeeks(cal *Calendar, project *core.Record) []Week {
	return cal.WeeklyBreakdown(project.GetDateTime("start_date").Time(), project.GetInt("duration_months"))
}

// SortAllocations orders allocations by professional name, then id.
func SortAllocations(allocs []Allocation) {
	col := newNameCollator()
	sort.SliceStable(allocs, func(i, j int) bool {
		c := col.CompareString(allocs[i].Professional.Name, allocs[j].Professional.Name)
		if c != 0 {
			return c < 0
		}
		return allocs[i].ID < allocs[j].ID
	})
}
