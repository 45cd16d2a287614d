package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"staffpricing/collections"
)

// Professional is a person (or open vacancy) that can be allocated to projects.
type Professional struct {
	ID         string  `json:"id"`
	PID        string  `json:"pid"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Level      string  `json:"level"`
	IsVacancy  bool    `json:"is_vacancy"`
	HourlyCost float64 `json:"hourly_cost"`
}

// ProfessionalInput is the create / partial-update payload. Nil fields are
// left untouched on update.
type ProfessionalInput struct {
	PID        *string  `json:"pid"`
	Name       *string  `json:"name"`
	Role       *string  `json:"role"`
	Level      *string  `json:"level"`
	IsVacancy  *bool    `json:"is_vacancy"`
	HourlyCost *float64 `json:"hourly_cost"`
}

func professionalFromRecord(r *core.Record) Professional {
	return Professional{
		ID:         r.Id,
		PID:        r.GetString("pid"),
		Name:       r.GetString("name"),
		Role:       r.GetString("role"),
		Level:      r.GetString("level"),
		IsVacancy:  r.GetBool("is_vacancy"),
		HourlyCost: r.GetFloat("hourly_cost"),
	}
}

// ListProfessionals returns professionals sorted by name (case-insensitive),
// optionally filtered by a name search.
func ListProfessionals(app core.App, q ListQuery) (Page[Professional], error) {
	records, err := findAll(app, "professionals", q)
	if err != nil {
		return Page[Professional]{}, err
	}

	profs := make([]Professional, 0, len(records))
	for _, r := range records {
		profs = append(profs, professionalFromRecord(r))
	}
	SortProfessionals(profs)
	return paginate(profs, q), nil
}

// GetProfessional loads a single professional.
func GetProfessional(app core.App, id string) (Professional, error) {
	rec, err := app.FindRecordById("professionals", id)
	if err != nil {
		return Professional{}, notFound("Profissional não encontrado")
	}
	return professionalFromRecord(rec), nil
}

// CreateProfessional validates and stores a new professional. A PID is
// generated when none is given.
func CreateProfessional(app core.App, in ProfessionalInput) (Professional, error) {
	col, err := app.FindCollectionByNameOrId("professionals")
	if err != nil {
		return Professional{}, fmt.Errorf("professionals collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("is_vacancy", false)
	rec.Set("hourly_cost", 0)
	if err := applyProfessionalInput(app, rec, in, true); err != nil {
		return Professional{}, err
	}
	if err := app.Save(rec); err != nil {
		return Professional{}, fmt.Errorf("saving professional: %w", err)
	}

	log.Printf("professionals: created %s (%s)", rec.Id, rec.GetString("pid"))
	return professionalFromRecord(rec), nil
}

// UpdateProfessional applies the non-nil fields of in.
func UpdateProfessional(app core.App, id string, in ProfessionalInput) (Professional, error) {
	rec, err := app.FindRecordById("professionals", id)
	if err != nil {
		return Professional{}, notFound("Profissional não encontrado")
	}
	if err := applyProfessionalInput(app, rec, in, false); err != nil {
		return Professional{}, err
	}
	if err := app.Save(rec); err != nil {
		return Professional{}, fmt.Errorf("saving professional %s: %w", id, err)
	}
	return professionalFromRecord(rec), nil
}

// DeleteProfessional removes a professional that is not allocated to any project.
func DeleteProfessional(app core.App, id string) error {
	rec, err := app.FindRecordById("professionals", id)
	if err != nil {
		return notFound("Profissional não encontrado")
	}

	allocs, err := app.FindRecordsByFilter("project_allocations", "professional = {:id}", "", 1, 0,
		map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("checking allocations for %s: %w", id, err)
	}
	if len(allocs) > 0 {
		return conflict("Não é possível excluir este profissional pois ele está alocado em projetos.")
	}

	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("deleting professional %s: %w", id, err)
	}
	log.Printf("professionals: deleted %s", id)
	return nil
}

func applyProfessionalInput(app core.App, rec *core.Record, in ProfessionalInput, creating bool) error {
	if in.Name != nil {
		rec.Set("name", strings.TrimSpace(*in.Name))
	}
	if in.Role != nil {
		rec.Set("role", strings.TrimSpace(*in.Role))
	}
	if in.Level != nil {
		rec.Set("level", strings.TrimSpace(*in.Level))
	}
	if in.IsVacancy != nil {
		rec.Set("is_vacancy", *in.IsVacancy)
	}
	if in.HourlyCost != nil {
		if *in.HourlyCost < 0 {
			return invalid("Custo horário não pode ser negativo")
		}
		rec.Set("hourly_cost", *in.HourlyCost)
	}

	pid := rec.GetString("pid")
	if in.PID != nil {
		pid = strings.TrimSpace(*in.PID)
	}
	if pid == "" && creating {
		pid = collections.NewPID()
	}
	if pid == "" {
		return invalid("PID é obrigatório")
	}
	if pid != rec.GetString("pid") {
		existing, err := app.FindFirstRecordByData("professionals", "pid", pid)
		if err == nil && existing.Id != rec.Id {
			return conflict("Já existe um profissional com o PID %s", pid)
		}
		rec.Set("pid", pid)
	}

	switch {
	case rec.GetString("name") == "":
		return invalid("Nome é obrigatório")
	case rec.GetString("role") == "":
		return invalid("Função é obrigatória")
	case rec.GetString("level") == "":
		return invalid("Nível é obrigatório")
	}
	return nil
}

func findAll(app core.App, collection string, q ListQuery) ([]*core.Record, error) {
	filter, params := searchParams(q)
	if filter == "" {
		records, err := app.FindAllRecords(collection)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", collection, err)
		}
		return records, nil
	}
	records, err := app.FindRecordsByFilter(collection, filter, "", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", collection, err)
	}
	return records, nil
}
