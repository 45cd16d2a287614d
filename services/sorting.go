package services

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField names a sort key accepted by the list views.
type SortField string

const (
	SortByName      SortField = "name"
	SortByStartDate SortField = "start_date"
	SortByCreated   SortField = "created_at"
	SortByCount     SortField = "count"
)

// ParseSort maps a "field" or "field_desc" / "-field" query value to a sort
// key and direction. Unknown fields sort by name.
func ParseSort(v string) (SortField, bool) {
	desc := false
	switch {
	case strings.HasPrefix(v, "-"):
		desc, v = true, v[1:]
	case strings.HasSuffix(v, "_desc"):
		desc, v = true, strings.TrimSuffix(v, "_desc")
	case strings.HasSuffix(v, "_asc"):
		v = strings.TrimSuffix(v, "_asc")
	}
	switch f := SortField(v); f {
	case SortByName, SortByStartDate, SortByCreated, SortByCount:
		return f, desc
	}
	return SortByName, desc
}

// newNameCollator orders names the way a pt-BR user expects: case and
// accents are ignored. A Collator is not safe for concurrent use, so each
// sort builds its own.
func newNameCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.Loose)
}

// SortProfessionals orders professionals by name, then PID.
func SortProfessionals(ps []Professional) {
	col := newNameCollator()
	slices.SortStableFunc(ps, func(a, b Professional) int {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.PID, b.PID)
	})
}

// SortProjects orders projects by field. Ties fall back to name and then id
// so the order is total; desc reverses the whole order.
func SortProjects(ps []Project, field SortField, desc bool) {
	col := newNameCollator()
	slices.SortStableFunc(ps, func(a, b Project) int {
		var c int
		switch field {
		case SortByStartDate:
			c = a.StartDate.Time().Compare(b.StartDate.Time())
		case SortByCreated:
			c = a.Created.Compare(b.Created)
		case SortByCount:
			c = cmp.Compare(a.AllocationCount, b.AllocationCount)
		}
		if c == 0 {
			c = col.CompareString(a.Name, b.Name)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}

// SortOffers orders offers by name or item count, with the same tie-break
// rules as SortProjects.
func SortOffers(offers []Offer, field SortField, desc bool) {
	col := newNameCollator()
	slices.SortStableFunc(offers, func(a, b Offer) int {
		var c int
		if field == SortByCount {
			c = cmp.Compare(len(a.Items), len(b.Items))
		}
		if c == 0 {
			c = col.CompareString(a.Name, b.Name)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}
