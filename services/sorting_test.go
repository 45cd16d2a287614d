package services

import (
	"testing"
	"time"
)

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in       string
		field    SortField
		wantDesc bool
	}{
		{"", SortByName, false},
		{"name", SortByName, false},
		{"-name", SortByName, true},
		{"start_date_desc", SortByStartDate, true},
		{"start_date_asc", SortByStartDate, false},
		{"created_at", SortByCreated, false},
		{"-count", SortByCount, true},
		{"bogus", SortByName, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, desc := ParseSort(tt.in)
			if f != tt.field || desc != tt.wantDesc {
				t.Errorf("ParseSort(%q) = (%q, %v), want (%q, %v)", tt.in, f, desc, tt.field, tt.wantDesc)
			}
		})
	}
}

func TestSortProfessionals_CaseAndAccentInsensitive(t *testing.T) {
	ps := []Professional{
		{PID: "P-3", Name: "carlos"},
		{PID: "P-2", Name: "Álvaro"},
		{PID: "P-1", Name: "Bruna"},
		{PID: "P-0", Name: "alice"},
	}
	SortProfessionals(ps)
	got := names(ps, func(p Professional) string { return p.Name })
	want := []string{"alice", "Álvaro", "Bruna", "carlos"}
	if !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortProfessionals_TieBreakOnPID(t *testing.T) {
	ps := []Professional{{PID: "P-2", Name: "Ana"}, {PID: "P-1", Name: "ana"}}
	SortProfessionals(ps)
	if ps[0].PID != "P-1" {
		t.Errorf("first = %s, want P-1", ps[0].PID)
	}
}

func TestSortProjects(t *testing.T) {
	day := func(d int) Date { return NewDate(time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)) }
	base := func() []Project {
		return []Project{
			{ID: "1", Name: "Beta", StartDate: day(10), Created: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
			{ID: "2", Name: "alpha", StartDate: day(20), Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "3", Name: "Gama", StartDate: day(10), Created: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), AllocationCount: 2},
		}
	}
	name := func(p Project) string { return p.Name }

	tests := []struct {
		field SortField
		desc  bool
		want  []string
	}{
		{SortByName, false, []string{"alpha", "Beta", "Gama"}},
		{SortByName, true, []string{"Gama", "Beta", "alpha"}},
		{SortByStartDate, false, []string{"Beta", "Gama", "alpha"}},
		{SortByStartDate, true, []string{"alpha", "Gama", "Beta"}},
		{SortByCreated, false, []string{"alpha", "Gama", "Beta"}},
		{SortByCount, true, []string{"Gama", "Beta", "alpha"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			ps := base()
			SortProjects(ps, tt.field, tt.desc)
			if got := names(ps, name); !equalStrings(got, tt.want) {
				t.Errorf("SortProjects(%s, desc=%v) = %v, want %v", tt.field, tt.desc, got, tt.want)
			}
		})
	}
}

func TestSortProjects_TotalOrderOnDuplicates(t *testing.T) {
	ps := []Project{{ID: "b", Name: "Same"}, {ID: "a", Name: "Same"}}
	SortProjects(ps, SortByName, false)
	if ps[0].ID != "a" {
		t.Errorf("first id = %s, want a", ps[0].ID)
	}
	SortProjects(ps, SortByName, true)
	if ps[0].ID != "b" {
		t.Errorf("desc first id = %s, want b", ps[0].ID)
	}
}

func TestSortOffers(t *testing.T) {
	offers := []Offer{
		{ID: "1", Name: "Squad", Items: make([]OfferItem, 4)},
		{ID: "2", Name: "discovery", Items: make([]OfferItem, 2)},
		{ID: "3", Name: "Básico", Items: make([]OfferItem, 1)},
	}
	name := func(o Offer) string { return o.Name }

	SortOffers(offers, SortByName, false)
	if got := names(offers, name); !equalStrings(got, []string{"Básico", "discovery", "Squad"}) {
		t.Errorf("by name = %v", got)
	}
	SortOffers(offers, SortByCount, true)
	if got := names(offers, name); !equalStrings(got, []string{"Squad", "discovery", "Básico"}) {
		t.Errorf("by count desc = %v", got)
	}
}
