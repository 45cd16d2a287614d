package services

import (
	"errors"
	"testing"

	"staffpricing/testhelpers"
)

func TestValidateOffer(t *testing.T) {
	tests := []struct {
		name  string
		offer string
		items int
		want  string
	}{
		{"valid", "Squad", 1, ""},
		{"blank name", "   ", 2, "O nome da oferta é obrigatório"},
		{"no items", "Squad", 0, "Adicione pelo menos um item à oferta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOffer(tt.offer, tt.items)
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCreateOffer_WithItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 80)

	items := []OfferItemInput{
		{ProfessionalID: prof.Id, AllocationPercentage: ptr(50)},
		{Role: "QA", Level: "Pleno", Quantity: 2},
	}
	o, err := CreateOffer(app, OfferInput{Name: strp("Squad"), Items: &items})
	if err != nil {
		t.Fatalf("CreateOffer() error = %v", err)
	}
	if len(o.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(o.Items))
	}

	first := o.Items[0]
	if first.Role != "Desenvolvedor" || first.Level != "Pleno" {
		t.Errorf("role/level should come from the professional, got %s/%s", first.Role, first.Level)
	}
	if first.AllocationPercentage != 50 || first.Quantity != 1 || first.Professional == nil {
		t.Errorf("first item = %+v", first)
	}
	second := o.Items[1]
	if second.AllocationPercentage != 100 || second.Quantity != 2 || second.ProfessionalID != "" {
		t.Errorf("second item = %+v", second)
	}
}

func TestCreateOffer_Rejects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestOffer(t, app, "Existente", 100, testhelpers.CreateTestProfessional(t, app, "Ana", 10).Id)
	one := []OfferItemInput{{Role: "Dev", Level: "Jr"}}
	none := []OfferItemInput{}
	badPct := []OfferItemInput{{Role: "Dev", Level: "Jr", AllocationPercentage: ptr(150)}}

	tests := []struct {
		name string
		in   OfferInput
		kind error
	}{
		{"no name", OfferInput{Items: &one}, ErrInvalid},
		{"no items", OfferInput{Name: strp("Nova"), Items: &none}, ErrInvalid},
		{"duplicate name", OfferInput{Name: strp("Existente"), Items: &one}, ErrConflict},
		{"percentage out of range", OfferInput{Name: strp("Nova"), Items: &badPct}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CreateOffer(app, tt.in); !errors.Is(err, tt.kind) {
				t.Errorf("CreateOffer() error = %v, want %v", err, tt.kind)
			}
		})
	}

	page, _ := ListOffers(app, ListQuery{})
	if page.Total != 1 {
		t.Errorf("failed creates left %d offers, want 1", page.Total)
	}
}

func TestUpdateOffer_ReplacesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	a := testhelpers.CreateTestProfessional(t, app, "Ana", 10)
	b := testhelpers.CreateTestProfessional(t, app, "Bia", 10)
	rec := testhelpers.CreateTestOffer(t, app, "Squad", 100, a.Id, b.Id)

	o, err := UpdateOffer(app, rec.Id, OfferInput{Name: strp("Squad 2")})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if o.Name != "Squad 2" || len(o.Items) != 2 {
		t.Errorf("rename kept items? %+v", o)
	}

	items := []OfferItemInput{{Role: "Arquiteto", Level: "Sênior"}}
	o, err = UpdateOffer(app, rec.Id, OfferInput{Items: &items})
	if err != nil {
		t.Fatalf("replace items: %v", err)
	}
	if len(o.Items) != 1 || o.Items[0].Role != "Arquiteto" {
		t.Errorf("items = %+v", o.Items)
	}

	empty := []OfferItemInput{}
	if _, err := UpdateOffer(app, rec.Id, OfferInput{Items: &empty}); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty items error = %v", err)
	}
}

func TestOfferItems_AddUpdateDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 10)
	rec := testhelpers.CreateTestOffer(t, app, "Squad", 100, prof.Id)

	added, err := AddOfferItem(app, rec.Id, OfferItemInput{Role: "QA", Level: "Júnior", AllocationPercentage: ptr(25)})
	if err != nil {
		t.Fatalf("AddOfferItem() error = %v", err)
	}
	if added.SortOrder != 2 || added.AllocationPercentage != 25 {
		t.Errorf("added = %+v", added)
	}

	updated, err := UpdateOfferItem(app, rec.Id, added.ID, OfferItemInput{Role: "QA", Level: "Pleno", Quantity: 3})
	if err != nil {
		t.Fatalf("UpdateOfferItem() error = %v", err)
	}
	if updated.Level != "Pleno" || updated.Quantity != 3 || updated.AllocationPercentage != 100 {
		t.Errorf("updated = %+v", updated)
	}

	if err := DeleteOfferItem(app, rec.Id, added.ID); err != nil {
		t.Fatalf("DeleteOfferItem() error = %v", err)
	}
	items, _ := ListOfferItems(app, rec.Id)
	if len(items) != 1 {
		t.Fatalf("items after delete = %d", len(items))
	}
	if err := DeleteOfferItem(app, rec.Id, items[0].ID); !errors.Is(err, ErrInvalid) {
		t.Errorf("deleting last item error = %v, want invalid", err)
	}
	if err := DeleteOfferItem(app, "other", items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("item of another offer error = %v, want not found", err)
	}
}

func TestDeleteOffer_CascadesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	prof := testhelpers.CreateTestProfessional(t, app, "Ana", 10)
	rec := testhelpers.CreateTestOffer(t, app, "Squad", 100, prof.Id)

	if err := DeleteOffer(app, rec.Id); err != nil {
		t.Fatalf("DeleteOffer() error = %v", err)
	}
	items, _ := app.FindAllRecords("offer_items")
	if len(items) != 0 {
		t.Errorf("offer_items left = %d", len(items))
	}
	if _, err := GetOffer(app, rec.Id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetOffer after delete error = %v", err)
	}
}
