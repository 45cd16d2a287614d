package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// OfferItem is one staffing line of an offer.
type OfferItem struct {
	ID                   string        `json:"id"`
	OfferID              string        `json:"offer_id"`
	SortOrder            int           `json:"sort_order"`
	Role                 string        `json:"role"`
	Level                string        `json:"level"`
	Quantity             int           `json:"quantity"`
	AllocationPercentage float64       `json:"allocation_percentage"`
	ProfessionalID       string        `json:"professional_id,omitempty"`
	Professional         *Professional `json:"professional,omitempty"`
}

// Offer is a reusable bundle of staffing items. Offers are also served as
// "templates".
type Offer struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Items []OfferItem `json:"items"`
}

// OfferItemInput is the payload for a single offer item.
type OfferItemInput struct {
	Role                 string   `json:"role"`
	Level                string   `json:"level"`
	Quantity             int      `json:"quantity"`
	AllocationPercentage *float64 `json:"allocation_percentage"`
	ProfessionalID       string   `json:"professional_id"`
}

// OfferInput is the create / update payload. On update, a nil Items keeps
// the current items and a non-nil Items replaces them.
type OfferInput struct {
	Name  *string           `json:"name"`
	Items *[]OfferItemInput `json:"items"`
}

// ValidateOffer checks an offer before it is saved: the name must not be
// blank and there must be at least one item.
func ValidateOffer(name string, itemCount int) error {
	if strings.TrimSpace(name) == "" {
		return invalid("O nome da oferta é obrigatório")
	}
	if itemCount == 0 {
		return invalid("Adicione pelo menos um item à oferta")
	}
	return nil
}

// ListOffers returns offers with their items, ordered by q.Sort (name by
// default).
func ListOffers(app core.App, q ListQuery) (Page[Offer], error) {
	records, err := findAll(app, "offers", q)
	if err != nil {
		return Page[Offer]{}, err
	}
	offers := make([]Offer, 0, len(records))
	for _, r := range records {
		o, err := loadOffer(app, r)
		if err != nil {
			return Page[Offer]{}, err
		}
		offers = append(offers, o)
	}
	field, desc := ParseSort(q.Sort)
	SortOffers(offers, field, desc)
	return paginate(offers, q), nil
}

// GetOffer loads one offer with its items.
func GetOffer(app core.App, id string) (Offer, error) {
	rec, err := app.FindRecordById("offers", id)
	if err != nil {
		return Offer{}, notFound("Oferta não encontrada")
	}
	return loadOffer(app, rec)
}

func loadOffer(app core.App, rec *core.Record) (Offer, error) {
	o := Offer{ID: rec.Id, Name: rec.GetString("name")}
	items, err := ListOfferItems(app, rec.Id)
	if err != nil {
		return Offer{}, err
	}
	o.Items = items
	return o, nil
}

// ListOfferItems returns the items of an offer in sort order.
func ListOfferItems(app core.App, offerID string) ([]OfferItem, error) {
	records, err := app.FindRecordsByFilter("offer_items", "offer = {:offerId}", "sort_order", 0, 0,
		map[string]any{"offerId": offerID})
	if err != nil {
		return nil, fmt.Errorf("loading items of offer %s: %w", offerID, err)
	}
	items := make([]OfferItem, 0, len(records))
	for _, r := range records {
		item := OfferItem{
			ID:                   r.Id,
			OfferID:              offerID,
			SortOrder:            r.GetInt("sort_order"),
			Role:                 r.GetString("role"),
			Level:                r.GetString("level"),
			Quantity:             r.GetInt("quantity"),
			AllocationPercentage: r.GetFloat("allocation_percentage"),
			ProfessionalID:       r.GetString("professional"),
		}
		if item.ProfessionalID != "" {
			if prof, err := app.FindRecordById("professionals", item.ProfessionalID); err == nil {
				p := professionalFromRecord(prof)
				item.Professional = &p
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateOffer validates and stores an offer with its items.
func CreateOffer(app core.App, in OfferInput) (Offer, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	var items []OfferItemInput
	if in.Items != nil {
		items = *in.Items
	}
	if err := ValidateOffer(name, len(items)); err != nil {
		return Offer{}, err
	}
	if err := ensureUniqueOfferName(app, name, ""); err != nil {
		return Offer{}, err
	}

	var id string
	err := app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("offers")
		if err != nil {
			return fmt.Errorf("offers collection: %w", err)
		}
		rec := core.NewRecord(col)
		rec.Set("name", name)
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("saving offer: %w", err)
		}
		id = rec.Id
		return replaceOfferItems(txApp, rec.Id, items)
	})
	if err != nil {
		return Offer{}, err
	}

	log.Printf("offers: created %s with %d items", id, len(items))
	return GetOffer(app, id)
}

// UpdateOffer renames an offer and, when Items is given, replaces its items.
func UpdateOffer(app core.App, id string, in OfferInput) (Offer, error) {
	rec, err := app.FindRecordById("offers", id)
	if err != nil {
		return Offer{}, notFound("Oferta não encontrada")
	}

	name := rec.GetString("name")
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	var itemCount int
	if in.Items != nil {
		itemCount = len(*in.Items)
	} else {
		current, err := ListOfferItems(app, id)
		if err != nil {
			return Offer{}, err
		}
		itemCount = len(current)
	}
	if err := ValidateOffer(name, itemCount); err != nil {
		return Offer{}, err
	}
	if err := ensureUniqueOfferName(app, name, id); err != nil {
		return Offer{}, err
	}

	err = app.RunInTransaction(func(txApp core.App) error {
		rec.Set("name", name)
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("saving offer %s: %w", id, err)
		}
		if in.Items == nil {
			return nil
		}
		return replaceOfferItems(txApp, id, *in.Items)
	})
	if err != nil {
		return Offer{}, err
	}
	return GetOffer(app, id)
}

// DeleteOffer removes an offer; its items are cascade-deleted.
func DeleteOffer(app core.App, id string) error {
	rec, err := app.FindRecordById("offers", id)
	if err != nil {
		return notFound("Oferta não encontrada")
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("deleting offer %s: %w", id, err)
	}
	log.Printf("offers: deleted %s", id)
	return nil
}

// AddOfferItem appends an item to an offer.
func AddOfferItem(app core.App, offerID string, in OfferItemInput) (OfferItem, error) {
	if _, err := app.FindRecordById("offers", offerID); err != nil {
		return OfferItem{}, notFound("Oferta não encontrada")
	}
	current, err := ListOfferItems(app, offerID)
	if err != nil {
		return OfferItem{}, err
	}
	next := 1
	for _, it := range current {
		next = max(next, it.SortOrder+1)
	}

	col, err := app.FindCollectionByNameOrId("offer_items")
	if err != nil {
		return OfferItem{}, fmt.Errorf("offer_items collection: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("offer", offerID)
	rec.Set("sort_order", next)
	if err := applyOfferItemInput(app, rec, in); err != nil {
		return OfferItem{}, err
	}
	if err := app.Save(rec); err != nil {
		return OfferItem{}, fmt.Errorf("saving offer item: %w", err)
	}
	return findOfferItem(app, offerID, rec.Id)
}

// UpdateOfferItem replaces the fields of one item.
func UpdateOfferItem(app core.App, offerID, itemID string, in OfferItemInput) (OfferItem, error) {
	rec, err := app.FindRecordById("offer_items", itemID)
	if err != nil || rec.GetString("offer") != offerID {
		return OfferItem{}, notFound("Item não encontrado")
	}
	if err := applyOfferItemInput(app, rec, in); err != nil {
		return OfferItem{}, err
	}
	if err := app.Save(rec); err != nil {
		return OfferItem{}, fmt.Errorf("saving offer item %s: %w", itemID, err)
	}
	return findOfferItem(app, offerID, itemID)
}

// DeleteOfferItem removes one item. The last item of an offer cannot be
// removed.
func DeleteOfferItem(app core.App, offerID, itemID string) error {
	rec, err := app.FindRecordById("offer_items", itemID)
	if err != nil || rec.GetString("offer") != offerID {
		return notFound("Item não encontrado")
	}
	current, err := ListOfferItems(app, offerID)
	if err != nil {
		return err
	}
	if len(current) <= 1 {
		return invalid("Adicione pelo menos um item à oferta")
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("deleting offer item %s: %w", itemID, err)
	}
	return nil
}

func findOfferItem(app core.App, offerID, itemID string) (OfferItem, error) {
	items, err := ListOfferItems(app, offerID)
	if err != nil {
		return OfferItem{}, err
	}
	for _, it := range items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return OfferItem{}, notFound("Item não encontrado")
}

func replaceOfferItems(app core.App, offerID string, items []OfferItemInput) error {
	existing, err := app.FindRecordsByFilter("offer_items", "offer = {:offerId}", "", 0, 0,
		map[string]any{"offerId": offerID})
	if err != nil {
		return fmt.Errorf("loading items of offer %s: %w", offerID, err)
	}
	for _, r := range existing {
		if err := app.Delete(r); err != nil {
			return fmt.Errorf("deleting item %s: %w", r.Id, err)
		}
	}

	col, err := app.FindCollectionByNameOrId("offer_items")
	if err != nil {
		return fmt.Errorf("offer_items collection: %w", err)
	}
	for i, in := range items {
		rec := core.NewRecord(col)
		rec.Set("offer", offerID)
		rec.Set("sort_order", i+1)
		if err := applyOfferItemInput(app, rec, in); err != nil {
			if e, ok := err.(*Error); ok {
				e.Message = fmt.Sprintf("Item %d: %s", i+1, e.Message)
			}
			return err
		}
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("saving item %d of offer %s: %w", i+1, offerID, err)
		}
	}
	return nil
}

// applyOfferItemInput fills an item record. Role and level fall back to the
// linked professional's; quantity defaults to 1 and percentage to 100.
func applyOfferItemInput(app core.App, rec *core.Record, in OfferItemInput) error {
	role := strings.TrimSpace(in.Role)
	level := strings.TrimSpace(in.Level)

	profID := strings.TrimSpace(in.ProfessionalID)
	if profID != "" {
		prof, err := app.FindRecordById("professionals", profID)
		if err != nil {
			return notFound("Profissional não encontrado")
		}
		if role == "" {
			role = prof.GetString("role")
		}
		if level == "" {
			level = prof.GetString("level")
		}
	}
	if role == "" {
		return invalid("Função é obrigatória")
	}
	if level == "" {
		return invalid("Nível é obrigatório")
	}

	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return invalid("Quantidade deve ser pelo menos 1")
	}

	pct := 100.0
	if in.AllocationPercentage != nil {
		pct = *in.AllocationPercentage
	}
	if pct < 0 || pct > 100 {
		return invalid("Percentual de alocação deve estar entre 0 e 100")
	}

	rec.Set("role", role)
	rec.Set("level", level)
	rec.Set("quantity", qty)
	rec.Set("allocation_percentage", pct)
	rec.Set("professional", profID)
	return nil
}

func ensureUniqueOfferName(app core.App, name, selfID string) error {
	existing, err := app.FindFirstRecordByFilter("offers", "name = {:name}", map[string]any{"name": name})
	if err == nil && existing.Id != selfID {
		return conflict("Já existe uma oferta com o nome %q", name)
	}
	return nil
}
