package models

import (
	"encoding/json"
	"fmt"
)

// ItemRecord is the flat persisted shape of one cart entry.
type ItemRecord struct {
	ID           string   `json:"id"`
	Kind         ItemKind `json:"kind,omitempty"`
	CatalogID    string   `json:"catalogId,omitempty"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Quantity     int      `json:"quantity"`
	PetName      string   `json:"petName,omitempty"`
	PhoneNumber  string   `json:"phoneNumber,omitempty"`
	Color        string   `json:"color,omitempty"`
	Type         string   `json:"type,omitempty"`
	ImagePreview string   `json:"imagePreview,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// ToRecord flattens a cart item.
func ToRecord(item CartItem) ItemRecord {
	line := item.Base()
	rec := ItemRecord{
		ID:           line.ID,
		Kind:         item.Kind(),
		Name:         line.Name,
		Price:        line.Price,
		Quantity:     line.Quantity,
		ImagePreview: line.ImagePreview,
	}
	switch it := item.(type) {
	case *TemplateItem:
		rec.CatalogID = it.CatalogID
	case *CustomItem:
		rec.PetName = it.PetName
		rec.PhoneNumber = it.PhoneNumber
		rec.Color = it.Color
		rec.Type = it.Shape
	}
	return rec
}

// FromRecord rebuilds a cart item. Records written without a kind are
// classified by the template id convention.
func FromRecord(rec ItemRecord) (CartItem, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("cart record without id")
	}
	line := Line{
		ID:           rec.ID,
		Name:         rec.Name,
		Price:        rec.Price,
		Quantity:     1,
		ImagePreview: rec.ImagePreview,
	}
	if line.ImagePreview == "" {
		line.ImagePreview = rec.ImageURL
	}

	kind := rec.Kind
	if kind == "" {
		kind = KindCustom
		if IsTemplateID(rec.ID) || IsTemplateID(rec.CatalogID) {
			kind = KindTemplate
		}
	}

	switch kind {
	case KindTemplate:
		catalogID := rec.CatalogID
		if catalogID == "" {
			catalogID = rec.ID
		}
		return &TemplateItem{Line: line, CatalogID: catalogID}, nil
	case KindCustom:
		return &CustomItem{
			Line:        line,
			PetName:     rec.PetName,
			PhoneNumber: rec.PhoneNumber,
			Color:       rec.Color,
			Shape:       rec.Type,
		}, nil
	default:
		return nil, fmt.Errorf("cart record %s has unknown kind %q", rec.ID, rec.Kind)
	}
}

// EncodeCart serializes items as a JSON array of flat records.
func EncodeCart(items []CartItem) ([]byte, error) {
	records := make([]ItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, ToRecord(item))
	}
	return json.Marshal(records)
}

// DecodeCart parses a stored cart. Anything but a JSON array of records is
// an error; the caller decides how to recover.
func DecodeCart(data []byte) ([]CartItem, error) {
	var records []ItemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if records == nil {
		// JSON null
		return nil, fmt.Errorf("decode cart: not a sequence")
	}

	items := make([]CartItem, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		item, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("decode cart: %w", err)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("decode cart: duplicate id %s", rec.ID)
		}
		seen[rec.ID] = true
		items = append(items, item)
	}
	return items, nil
}
