package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPrice applies to any line item created without a price.
	DefaultPrice = 25.99

	// TemplatePrefix marks catalog ids of fixed template products.
	TemplatePrefix = "mock-"
)

// ItemKind discriminates the CartItem union.
type ItemKind string

const (
	KindTemplate ItemKind = "template"
	KindCustom   ItemKind = "custom"
)

// Line holds the fields every cart entry carries.
type Line struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	ImagePreview string  `json:"imagePreview,omitempty"`
}

// PriceOr returns the line price, or fallback when none was recorded.
func (l Line) PriceOr(fallback float64) float64 {
	if l.Price > 0 {
		return l.Price
	}
	return fallback
}

// CartItem is either a *TemplateItem or a *CustomItem.
type CartItem interface {
	Kind() ItemKind
	Base() *Line
	DisplayName() string
	Label() string
	clone() CartItem
}

// TemplateItem references a fixed catalog product.
type TemplateItem struct {
	Line
	CatalogID string `json:"catalogId"`
}

func (t *TemplateItem) Kind() ItemKind      { return KindTemplate }
func (t *TemplateItem) Base() *Line         { return &t.Line }
func (t *TemplateItem) DisplayName() string { return t.Name }
func (t *TemplateItem) Label() string       { return "Template" }
func (t *TemplateItem) clone() CartItem     { c := *t; return &c }

// CustomItem is a one-off design configured by the shopper.
type CustomItem struct {
	Line
	PetName     string `json:"petName"`
	PhoneNumber string `json:"phoneNumber"`
	Color       string `json:"color"`
	Shape       string `json:"type,omitempty"`
}

func (c *CustomItem) Kind() ItemKind { return KindCustom }
func (c *CustomItem) Base() *Line    { return &c.Line }
func (c *CustomItem) clone() CartItem {
	cp := *c
	return &cp
}

func (c *CustomItem) DisplayName() string {
	if c.PetName != "" {
		return c.PetName
	}
	return c.Name
}

func (c *CustomItem) Label() string {
	shape := c.Shape
	if shape == "" {
		shape = "circle"
	}
	r, size := utf8.DecodeRuneInString(shape)
	return "Custom Tag - " + strings.ToUpper(string(r)) + shape[size:]
}

// Clone returns an independent copy of item.
func Clone(item CartItem) CartItem {
	if item == nil {
		return nil
	}
	return item.clone()
}

// Candidate is an item offered to the cart before classification. Price is
// nil when the caller did not set one.
type Candidate struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        *float64 `json:"price,omitempty"`
	PetName      string   `json:"petName,omitempty"`
	PhoneNumber  string   `json:"phoneNumber,omitempty"`
	Color        string   `json:"color,omitempty"`
	Type         string   `json:"type,omitempty"`
	ImagePreview string   `json:"imagePreview,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// IsTemplate reports whether the candidate names a catalog template.
func (c Candidate) IsTemplate() bool {
	return IsTemplateID(c.ID)
}

// Preview returns the primary image, falling back to ImageURL.
func (c Candidate) Preview() string {
	if c.ImagePreview != "" {
		return c.ImagePreview
	}
	return c.ImageURL
}

// DisplayName mirrors CartItem.DisplayName for notifications.
func (c Candidate) DisplayName() string {
	if c.PetName != "" {
		return c.PetName
	}
	return c.Name
}

// IsTemplateID reports whether id follows the template catalog convention.
func IsTemplateID(id string) bool {
	return len(id) > len(TemplatePrefix) && strings.HasPrefix(id, TemplatePrefix)
}

// ItemPatch carries the fields of an update; nil fields are left unchanged.
type ItemPatch struct {
	ID           string   `json:"id"`
	Name         *string  `json:"name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	PetName      *string  `json:"petName,omitempty"`
	PhoneNumber  *string  `json:"phoneNumber,omitempty"`
	Color        *string  `json:"color,omitempty"`
	Type         *string  `json:"type,omitempty"`
	ImagePreview *string  `json:"imagePreview,omitempty"`
	ImageURL     *string  `json:"imageUrl,omitempty"`
}

// Apply merges the patch into item. The preview is re-normalized: an
// explicit preview wins, then ImageURL, then the existing preview.
func (p ItemPatch) Apply(item CartItem) error {
	line := item.Base()
	if p.Name != nil {
		line.Name = *p.Name
	}
	if p.Price != nil {
		line.Price = *p.Price
	}
	switch it := item.(type) {
	case *CustomItem:
		if p.PetName != nil {
			it.PetName = *p.PetName
		}
		if p.PhoneNumber != nil {
			it.PhoneNumber = *p.PhoneNumber
		}
		if p.Color != nil {
			it.Color = *p.Color
		}
		if p.Type != nil {
			it.Shape = *p.Type
		}
	case *TemplateItem:
		if p.PetName != nil || p.PhoneNumber != nil || p.Color != nil || p.Type != nil {
			return fmt.Errorf("template item %s has no custom fields", line.ID)
		}
	}
	switch {
	case p.ImagePreview != nil && *p.ImagePreview != "":
		line.ImagePreview = *p.ImagePreview
	case p.ImageURL != nil && *p.ImageURL != "":
		line.ImagePreview = *p.ImageURL
	}
	return nil
}
