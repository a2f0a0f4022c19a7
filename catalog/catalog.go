// Package catalog is the static, read-only product list of the shop.
package catalog

import (
	"github.com/YvonneBrian/ECommerce-Repawtly/models"
)

const (
	ShapeCircle = "circle"
	ShapeBone   = "bone"
	ShapeFish   = "fish"
)

var previews = map[string]string{
	ShapeCircle: "https://placehold.co/150x150/0ea5e9/ffffff?text=Circle+Tag",
	ShapeBone:   "https://placehold.co/150x150/f97316/ffffff?text=Bone+Tag",
	ShapeFish:   "https://placehold.co/150x150/4ade80/ffffff?text=Fish+Tag",
}

// PreviewFor returns the placeholder image of a tag shape, defaulting to
// the circle tag.
func PreviewFor(shape string) string {
	if url, ok := previews[shape]; ok {
		return url
	}
	return previews[ShapeCircle]
}

// Catalog is an immutable product list.
type Catalog struct {
	products []models.CatalogProduct
	byID     map[string]int
}

// New builds a catalog; later duplicates of an id are ignored.
func New(products []models.CatalogProduct) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(products))}
	for _, p := range products {
		if _, dup := c.byID[p.CatalogID]; dup {
			continue
		}
		c.byID[p.CatalogID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Default is the storefront's product range.
func Default() *Catalog {
	return New([]models.CatalogProduct{
		{
			CatalogID:    "circle-tag",
			Name:         "Classic Paw Tag",
			ShapeType:    ShapeCircle,
			DefaultColor: "#0ea5e9",
			Price:        199,
			Description:  "The most popular choice. Durable and stylish.",
			ImageURL:     PreviewFor(ShapeCircle),
		},
		{
			CatalogID:    "bone-tag",
			Name:         "Adventure Bone Tag",
			ShapeType:    ShapeBone,
			DefaultColor: "#f97316",
			Price:        249,
			Description:  "Perfect for dogs who love to explore and play.",
			ImageURL:     PreviewFor(ShapeBone),
		},
		{
			CatalogID:    "fish-tag",
			Name:         "Fin-Tastic Fish Tag",
			ShapeType:    ShapeFish,
			DefaultColor: "#4ade80",
			Price:        269,
			Description:  "A fun shape that is great for cats and water-loving pets.",
			ImageURL:     PreviewFor(ShapeFish),
		},
		{
			CatalogID:    "mock-1",
			Name:         "Classic Paw Tag",
			ShapeType:    ShapeCircle,
			DefaultColor: "#0ea5e9",
			Price:        19.99,
			ImageURL:     PreviewFor(ShapeCircle),
		},
		{
			CatalogID:    "mock-2",
			Name:         "Adventure Bone Tag",
			ShapeType:    ShapeBone,
			DefaultColor: "#fb923c",
			Price:        24.99,
			ImageURL:     PreviewFor(ShapeBone),
		},
	})
}

// Products returns a copy of every product in catalog order.
func (c *Catalog) Products() []models.CatalogProduct {
	return append([]models.CatalogProduct(nil), c.products...)
}

// ByID looks a product up by catalog id.
func (c *Catalog) ByID(id string) (models.CatalogProduct, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.CatalogProduct{}, false
	}
	return c.products[i], true
}

// ByShape returns the gallery product for a tag shape. Templates are skipped.
func (c *Catalog) ByShape(shape string) (models.CatalogProduct, bool) {
	for _, p := range c.products {
		if p.ShapeType == shape && !models.IsTemplateID(p.CatalogID) {
			return p, true
		}
	}
	return models.CatalogProduct{}, false
}

// Templates returns the quick-add template products.
func (c *Catalog) Templates() []models.CatalogProduct {
	var out []models.CatalogProduct
	for _, p := range c.products {
		if models.IsTemplateID(p.CatalogID) {
			out = append(out, p)
		}
	}
	return out
}
