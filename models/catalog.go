package models

// CatalogProduct is a read-only product the shop sells.
type CatalogProduct struct {
	CatalogID    string  `json:"catalogId"`
	Name         string  `json:"name"`
	ShapeType    string  `json:"shapeType"`
	DefaultColor string  `json:"defaultColor"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"imageUrl,omitempty"`
}
