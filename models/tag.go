package models

// SavedTag is a custom tag design kept for later.
type SavedTag struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
	PetName     string  `json:"petName" validate:"required,max=40"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,max=20"`
	Type        string  `json:"type" validate:"omitempty,oneof=circle bone fish"`
	Price       float64 `json:"price,omitempty" validate:"gte=0"`
}
