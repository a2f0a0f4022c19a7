package models

// User is the authenticated shopper.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// Profile is the three-step registration form.
type Profile struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	PetName    string `json:"petName" validate:"required"`
	PetBreed   string `json:"petBreed" validate:"required"`
	PetDob     string `json:"petDob" validate:"required,datetime=2006-01-02"`
	IsChipped  bool   `json:"isChipped"`
	VetContact string `json:"vetContact,omitempty"`
}
