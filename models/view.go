package models

import "fmt"

// View identifies the page the storefront is currently showing.
type View string

const (
	ViewHome     View = "home"
	ViewProducts View = "products"
	ViewCheckout View = "checkout"
	ViewCart     View = "cart"
	ViewContact  View = "contact"
	ViewLogin    View = "login"
	ViewRegister View = "register"
)

// Views lists every view in navigation-bar order.
var Views = []View{ViewHome, ViewProducts, ViewCheckout, ViewCart, ViewContact, ViewLogin, ViewRegister}

// ParseView converts a raw identifier into a View.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Protected reports whether the view needs an authenticated user.
func (v View) Protected() bool {
	return v == ViewCheckout
}
