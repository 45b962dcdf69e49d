package entity

import "time"

// Customer cliente del catálogo.
type Customer struct {
	ID        string
	Name      string
	TaxID     string // NIT o documento
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
