package entity

import "time"

// Supplier proveedor de componentes; referenciado opcionalmente por los movimientos de entrada.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
