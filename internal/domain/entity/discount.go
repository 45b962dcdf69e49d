package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType tipo de descuento.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage" // value en (0, 100)
	DiscountFixed      DiscountType = "fixed"      // value > 0, en moneda
)

// Valid indica si t es un tipo conocido.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// DiscountScope partición de los descuentos: a servidores o a componentes (excluyentes por registro).
type DiscountScope string

const (
	ScopeServers    DiscountScope = "servers"
	ScopeComponents DiscountScope = "components"
)

// Discount descuento aplicado sobre el precio de sus destinos. No guarda el precio original:
// la reversión recalcula con la fórmula inversa a partir del precio actual.
type Discount struct {
	ID        string
	Name      string
	Type      DiscountType
	Value     decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired indica si el descuento venció respecto a now.
func (d *Discount) Expired(now time.Time) bool {
	return d.EndDate.Before(now)
}

// ScopeOf deduce el alcance de una lista de destinos. ok=false si está vacía o mezcla servidores y componentes.
func ScopeOf(refs []TargetRef) (DiscountScope, bool) {
	if len(refs) == 0 {
		return "", false
	}
	servers := 0
	for _, r := range refs {
		if r.Type.IsServer() {
			servers++
		}
	}
	switch servers {
	case len(refs):
		return ScopeServers, true
	case 0:
		return ScopeComponents, true
	}
	return "", false
}
