// Package pricing contiene las fórmulas de descuento (servicio de dominio puro, sin estado).
//
// La reversión no usa un precio guardado: es la inversa algebraica aplicada al precio actual.
// Si el precio se editó a mano entre Apply y Revert, el resultado no será el original.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Apply precio con descuento:
//
//	percentage: precio - precio * (valor/100)
//	fixed:      precio - valor
//
// El resultado nunca es negativo.
func Apply(price decimal.Decimal, t entity.DiscountType, value decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch t {
	case entity.DiscountPercentage:
		out = price.Sub(price.Mul(value).Div(hundred))
	case entity.DiscountFixed:
		out = price.Sub(value)
	default:
		return price
	}
	return floorZero(out)
}

// Revert reconstruye el precio previo al descuento a partir del precio actual:
//
//	percentage: precio / (1 - valor/100)
//	fixed:      precio + valor
func Revert(price decimal.Decimal, t entity.DiscountType, value decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch t {
	case entity.DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(value.Div(hundred))
		if !factor.IsPositive() {
			return price
		}
		out = price.Div(factor)
	case entity.DiscountFixed:
		out = price.Add(value)
	default:
		return price
	}
	return floorZero(out)
}

// PriceScale decimales con los que se persisten los precios (NUMERIC(18,6)).
// Un precio de 2 decimales con un porcentaje de 2 decimales cabe exacto.
const PriceScale int32 = 6

// RoundPrice redondeo con el que se persisten los precios.
func RoundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(PriceScale)
}

// DisplayPrice precio a 2 decimales para respuestas y reportes.
func DisplayPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(2)
}

// Reversible indica si aplicar y luego revertir el descuento sobre price, con el redondeo
// de persistencia en cada paso, devuelve el mismo precio a 2 decimales.
func Reversible(price decimal.Decimal, t entity.DiscountType, value decimal.Decimal) bool {
	applied := RoundPrice(Apply(price, t, value))
	if price.IsPositive() && !applied.IsPositive() {
		return false
	}
	back := RoundPrice(Revert(applied, t, value))
	return DisplayPrice(back).Equal(DisplayPrice(price))
}

// ExceedsPrice indica si un descuento fijo deja el precio en cero o menos.
func ExceedsPrice(price decimal.Decimal, t entity.DiscountType, value decimal.Decimal) bool {
	return t == entity.DiscountFixed && value.GreaterThanOrEqual(price)
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
