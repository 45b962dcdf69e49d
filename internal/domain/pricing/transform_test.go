package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/pricing"
)

var tolerance = decimal.RequireFromString("0.000001")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertNear(t *testing.T, want, got decimal.Decimal, context string) {
	t.Helper()
	diff := want.Sub(got).Abs()
	assert.Truef(t, diff.LessThanOrEqual(tolerance), "esperado %s, obtenido %s (%s)", want, got, context)
}

func TestApply_Porcentaje(t *testing.T) {
	got := pricing.Apply(dec("1000"), entity.DiscountPercentage, dec("20"))
	assert.Truef(t, dec("800").Equal(got), "1000 con 20%% debe quedar en 800, obtenido %s", got)
}

func TestApply_Fijo(t *testing.T) {
	got := pricing.Apply(dec("800"), entity.DiscountFixed, dec("100"))
	assert.True(t, dec("700").Equal(got))
}

func TestApply_NuncaNegativo(t *testing.T) {
	cases := []struct {
		name  string
		price string
		typ   entity.DiscountType
		value string
	}{
		{"fijo mayor al precio", "50", entity.DiscountFixed, "80"},
		{"fijo igual al precio", "50", entity.DiscountFixed, "50"},
		{"porcentaje mayor a 100", "100", entity.DiscountPercentage, "150"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.Apply(dec(tc.price), tc.typ, dec(tc.value))
			assert.False(t, got.IsNegative())
			assert.True(t, got.IsZero(), "debe quedar en 0, obtenido %s", got)
		})
	}
}

// La reversión es la inversa algebraica de Apply para valores válidos.
func TestRevert_IdaYVueltaPorcentaje(t *testing.T) {
	prices := []string{"0.01", "9.99", "1234.56", "99999.99", "1000"}
	values := []string{"0", "1", "12.5", "33", "50", "99.5"}
	for _, p := range prices {
		for _, v := range values {
			price := dec(p)
			discounted := pricing.Apply(price, entity.DiscountPercentage, dec(v))
			back := pricing.Revert(discounted, entity.DiscountPercentage, dec(v))
			assertNear(t, price, back, "precio="+p+" valor="+v)
		}
	}
}

func TestRevert_IdaYVueltaFijo(t *testing.T) {
	cases := [][2]string{{"1000", "100"}, {"10.50", "0.49"}, {"250", "249.99"}}
	for _, c := range cases {
		price, value := dec(c[0]), dec(c[1])
		back := pricing.Revert(pricing.Apply(price, entity.DiscountFixed, value), entity.DiscountFixed, value)
		assert.True(t, price.Equal(back), "precio=%s valor=%s obtenido=%s", c[0], c[1], back)
	}
}

func TestRevert_PorcentajeCienNoDivide(t *testing.T) {
	got := pricing.Revert(dec("0"), entity.DiscountPercentage, dec("100"))
	assert.True(t, got.IsZero())
}

// Escenario: 1000 -20% -> 800, -100 fijo -> 700; revertir el fijo -> 800; revertir el % -> 1000.
func TestApilarYRevertirEnOrdenInverso(t *testing.T) {
	p := dec("1000")
	p = pricing.RoundPrice(pricing.Apply(p, entity.DiscountPercentage, dec("20")))
	assert.True(t, dec("800").Equal(p))
	p = pricing.RoundPrice(pricing.Apply(p, entity.DiscountFixed, dec("100")))
	assert.True(t, dec("700").Equal(p))
	p = pricing.RoundPrice(pricing.Revert(p, entity.DiscountFixed, dec("100")))
	assert.True(t, dec("800").Equal(p))
	p = pricing.RoundPrice(pricing.Revert(p, entity.DiscountPercentage, dec("20")))
	assert.True(t, dec("1000").Equal(p))
}

// Porcentajes altos sobre precios con centavos: el ida y vuelta no pierde centavos.
func TestRoundPrice_PorcentajeAltoVuelveAlPrecio(t *testing.T) {
	cases := []struct{ price, value string }{
		{"123.45", "99"},
		{"0.40", "99"},
		{"0.01", "99.99"},
		{"999999.99", "33.33"},
		{"17.23", "87.5"},
	}
	for _, c := range cases {
		price, value := dec(c.price), dec(c.value)
		applied := pricing.RoundPrice(pricing.Apply(price, entity.DiscountPercentage, value))
		assert.True(t, applied.IsPositive(), "precio=%s valor=%s quedó en cero", c.price, c.value)
		back := pricing.RoundPrice(pricing.Revert(applied, entity.DiscountPercentage, value))
		assert.True(t, price.Equal(pricing.DisplayPrice(back)), "precio=%s valor=%s obtenido=%s", c.price, c.value, back)
		assert.True(t, pricing.Reversible(price, entity.DiscountPercentage, value))
	}
}

func TestReversible_PrecioDiminutoNoSePuedeRevertir(t *testing.T) {
	// 0.000001 * 0.5% = 0.000000005, que a 6 decimales es 0
	assert.False(t, pricing.Reversible(dec("0.000001"), entity.DiscountPercentage, dec("99.5")))
	assert.True(t, pricing.Reversible(dec("0.40"), entity.DiscountFixed, dec("0.39")))
}

func TestDisplayPrice(t *testing.T) {
	assert.Equal(t, "1.23", pricing.DisplayPrice(dec("1.2345")).String())
	assert.Equal(t, "800", pricing.DisplayPrice(dec("800.000000")).String())
}

func TestExceedsPrice(t *testing.T) {
	assert.True(t, pricing.ExceedsPrice(dec("100"), entity.DiscountFixed, dec("100")))
	assert.True(t, pricing.ExceedsPrice(dec("100"), entity.DiscountFixed, dec("150")))
	assert.False(t, pricing.ExceedsPrice(dec("100"), entity.DiscountFixed, dec("99.99")))
	assert.False(t, pricing.ExceedsPrice(dec("10"), entity.DiscountPercentage, dec("50")))
}
