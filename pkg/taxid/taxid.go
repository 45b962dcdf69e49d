// Package taxid normaliza documentos de clientes (NIT o cédula) y verifica el
// dígito de verificación del NIT (módulo 11, pesos DIAN).
package taxid

import (
	"errors"
	"strings"
	"unicode"
)

// ErrCheckDigit el dígito después del guion no corresponde a la base del NIT.
var ErrCheckDigit = errors.New("dígito de verificación inválido")

// pesos DIAN para los 9 dígitos de la base, de izquierda a derecha.
var nitWeights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// Normalize quita puntos y espacios y pasa a mayúsculas:
// "900.123.456-8" -> "900123456-8". Dos documentos iguales normalizan igual.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r == '.' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Validate verifica el dígito de verificación cuando s (normalizado) tiene forma
// "<9 dígitos>-<dígito>". Cédulas y documentos sin guion no se verifican.
func Validate(s string) error {
	base, dv, ok := strings.Cut(s, "-")
	if !ok || len(base) != 9 || len(dv) != 1 || !allDigits(base) || !allDigits(dv) {
		return nil
	}
	if CheckDigit(base) != dv[0] {
		return ErrCheckDigit
	}
	return nil
}

// CheckDigit calcula el dígito de verificación de una base de 9 dígitos.
func CheckDigit(base string) byte {
	var sum int
	for i := 0; i < len(nitWeights) && i < len(base); i++ {
		sum += int(base[i]-'0') * nitWeights[i]
	}
	switch r := sum % 11; r {
	case 0, 1:
		return byte('0' + r)
	default:
		return byte('0' + 11 - r)
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
