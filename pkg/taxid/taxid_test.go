package taxid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Catalogo-servidores-api/pkg/taxid"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "900123456-8", taxid.Normalize(" 900.123.456-8 "))
	assert.Equal(t, "CE12345", taxid.Normalize("ce 12345"))
}

func TestCheckDigit(t *testing.T) {
	assert.Equal(t, byte('8'), taxid.CheckDigit("900123456"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"NIT con dígito correcto", "900123456-8", false},
		{"NIT con dígito incorrecto", "900123456-7", true},
		{"NIT sin dígito", "900123456", false},
		{"cédula", "1020304050", false},
		{"documento extranjero", "CE-12345", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := taxid.Validate(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, taxid.ErrCheckDigit)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
