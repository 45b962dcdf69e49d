package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func TestGenerateParse_DevuelveUsuarioYRol(t *testing.T) {
	for _, role := range []string{"admin", "bodeguero", "vendedor", ""} {
		tok, err := jwt.Generate(secret, "u-1", role, "catalogo", 5)
		require.NoError(t, err)

		userID, got, err := jwt.Parse(secret, tok)
		require.NoError(t, err)
		assert.Equal(t, "u-1", userID)
		assert.Equal(t, role, got)
	}
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := jwt.Generate(secret, "u-1", "admin", "catalogo", 5)
	require.NoError(t, err)
	expired, err := jwt.Generate(secret, "u-1", "admin", "catalogo", -1)
	require.NoError(t, err)

	cases := []struct {
		name, secret, token string
	}{
		{"vencido", secret, expired},
		{"otro secreto", "otro", valid},
		{"basura", secret, "no-es-un-jwt"},
		{"secreto vacío", "", valid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := jwt.Parse(c.secret, c.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "admin", "catalogo", 5)
	assert.Error(t, err)
}
