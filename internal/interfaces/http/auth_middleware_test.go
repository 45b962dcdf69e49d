package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Catalogo-servidores-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "catalogo-servidores-test"
	testExpMin    = 60
)

// tokenForRole genera un JWT de testUserID con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return tokenFor(t, testUserID, role, testJWTSecret, testExpMin)
}

func tokenFor(t *testing.T, userID, role, secret string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, userID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// send ejecuta req contra la API con la cabecera Authorization dada (vacía = sin cabecera).
func (e apiEnv) send(t *testing.T, req *http.Request, authHeader string) (*http.Response, []byte) {
	t.Helper()
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CabeceraAuthorization(t *testing.T) {
	env := newAPI(t)
	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"sin cabecera", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto de Bearer", "Token abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token vencido", tokenFor(t, testUserID, "admin", testJWTSecret, -1), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"firmado con otro secreto", tokenFor(t, testUserID, "admin", "otro-secreto", testExpMin), http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/discounts?scope=servers", nil)
			resp, body := env.send(t, req, c.header)
			assert.Equal(t, c.status, resp.StatusCode)
			assert.Equal(t, c.code, errorCode(t, body))
		})
	}
}

func TestAuthMiddleware_EsquemaBearerSinDistinguirMayusculas(t *testing.T) {
	env := newAPI(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "bodeguero", testIssuer, testExpMin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/discounts?scope=components", nil)
	resp, body := env.send(t, req, "bearer "+tok)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestRequireRole_TokenSinRolRetorna401(t *testing.T) {
	env := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/discounts/sweep", nil)
	resp, body := env.send(t, req, tokenFor(t, testUserID, "", testJWTSecret, testExpMin))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole sobre las rutas del servicio
// ──────────────────────────────────────────────────────────────────────────────

// Las peticiones van sin cuerpo: un rol permitido llega al handler (400/404/200), uno no
// permitido se corta con 403 antes de tocar datos.
func TestRequireRole_MatrizDeRutas(t *testing.T) {
	env := newAPI(t)
	id := uuid.NewString()
	routes := []struct {
		method  string
		path    string
		allowed []string
	}{
		{http.MethodPost, "/api/discounts", []string{"admin", "vendedor"}},
		{http.MethodPut, "/api/discounts/" + id, []string{"admin", "vendedor"}},
		{http.MethodDelete, "/api/discounts/" + id, []string{"admin", "vendedor"}},
		{http.MethodPost, "/api/discounts/sweep", []string{"admin", "vendedor"}},
		{http.MethodGet, "/api/discounts?scope=servers", []string{"admin", "vendedor", "bodeguero"}},
		{http.MethodGet, "/api/components/ram", []string{"admin", "vendedor", "bodeguero"}},
		{http.MethodPost, "/api/stock/movements", []string{"admin", "bodeguero"}},
		{http.MethodPut, "/api/stock/movements/" + id, []string{"admin", "bodeguero"}},
		{http.MethodDelete, "/api/stock/movements/" + id, []string{"admin", "bodeguero"}},
		{http.MethodGet, "/api/stock/movements", []string{"admin", "vendedor", "bodeguero"}},
		{http.MethodGet, "/api/stock/levels/ram/" + id, []string{"admin", "vendedor", "bodeguero"}},
		{http.MethodGet, "/api/customers", []string{"admin", "vendedor"}},
		{http.MethodDelete, "/api/customers/" + id, []string{"admin", "vendedor"}},
	}
	for _, r := range routes {
		allowed := make(map[string]bool, len(r.allowed))
		for _, role := range r.allowed {
			allowed[role] = true
		}
		for _, role := range []string{"admin", "vendedor", "bodeguero"} {
			resp, body := env.call(t, r.method, r.path, role, nil)
			if allowed[role] {
				assert.NotEqual(t, http.StatusForbidden, resp.StatusCode, "%s %s como %s", r.method, r.path, role)
				assert.NotEqual(t, http.StatusUnauthorized, resp.StatusCode, "%s %s como %s", r.method, r.path, role)
				continue
			}
			assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s %s como %s", r.method, r.path, role)
			assert.Equal(t, "FORBIDDEN", errorCode(t, body), "%s %s como %s", r.method, r.path, role)
		}
	}
	assert.Empty(t, env.store.AuditLogs(), "ninguna petición de la matriz escribe")
}

// ──────────────────────────────────────────────────────────────────────────────
// Datos de la petición en la auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestRequestMeta_LlegaALaAuditoria(t *testing.T) {
	env := newAPI(t)
	ram := env.addRAM("DDR5 32GB", "1000")
	bodeguero := uuid.NewString()

	raw, err := json.Marshal(movementBody(ram, 4, "in"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/stock/movements?origen=recepcion", bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderUserAgent, "lector-bodega/2.1")
	resp, body := env.send(t, req, tokenFor(t, bodeguero, "bodeguero", testJWTSecret, testExpMin))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	logs := env.store.AuditLogs()
	require.Len(t, logs, 1)
	got := logs[0]
	assert.Equal(t, entity.AuditCreated, got.Event)
	assert.Equal(t, entity.AuditableStockMovement, got.AuditableType)
	require.NotNil(t, got.UserID)
	assert.Equal(t, bodeguero, *got.UserID)
	assert.Equal(t, "/api/stock/movements?origen=recepcion", got.URL)
	assert.Equal(t, "lector-bodega/2.1", got.UserAgent)
	assert.NotEmpty(t, got.IPAddress)
}

func TestRequestMeta_CadaPeticionConservaSusDatos(t *testing.T) {
	env := newAPI(t)
	first := env.addRAM("DDR5 32GB", "1000")
	second := env.addRAM("DDR5 64GB", "2000")

	for i, ref := range []entity.TargetRef{first, second} {
		raw, err := json.Marshal(discountBody("percentage", 10, ref))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/discounts?lote="+ref.ID, bytes.NewReader(raw))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderUserAgent, []string{"panel/1", "panel/22"}[i])
		resp, body := env.send(t, req, tokenForRole(t, "vendedor"))
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	logs := env.store.AuditLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, "/api/discounts?lote="+first.ID, logs[0].URL)
	assert.Equal(t, "panel/1", logs[0].UserAgent)
	assert.Equal(t, "/api/discounts?lote="+second.ID, logs[1].URL)
	assert.Equal(t, "panel/22", logs[1].UserAgent)
}
