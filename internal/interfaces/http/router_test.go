package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/audit"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/memory"
	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Catalogo-servidores-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeReport struct{}

func (fakeReport) GenerateStockReport(context.Context, time.Time, []stock.LevelReportLine) ([]byte, error) {
	return []byte("%PDF-1.4 reporte"), nil
}

type apiEnv struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) apiEnv {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	recorder := audit.NewRecorder()
	rec := metrics.New("catalogo", false)
	targets := memory.NewPriceTargetRepository(store)
	levels := memory.NewStockLevelRepository(store)

	discountUC := discount.NewUseCase(tx, memory.NewDiscountRepository(store), targets, recorder, rec)
	stockUC := stock.NewUseCase(tx, memory.NewStockMovementRepository(store), levels, targets,
		memory.NewSupplierRepository(store), recorder, rec)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		DiscountUC:     discountUC,
		SweepJob:       discount.NewSweepJob(discountUC, nil, 0, time.Minute, nil),
		StockUC:        stockUC,
		ReportUC:       stock.NewReportUseCase(levels, targets, fakeReport{}),
		CustomerUC:     usecase.NewCustomerUseCase(tx, memory.NewCustomerRepository(store), recorder),
		JWTSecret:      testJWTSecret,
		Metrics:        rec,
		MetricsHandler: rec.Handler(),
		MetricsPath:    "/metrics",
	})
	return apiEnv{app: app, store: store}
}

func (e apiEnv) addRAM(name, price string) entity.TargetRef {
	ref := entity.ComponentRef(entity.KindRAM, uuid.NewString())
	e.store.AddTarget(entity.PriceTarget{Ref: ref, Name: name, Price: decimal.RequireFromString(price)})
	return ref
}

func (e apiEnv) call(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func discountBody(typ string, value int, refs ...entity.TargetRef) fiber.Map {
	targets := make([]fiber.Map, 0, len(refs))
	for _, r := range refs {
		targets = append(targets, fiber.Map{"type": r.Type, "id": r.ID})
	}
	start := time.Now().UTC().Add(-time.Hour)
	return fiber.Map{
		"name":          "Promo " + typ,
		"discount_type": typ,
		"value":         value,
		"start_date":    start.Format(time.RFC3339),
		"end_date":      start.Add(48 * time.Hour).Format(time.RFC3339),
		"targets":       targets,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Descuentos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CrearDescuentoRebajaElPrecioListado(t *testing.T) {
	env := newAPI(t)
	ram := env.addRAM("DDR5 32GB", "1000")

	resp, body := env.call(t, http.MethodPost, "/api/discounts", "vendedor", discountBody("percentage", 20, ram))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created dto.DiscountResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "components", created.Scope)
	require.Len(t, created.Targets, 1)

	resp, body = env.call(t, http.MethodGet, "/api/components/ram", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.PriceTargetResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.True(t, decimal.NewFromInt(800).Equal(list[0].Price), "precio listado: %s", list[0].Price)

	resp, _ = env.call(t, http.MethodGet, "/api/discounts/"+created.ID, "bodeguero", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_BodegueroNoPuedeCrearDescuentos(t *testing.T) {
	env := newAPI(t)
	ram := env.addRAM("DDR5 32GB", "1000")

	resp, body := env.call(t, http.MethodPost, "/api/discounts", "bodeguero", discountBody("percentage", 20, ram))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	env := newAPI(t)
	resp, body := env.call(t, http.MethodGet, "/api/discounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAPI_FijoMayorAlPrecioRetorna422ConDestinos(t *testing.T) {
	env := newAPI(t)
	ram := env.addRAM("DDR4 8GB", "100")

	resp, body := env.call(t, http.MethodPost, "/api/discounts", "admin", discountBody("fixed", 150, ram))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "PRICE_EXCEEDED", e.Code)
	assert.Equal(t, []string{"DDR4 8GB"}, e.Targets)
}

func TestAPI_ValidacionRetornaCamposConError(t *testing.T) {
	env := newAPI(t)
	ram := env.addRAM("DDR5 32GB", "1000")
	in := discountBody("percentage", 20, ram)
	in["discount_type"] = "bogus"
	in["name"] = ""

	resp, body := env.call(t, http.MethodPost, "/api/discounts", "admin", in)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "discount_type")
	assert.Contains(t, e.Fields, "name")
}

func TestAPI_CuerpoMalformadoRetorna400(t *testing.T) {
	env := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/discounts", strings.NewReader("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DescuentoInexistenteRetorna404(t *testing.T) {
	env := newAPI(t)
	resp, body := env.call(t, http.MethodGet, "/api/discounts/"+uuid.NewString(), "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestAPI_IDNoUUIDRetorna404(t *testing.T) {
	env := newAPI(t)
	cases := []struct{ method, path, role string }{
		{http.MethodGet, "/api/discounts/abc", "admin"},
		{http.MethodDelete, "/api/discounts/abc", "admin"},
		{http.MethodGet, "/api/stock/movements/abc", "bodeguero"},
		{http.MethodDelete, "/api/stock/movements/abc", "bodeguero"},
		{http.MethodGet, "/api/stock/levels/ram/abc", "bodeguero"},
		{http.MethodGet, "/api/customers/abc", "vendedor"},
		{http.MethodDelete, "/api/customers/abc", "vendedor"},
	}
	for _, c := range cases {
		resp, body := env.call(t, c.method, c.path, c.role, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", c.method, c.path)
		assert.Contains(t, string(body), "NOT_FOUND", "%s %s", c.method, c.path)
	}
}

func TestAPI_AlcanceInvalidoRetorna400(t *testing.T) {
	env := newAPI(t)
	resp, _ := env.call(t, http.MethodGet, "/api/discounts?scope=otro", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_EliminarDescuentoRestauraPrecio(t *testing.T) {
	env := newAPI(t)
	ram := env.addRAM("DDR5 32GB", "1000")

	resp, body := env.call(t, http.MethodPost, "/api/discounts", "admin", discountBody("fixed", 250, ram))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.DiscountResponse
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = env.call(t, http.MethodDelete, "/api/discounts/"+created.ID, "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	pt, err := memory.NewPriceTargetRepository(env.store).Get(context.Background(), ram)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(pt.Price))

	logs := env.store.AuditLogs()
	require.Len(t, logs, 2)
	require.NotNil(t, logs[1].UserID)
	assert.Equal(t, testUserID, *logs[1].UserID)
	assert.Equal(t, entity.AuditDeleted, logs[1].Event)
	assert.Equal(t, "/api/discounts/"+created.ID, logs[1].URL)
}

func TestAPI_BarridoManualSinVencidos(t *testing.T) {
	env := newAPI(t)
	resp, body := env.call(t, http.MethodPost, "/api/discounts/sweep", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"swept":0}`, string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func movementBody(ref entity.TargetRef, qty int, typ string) fiber.Map {
	return fiber.Map{
		"component_id":   ref.ID,
		"component_type": ref.Type,
		"quantity":       qty,
		"movement_type":  typ,
		"date":           time.Now().UTC().Format(time.RFC3339),
	}
}

func TestAPI_SalidaSinStockRetorna409(t *testing.T) {
	env := newAPI(t)
	ram := env.addRAM("DDR5 32GB", "1000")

	resp, body := env.call(t, http.MethodPost, "/api/stock/movements", "bodeguero", movementBody(ram, 3, "in"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = env.call(t, http.MethodPost, "/api/stock/movements", "bodeguero", movementBody(ram, 5, "out"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")

	resp, body = env.call(t, http.MethodGet, fmt.Sprintf("/api/stock/levels/%s/%s", ram.Type, ram.ID), "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var level dto.StockLevelResponse
	require.NoError(t, json.Unmarshal(body, &level))
	assert.Equal(t, 3, level.Quantity)
}

func TestAPI_VendedorNoRegistraMovimientos(t *testing.T) {
	env := newAPI(t)
	ram := env.addRAM("DDR5 32GB", "1000")
	resp, _ := env.call(t, http.MethodPost, "/api/stock/movements", "vendedor", movementBody(ram, 3, "in"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_ReportePDF(t *testing.T) {
	env := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/stock/report.pdf", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "stock_")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_ClienteDuplicadoRetorna409(t *testing.T) {
	env := newAPI(t)
	in := fiber.Map{"name": "ACME", "tax_id": "900123456"}

	resp, body := env.call(t, http.MethodPost, "/api/customers", "vendedor", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = env.call(t, http.MethodPost, "/api/customers", "vendedor", in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE")

	resp, _ = env.call(t, http.MethodGet, "/api/customers", "bodeguero", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_MetricasEtiquetanPorRuta(t *testing.T) {
	env := newAPI(t)
	env.call(t, http.MethodGet, "/api/discounts/"+uuid.NewString(), "admin", nil)

	resp, body := env.call(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `catalogo_http_requests_total{method="GET",route="/api/discounts/:id",status="404"} 1`)
}
