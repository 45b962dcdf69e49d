package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/metrics"
)

func TestRecorder_Descuentos(t *testing.T) {
	rec := metrics.New("catalogo", false)
	rec.DiscountApplied("components", 3)
	rec.DiscountReverted("expired", 3)
	rec.DiscountReverted("delete", 1)

	expected := `
# HELP catalogo_target_prices_changed_total Precios de destinos modificados por el motor de descuentos.
# TYPE catalogo_target_prices_changed_total counter
catalogo_target_prices_changed_total{direction="applied"} 3
catalogo_target_prices_changed_total{direction="reverted"} 4
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected),
		"catalogo_target_prices_changed_total"))

	n, err := testutil.GatherAndCount(rec.Registry(), "catalogo_discounts_reverted_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "una serie por motivo")
}

func TestRecorder_Stock(t *testing.T) {
	rec := metrics.New("catalogo", false)
	rec.MovementRecorded("in")
	rec.MovementRecorded("in")
	rec.StockRejected("record")

	expected := `
# HELP catalogo_stock_movements_total Movimientos de stock registrados por tipo.
# TYPE catalogo_stock_movements_total counter
catalogo_stock_movements_total{movement_type="in"} 2
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected),
		"catalogo_stock_movements_total"))
}

func TestRecorder_Handler(t *testing.T) {
	rec := metrics.New("catalogo", true)
	rec.ObserveHTTP("GET", "/api/discounts/:id", 200, 15*time.Millisecond)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `catalogo_http_requests_total{method="GET",route="/api/discounts/:id",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
