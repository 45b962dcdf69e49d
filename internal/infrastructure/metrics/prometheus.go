// Package metrics expone contadores del motor de descuentos, del libro de stock y de HTTP
// en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
)

var (
	_ discount.Metrics = (*Recorder)(nil)
	_ stock.Metrics    = (*Recorder)(nil)
)

// Recorder colectores registrados en un registry propio (no el global).
type Recorder struct {
	registry *prometheus.Registry

	discountsApplied  *prometheus.CounterVec
	discountsReverted *prometheus.CounterVec
	pricesChanged     *prometheus.CounterVec
	movements         *prometheus.CounterVec
	stockRejected     *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registra los colectores bajo namespace. withRuntime añade los colectores de Go y del proceso.
func New(namespace string, withRuntime bool) *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		discountsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discounts_applied_total",
			Help:      "Descuentos aplicados por alcance.",
		}, []string{"scope"}),
		discountsReverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discounts_reverted_total",
			Help:      "Descuentos revertidos por motivo (update, delete, expired).",
		}, []string{"reason"}),
		pricesChanged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "target_prices_changed_total",
			Help:      "Precios de destinos modificados por el motor de descuentos.",
		}, []string{"direction"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Movimientos de stock registrados por tipo.",
		}, []string{"movement_type"}),
		stockRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_insufficient_total",
			Help:      "Operaciones rechazadas por stock insuficiente.",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		r.discountsApplied, r.discountsReverted, r.pricesChanged,
		r.movements, r.stockRejected, r.httpRequests, r.httpDuration,
	)
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Registry para tests y exportadores adicionales.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler endpoint de scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) DiscountApplied(scope string, targets int) {
	r.discountsApplied.WithLabelValues(scope).Inc()
	r.pricesChanged.WithLabelValues("applied").Add(float64(targets))
}

func (r *Recorder) DiscountReverted(reason string, targets int) {
	r.discountsReverted.WithLabelValues(reason).Inc()
	r.pricesChanged.WithLabelValues("reverted").Add(float64(targets))
}

func (r *Recorder) MovementRecorded(movementType string) {
	r.movements.WithLabelValues(movementType).Inc()
}

func (r *Recorder) StockRejected(op string) {
	r.stockRejected.WithLabelValues(op).Inc()
}

// ObserveHTTP registra una petición terminada. route es la plantilla (/api/discounts/:id), no la URL.
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
