package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DiscountUC *discount.UseCase
	SweepJob   *discount.SweepJob
	StockUC    *stock.UseCase
	ReportUC   *stock.ReportUseCase
	CustomerUC *usecase.CustomerUseCase
	JWTSecret  string

	// Opcionales: sin Metrics no se mide ni se expone MetricsPath.
	Metrics        HTTPObserver
	MetricsHandler http.Handler
	MetricsPath    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}
	if deps.MetricsHandler != nil && deps.MetricsPath != "" {
		app.Get(deps.MetricsPath, adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	sales := RequireRole(RoleAdmin, RoleVendedor)
	warehouse := RequireRole(RoleAdmin, RoleBodeguero)

	// Catálogo: precio vigente por tipo
	componentHandler := NewComponentHandler(deps.DiscountUC)
	protected.Get("/components/:type", componentHandler.List)

	// Descuentos: lectura para cualquier rol, escritura admin/vendedor
	discounts := protected.Group("/discounts")
	discountHandler := NewDiscountHandler(deps.DiscountUC, deps.SweepJob)
	discounts.Get("/", discountHandler.List)
	discounts.Post("/sweep", sales, discountHandler.Sweep)
	discounts.Post("/", sales, discountHandler.Create)
	discounts.Get("/:id", discountHandler.Get)
	discounts.Put("/:id", sales, discountHandler.Update)
	discounts.Delete("/:id", sales, discountHandler.Delete)

	// Stock: escritura admin/bodeguero
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.ReportUC)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Post("/movements", warehouse, stockHandler.RecordMovement)
	stockGroup.Get("/movements/:id", stockHandler.GetMovement)
	stockGroup.Put("/movements/:id", warehouse, stockHandler.UpdateMovement)
	stockGroup.Delete("/movements/:id", warehouse, stockHandler.DeleteMovement)
	stockGroup.Get("/levels/:type/:id", stockHandler.GetLevel)
	stockGroup.Get("/report.pdf", stockHandler.ReportPDF)

	// Customers (admin/vendedor)
	customers := protected.Group("/customers", sales)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
}
