package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
)

// StockHandler maneja movimientos, niveles y el reporte PDF de stock.
type StockHandler struct {
	uc     *stock.UseCase
	report *stock.ReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase, report *stock.ReportUseCase) *StockHandler {
	return &StockHandler{uc: uc, report: report}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "component_id, component_type, quantity, movement_type (in|out), supplier_id, date"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordMovement(c.Context(), requestMeta(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [get]
func (h *StockHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.uc.GetMovement(c.Context(), param(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        component_type  query  string  false  "Filtrar por tipo de componente"
// @Param        component_id    query  string  false  "Filtrar por componente (UUID)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.uc.ListMovements(c.Context(), c.Query("component_type"), c.Query("component_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateMovement godoc
// @Summary      Modificar movimiento
// @Description  Deshace el efecto anterior y aplica el nuevo; ningún nivel puede quedar negativo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del movimiento"
// @Param        body  body  dto.MovementRequest  true  "Movimiento completo"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [put]
func (h *StockHandler) UpdateMovement(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateMovement(c.Context(), requestMeta(c), param(c, "id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [delete]
func (h *StockHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.uc.DeleteMovement(c.Context(), requestMeta(c), param(c, "id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "movimiento eliminado"})
}

// GetLevel godoc
// @Summary      Nivel de stock de un componente
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "Tipo de componente"
// @Param        id    path  string  true  "ID del componente"
// @Success      200   {object}  dto.StockLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/levels/{type}/{id} [get]
func (h *StockHandler) GetLevel(c *fiber.Ctx) error {
	out, err := h.uc.GetLevel(c.Context(), param(c, "type"), param(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte PDF de niveles de stock
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/report.pdf [get]
func (h *StockHandler) ReportPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.report.LevelsPDF(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
