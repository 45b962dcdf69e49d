package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/dto"
)

// DiscountHandler maneja las peticiones HTTP de descuentos.
type DiscountHandler struct {
	uc    *discount.UseCase
	sweep *discount.SweepJob
}

// NewDiscountHandler construye el handler. sweep puede ser nil (sin barrido manual).
func NewDiscountHandler(uc *discount.UseCase, sweep *discount.SweepJob) *DiscountHandler {
	return &DiscountHandler{uc: uc, sweep: sweep}
}

// Create godoc
// @Summary      Crear descuento
// @Description  Aplica el descuento a todos los destinos en una sola transacción.
// @Tags         discounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DiscountRequest  true  "name, discount_type, value, start_date, end_date, targets"
// @Success      201   {object}  dto.DiscountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/discounts [post]
func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), requestMeta(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener descuento
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del descuento"
// @Success      200  {object}  dto.DiscountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/discounts/{id} [get]
func (h *DiscountHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), param(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar descuentos
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Param        scope  query  string  false  "servers | components"  default(components)
// @Success      200  {object}  dto.DiscountListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/discounts [get]
func (h *DiscountHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("scope", "components"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar descuento
// @Description  Revierte el efecto anterior y aplica la nueva definición de forma atómica.
// @Tags         discounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del descuento"
// @Param        body  body  dto.DiscountRequest  true  "Definición completa"
// @Success      200   {object}  dto.DiscountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/discounts/{id} [put]
func (h *DiscountHandler) Update(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), requestMeta(c), param(c, "id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar descuento
// @Description  Restaura el precio de todos los destinos y elimina el descuento.
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del descuento"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/discounts/{id} [delete]
func (h *DiscountHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), requestMeta(c), param(c, "id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "descuento eliminado"})
}

// Sweep godoc
// @Summary      Barrer descuentos vencidos
// @Description  Ejecuta el barrido bajo el mismo candado que el job periódico. swept=0 si otro proceso lo tiene.
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SweepResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/discounts/sweep [post]
func (h *DiscountHandler) Sweep(c *fiber.Ctx) error {
	if h.sweep == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SWEEP_DISABLED", Message: "barrido no configurado"})
	}
	n, err := h.sweep.RunOnce(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SweepResponse{Swept: n})
}
