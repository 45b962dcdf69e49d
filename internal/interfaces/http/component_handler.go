package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
)

// ComponentHandler expone el precio vigente de servidores y componentes.
type ComponentHandler struct {
	uc *discount.UseCase
}

// NewComponentHandler construye el handler.
func NewComponentHandler(uc *discount.UseCase) *ComponentHandler {
	return &ComponentHandler{uc: uc}
}

// List godoc
// @Summary      Listar servidores o componentes con su precio
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "server o tipo de componente (ram, processor, ...)"
// @Success      200   {array}   dto.PriceTargetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/components/{type} [get]
func (h *ComponentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListPriceTargets(c.Context(), param(c, "type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
