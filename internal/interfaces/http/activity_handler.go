package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger/internal/application/usecase"
)

// ActivityHandler expone el registro de actividad.
type ActivityHandler struct {
	uc *usecase.ActivityUseCase
}

func NewActivityHandler(uc *usecase.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// List godoc
// @Summary      Registro de actividad
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        module  query  string  false  "inventory | sales | purchasing | catalog"
// @Success      200  {array}  dto.ActivityLogResponse
// @Router       /api/activity-logs [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.UserContext(), c.Query("module"), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
