package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/sales"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// SaleHandler maneja ventas y su liquidación.
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock por cada línea en una sola transacción. Se permite sobreventa.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateSaleFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSaleResponse(s))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  false  "Cliente"
// @Param        status       query  string  false  "PENDING | COMPLETED | REFUNDED"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	p := page(c)
	list, err := h.uc.ListSales(c.UserContext(), repository.SaleFilter{
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		return err
	}
	out := dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(list)), Page: dto.NewPageResponse(p.Limit, p.Offset, len(list))}
	for _, s := range list {
		out.Items = append(out.Items, dto.NewSaleResponse(s))
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar venta pendiente
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/complete [post]
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	s, err := h.uc.CompleteSale(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSaleResponse(s))
}

// Refund godoc
// @Summary      Reembolsar venta
// @Description  Marca la venta como REFUNDED y, por defecto, devuelve el stock con movimientos RETURN.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.RefundSaleRequest  true  "Motivo y monto"
// @Success      200   {object}  dto.RefundResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/refund [post]
func (h *SaleHandler) Refund(c *fiber.Ctx) error {
	var in dto.RefundSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RefundSaleFromRequest(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta pendiente
// @Description  Revierte el stock con movimientos RETURN y elimina la venta.
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSale(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
