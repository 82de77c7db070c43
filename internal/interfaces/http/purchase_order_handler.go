package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/purchasing"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// PurchaseOrderHandler maneja el ciclo de vida de las órdenes de compra.
type PurchaseOrderHandler struct {
	uc *purchasing.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Orden"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra con línea de tiempo
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.GetPurchaseOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        status       query  string  false  "Estado"
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	p := page(c)
	list, err := h.uc.ListPurchaseOrders(c.UserContext(), repository.PurchaseOrderFilter{
		SupplierID: c.Query("supplier_id"),
		Status:     c.Query("status"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		return err
	}
	out := dto.PurchaseOrderListResponse{Items: make([]dto.PurchaseOrderResponse, 0, len(list)), Page: dto.NewPageResponse(p.Limit, p.Offset, len(list))}
	for _, po := range list {
		out.Items = append(out.Items, dto.NewPurchaseOrderResponse(po))
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar orden (PENDING -> CONFIRMED)
// @Tags         purchase-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, h.uc.ConfirmPurchaseOrder)
}

// Ship godoc
// @Summary      Marcar orden enviada (CONFIRMED -> SHIPPED)
// @Tags         purchase-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders/{id}/ship [post]
func (h *PurchaseOrderHandler) Ship(c *fiber.Ctx) error {
	return h.transition(c, h.uc.ShipPurchaseOrder)
}

func (h *PurchaseOrderHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, poID, actorID string) (*entity.PurchaseOrder, error)) error {
	po, err := fn(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// Receive godoc
// @Summary      Recibir orden
// @Description  Suma stock por línea con movimientos PURCHASE y recalcula el costo promedio.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  false  "Cantidades recibidas por línea"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.ReceiveFromRequest(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.CancelPurchaseOrderRequest  false  "Motivo"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelPurchaseOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	po, err := h.uc.CancelPurchaseOrder(c.UserContext(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// Delete godoc
// @Summary      Eliminar orden pendiente o cancelada
// @Tags         purchase-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Router       /api/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeletePurchaseOrder(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
