package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/purchasing"
	"github.com/jhoicas/retail-ledger/internal/application/sales"
	"github.com/jhoicas/retail-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	CustomerUC       *usecase.CustomerUseCase
	SupplierUC       *usecase.SupplierUseCase
	ActivityUC       *usecase.ActivityUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	SaleUC           *sales.SaleUseCase
	PurchaseOrderUC  *purchasing.PurchaseOrderUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; admin pasa en todas.
//
//	bodeguero: inventario, compras, proveedores, catálogo
//	vendedor:  ventas, clientes, lectura de catálogo
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(RoleBodeguero, RoleVendedor)
	warehouse := RequireRole(RoleBodeguero)
	seller := RequireRole(RoleVendedor)
	adminOnly := RequireRole()

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.RegisterMovement)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Get("/:id/movements", warehouse, productHandler.Movements)
	products.Get("/:id/reconciliation", warehouse, productHandler.Reconciliation)
	products.Post("/", warehouse, productHandler.Create)
	products.Put("/:id", warehouse, productHandler.Update)
	products.Patch("/:id/status", warehouse, productHandler.SetStatus)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	inv := api.Group("/inventory", warehouse)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Replenishment)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/movements", inventoryHandler.ListBySource)
	inv.Get("/movements/:id", inventoryHandler.GetMovement)
	inv.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	salesGroup := api.Group("/sales", seller)
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/complete", saleHandler.Complete)
	salesGroup.Post("/:id/refund", saleHandler.Refund)
	salesGroup.Delete("/:id", saleHandler.Delete)

	pos := api.Group("/purchase-orders", warehouse)
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Post("/:id/confirm", poHandler.Confirm)
	pos.Post("/:id/ship", poHandler.Ship)
	pos.Post("/:id/receive", poHandler.Receive)
	pos.Post("/:id/cancel", poHandler.Cancel)
	pos.Delete("/:id", poHandler.Delete)

	customers := api.Group("/customers", seller)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/:id/recompute-stats", customerHandler.RecomputeStats)

	suppliers := api.Group("/suppliers", warehouse)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/:id/recompute-stats", supplierHandler.RecomputeStats)

	api.Get("/activity-logs", adminOnly, NewActivityHandler(deps.ActivityUC).List)
}
