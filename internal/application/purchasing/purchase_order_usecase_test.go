package purchasing_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/purchasing"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	uc    *purchasing.PurchaseOrderUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Distribuidora Andina", TotalValue: decimal.Zero}))
	return &fixture{
		ctx:   ctx,
		store: store,
		uc:    purchasing.NewPurchaseOrderUseCase(store, inventory.NewStockLedger(), store.PurchaseOrders(), nil),
	}
}

func (f *fixture) product(t *testing.T, id string, stock, min int, cost string) {
	t.Helper()
	status := entity.ProductStatusInStock
	if stock <= 0 {
		status = entity.ProductStatusOutOfStock
	}
	require.NoError(t, f.store.Products().Create(f.ctx, &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: id, Cost: decimal.RequireFromString(cost),
		Stock: stock, MinStock: min, Status: status,
	}))
}

func (f *fixture) create(t *testing.T, items ...purchasing.PurchaseOrderItemInput) *entity.PurchaseOrder {
	t.Helper()
	po, err := f.uc.CreatePurchaseOrder(f.ctx, purchasing.CreatePurchaseOrderInput{UserID: "u1", SupplierID: "s1", Items: items})
	require.NoError(t, err)
	return po
}

func line(productID string, qty int) purchasing.PurchaseOrderItemInput {
	return purchasing.PurchaseOrderItemInput{ProductID: productID, Quantity: qty}
}

func timelineStatuses(po *entity.PurchaseOrder) []string {
	out := make([]string, 0, len(po.Timeline))
	for _, ev := range po.Timeline {
		out = append(out, ev.Status)
	}
	return out
}

func TestCreatePurchaseOrder_NoStockEffect(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 5, "4")
	cost := decimal.NewFromInt(5)

	po, err := f.uc.CreatePurchaseOrder(f.ctx, purchasing.CreatePurchaseOrderInput{
		UserID: "u1", SupplierID: "s1", Shipping: decimal.NewFromInt(10),
		Items: []purchasing.PurchaseOrderItemInput{{ProductID: "p", Quantity: 20, UnitCost: &cost}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseOrderStatusPending, po.Status)
	assert.Regexp(t, `^PO-\d{8}-[0-9A-F]{8}$`, po.PONumber)
	assert.True(t, po.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, po.Total.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, []string{entity.PurchaseOrderEventCreated}, timelineStatuses(po))

	p, _ := f.store.Products().GetByID(f.ctx, "p")
	assert.Equal(t, 0, p.Stock)

	sup, _ := f.store.Suppliers().GetByID(f.ctx, "s1")
	assert.Equal(t, 1, sup.TotalOrders)
	assert.True(t, sup.TotalValue.Equal(decimal.NewFromInt(110)))
}

func TestCreatePurchaseOrder_Validation(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 5, "4")

	_, err := f.uc.CreatePurchaseOrder(f.ctx, purchasing.CreatePurchaseOrderInput{SupplierID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.CreatePurchaseOrder(f.ctx, purchasing.CreatePurchaseOrderInput{Items: []purchasing.PurchaseOrderItemInput{line("p", 1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.CreatePurchaseOrder(f.ctx, purchasing.CreatePurchaseOrderInput{SupplierID: "s1", Items: []purchasing.PurchaseOrderItemInput{line("p", -1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.CreatePurchaseOrder(f.ctx, purchasing.CreatePurchaseOrderInput{SupplierID: "nope", Items: []purchasing.PurchaseOrderItemInput{line("p", 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.CreatePurchaseOrder(f.ctx, purchasing.CreatePurchaseOrderInput{SupplierID: "s1", Items: []purchasing.PurchaseOrderItemInput{line("zz", 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceivePurchaseOrder_FromPendingConflicts(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 5, "4")
	po := f.create(t, line("p", 20))

	_, err := f.uc.ReceivePurchaseOrder(f.ctx, po.ID, nil, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, _ := f.store.Products().GetByID(f.ctx, "p")
	assert.Equal(t, 0, p.Stock)
}

func TestReceivePurchaseOrder_Scenario(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 5, "4")
	po := f.create(t, line("p", 20))

	_, err := f.uc.ConfirmPurchaseOrder(f.ctx, po.ID, "u1")
	require.NoError(t, err)
	received, err := f.uc.ReceivePurchaseOrder(f.ctx, po.ID, nil, "u2")
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseOrderStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedDate)
	assert.Equal(t, 20, received.Items[0].ReceivedQuantity)

	p, _ := f.store.Products().GetByID(f.ctx, "p")
	assert.Equal(t, 20, p.Stock)
	assert.Equal(t, entity.ProductStatusInStock, p.Status)

	movs, err := f.store.Movements().ListBySource(f.ctx, entity.MovementSourcePurchaseOrder, po.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypePurchase, movs[0].Type)
	assert.Equal(t, 20, movs[0].Quantity)
	assert.Equal(t, po.PONumber, movs[0].Reference)

	stored, err := f.uc.GetPurchaseOrder(f.ctx, po.ID)
	require.NoError(t, err)
	statuses := timelineStatuses(stored)
	assert.Equal(t, entity.PurchaseOrderEventCreated, statuses[0])
	assert.Equal(t, entity.PurchaseOrderEventReceived, statuses[len(statuses)-1])

	_, err = f.uc.ReceivePurchaseOrder(f.ctx, po.ID, nil, "u2")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceivePurchaseOrder_FromShippedWithOverrides(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 5, "10")
	f.product(t, "b", 0, 2, "3")
	po, err := f.uc.CreatePurchaseOrder(f.ctx, purchasing.CreatePurchaseOrderInput{
		SupplierID: "s1",
		Items: []purchasing.PurchaseOrderItemInput{
			{ProductID: "a", Quantity: 10, UnitCost: ptr(decimal.NewFromInt(20))},
			line("b", 4),
		},
	})
	require.NoError(t, err)
	_, err = f.uc.ConfirmPurchaseOrder(f.ctx, po.ID, "u1")
	require.NoError(t, err)
	_, err = f.uc.ShipPurchaseOrder(f.ctx, po.ID, "u1")
	require.NoError(t, err)

	got, err := f.uc.ReceivePurchaseOrder(f.ctx, po.ID, []purchasing.ReceivedItem{{ProductID: "b", Quantity: ptr(0)}}, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Items[0].ReceivedQuantity)
	assert.Equal(t, 0, got.Items[1].ReceivedQuantity)

	a, _ := f.store.Products().GetByID(f.ctx, "a")
	assert.Equal(t, 20, a.Stock)
	assert.True(t, a.Cost.Equal(decimal.NewFromInt(15)), a.Cost.String())

	b, _ := f.store.Products().GetByID(f.ctx, "b")
	assert.Equal(t, 0, b.Stock)
	sum, _ := f.store.Movements().SumByProduct(f.ctx, "b")
	assert.Zero(t, sum)
}

func TestReceivePurchaseOrder_InvalidOverrideRollsBack(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 0, 5, "10")
	po := f.create(t, line("a", 10))
	_, err := f.uc.ConfirmPurchaseOrder(f.ctx, po.ID, "u1")
	require.NoError(t, err)

	_, err = f.uc.ReceivePurchaseOrder(f.ctx, po.ID, []purchasing.ReceivedItem{{ProductID: "otro", Quantity: ptr(3)}}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.ReceivePurchaseOrder(f.ctx, po.ID, []purchasing.ReceivedItem{{ItemID: po.Items[0].ID, Quantity: ptr(-1)}}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, _ := f.uc.GetPurchaseOrder(f.ctx, po.ID)
	assert.Equal(t, entity.PurchaseOrderStatusConfirmed, stored.Status)
	a, _ := f.store.Products().GetByID(f.ctx, "a")
	assert.Equal(t, 0, a.Stock)
}

func TestReceivePurchaseOrder_OverrideWithoutQuantityKeepsOrdered(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 5, "4")
	po := f.create(t, line("p", 20))
	_, err := f.uc.ConfirmPurchaseOrder(f.ctx, po.ID, "u1")
	require.NoError(t, err)

	var body dto.ReceivePurchaseOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"item_id":"`+po.Items[0].ID+`"}]}`), &body))
	require.Len(t, body.Items, 1)
	assert.Nil(t, body.Items[0].Quantity)

	got, err := f.uc.ReceiveFromRequest(f.ctx, po.ID, "u1", body)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusReceived, got.Status)
	assert.Equal(t, 20, got.Items[0].ReceivedQuantity)

	p, _ := f.store.Products().GetByID(f.ctx, "p")
	assert.Equal(t, 20, p.Stock)
	assert.Equal(t, entity.ProductStatusInStock, p.Status)
}

func TestReceivePurchaseOrder_RepeatedProductLinesByProductID(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 2, "4")
	po := f.create(t, line("p", 10), line("p", 5))
	_, err := f.uc.ConfirmPurchaseOrder(f.ctx, po.ID, "u1")
	require.NoError(t, err)

	_, err = f.uc.ReceivePurchaseOrder(f.ctx, po.ID, []purchasing.ReceivedItem{
		{ProductID: "p", Quantity: ptr(10)}, {ProductID: "p", Quantity: ptr(3)}, {ProductID: "p", Quantity: ptr(1)},
	}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.uc.ReceivePurchaseOrder(f.ctx, po.ID, []purchasing.ReceivedItem{
		{ProductID: "p", Quantity: ptr(10)}, {ProductID: "p", Quantity: ptr(3)},
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Items[0].ReceivedQuantity)
	assert.Equal(t, 3, got.Items[1].ReceivedQuantity)

	p, _ := f.store.Products().GetByID(f.ctx, "p")
	assert.Equal(t, 13, p.Stock)
}

func TestReceivePurchaseOrder_AppliesLinesInProductOrder(t *testing.T) {
	f := newFixture(t)
	f.product(t, "b", 0, 1, "2")
	f.product(t, "a", 0, 1, "2")
	po := f.create(t, line("b", 4), line("a", 6))
	_, err := f.uc.ConfirmPurchaseOrder(f.ctx, po.ID, "u1")
	require.NoError(t, err)

	got, err := f.uc.ReceivePurchaseOrder(f.ctx, po.ID, nil, "u1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Items[0].ProductID)
	assert.Equal(t, 4, got.Items[0].ReceivedQuantity)

	movs, err := f.store.Movements().ListBySource(f.ctx, entity.MovementSourcePurchaseOrder, po.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "a", movs[0].ProductID)
	assert.Equal(t, "b", movs[1].ProductID)
}

func TestCancelPurchaseOrder_Scenario(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 7, 5, "4")
	po := f.create(t, line("p", 20))

	cancelled, err := f.uc.CancelPurchaseOrder(f.ctx, po.ID, "proveedor sin existencias", "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusCancelled, cancelled.Status)
	assert.Equal(t, []string{entity.PurchaseOrderEventCreated, entity.PurchaseOrderEventCancelled}, timelineStatuses(cancelled))
	assert.Contains(t, cancelled.Timeline[1].Description, "proveedor sin existencias")

	p, _ := f.store.Products().GetByID(f.ctx, "p")
	assert.Equal(t, 7, p.Stock)

	_, err = f.uc.CancelPurchaseOrder(f.ctx, po.ID, "", "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancelPurchaseOrder_ReceivedConflicts(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 5, "4")
	po := f.create(t, line("p", 1))
	_, err := f.uc.ConfirmPurchaseOrder(f.ctx, po.ID, "u1")
	require.NoError(t, err)
	_, err = f.uc.ReceivePurchaseOrder(f.ctx, po.ID, nil, "u1")
	require.NoError(t, err)

	_, err = f.uc.CancelPurchaseOrder(f.ctx, po.ID, "tarde", "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, f.uc.DeletePurchaseOrder(f.ctx, po.ID, "u1"), domain.ErrConflict)
}

func TestShipPurchaseOrder_RequiresConfirmed(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 5, "4")
	po := f.create(t, line("p", 1))

	_, err := f.uc.ShipPurchaseOrder(f.ctx, po.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.ConfirmPurchaseOrder(f.ctx, "missing", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePurchaseOrder_RecomputesSupplier(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 0, 5, "4")
	keep := f.create(t, line("p", 1))
	drop := f.create(t, line("p", 2))

	_, err := f.uc.CancelPurchaseOrder(f.ctx, drop.ID, "", "u1")
	require.NoError(t, err)
	require.NoError(t, f.uc.DeletePurchaseOrder(f.ctx, drop.ID, "u1"))

	_, err = f.uc.GetPurchaseOrder(f.ctx, drop.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sup, _ := f.store.Suppliers().GetByID(f.ctx, "s1")
	assert.Equal(t, 1, sup.TotalOrders)
	assert.True(t, sup.TotalValue.Equal(keep.Total))

	list, err := f.uc.ListPurchaseOrders(f.ctx, repository.PurchaseOrderFilter{SupplierID: "s1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func ptr[T any](v T) *T { return &v }
