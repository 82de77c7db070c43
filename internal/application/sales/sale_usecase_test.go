package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/sales"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	uc    *sales.SaleUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		ctx:   context.Background(),
		store: store,
		uc:    sales.NewSaleUseCase(store, inventory.NewStockLedger(), store.Sales(), nil),
	}
}

func (f *fixture) product(t *testing.T, id string, stock, min int, price int64) {
	t.Helper()
	require.NoError(t, f.store.Products().Create(f.ctx, &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: id, Price: decimal.NewFromInt(price),
		Stock: stock, MinStock: min, Status: entity.ProductStatusInStock,
	}))
}

func (f *fixture) customer(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.store.Customers().Create(f.ctx, &entity.Customer{ID: id, Name: "Cliente " + id, TotalSpent: decimal.Zero}))
}

func (f *fixture) stock(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Products().GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (f *fixture) movements(t *testing.T, productID string) []*entity.InventoryMovement {
	t.Helper()
	list, err := f.store.Movements().ListByProduct(f.ctx, productID, nil, nil, 0, 0)
	require.NoError(t, err)
	return list
}

func item(productID string, qty int) sales.SaleItemInput {
	return sales.SaleItemInput{ProductID: productID, Quantity: qty}
}

func TestCreateSale_DecrementsStockAndComputesTotals(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 5, 25)
	f.product(t, "b", 3, 1, 10)
	f.customer(t, "c1")
	price := decimal.RequireFromString("9.50")

	sale, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{
		UserID: "u1", CustomerID: "c1",
		Tax: decimal.NewFromInt(5), Discount: decimal.NewFromInt(2), Shipping: decimal.NewFromInt(3),
		Items: []sales.SaleItemInput{item("a", 6), {ProductID: "b", Quantity: 2, UnitPrice: &price}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusPending, sale.Status)
	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{8}$`, sale.InvoiceID)
	assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(169)), sale.Subtotal.String())
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(175)), sale.Total.String())

	a := f.stock(t, "a")
	assert.Equal(t, 4, a.Stock)
	assert.Equal(t, entity.ProductStatusLowStock, a.Status)

	movs := f.movements(t, "a")
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSale, movs[0].Type)
	assert.Equal(t, -6, movs[0].Quantity)
	assert.Equal(t, sale.InvoiceID, movs[0].Reference)
	assert.Equal(t, sale.ID, movs[0].SourceID)

	c, _ := f.store.Customers().GetByID(f.ctx, "c1")
	assert.Equal(t, 1, c.TotalOrders)
	assert.True(t, c.TotalSpent.Equal(sale.Total))
	require.NotNil(t, c.LastOrder)
}

func TestCreateSale_Validation(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 5, 25)

	tests := []struct {
		name string
		in   sales.CreateSaleInput
		want error
	}{
		{"sin ítems", sales.CreateSaleInput{}, domain.ErrInvalidInput},
		{"cantidad cero", sales.CreateSaleInput{Items: []sales.SaleItemInput{item("a", 0)}}, domain.ErrInvalidInput},
		{"estado inválido", sales.CreateSaleInput{Status: entity.SaleStatusRefunded, Items: []sales.SaleItemInput{item("a", 1)}}, domain.ErrInvalidInput},
		{"impuesto negativo", sales.CreateSaleInput{Tax: decimal.NewFromInt(-1), Items: []sales.SaleItemInput{item("a", 1)}}, domain.ErrInvalidInput},
		{"descuento excesivo", sales.CreateSaleInput{Discount: decimal.NewFromInt(26), Items: []sales.SaleItemInput{item("a", 1)}}, domain.ErrInvalidInput},
		{"producto inexistente", sales.CreateSaleInput{Items: []sales.SaleItemInput{item("zz", 1)}}, domain.ErrNotFound},
		{"cliente inexistente", sales.CreateSaleInput{CustomerID: "zz", Items: []sales.SaleItemInput{item("a", 1)}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateSale(f.ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 10, f.stock(t, "a").Stock)
	assert.Empty(t, f.movements(t, "a"))
}

func TestCreateSale_FailureOnLaterItemRollsBackEarlierItems(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 5, 25)
	f.product(t, "b", 10, 5, 25)
	uc := sales.NewSaleUseCase(failAfter{store: f.store, ok: 1}, inventory.NewStockLedger(), f.store.Sales(), nil)

	_, err := uc.CreateSale(f.ctx, sales.CreateSaleInput{Items: []sales.SaleItemInput{item("a", 2), item("b", 3)}})
	require.Error(t, err)

	assert.Equal(t, 10, f.stock(t, "a").Stock)
	assert.Equal(t, 10, f.stock(t, "b").Stock)
	assert.Empty(t, f.movements(t, "a"))
	list, _ := f.store.Sales().List(f.ctx, repository.SaleFilter{})
	assert.Empty(t, list)
}

func TestDeleteSale_RoundTripRestoresStock(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 2, 25)
	f.customer(t, "c1")

	sale, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{CustomerID: "c1", Items: []sales.SaleItemInput{item("a", 3)}})
	require.NoError(t, err)
	require.NoError(t, f.uc.DeleteSale(f.ctx, sale.ID, "u2"))

	assert.Equal(t, 10, f.stock(t, "a").Stock)
	movs := f.movements(t, "a")
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeReturn, movs[0].Type)
	assert.Equal(t, 3, movs[0].Quantity)
	assert.Equal(t, "DELETED_SALE_"+sale.InvoiceID, movs[0].Reference)
	assert.Equal(t, entity.MovementTypeSale, movs[1].Type)
	assert.Equal(t, -3, movs[1].Quantity)

	_, err = f.uc.GetSale(f.ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	c, _ := f.store.Customers().GetByID(f.ctx, "c1")
	assert.Zero(t, c.TotalOrders)
	assert.True(t, c.TotalSpent.IsZero())
	assert.Nil(t, c.LastOrder)
}

func TestDeleteSale_OnlyPending(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 2, 25)

	sale, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{Items: []sales.SaleItemInput{item("a", 1)}})
	require.NoError(t, err)
	_, err = f.uc.CompleteSale(f.ctx, sale.ID, "u1")
	require.NoError(t, err)

	err = f.uc.DeleteSale(f.ctx, sale.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 9, f.stock(t, "a").Stock)

	assert.ErrorIs(t, f.uc.DeleteSale(f.ctx, "missing", "u1"), domain.ErrNotFound)
}

func TestCompleteSale_Transitions(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 2, 25)

	sale, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{Status: entity.SaleStatusCompleted, Items: []sales.SaleItemInput{item("a", 1)}})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)

	_, err = f.uc.CompleteSale(f.ctx, sale.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRefundSale_ScenarioRestoresInventory(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 5, 25)
	f.customer(t, "c1")

	sale, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{CustomerID: "c1", Items: []sales.SaleItemInput{item("a", 6)}})
	require.NoError(t, err)
	a := f.stock(t, "a")
	require.Equal(t, 4, a.Stock)
	require.Equal(t, entity.ProductStatusLowStock, a.Status)

	res, err := f.uc.RefundSale(f.ctx, sale.ID, sales.RefundInput{Reason: "producto defectuoso"}, "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusRefunded, res.Sale.Status)
	assert.True(t, res.RefundAmount.Equal(sale.Total))
	assert.True(t, res.InventoryRestored)
	require.Len(t, res.Movements, 1)
	assert.Equal(t, "REFUND_"+sale.InvoiceID, res.Movements[0].Reference)

	a = f.stock(t, "a")
	assert.Equal(t, 10, a.Stock)
	assert.Equal(t, entity.ProductStatusInStock, a.Status)
	movs := f.movements(t, "a")
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeReturn, movs[0].Type)
	assert.Equal(t, 6, movs[0].Quantity)

	c, _ := f.store.Customers().GetByID(f.ctx, "c1")
	assert.Zero(t, c.TotalOrders)

	_, err = f.uc.RefundSale(f.ctx, sale.ID, sales.RefundInput{Reason: "otra vez"}, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRefundSale_AmountBoundary(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 5, 25)

	over, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{Items: []sales.SaleItemInput{item("a", 2)}})
	require.NoError(t, err)
	exact, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{Items: []sales.SaleItemInput{item("a", 2)}})
	require.NoError(t, err)

	tooMuch := over.Total.Add(decimal.RequireFromString("0.01"))
	_, err = f.uc.RefundSale(f.ctx, over.ID, sales.RefundInput{Reason: "x", RefundAmount: &tooMuch}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	still, _ := f.uc.GetSale(f.ctx, over.ID)
	assert.Equal(t, entity.SaleStatusPending, still.Status)

	total := exact.Total
	noRestore := false
	res, err := f.uc.RefundSale(f.ctx, exact.ID, sales.RefundInput{Reason: "x", RefundAmount: &total, RestoreInventory: &noRestore}, "u1")
	require.NoError(t, err)
	assert.True(t, res.RefundAmount.Equal(exact.Total))
	assert.Empty(t, res.Movements)
	assert.Equal(t, 6, f.stock(t, "a").Stock)
}

func TestRefundSale_Validation(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 10, 5, 25)
	sale, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{Items: []sales.SaleItemInput{item("a", 1)}})
	require.NoError(t, err)

	_, err = f.uc.RefundSale(f.ctx, sale.ID, sales.RefundInput{Reason: "  "}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	zero := decimal.Zero
	_, err = f.uc.RefundSale(f.ctx, sale.ID, sales.RefundInput{Reason: "x", RefundAmount: &zero}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RefundSale(f.ctx, "missing", sales.RefundInput{Reason: "x"}, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerAggregates_RecomputeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 100, 5, 10)
	f.customer(t, "c1")
	for i := 1; i <= 3; i++ {
		_, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{CustomerID: "c1", Items: []sales.SaleItemInput{item("a", i)}})
		require.NoError(t, err)
	}

	first, err := f.store.Customers().RecomputeStats(f.ctx, "c1")
	require.NoError(t, err)
	second, err := f.store.Customers().RecomputeStats(f.ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, 3, first.TotalOrders)
	assert.True(t, first.TotalSpent.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, first.TotalOrders, second.TotalOrders)
	assert.True(t, first.TotalSpent.Equal(second.TotalSpent))
}

func TestListSales_FilterByStatus(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 100, 5, 10)
	_, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{Items: []sales.SaleItemInput{item("a", 1)}})
	require.NoError(t, err)
	_, err = f.uc.CreateSale(f.ctx, sales.CreateSaleInput{Status: entity.SaleStatusCompleted, Items: []sales.SaleItemInput{item("a", 1)}})
	require.NoError(t, err)

	list, err := f.uc.ListSales(f.ctx, repository.SaleFilter{Status: entity.SaleStatusCompleted})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.SaleStatusCompleted, list[0].Status)
}

// failAfter deja pasar ok movimientos y hace fallar el siguiente.
type failAfter struct {
	store *memory.Store
	ok    int
}

type countingMovements struct {
	repository.InventoryMovementRepository
	left *int
}

func (m countingMovements) Create(ctx context.Context, mov *entity.InventoryMovement) error {
	if *m.left == 0 {
		return errors.New("conexión perdida")
	}
	*m.left--
	return m.InventoryMovementRepository.Create(ctx, mov)
}

func (r failAfter) Run(ctx context.Context, fn func(repository.TxRepositories) error) error {
	left := r.ok
	return r.store.Run(ctx, func(repos repository.TxRepositories) error {
		repos.Movements = countingMovements{InventoryMovementRepository: repos.Movements, left: &left}
		return fn(repos)
	})
}

func TestCreateSale_AppliesLinesInProductOrder(t *testing.T) {
	f := newFixture(t)
	f.product(t, "b", 10, 1, 5)
	f.product(t, "a", 10, 1, 5)
	f.product(t, "c", 10, 1, 5)

	sale, err := f.uc.CreateSale(f.ctx, sales.CreateSaleInput{UserID: "u1", Items: []sales.SaleItemInput{item("c", 1), item("a", 2), item("b", 3)}})
	require.NoError(t, err)
	assert.Equal(t, "c", sale.Items[0].ProductID)

	movs, err := f.store.Movements().ListBySource(f.ctx, entity.MovementSourceSale, sale.ID)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{movs[0].ProductID, movs[1].ProductID, movs[2].ProductID})

	require.NoError(t, f.uc.DeleteSale(f.ctx, sale.ID, "u1"))
	movs, err = f.store.Movements().ListBySource(f.ctx, entity.MovementSourceSale, sale.ID)
	require.NoError(t, err)
	require.Len(t, movs, 6)
	assert.Equal(t, []string{"a", "b", "c"}, []string{movs[3].ProductID, movs[4].ProductID, movs[5].ProductID})
	assert.Equal(t, 10, f.stock(t, "b").Stock)
}
