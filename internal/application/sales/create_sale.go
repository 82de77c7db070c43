package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// SaleUseCase liquida ventas: creación, cierre, borrado y reembolso, manteniendo stock,
// libro de movimientos y agregados del cliente en la misma transacción.
type SaleUseCase struct {
	txRunner TxRunner
	ledger   StockLedger
	saleRepo repository.SaleRepository
	audit    audit.Logger
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, ledger StockLedger, saleRepo repository.SaleRepository, auditLog audit.Logger) *SaleUseCase {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &SaleUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		saleRepo: saleRepo,
		audit:    auditLog,
		now:      time.Now,
	}
}

// CreateSaleInput entrada para crear una venta. Subtotal y total se calculan aquí.
type CreateSaleInput struct {
	UserID     string
	CustomerID string
	Status     string // PENDING (default) o COMPLETED
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	Shipping   decimal.Decimal
	Notes      string
	Items      []SaleItemInput
}

// SaleItemInput línea solicitada. UnitPrice nil toma el precio vigente del producto.
type SaleItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
}

func (in CreateSaleInput) validate() error {
	if len(in.Items) == 0 {
		return domain.Invalid("la venta debe tener al menos un ítem")
	}
	switch in.Status {
	case "", entity.SaleStatusPending, entity.SaleStatusCompleted:
	default:
		return domain.Invalid("estado inicial %q no permitido", in.Status)
	}
	if in.Tax.IsNegative() || in.Discount.IsNegative() || in.Shipping.IsNegative() {
		return domain.Invalid("impuesto, descuento y envío no pueden ser negativos")
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return domain.Invalid("ítem %d: product_id es obligatorio", i+1)
		}
		if it.Quantity <= 0 {
			return domain.Invalid("ítem %d: la cantidad debe ser mayor que cero", i+1)
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return domain.Invalid("ítem %d: el precio no puede ser negativo", i+1)
		}
	}
	return nil
}

// CreateSale crea la venta y por cada línea descuenta stock con un movimiento SALE
// (referencia = número de factura). Falla completa si cualquier línea falla.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	status := in.Status
	if status == "" {
		status = entity.SaleStatusPending
	}
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		InvoiceID:  newDocumentNumber("INV", now),
		CustomerID: in.CustomerID,
		UserID:     in.UserID,
		Status:     status,
		Tax:        in.Tax,
		Discount:   in.Discount,
		Shipping:   in.Shipping,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var lowStock []string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		if sale.CustomerID != "" {
			c, err := repos.Customers.GetByID(ctx, sale.CustomerID)
			if err != nil {
				return fmt.Errorf("get customer: %w", err)
			}
			if c == nil {
				return domain.NotFound("cliente %s", sale.CustomerID)
			}
		}

		subtotal := decimal.Zero
		for _, it := range in.Items {
			p, err := repos.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("get product: %w", err)
			}
			if p == nil {
				return domain.NotFound("producto %s", it.ProductID)
			}
			price := p.Price
			if it.UnitPrice != nil {
				price = *it.UnitPrice
			}
			line := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: price,
				Total:     line,
			})
			subtotal = subtotal.Add(line)
		}
		gross := subtotal.Add(sale.Tax).Add(sale.Shipping)
		if sale.Discount.GreaterThan(gross) {
			return domain.Invalid("el descuento %s supera el total bruto %s", sale.Discount, gross)
		}
		sale.Subtotal = subtotal
		sale.Total = gross.Sub(sale.Discount)

		if err := repos.Sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		for _, i := range inventory.LockOrder(len(sale.Items), func(i int) string { return sale.Items[i].ProductID }) {
			it := sale.Items[i]
			_, p, err := uc.ledger.ApplyInTx(ctx, repos, inventory.StockChange{
				ProductID:  it.ProductID,
				UserID:     sale.UserID,
				Type:       entity.MovementTypeSale,
				Quantity:   -it.Quantity,
				Reference:  sale.InvoiceID,
				SourceType: entity.MovementSourceSale,
				SourceID:   sale.ID,
			})
			if err != nil {
				return err
			}
			if p.Status == entity.ProductStatusLowStock || p.Status == entity.ProductStatusOutOfStock {
				lowStock = append(lowStock, p.SKU)
			}
		}
		return recomputeCustomer(ctx, repos, sale.CustomerID)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      in.UserID,
		Module:      audit.ModuleSales,
		Action:      "sale.created",
		Description: fmt.Sprintf("Venta %s por %s (%d ítems)", sale.InvoiceID, sale.Total.StringFixed(2), len(sale.Items)),
	})
	if len(lowStock) > 0 {
		uc.audit.Record(ctx, entity.ActivityLog{
			UserID:      in.UserID,
			Module:      audit.ModuleInventory,
			Action:      "stock.low",
			Severity:    entity.SeverityWarning,
			Description: fmt.Sprintf("Stock bajo tras venta %s: %s", sale.InvoiceID, strings.Join(lowStock, ", ")),
		})
	}
	return sale, nil
}

// recomputeCustomer recalcula los agregados del cliente dentro de la transacción.
func recomputeCustomer(ctx context.Context, repos repository.TxRepositories, customerID string) error {
	if customerID == "" {
		return nil
	}
	if _, err := repos.Customers.RecomputeStats(ctx, customerID); err != nil {
		return fmt.Errorf("recompute customer stats: %w", err)
	}
	return nil
}

// newDocumentNumber genera números como INV-20260115-3F2A9C1D.
func newDocumentNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
