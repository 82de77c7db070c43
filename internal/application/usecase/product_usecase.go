package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/retail-ledger/internal/domain/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// InitialStockReference referencia del movimiento que documenta el stock de apertura.
const InitialStockReference = "INITIAL_STOCK"

// ProductUseCase casos de uso CRUD para productos. Stock solo cambia vía movimientos.
type ProductUseCase struct {
	txRunner TxRunner
	ledger   StockLedger
	repo     repository.ProductRepository
	audit    audit.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner TxRunner, ledger StockLedger, repo repository.ProductRepository, auditLog audit.Logger) *ProductUseCase {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &ProductUseCase{txRunner: txRunner, ledger: ledger, repo: repo, audit: auditLog}
}

func validateLevels(minStock, maxStock int) error {
	if minStock < 0 || maxStock < 0 {
		return domain.Invalid("min_stock y max_stock no pueden ser negativos")
	}
	if maxStock > 0 && maxStock < minStock {
		return domain.Invalid("max_stock (%d) es menor que min_stock (%d)", maxStock, minStock)
	}
	return nil
}

// Create crea un producto. El stock inicial se registra como movimiento ADJUSTMENT para que el
// libro cuadre con el stock desde el primer día.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.Invalid("sku y name son obligatorios")
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.Invalid("precio y costo no pueden ser negativos")
	}
	if in.InitialStock < 0 {
		return nil, domain.Invalid("initial_stock no puede ser negativo")
	}
	if err := validateLevels(in.MinStock, in.MaxStock); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       sku,
		Name:      name,
		Price:     in.Price,
		Cost:      in.Cost,
		MinStock:  in.MinStock,
		MaxStock:  in.MaxStock,
		Status:    domaininv.DeriveStatus(0, in.MinStock),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		existing, err := repos.Products.GetBySKU(ctx, sku)
		if err != nil {
			return fmt.Errorf("get product by sku: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, sku)
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		if in.InitialStock == 0 {
			return nil
		}
		_, p, err := uc.ledger.ApplyInTx(ctx, repos, inventory.StockChange{
			ProductID:  product.ID,
			UserID:     userID,
			Type:       entity.MovementTypeAdjustment,
			Quantity:   in.InitialStock,
			Reference:  InitialStockReference,
			SourceType: entity.MovementSourceProduct,
			SourceID:   product.ID,
		})
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      userID,
		Module:      audit.ModuleCatalog,
		Action:      "product.created",
		Description: fmt.Sprintf("Producto %s creado con stock %d", product.SKU, product.Stock),
	})
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, domain.NotFound("producto %s", id)
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo. Si cambia MinStock el estado se deriva de nuevo
// con la fila bloqueada.
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name no puede quedar vacío")
	}
	if (in.Price != nil && in.Price.IsNegative()) || (in.Cost != nil && in.Cost.IsNegative()) {
		return nil, domain.Invalid("precio y costo no pueden ser negativos")
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}
		if p == nil {
			return domain.NotFound("producto %s", id)
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Cost != nil {
			p.Cost = *in.Cost
		}
		if in.MinStock != nil {
			p.MinStock = *in.MinStock
		}
		if in.MaxStock != nil {
			p.MaxStock = *in.MaxStock
		}
		if err := validateLevels(p.MinStock, p.MaxStock); err != nil {
			return err
		}
		p.Status = domaininv.ResolveStatus(p.Status, p.Stock, p.MinStock)
		p.UpdatedAt = time.Now()
		if err := repos.Products.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      userID,
		Module:      audit.ModuleCatalog,
		Action:      "product.updated",
		Description: fmt.Sprintf("Producto %s actualizado", product.SKU),
	})
	return toProductResponse(product), nil
}

// SetDiscontinued es el único camino que asigna o limpia DISCONTINUED. Al limpiarlo el estado
// vuelve a derivarse del stock.
func (uc *ProductUseCase) SetDiscontinued(ctx context.Context, userID, id string, discontinued bool) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}
		if p == nil {
			return domain.NotFound("producto %s", id)
		}
		status := domaininv.DeriveStatus(p.Stock, p.MinStock)
		if discontinued {
			status = entity.ProductStatusDiscontinued
		}
		if status != p.Status {
			if err := repos.Products.UpdateStatus(ctx, p.ID, status); err != nil {
				return fmt.Errorf("update product status: %w", err)
			}
			p.Status = status
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	action := "product.reactivated"
	if discontinued {
		action = "product.discontinued"
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      userID,
		Module:      audit.ModuleCatalog,
		Action:      action,
		Severity:    entity.SeverityWarning,
		Description: fmt.Sprintf("Producto %s ahora en %s", product.SKU, product.Status),
	})
	return toProductResponse(product), nil
}

// List lista productos con filtro opcional por estado.
func (uc *ProductUseCase) List(ctx context.Context, status string, limit, offset int) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{Limit: limit, Offset: offset}
	if status != "" {
		filter.Statuses = []string{status}
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.NewPageResponse(limit, offset, len(items)),
	}, nil
}

// Delete elimina un producto sin ventas, órdenes ni movimientos asociados.
func (uc *ProductUseCase) Delete(ctx context.Context, userID, id string) error {
	var sku string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}
		if p == nil {
			return domain.NotFound("producto %s", id)
		}
		referenced, err := repos.Products.IsReferenced(ctx, id)
		if err != nil {
			return fmt.Errorf("check product references: %w", err)
		}
		if referenced {
			return domain.Conflict("el producto %s tiene historial; descontinúelo en lugar de eliminarlo", p.SKU)
		}
		sku = p.SKU
		if err := repos.Products.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      userID,
		Module:      audit.ModuleCatalog,
		Action:      "product.deleted",
		Severity:    entity.SeverityWarning,
		Description: fmt.Sprintf("Producto %s eliminado", sku),
	})
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Price:         p.Price,
		Cost:          p.Cost,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		Status:        p.Status,
		LastRestocked: p.LastRestocked,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
