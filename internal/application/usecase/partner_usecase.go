package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// CustomerUseCase casos de uso de clientes. Los agregados solo se escriben vía RecomputeStats.
type CustomerUseCase struct {
	txRunner TxRunner
	repo     repository.CustomerRepository
	audit    audit.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(txRunner TxRunner, repo repository.CustomerRepository, auditLog audit.Logger) *CustomerUseCase {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &CustomerUseCase{txRunner: txRunner, repo: repo, audit: auditLog}
}

// Create registra un cliente con agregados en cero.
func (uc *CustomerUseCase) Create(ctx context.Context, userID string, in dto.CreatePartnerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name es obligatorio")
	}
	now := time.Now()
	c := &entity.Customer{
		ID:         uuid.New().String(),
		Name:       name,
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		TotalSpent: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      userID,
		Module:      audit.ModuleCatalog,
		Action:      "customer.created",
		Description: fmt.Sprintf("Cliente %s creado", c.Name),
	})
	return toCustomerResponse(c), nil
}

// GetByID obtiene un cliente por ID.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if c == nil {
		return nil, domain.NotFound("cliente %s", id)
	}
	return toCustomerResponse(c), nil
}

// List lista clientes con paginación.
func (uc *CustomerUseCase) List(ctx context.Context, limit, offset int) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// RecomputeStats recalcula los agregados desde las ventas; se puede invocar en cualquier momento.
func (uc *CustomerUseCase) RecomputeStats(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	var c *entity.Customer
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		var err error
		c, err = repos.Customers.RecomputeStats(ctx, id)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("cliente %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("recompute customer stats: %w", err)
	}
	return toCustomerResponse(c), nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		TotalOrders: c.TotalOrders,
		TotalSpent:  c.TotalSpent,
		LastOrder:   c.LastOrder,
	}
}

// SupplierUseCase casos de uso de proveedores.
type SupplierUseCase struct {
	txRunner TxRunner
	repo     repository.SupplierRepository
	audit    audit.Logger
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(txRunner TxRunner, repo repository.SupplierRepository, auditLog audit.Logger) *SupplierUseCase {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &SupplierUseCase{txRunner: txRunner, repo: repo, audit: auditLog}
}

// Create registra un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, userID string, in dto.CreatePartnerRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name es obligatorio")
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:         uuid.New().String(),
		Name:       name,
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		TotalValue: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("insert supplier: %w", err)
	}
	uc.audit.Record(ctx, entity.ActivityLog{
		UserID:      userID,
		Module:      audit.ModuleCatalog,
		Action:      "supplier.created",
		Description: fmt.Sprintf("Proveedor %s creado", s.Name),
	})
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	if s == nil {
		return nil, domain.NotFound("proveedor %s", id)
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores con paginación.
func (uc *SupplierUseCase) List(ctx context.Context, limit, offset int) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// RecomputeStats recalcula los agregados desde todas las órdenes del proveedor.
func (uc *SupplierUseCase) RecomputeStats(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	var s *entity.Supplier
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		var err error
		s, err = repos.Suppliers.RecomputeStats(ctx, id)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("proveedor %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("recompute supplier stats: %w", err)
	}
	return toSupplierResponse(s), nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		TotalOrders: s.TotalOrders,
		TotalValue:  s.TotalValue,
		LastOrder:   s.LastOrder,
	}
}
