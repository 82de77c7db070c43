package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

const customerColumns = `id, name, email, phone, total_orders, total_spent, last_order, created_at, updated_at`

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row scanner) (*entity.Customer, error) {
	var c entity.Customer
	var email, phone *string
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &c.TotalOrders, &c.TotalSpent, &c.LastOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Email = deref(email)
	c.Phone = deref(phone)
	return &c, nil
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `INSERT INTO customers (` + customerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, nullable(c.Email), nullable(c.Phone),
		c.TotalOrders, c.TotalSpent, c.LastOrder, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List lista clientes por nombre.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// RecomputeStats recalcula los agregados desde las ventas no reembolsadas.
func (r *CustomerRepo) RecomputeStats(ctx context.Context, id string) (*entity.Customer, error) {
	query := `
		UPDATE customers c
		SET total_orders = agg.orders, total_spent = agg.spent, last_order = agg.last_order
		FROM (
			SELECT COUNT(*)::int AS orders, COALESCE(SUM(total), 0) AS spent, MAX(created_at) AS last_order
			FROM sales WHERE customer_id = $1 AND status <> 'REFUNDED'
		) agg
		WHERE c.id = $1
		RETURNING c.id, c.name, c.email, c.phone, c.total_orders, c.total_spent, c.last_order, c.created_at, c.updated_at`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("recompute customer stats: %w", err)
	}
	return c, nil
}

const supplierColumns = `id, name, email, phone, total_orders, total_value, last_order, created_at, updated_at`

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row scanner) (*entity.Supplier, error) {
	var s entity.Supplier
	var email, phone *string
	if err := row.Scan(&s.ID, &s.Name, &email, &phone, &s.TotalOrders, &s.TotalValue, &s.LastOrder, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Email = deref(email)
	s.Phone = deref(phone)
	return &s, nil
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `INSERT INTO suppliers (` + supplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, s.ID, s.Name, nullable(s.Email), nullable(s.Phone),
		s.TotalOrders, s.TotalValue, s.LastOrder, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// List lista proveedores por nombre.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// RecomputeStats recalcula los agregados desde todas las órdenes del proveedor, canceladas incluidas.
func (r *SupplierRepo) RecomputeStats(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `
		UPDATE suppliers s
		SET total_orders = agg.orders, total_value = agg.value, last_order = agg.last_order
		FROM (
			SELECT COUNT(*)::int AS orders, COALESCE(SUM(total), 0) AS value, MAX(created_at) AS last_order
			FROM purchase_orders WHERE supplier_id = $1
		) agg
		WHERE s.id = $1
		RETURNING s.id, s.name, s.email, s.phone, s.total_orders, s.total_value, s.last_order, s.created_at, s.updated_at`
	s, err := scanSupplier(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("recompute supplier stats: %w", err)
	}
	return s, nil
}
