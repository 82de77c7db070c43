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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, po_number, supplier_id, user_id, status, subtotal, tax, shipping, total,
	notes, expected_date, received_date, created_at, updated_at`

// PurchaseOrderRepo implementación sobre PostgreSQL de órdenes, líneas y línea de tiempo.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func scanPurchaseOrder(row scanner) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var userID, notes *string
	if err := row.Scan(&po.ID, &po.PONumber, &po.SupplierID, &userID, &po.Status,
		&po.Subtotal, &po.Tax, &po.Shipping, &po.Total,
		&notes, &po.ExpectedDate, &po.ReceivedDate, &po.CreatedAt, &po.UpdatedAt); err != nil {
		return nil, err
	}
	po.UserID = deref(userID)
	po.Notes = deref(notes)
	return &po, nil
}

// Create persiste cabecera, líneas y eventos iniciales. Debe ejecutarse dentro de una transacción.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.PONumber, po.SupplierID, nullable(po.UserID), po.Status,
		po.Subtotal, po.Tax, po.Shipping, po.Total,
		nullable(po.Notes), po.ExpectedDate, po.ReceivedDate, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NotFound("proveedor %s", po.SupplierID)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	itemQuery := `
		INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity, received_quantity, unit_cost, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, it := range po.Items {
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, po.ID, it.ProductID, it.Quantity, it.ReceivedQuantity, it.UnitCost, it.Total); err != nil {
			if isForeignKeyViolation(err) {
				return domain.NotFound("producto %s", it.ProductID)
			}
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	for i := range po.Timeline {
		ev := po.Timeline[i]
		ev.PurchaseOrderID = po.ID
		if err := r.AppendEvent(ctx, &ev); err != nil {
			return err
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, op, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.loadChildren(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// GetByID obtiene la orden con líneas y línea de tiempo.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, "get purchase order", `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden bloqueando la cabecera.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, "get purchase order for update", `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) loadChildren(ctx context.Context, po *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, quantity, received_quantity, unit_cost, total
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY seq`, po.ID)
	if err != nil {
		return fmt.Errorf("list purchase order items: %w", err)
	}
	po.Items = nil
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.ReceivedQuantity, &it.UnitCost, &it.Total); err != nil {
			rows.Close()
			return fmt.Errorf("scan purchase order item: %w", err)
		}
		po.Items = append(po.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list purchase order items: %w", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, purchase_order_id, status, description, user_id, created_at
		FROM purchase_order_events WHERE purchase_order_id = $1 ORDER BY seq`, po.ID)
	if err != nil {
		return fmt.Errorf("list purchase order events: %w", err)
	}
	defer rows.Close()
	po.Timeline = nil
	for rows.Next() {
		var ev entity.PurchaseOrderEvent
		var userID *string
		if err := rows.Scan(&ev.ID, &ev.PurchaseOrderID, &ev.Status, &ev.Description, &userID, &ev.CreatedAt); err != nil {
			return fmt.Errorf("scan purchase order event: %w", err)
		}
		ev.UserID = deref(userID)
		po.Timeline = append(po.Timeline, ev)
	}
	return rows.Err()
}

// Update actualiza estado, notas y fecha de recepción.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `UPDATE purchase_orders SET status = $2, notes = $3, received_date = $4, updated_at = $5 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, po.ID, po.Status, nullable(po.Notes), po.ReceivedDate, po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItemReceived registra la cantidad recibida de una línea.
func (r *PurchaseOrderRepo) UpdateItemReceived(ctx context.Context, itemID string, receivedQuantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_order_items SET received_quantity = $2 WHERE id = $1`, itemID, receivedQuantity)
	if err != nil {
		return fmt.Errorf("update purchase order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AppendEvent agrega una entrada a la línea de tiempo.
func (r *PurchaseOrderRepo) AppendEvent(ctx context.Context, ev *entity.PurchaseOrderEvent) error {
	query := `
		INSERT INTO purchase_order_events (id, purchase_order_id, status, description, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, ev.ID, ev.PurchaseOrderID, ev.Status, ev.Description, nullable(ev.UserID), ev.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase order event: %w", err)
	}
	return nil
}

// Delete elimina la orden; líneas y eventos caen por ON DELETE CASCADE.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE ($1 = '' OR supplier_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, filter.SupplierID, filter.Status, limitArg(filter.Limit), filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	for _, po := range list {
		if err := r.loadChildren(ctx, po); err != nil {
			return nil, err
		}
	}
	return list, nil
}
