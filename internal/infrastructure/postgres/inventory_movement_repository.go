package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, product_id, user_id, type, quantity, reference, source_type, source_id, notes, created_at`

// InventoryMovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo inserta y consulta.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

func scanMovement(row scanner) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var userID, reference, notes *string
	if err := row.Scan(&m.ID, &m.ProductID, &userID, &m.Type, &m.Quantity, &reference,
		&m.SourceType, &m.SourceID, &notes, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.UserID = deref(userID)
	m.Reference = deref(reference)
	m.Notes = deref(notes)
	return &m, nil
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, nullable(m.UserID), m.Type, m.Quantity, nullable(m.Reference),
		m.SourceType, m.SourceID, nullable(m.Notes), m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto %s", m.ProductID)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas, más recientes primero.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limitArg(limit), offset)
	return r.list(ctx, "list by product", query, args...)
}

// ListBySource lista los movimientos generados por un documento, en orden de inserción.
func (r *InventoryMovementRepo) ListBySource(ctx context.Context, sourceType, sourceID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE source_type = $1 AND source_id = $2 ORDER BY seq`
	return r.list(ctx, "list by source", query, sourceType, sourceID)
}

// SumByProduct suma las cantidades del libro para un producto.
func (r *InventoryMovementRepo) SumByProduct(ctx context.Context, productID string) (int, error) {
	var sum int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0)::int FROM inventory_movements WHERE product_id = $1`, productID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

func (r *InventoryMovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
