package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor. Los agregados se recalculan desde todas sus órdenes.
type Supplier struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	TotalOrders int
	TotalValue  decimal.Decimal
	LastOrder   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
