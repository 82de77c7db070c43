package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente. TotalOrders, TotalSpent y LastOrder son caché
// recalculada desde las ventas no reembolsadas.
type Customer struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	TotalOrders int
	TotalSpent  decimal.Decimal
	LastOrder   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
