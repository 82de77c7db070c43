package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusPending   = "PENDING"
	SaleStatusCompleted = "COMPLETED"
	SaleStatusRefunded  = "REFUNDED"
)

// Sale es la cabecera de una venta. Total = Subtotal + Tax + Shipping - Discount.
type Sale struct {
	ID           string
	InvoiceID    string
	CustomerID   string // opcional
	UserID       string
	Status       string
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Discount     decimal.Decimal
	Shipping     decimal.Decimal
	Total        decimal.Decimal
	Notes        string
	RefundReason string
	RefundAmount decimal.Decimal
	RefundedAt   *time.Time
	Items        []SaleItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SaleItem es una línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}
