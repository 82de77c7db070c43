package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartnerRequest body para POST /api/customers y POST /api/suppliers.
type CreatePartnerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CustomerResponse cliente con sus agregados.
type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LastOrder   *time.Time      `json:"last_order,omitempty"`
}

// SupplierResponse proveedor con sus agregados.
type SupplierResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	TotalOrders int             `json:"total_orders"`
	TotalValue  decimal.Decimal `json:"total_value"`
	LastOrder   *time.Time      `json:"last_order,omitempty"`
}
