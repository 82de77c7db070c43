package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock de un producto. DISCONTINUED solo se asigna manualmente.
const (
	ProductStatusInStock      = "IN_STOCK"
	ProductStatusLowStock     = "LOW_STOCK"
	ProductStatusOutOfStock   = "OUT_OF_STOCK"
	ProductStatusDiscontinued = "DISCONTINUED"
)

// Product representa un producto del catálogo con su stock en la única ubicación del negocio.
// Stock solo cambia vía movimientos de inventario; Status es derivado de Stock y MinStock.
type Product struct {
	ID            string
	SKU           string // único
	Name          string
	Price         decimal.Decimal // precio de venta
	Cost          decimal.Decimal // costo promedio ponderado
	Stock         int             // puede quedar negativo por sobreventa
	MinStock      int
	MaxStock      int
	Status        string
	LastRestocked *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsDiscontinued indica si el producto fue descontinuado manualmente.
func (p *Product) IsDiscontinued() bool {
	return p.Status == ProductStatusDiscontinued
}
