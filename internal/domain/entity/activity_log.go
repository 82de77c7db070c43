package entity

import "time"

// Severidades del registro de actividad.
const (
	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// ActivityLog entrada de auditoría emitida por cada operación que muta estado.
type ActivityLog struct {
	ID          string
	UserID      string
	Module      string // inventory, sales, purchasing, catalog
	Action      string
	Severity    string
	Description string
	CreatedAt   time.Time
}
