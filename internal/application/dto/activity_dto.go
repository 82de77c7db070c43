package dto

import "time"

// ActivityLogResponse entrada del registro de actividad.
type ActivityLogResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Module      string    `json:"module"`
	Action      string    `json:"action"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
