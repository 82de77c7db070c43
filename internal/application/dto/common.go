package dto

// Topes de paginación compartidos por todos los listados.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest limit/offset leídos del query string.
type PageRequest struct {
	Limit  int
	Offset int
}

// DefaultPage normaliza Limit a [1, MaxLimit] y Offset a >= 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas de listados.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// NewPageResponse arma los metadatos con la cantidad de elementos devueltos.
func NewPageResponse(limit, offset, count int) PageResponse {
	return PageResponse{Limit: limit, Offset: offset, Count: count}
}

// ErrorResponse cuerpo de error HTTP: {"success": false, "code": "...", "message": "..."}.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
