package dto

// ErrorResponse cuerpo de error HTTP.
// Fields: errores por campo (VALIDATION). Targets: destinos cuyo precio no admite el descuento (PRICE_EXCEEDED).
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Targets []string          `json:"targets,omitempty"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
