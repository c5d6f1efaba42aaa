package dto

// PaginatedResponse wraps list endpoints with the total row count so clients
// can render pagination controls.
type PaginatedResponse struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type MensajeResponse struct {
	Mensaje string `json:"mensaje"`
}
