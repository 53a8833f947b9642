package exchange

// DTOs raw del exchange. Solo se usan dentro de este paquete.

// listResponse es la respuesta de GET /list.
// Data viene ausente (o null) cuando Total es 0.
type listResponse struct {
	Total int        `json:"total"`
	Data  []listItem `json:"data,omitempty"`
}

// listItem es un listing raw. Amount y Price son enteros en string.
type listItem struct {
	Amount string `json:"amount"`
	Price  string `json:"price"`
}
