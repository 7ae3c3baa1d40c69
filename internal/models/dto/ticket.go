package dto

type BookTicketRequest struct {
	EventID       string   `json:"eventId"`
	Amount        *float64 `json:"amount"`
	TransactionID string   `json:"transactionId"`
}

type HasTicketResponse struct {
	HasTicket bool `json:"hasTicket"`
}
