package models

import "time"

// Ticket links a user to an event they booked.
type Ticket struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user"`
	EventID       string        `json:"eventId"`
	Amount        float64       `json:"amount"`
	TransactionID string        `json:"transactionId"`
	CreatedAt     time.Time     `json:"createdAt"`
	Event         *EventSummary `json:"event,omitempty"`
}

// EventSummary is the event projection joined into ticket listings.
type EventSummary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	DateTime time.Time `json:"dateTime"`
	Location string    `json:"location"`
	ImageURL string    `json:"imageUrl"`
	Price    string    `json:"price"`
}
