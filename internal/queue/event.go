// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// OrderCreatedEvent is published after a reservation commits. One event
// covers the whole reservation even when it spans several seats, so a
// downstream consumer can log or notify without querying the primary
// database.
type OrderCreatedEvent struct {
	OrderIDs    []uint64 `json:"order_ids"`
	CustomerID  uint64   `json:"customer_id"`
	SessionID   uint64   `json:"session_id"`
	HallName    string   `json:"hall_name"`
	MovieTitle  string   `json:"movie_title"`
	Date        string   `json:"date"`
	TimeStart   string   `json:"time_start"`
	SeatNumbers []uint32 `json:"seats"`
	PriceEach   uint32   `json:"price_each"`
	CreatedAt   string   `json:"created_at"`
}
