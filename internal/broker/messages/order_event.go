package messages

import "time"

const (
	OrderEventCreated = "order.created"
	OrderEventUpdated = "order.updated"
)

type OrderEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OrderID    uint64    `json:"order_id"`
	Customer   string    `json:"customer_name"`
	Address    string    `json:"address"`
	Status     string    `json:"status"`
	Location   *LatLon   `json:"location,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
