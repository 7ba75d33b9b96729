package models

import "time"

// OrderStatusPending is the status every order starts with. Drivers may
// overwrite it with any label; there is no transition graph.
const OrderStatusPending = "Pending"

// Location is a validated latitude/longitude pair.
type Location struct {
	Lat float64
	Lon float64
}

type Order struct {
	ID           uint64
	CustomerName string
	Address      string
	Status       string
	CreatedAt    time.Time

	// Location is the driver's last reported position; nil until the first
	// status update.
	Location *Location
}

// HasLocation reports whether a driver position has been recorded.
func (o Order) HasLocation() bool { return o.Location != nil }

// Clone returns a copy that shares no memory with o.
func (o Order) Clone() Order {
	if o.Location != nil {
		loc := *o.Location
		o.Location = &loc
	}
	return o
}

type OrderCreateInput struct {
	CustomerName string
	Address      string
}

// OrderUpdateInput carries raw driver input; Lat and Lon are untrusted text.
type OrderUpdateInput struct {
	OrderID uint64
	Status  string
	Lat     string
	Lon     string
}
