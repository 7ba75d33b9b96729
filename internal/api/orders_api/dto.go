package orders_api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/pkg/errors"
)

const timeLayout = "2006-01-02 15:04:05"

type createOrderRequest struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
}

// updateStatusRequest accepts lat/lon as JSON strings or numbers.
type updateStatusRequest struct {
	Status string          `json:"status"`
	Lat    json.RawMessage `json:"lat"`
	Lon    json.RawMessage `json:"lon"`
}

type locationDTO struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type orderDTO struct {
	ID             uint64      `json:"id"`
	CustomerName   string      `json:"customer_name"`
	Address        string      `json:"address"`
	DeliveryStatus string      `json:"delivery_status"`
	Time           string      `json:"time"`
	CreatedAt      time.Time   `json:"created_at"`
	Location       locationDTO `json:"location"`
}

type ordersResponse struct {
	Orders []orderDTO `json:"orders"`
}

type etaResponse struct {
	OrderID  uint64  `json:"order_id"`
	Duration float64 `json:"duration"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toOrderDTO(o models.Order) orderDTO {
	out := orderDTO{
		ID:             o.ID,
		CustomerName:   o.CustomerName,
		Address:        o.Address,
		DeliveryStatus: o.Status,
		Time:           o.CreatedAt.Format(timeLayout),
		CreatedAt:      o.CreatedAt,
	}
	if o.Location != nil {
		lat, lon := o.Location.Lat, o.Location.Lon
		out.Location = locationDTO{Lat: &lat, Lon: &lon}
	}
	return out
}

func toOrderDTOs(orders []models.Order) []orderDTO {
	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	return out
}

// rawText returns the text of a JSON string or number; validation happens later.
func rawText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.Wrap(models.ErrMalformedInput, err.Error())
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", errors.Wrapf(models.ErrMalformedInput, "expected number, got %s", string(raw))
	}
	return n.String(), nil
}
