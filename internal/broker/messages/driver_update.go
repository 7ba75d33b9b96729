package messages

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// DriverUpdate is a status report sent by driver devices. Lat and Lon are
// accepted as JSON numbers or strings and validated downstream.
type DriverUpdate struct {
	OrderID uint64      `json:"order_id"`
	Driver  string      `json:"driver,omitempty"`
	Status  string      `json:"status"`
	Lat     json.Number `json:"lat"`
	Lon     json.Number `json:"lon"`
}

func DecodeDriverUpdate(b []byte) (DriverUpdate, error) {
	var raw struct {
		OrderID uint64          `json:"order_id"`
		Driver  string          `json:"driver"`
		Status  string          `json:"status"`
		Lat     json.RawMessage `json:"lat"`
		Lon     json.RawMessage `json:"lon"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return DriverUpdate{}, errors.Wrap(err, "decode driver update")
	}
	if raw.OrderID == 0 {
		return DriverUpdate{}, errors.New("order_id is required")
	}
	lat, err := numberText(raw.Lat)
	if err != nil {
		return DriverUpdate{}, errors.Wrap(err, "lat")
	}
	lon, err := numberText(raw.Lon)
	if err != nil {
		return DriverUpdate{}, errors.Wrap(err, "lon")
	}
	return DriverUpdate{
		OrderID: raw.OrderID,
		Driver:  raw.Driver,
		Status:  raw.Status,
		Lat:     json.Number(lat),
		Lon:     json.Number(lon),
	}, nil
}

func numberText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return "", err
	}
	return n.String(), nil
}
