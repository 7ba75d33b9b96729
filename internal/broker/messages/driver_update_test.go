package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeDriverUpdate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    DriverUpdate
		wantErr bool
	}{
		{
			name: "numbers",
			in:   `{"order_id":3,"status":"InTransit","lat":10.5,"lon":-20}`,
			want: DriverUpdate{OrderID: 3, Status: "InTransit", Lat: "10.5", Lon: "-20"},
		},
		{
			name: "strings",
			in:   `{"order_id":3,"driver":"driver1","status":"Delivered","lat":"10.0","lon":"20.0"}`,
			want: DriverUpdate{OrderID: 3, Driver: "driver1", Status: "Delivered", Lat: "10.0", Lon: "20.0"},
		},
		{
			name: "strings are not checked here",
			in:   `{"order_id":1,"status":"x","lat":"abc","lon":"1"}`,
			want: DriverUpdate{OrderID: 1, Status: "x", Lat: "abc", Lon: "1"},
		},
		{name: "missing order id", in: `{"status":"x","lat":1,"lon":2}`, wantErr: true},
		{name: "not json", in: `nope`, wantErr: true},
		{name: "lat is object", in: `{"order_id":1,"lat":{},"lon":2}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDriverUpdate([]byte(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOrderEvent_JSON(t *testing.T) {
	b, err := json.Marshal(OrderEvent{
		EventID: "e1", Type: OrderEventUpdated, OrderID: 1, Status: "Delivered",
		Location: &LatLon{Lat: 1, Lon: 2},
	})
	require.NoError(t, err)
	require.Contains(t, string(b), `"location":{"lat":1,"lon":2}`)
	require.Contains(t, string(b), `"type":"order.updated"`)
}
