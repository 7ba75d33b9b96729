package geo

import (
	"testing"

	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    models.Location
		wantErr error
	}{
		{name: "ok", in: "37.7,-122.4", want: models.Location{Lat: 37.7, Lon: -122.4}},
		{name: "spaces", in: " 10.5 , 20 ", want: models.Location{Lat: 10.5, Lon: 20}},
		{name: "single part", in: "37.7", wantErr: models.ErrMalformedInput},
		{name: "three parts", in: "1,2,3", wantErr: models.ErrMalformedInput},
		{name: "empty", in: "", wantErr: models.ErrMalformedInput},
		{name: "bad lat", in: "abc,123", wantErr: models.ErrInvalidNumber},
		{name: "bad lon", in: "12,", wantErr: models.ErrInvalidNumber},
		{name: "nan", in: "NaN,1", wantErr: models.ErrInvalidNumber},
		{name: "inf", in: "1,+Inf", wantErr: models.ErrInvalidNumber},
		{name: "lat out of range", in: "91,0", wantErr: models.ErrInvalidNumber},
		{name: "lon out of range", in: "0,-180.5", wantErr: models.ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseLatLon(t *testing.T) {
	got, err := ParseLatLon("10.0", "20.0")
	require.NoError(t, err)
	require.Equal(t, models.Location{Lat: 10, Lon: 20}, got)

	_, err = ParseLatLon("", "20.0")
	require.ErrorIs(t, err, models.ErrInvalidNumber)

	// Separate fields never go through the comma split.
	_, err = ParseLatLon("10,0", "20")
	require.ErrorIs(t, err, models.ErrInvalidNumber)
}

func TestDistanceMeters(t *testing.T) {
	require.Zero(t, DistanceMeters(models.Location{Lat: 1, Lon: 1}, models.Location{Lat: 1, Lon: 1}))

	// One degree of latitude is ~111.2 km.
	d := DistanceMeters(models.Location{Lat: 0, Lon: 0}, models.Location{Lat: 1, Lon: 0})
	require.InDelta(t, 111_195, d, 50)
}
