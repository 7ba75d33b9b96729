// Package geo validates untrusted coordinate text and provides distance helpers.
package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/pkg/errors"
)

const separator = ","

// ParseLocation parses "<lat>,<lon>" into a validated location.
func ParseLocation(s string) (models.Location, error) {
	parts := strings.Split(s, separator)
	if len(parts) != 2 {
		return models.Location{}, errors.Wrapf(models.ErrMalformedInput, "expected \"lat,lon\", got %q", s)
	}
	return ParseLatLon(parts[0], parts[1])
}

// ParseLatLon parses latitude and longitude supplied as separate fields.
func ParseLatLon(lat, lon string) (models.Location, error) {
	la, err := parseComponent("latitude", lat)
	if err != nil {
		return models.Location{}, err
	}
	lo, err := parseComponent("longitude", lon)
	if err != nil {
		return models.Location{}, err
	}
	loc := models.Location{Lat: la, Lon: lo}
	if err := Validate(loc); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// Validate checks that loc lies within WGS84 bounds.
func Validate(loc models.Location) error {
	if loc.Lat < -90 || loc.Lat > 90 {
		return errors.Wrapf(models.ErrInvalidNumber, "latitude %v out of range [-90, 90]", loc.Lat)
	}
	if loc.Lon < -180 || loc.Lon > 180 {
		return errors.Wrapf(models.ErrInvalidNumber, "longitude %v out of range [-180, 180]", loc.Lon)
	}
	return nil
}

func parseComponent(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.Wrapf(models.ErrInvalidNumber, "%s %q", name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(models.ErrInvalidNumber, "%s %q is not finite", name, raw)
	}
	return v, nil
}
