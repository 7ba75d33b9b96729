package models

import (
	"errors"
	"fmt"
)

var (
	// Input validation.
	ErrMalformedInput = errors.New("malformed input")
	ErrInvalidNumber  = errors.New("invalid latitude or longitude")

	// Lookup.
	ErrOrderNotFound      = errors.New("order not found")
	ErrDestinationUnknown = errors.New("destination not found")

	// External routing provider.
	ErrRouteServiceUnavailable = errors.New("route service unavailable")
	ErrNoRoute                 = fmt.Errorf("%w: no route found", ErrRouteServiceUnavailable)

	// Authorization.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)
