package routing

import (
	"context"

	"github.com/BearBump/DeliveryBox/internal/models"
)

type RouteResult struct {
	DurationSeconds float64
	DistanceMeters  float64
}

// Router computes a driving route between two points. Errors wrap
// models.ErrRouteServiceUnavailable.
type Router interface {
	Route(ctx context.Context, from, to models.Location) (RouteResult, error)
}
