package fake

import (
	"context"
	"fmt"

	"github.com/BearBump/DeliveryBox/internal/geo"
	"github.com/BearBump/DeliveryBox/internal/integrations/routing"
	"github.com/BearBump/DeliveryBox/internal/models"
)

// DefaultSpeedMPS is an urban driving speed of 30 km/h.
const DefaultSpeedMPS = 30.0 / 3.6

// Router estimates a route as a straight line driven at a constant speed.
// Used when no routing provider is configured.
type Router struct {
	speedMPS float64
}

func New(speedMPS float64) *Router {
	if speedMPS <= 0 {
		speedMPS = DefaultSpeedMPS
	}
	return &Router{speedMPS: speedMPS}
}

func (r *Router) Route(ctx context.Context, from, to models.Location) (routing.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return routing.RouteResult{}, fmt.Errorf("%w: %w", models.ErrRouteServiceUnavailable, err)
	}
	d := geo.DistanceMeters(from, to)
	return routing.RouteResult{
		DurationSeconds: d / r.speedMPS,
		DistanceMeters:  d,
	}, nil
}
