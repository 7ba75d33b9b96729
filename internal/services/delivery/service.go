package delivery

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BearBump/DeliveryBox/internal/auth"
	"github.com/BearBump/DeliveryBox/internal/broker/messages"
	"github.com/BearBump/DeliveryBox/internal/geo"
	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Store interface {
	Create(in models.OrderCreateInput) models.Order
	List() []models.Order
	Get(id uint64) (models.Order, bool)
	Update(id uint64, status string, loc models.Location) (models.Order, bool)
}

type Estimator interface {
	Estimate(ctx context.Context, from, to models.Location) (float64, error)
}

type Producer interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
}

type Service struct {
	store     Store
	estimator Estimator

	producer       Producer
	topic          string
	publishTimeout time.Duration

	now func() time.Time
}

// New wires the order store and route estimator. producer may be nil.
func New(store Store, estimator Estimator, producer Producer, topic string) *Service {
	return &Service{
		store:          store,
		estimator:      estimator,
		producer:       producer,
		topic:          topic,
		publishTimeout: 2 * time.Second,
		now:            time.Now,
	}
}

func (s *Service) RecordOrder(ctx context.Context, in models.OrderCreateInput) (models.Order, error) {
	if _, err := auth.RequireCustomer(ctx); err != nil {
		return models.Order{}, err
	}

	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Address = strings.TrimSpace(in.Address)
	if in.CustomerName == "" {
		return models.Order{}, errors.Wrap(models.ErrMalformedInput, "customer_name is required")
	}
	if in.Address == "" {
		return models.Order{}, errors.Wrap(models.ErrMalformedInput, "address is required")
	}

	o := s.store.Create(in)
	s.publish(ctx, messages.OrderEventCreated, o)
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]models.Order, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	return s.store.List(), nil
}

func (s *Service) GetOrder(ctx context.Context, id uint64) (models.Order, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return models.Order{}, err
	}
	o, ok := s.store.Get(id)
	if !ok {
		return models.Order{}, errors.Wrapf(models.ErrOrderNotFound, "order %d", id)
	}
	return o, nil
}

// RecordUpdate validates the driver's coordinates before touching the store,
// so a rejected update leaves the order as it was.
func (s *Service) RecordUpdate(ctx context.Context, in models.OrderUpdateInput) (models.Order, error) {
	if _, err := auth.RequireDriver(ctx); err != nil {
		return models.Order{}, err
	}

	loc, err := geo.ParseLatLon(in.Lat, in.Lon)
	if err != nil {
		return models.Order{}, err
	}

	o, ok := s.store.Update(in.OrderID, in.Status, loc)
	if !ok {
		return models.Order{}, errors.Wrapf(models.ErrOrderNotFound, "order %d", in.OrderID)
	}
	s.publish(ctx, messages.OrderEventUpdated, o)
	return o, nil
}

// EstimateETA returns minutes from driverLocation ("lat,lon") to the order's
// last reported location.
func (s *Service) EstimateETA(ctx context.Context, orderID uint64, driverLocation string) (float64, error) {
	if _, err := auth.RequireDriver(ctx); err != nil {
		return 0, err
	}

	o, ok := s.store.Get(orderID)
	if !ok {
		return 0, errors.Wrapf(models.ErrOrderNotFound, "order %d", orderID)
	}
	// An order without a reported location has no destination, whatever the driver sent.
	if !o.HasLocation() {
		return 0, errors.Wrapf(models.ErrDestinationUnknown, "order %d has no reported location", orderID)
	}

	if driverLocation == "" {
		return 0, errors.Wrap(models.ErrMalformedInput, "driver location not provided")
	}
	from, err := geo.ParseLocation(driverLocation)
	if err != nil {
		return 0, err
	}

	return s.estimator.Estimate(ctx, from, *o.Location)
}

// ApplyDriverUpdate records an update received from the driver updates topic.
func (s *Service) ApplyDriverUpdate(ctx context.Context, msg messages.DriverUpdate) (models.Order, error) {
	name := msg.Driver
	if name == "" {
		name = "kafka"
	}
	ctx = auth.WithPrincipal(ctx, models.Principal{Name: name, Role: models.RoleDriver})

	return s.RecordUpdate(ctx, models.OrderUpdateInput{
		OrderID: msg.OrderID,
		Status:  msg.Status,
		Lat:     msg.Lat.String(),
		Lon:     msg.Lon.String(),
	})
}

// publish is best-effort: a broker outage never fails the request.
func (s *Service) publish(ctx context.Context, typ string, o models.Order) {
	if s.producer == nil || s.topic == "" {
		return
	}

	ev := messages.OrderEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		OrderID:    o.ID,
		Customer:   o.CustomerName,
		Address:    o.Address,
		Status:     o.Status,
		OccurredAt: s.now().UTC(),
	}
	if o.Location != nil {
		ev.Location = &messages.LatLon{Lat: o.Location.Lat, Lon: o.Location.Lon}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.producer.PublishJSON(ctx, s.topic, strconv.FormatUint(o.ID, 10), ev); err != nil {
		slog.Warn("publish order event", "order_id", o.ID, "type", typ, "error", err.Error())
	}
}
