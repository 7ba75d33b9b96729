// Package memorders keeps the process-local order collection.
package memorders

import (
	"sync"
	"time"

	"github.com/BearBump/DeliveryBox/internal/models"
)

type Storage struct {
	mu     sync.RWMutex
	orders []*models.Order
	byID   map[uint64]int
	nextID uint64

	now func() time.Time
}

type Option func(*Storage)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

func New(opts ...Option) *Storage {
	s := &Storage{
		byID: make(map[uint64]int),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create assigns the next id and appends a Pending order with no location.
func (s *Storage) Create(in models.OrderCreateInput) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now().UTC().Truncate(time.Second)
	s.nextID++
	o := &models.Order{
		ID:           s.nextID,
		CustomerName: in.CustomerName,
		Address:      in.Address,
		Status:       models.OrderStatusPending,
		CreatedAt:    createdAt,
	}
	s.byID[o.ID] = len(s.orders)
	s.orders = append(s.orders, o)

	return o.Clone()
}

// List returns copies of all orders in creation order.
func (s *Storage) List() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.Clone())
	}
	return out
}

func (s *Storage) Get(id uint64) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return models.Order{}, false
	}
	return s.orders[idx].Clone(), true
}

// Update overwrites status and location together. Reports false if id is unknown.
func (s *Storage) Update(id uint64, status string, loc models.Location) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return models.Order{}, false
	}
	o := s.orders[idx]
	o.Status = status
	o.Location = &loc

	return o.Clone(), true
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
