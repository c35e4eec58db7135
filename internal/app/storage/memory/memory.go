// Package memory implements the storage interfaces in process memory. It
// is safe for concurrent use and is primarily intended for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cafeops/orderdesk/internal/app/domain/menu"
	"github.com/cafeops/orderdesk/internal/app/domain/order"
	"github.com/cafeops/orderdesk/internal/app/storage"
	"github.com/cafeops/orderdesk/internal/errors"
)

// Store holds menu items and the order ledger behind a single RWMutex.
// The id counter only ever grows, so deleted ids are never handed out
// again.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]menu.Item
	orders map[string]order.Order
}

var _ storage.MenuStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID: 1,
		items:  make(map[string]menu.Item),
		orders: make(map[string]order.Order),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// MenuStore implementation ----------------------------------------------------

func (s *Store) CreateMenuItem(_ context.Context, item menu.Item) (menu.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = s.nextIDLocked()
	} else if _, exists := s.items[item.ID]; exists {
		return menu.Item{}, fmt.Errorf("menu item %s already exists", item.ID)
	}

	item.CreatedAt = time.Now().UTC()
	s.items[item.ID] = item
	return item, nil
}

func (s *Store) UpdateMenuItem(_ context.Context, item menu.Item) (menu.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.items[item.ID]
	if !ok {
		return menu.Item{}, errors.NotFound("menu item %s not found", item.ID)
	}

	item.CreatedAt = original.CreatedAt
	s.items[item.ID] = item
	return item, nil
}

func (s *Store) GetMenuItem(_ context.Context, id string) (menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return menu.Item{}, errors.NotFound("menu item %s not found", id)
	}
	return item, nil
}

func (s *Store) ListMenuItems(_ context.Context) ([]menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]menu.Item, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return errors.NotFound("menu item %s not found", id)
	}
	delete(s.items, id)
	return nil
}

// OrderStore implementation ---------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = s.nextIDLocked()
	} else if _, exists := s.orders[o.ID]; exists {
		return order.Order{}, fmt.Errorf("order %s already exists", o.ID)
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.Lines = cloneLines(o.Lines)

	s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) GetOrder(_ context.Context, id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, errors.NotFound("order %s not found", id)
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(time.Time{}), nil
}

func (s *Store) ListOrdersSince(_ context.Context, since time.Time) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(since), nil
}

func (s *Store) SetOrderStatus(_ context.Context, id string, from, to order.Status) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, errors.NotFound("order %s not found", id)
	}
	if o.Status != from {
		return order.Order{}, errors.InvalidTransition("order %s is %s, expected %s", id, o.Status, from)
	}

	o.Status = to
	s.orders[id] = o
	return cloneOrder(o), nil
}

// Helpers --------------------------------------------------------------------

func (s *Store) listLocked(since time.Time) []order.Order {
	result := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if !since.IsZero() && o.CreatedAt.Before(since) {
			continue
		}
		result = append(result, cloneOrder(o))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func cloneLines(lines []order.Line) []order.Line {
	return append([]order.Line(nil), lines...)
}

func cloneOrder(o order.Order) order.Order {
	o.Lines = cloneLines(o.Lines)
	return o
}
