// Package orders owns the order ledger: placement with snapshot pricing
// and the status state machine.
package orders

import (
	"context"

	"github.com/cafeops/orderdesk/internal/app/domain/order"
	"github.com/cafeops/orderdesk/internal/app/metrics"
	"github.com/cafeops/orderdesk/internal/app/storage"
	"github.com/cafeops/orderdesk/internal/errors"
	"github.com/cafeops/orderdesk/pkg/logger"
)

// LineInput is one requested order position before validation.
type LineInput struct {
	MenuItemID string
	Quantity   int
}

// Service manages orders.
type Service struct {
	catalog storage.MenuStore
	store   storage.OrderStore
	locks   *lockTable
	log     *logger.Logger
}

// New constructs an order service.
func New(catalog storage.MenuStore, store storage.OrderStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{
		catalog: catalog,
		store:   store,
		locks:   newLockTable(),
		log:     log,
	}
}

// Place validates every line, resolves current catalog prices, computes
// the total and appends the order to the ledger. The whole order is
// rejected on the first failing line; no partial orders exist.
func (s *Service) Place(ctx context.Context, lines []LineInput) (order.Order, error) {
	if len(lines) == 0 {
		return order.Order{}, errors.Validation("order must contain at least one item")
	}

	orderLines := make([]order.Line, 0, len(lines))
	var total float64
	for _, line := range lines {
		if line.MenuItemID == "" {
			return order.Order{}, errors.Validation("missing item selection")
		}
		if line.Quantity < 1 {
			return order.Order{}, errors.Validation("invalid quantity")
		}

		item, err := s.catalog.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return order.Order{}, err
		}

		total += item.Price * float64(line.Quantity)
		orderLines = append(orderLines, order.Line{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
		})
	}

	o, err := s.store.CreateOrder(ctx, order.Order{
		Lines:  orderLines,
		Total:  total,
		Status: order.StatusPending,
	})
	if err != nil {
		return order.Order{}, err
	}

	metrics.RecordOrderPlaced()
	s.log.WithField("order_id", o.ID).
		WithField("total", o.Total).
		WithField("lines", len(o.Lines)).
		Info("order placed")
	return o, nil
}

// List returns every order with its lines. Presentation ordering is the
// caller's concern.
func (s *Service) List(ctx context.Context) ([]order.Order, error) {
	return s.store.ListOrders(ctx)
}

// Get retrieves one order by id.
func (s *Service) Get(ctx context.Context, id string) (order.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// SetStatus transitions an order. Re-asserting the current status is a
// no-op success; any transition out of a terminal state fails. Calls for
// the same order id are serialized through the lock table.
func (s *Service) SetStatus(ctx context.Context, id string, target order.Status) (order.Order, error) {
	if !target.Valid() {
		return order.Order{}, errors.Validation("invalid status %q", target)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	if o.Status == target {
		return o, nil
	}
	if !o.Status.CanTransition(target) {
		return order.Order{}, errors.InvalidTransition("order %s is %s and cannot become %s", id, o.Status, target)
	}

	updated, err := s.store.SetOrderStatus(ctx, id, o.Status, target)
	if err != nil {
		return order.Order{}, err
	}

	metrics.RecordStatusTransition(string(target))
	s.log.WithField("order_id", id).
		WithField("from", o.Status).
		WithField("to", target).
		Info("order status updated")
	return updated, nil
}
