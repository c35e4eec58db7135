package storage

import (
	"context"
	"time"

	"github.com/cafeops/orderdesk/internal/app/domain/menu"
	"github.com/cafeops/orderdesk/internal/app/domain/order"
)

// MenuStore persists catalog items.
type MenuStore interface {
	CreateMenuItem(ctx context.Context, item menu.Item) (menu.Item, error)
	UpdateMenuItem(ctx context.Context, item menu.Item) (menu.Item, error)
	GetMenuItem(ctx context.Context, id string) (menu.Item, error)
	ListMenuItems(ctx context.Context) ([]menu.Item, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

// OrderStore persists the order ledger. Orders are append-only except for
// their status.
type OrderStore interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	GetOrder(ctx context.Context, id string) (order.Order, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
	ListOrdersSince(ctx context.Context, since time.Time) ([]order.Order, error)

	// SetOrderStatus performs a compare-and-set: the update applies only
	// while the stored status equals from. It returns the updated order,
	// NotFound for an unknown id, or InvalidTransition when the stored
	// status no longer matches from.
	SetOrderStatus(ctx context.Context, id string, from, to order.Status) (order.Order, error)
}
