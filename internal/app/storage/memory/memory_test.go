package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cafeops/orderdesk/internal/app/domain/menu"
	"github.com/cafeops/orderdesk/internal/app/domain/order"
	"github.com/cafeops/orderdesk/internal/errors"
)

func TestMenuItemLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	item, err := store.CreateMenuItem(ctx, menu.Item{Name: "Coffee", Price: 3.5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == "" || item.CreatedAt.IsZero() {
		t.Fatalf("id and created_at must be assigned: %#v", item)
	}

	item.Price = 4.0
	updated, err := store.UpdateMenuItem(ctx, item)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 4.0 {
		t.Fatalf("price not updated: %#v", updated)
	}
	if !updated.CreatedAt.Equal(item.CreatedAt) {
		t.Fatalf("created_at must be immutable")
	}

	if err := store.DeleteMenuItem(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteMenuItem(ctx, item.ID); !errors.IsNotFound(err) {
		t.Fatalf("second delete must fail with not found, got %v", err)
	}
	if _, err := store.GetMenuItem(ctx, item.ID); !errors.IsNotFound(err) {
		t.Fatalf("get after delete must fail with not found, got %v", err)
	}
}

func TestMenuIDNeverReused(t *testing.T) {
	store := New()
	ctx := context.Background()

	first, err := store.CreateMenuItem(ctx, menu.Item{Name: "Tea", Price: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.DeleteMenuItem(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	second, err := store.CreateMenuItem(ctx, menu.Item{Name: "Cake", Price: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("deleted id %s must not be reused", first.ID)
	}
}

func TestListMenuItemsOrderedByCreation(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, name := range []string{"Espresso", "Latte", "Flat White"} {
		if _, err := store.CreateMenuItem(ctx, menu.Item{Name: name, Price: 3}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	items, err := store.ListMenuItems(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.Before(items[i-1].CreatedAt) {
			t.Fatalf("items must be ordered by creation time ascending")
		}
	}
	if items[0].Name != "Espresso" {
		t.Fatalf("expected insertion order preserved, got %s first", items[0].Name)
	}
}

func TestOrderLedger(t *testing.T) {
	store := New()
	ctx := context.Background()

	o, err := store.CreateOrder(ctx, order.Order{
		Lines:  []order.Line{{MenuItemID: "1", Quantity: 2}},
		Total:  7.0,
		Status: order.StatusPending,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.ID == "" || o.CreatedAt.IsZero() {
		t.Fatalf("id and created_at must be assigned: %#v", o)
	}

	// Mutating the returned slice must not leak into the ledger.
	o.Lines[0].Quantity = 99
	stored, err := store.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Lines[0].Quantity != 2 {
		t.Fatalf("store must hand out defensive copies")
	}

	if _, err := store.GetOrder(ctx, "missing"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetOrderStatusCompareAndSet(t *testing.T) {
	store := New()
	ctx := context.Background()

	o, err := store.CreateOrder(ctx, order.Order{
		Lines:  []order.Line{{MenuItemID: "1", Quantity: 1}},
		Status: order.StatusPending,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := store.SetOrderStatus(ctx, o.ID, order.StatusPending, order.StatusCompleted)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != order.StatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}

	// Stale expectation: the stored status moved on.
	if _, err := store.SetOrderStatus(ctx, o.ID, order.StatusPending, order.StatusCancelled); !errors.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := store.SetOrderStatus(ctx, "missing", order.StatusPending, order.StatusCompleted); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListOrdersSince(t *testing.T) {
	store := New()
	ctx := context.Background()

	old := order.Order{
		Lines:     []order.Line{{MenuItemID: "1", Quantity: 1}},
		Status:    order.StatusCompleted,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	if _, err := store.CreateOrder(ctx, old); err != nil {
		t.Fatalf("create old order: %v", err)
	}
	recent := order.Order{
		Lines:  []order.Line{{MenuItemID: "1", Quantity: 1}},
		Status: order.StatusPending,
	}
	if _, err := store.CreateOrder(ctx, recent); err != nil {
		t.Fatalf("create recent order: %v", err)
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	orders, err := store.ListOrdersSince(ctx, since)
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 recent order, got %d", len(orders))
	}

	all, err := store.ListOrders(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
}
