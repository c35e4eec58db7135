// Package order models the order ledger: orders are appended on
// placement, only their status mutates afterwards.
package order

import "time"

// Status is an order's position in the fulfilment state machine. The
// literals are the exact strings the dashboard client renders.
type Status string

const (
	// StatusPending is the initial, only non-terminal state.
	StatusPending Status = "В работе"
	// StatusCompleted marks a fulfilled order. Terminal.
	StatusCompleted Status = "Выполнен"
	// StatusCancelled marks an abandoned order. Terminal.
	StatusCancelled Status = "Отменен"
)

// Valid reports whether s is a known status literal.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether moving from s to target is legal.
// Re-asserting the current status is always allowed (idempotent no-op).
func (s Status) CanTransition(target Status) bool {
	if s == target {
		return true
	}
	return s == StatusPending && (target == StatusCompleted || target == StatusCancelled)
}

// Line is one position of an order. Lines belong exclusively to their
// order and keep submission order.
type Line struct {
	MenuItemID string `json:"menuItemId" db:"menu_item_id"`
	Quantity   int    `json:"quantity" db:"quantity"`
}

// Order is a placed order. Total is a snapshot of the catalog prices at
// creation time and never recomputed; Lines never change after creation.
type Order struct {
	ID        string    `json:"id" db:"id"`
	Lines     []Line    `json:"items" db:"-"`
	Total     float64   `json:"total" db:"total"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
