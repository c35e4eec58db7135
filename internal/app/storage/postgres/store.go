// Package postgres implements the storage interfaces backed by
// PostgreSQL via sqlx.
package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/cafeops/orderdesk/internal/app/domain/menu"
	"github.com/cafeops/orderdesk/internal/app/domain/order"
	"github.com/cafeops/orderdesk/internal/app/storage"
	"github.com/cafeops/orderdesk/internal/errors"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.MenuStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// --- MenuStore --------------------------------------------------------------

func (s *Store) CreateMenuItem(ctx context.Context, item menu.Item) (menu.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, description, price, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID, item.Name, item.Description, item.Price, item.CreatedAt)
	if err != nil {
		return menu.Item{}, err
	}
	return item, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, item menu.Item) (menu.Item, error) {
	existing, err := s.GetMenuItem(ctx, item.ID)
	if err != nil {
		return menu.Item{}, err
	}
	item.CreatedAt = existing.CreatedAt

	result, err := s.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4
		WHERE id = $1
	`, item.ID, item.Name, item.Description, item.Price)
	if err != nil {
		return menu.Item{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return menu.Item{}, errors.NotFound("menu item %s not found", item.ID)
	}
	return item, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (menu.Item, error) {
	var item menu.Item
	err := s.db.GetContext(ctx, &item, `
		SELECT id, name, description, price, created_at
		FROM menu_items
		WHERE id = $1
	`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return menu.Item{}, errors.NotFound("menu item %s not found", id)
	}
	if err != nil {
		return menu.Item{}, err
	}
	return item, nil
}

func (s *Store) ListMenuItems(ctx context.Context) ([]menu.Item, error) {
	items := make([]menu.Item, 0)
	err := s.db.SelectContext(ctx, &items, `
		SELECT id, name, description, price, created_at
		FROM menu_items
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.NotFound("menu item %s not found", id)
	}
	return nil
}

// --- OrderStore -------------------------------------------------------------

func (s *Store) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return order.Order{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, total, status, created_at)
		VALUES ($1, $2, $3, $4)
	`, o.ID, o.Total, o.Status, o.CreatedAt)
	if err != nil {
		return order.Order{}, err
	}

	for i, line := range o.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, position, menu_item_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, o.ID, i, line.MenuItemID, line.Quantity)
		if err != nil {
			return order.Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (order.Order, error) {
	var o order.Order
	err := s.db.GetContext(ctx, &o, `
		SELECT id, total, status, created_at
		FROM orders
		WHERE id = $1
	`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return order.Order{}, errors.NotFound("order %s not found", id)
	}
	if err != nil {
		return order.Order{}, err
	}

	lines, err := s.orderLines(ctx, []string{id})
	if err != nil {
		return order.Order{}, err
	}
	o.Lines = lines[id]
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]order.Order, error) {
	return s.listOrders(ctx, time.Time{})
}

func (s *Store) ListOrdersSince(ctx context.Context, since time.Time) ([]order.Order, error) {
	return s.listOrders(ctx, since)
}

func (s *Store) listOrders(ctx context.Context, since time.Time) ([]order.Order, error) {
	orders := make([]order.Order, 0)
	var err error
	if since.IsZero() {
		err = s.db.SelectContext(ctx, &orders, `
			SELECT id, total, status, created_at
			FROM orders
			ORDER BY created_at, id
		`)
	} else {
		err = s.db.SelectContext(ctx, &orders, `
			SELECT id, total, status, created_at
			FROM orders
			WHERE created_at >= $1
			ORDER BY created_at, id
		`, since)
	}
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	lines, err := s.orderLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (s *Store) SetOrderStatus(ctx context.Context, id string, from, to order.Status) (order.Order, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return order.Order{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		// Distinguish a missing order from a lost compare-and-set.
		current, err := s.GetOrder(ctx, id)
		if err != nil {
			return order.Order{}, err
		}
		return order.Order{}, errors.InvalidTransition("order %s is %s, expected %s", id, current.Status, from)
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) orderLines(ctx context.Context, orderIDs []string) (map[string][]order.Line, error) {
	query, args, err := sqlx.In(`
		SELECT order_id, menu_item_id, quantity
		FROM order_lines
		WHERE order_id IN (?)
		ORDER BY order_id, position
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]order.Line, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			line    order.Line
		)
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.Quantity); err != nil {
			return nil, err
		}
		result[orderID] = append(result[orderID], line)
	}
	return result, rows.Err()
}
