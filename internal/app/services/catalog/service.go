// Package catalog manages the café menu.
package catalog

import (
	"context"
	"strings"

	"github.com/cafeops/orderdesk/internal/app/domain/menu"
	"github.com/cafeops/orderdesk/internal/app/storage"
	"github.com/cafeops/orderdesk/internal/errors"
	"github.com/cafeops/orderdesk/pkg/logger"
)

// Service manages menu items.
type Service struct {
	store storage.MenuStore
	log   *logger.Logger
}

// New constructs a catalog service.
func New(store storage.MenuStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{store: store, log: log}
}

// Create adds a new menu item.
func (s *Service) Create(ctx context.Context, name, description string, price float64) (menu.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return menu.Item{}, errors.Validation("name is required")
	}
	if price < 0 {
		return menu.Item{}, errors.Validation("price must be non-negative")
	}

	item, err := s.store.CreateMenuItem(ctx, menu.Item{
		Name:        name,
		Description: description,
		Price:       price,
	})
	if err != nil {
		return menu.Item{}, err
	}

	s.log.WithField("item_id", item.ID).
		WithField("name", item.Name).
		Info("menu item created")
	return item, nil
}

// Update applies a partial update. Nil fields keep their current value.
func (s *Service) Update(ctx context.Context, id string, name, description *string, price *float64) (menu.Item, error) {
	item, err := s.store.GetMenuItem(ctx, id)
	if err != nil {
		return menu.Item{}, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return menu.Item{}, errors.Validation("name is required")
		}
		item.Name = trimmed
	}
	if description != nil {
		item.Description = *description
	}
	if price != nil {
		if *price < 0 {
			return menu.Item{}, errors.Validation("price must be non-negative")
		}
		item.Price = *price
	}

	item, err = s.store.UpdateMenuItem(ctx, item)
	if err != nil {
		return menu.Item{}, err
	}

	s.log.WithField("item_id", item.ID).Info("menu item updated")
	return item, nil
}

// Delete removes a menu item. Deleting an unknown id fails; past orders
// keep their priced reference regardless.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.log.WithField("item_id", id).Info("menu item deleted")
	return nil
}

// Get retrieves a single item by id.
func (s *Service) Get(ctx context.Context, id string) (menu.Item, error) {
	return s.store.GetMenuItem(ctx, id)
}

// List returns all items ordered by creation time ascending.
func (s *Service) List(ctx context.Context) ([]menu.Item, error) {
	return s.store.ListMenuItems(ctx)
}
