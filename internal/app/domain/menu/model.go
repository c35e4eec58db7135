package menu

import "time"

// Item is a single entry on the café menu. ID and CreatedAt are assigned
// by storage and never change; an ID is never reused after a delete.
type Item struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
