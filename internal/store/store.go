// Package store persists generated artifacts. Two drivers are provided:
// SQLite for single-machine use and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pitchforge/pitchforge/internal/model"
)

// ErrNotFound is returned when no saved item has the requested id.
var ErrNotFound = eris.New("saved item not found")

// ListFilter specifies criteria for listing saved items.
type ListFilter struct {
	Type   model.SavedItemType `json:"type,omitempty"`
	Limit  int                 `json:"limit,omitempty"`
	Offset int                 `json:"offset,omitempty"`
}

// Store defines the persistence interface for generation history.
type Store interface {
	// Save inserts item, assigning ID and timestamps when unset.
	Save(ctx context.Context, item *model.SavedItem) error
	Get(ctx context.Context, id string) (*model.SavedItem, error)
	List(ctx context.Context, filter ListFilter) ([]model.SavedItem, error)
	Delete(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
