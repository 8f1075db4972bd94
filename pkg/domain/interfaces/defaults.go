package interfaces

import (
	"context"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// DefaultsRepository persists the per-tenant ordered mapping of default
// grocery items.
type DefaultsRepository interface {
	// List returns all default items in insertion order. Updating an
	// existing item keeps its position.
	List(ctx context.Context, teamID types.TeamID) ([]*model.DefaultItem, error)

	// Upsert creates the item or replaces its quantity.
	Upsert(ctx context.Context, item *model.DefaultItem) error

	// Delete removes the item by name. Deleting an absent item is a no-op.
	Delete(ctx context.Context, teamID types.TeamID, name string) error
}
