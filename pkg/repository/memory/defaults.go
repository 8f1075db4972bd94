package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

type defaultsRepository struct {
	mu      sync.RWMutex
	tenants map[types.TeamID][]*model.DefaultItem
}

var _ interfaces.DefaultsRepository = &defaultsRepository{}

func newDefaultsRepository() *defaultsRepository {
	return &defaultsRepository{
		tenants: make(map[types.TeamID][]*model.DefaultItem),
	}
}

func (r *defaultsRepository) List(ctx context.Context, teamID types.TeamID) ([]*model.DefaultItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.tenants[teamID]
	out := make([]*model.DefaultItem, len(items))
	for i, item := range items {
		copied := *item
		out[i] = &copied
	}

	return out, nil
}

func (r *defaultsRepository) Upsert(ctx context.Context, item *model.DefaultItem) error {
	if item == nil {
		return goerr.New("default item is nil")
	}
	if err := item.Validate(); err != nil {
		return goerr.Wrap(err, "invalid default item")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *item
	items := r.tenants[item.TeamID]
	for i, existing := range items {
		if existing.Name == item.Name {
			// Update in place to keep the insertion position
			items[i] = &copied
			return nil
		}
	}
	r.tenants[item.TeamID] = append(items, &copied)

	return nil
}

func (r *defaultsRepository) Delete(ctx context.Context, teamID types.TeamID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.tenants[teamID]
	for i, existing := range items {
		if existing.Name == name {
			r.tenants[teamID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}

	return nil
}
