package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

type scheduleRepository struct {
	mu      sync.RWMutex
	tenants map[types.TeamID]*model.ScheduleSettings
}

var _ interfaces.ScheduleRepository = &scheduleRepository{}

func newScheduleRepository() *scheduleRepository {
	return &scheduleRepository{
		tenants: make(map[types.TeamID]*model.ScheduleSettings),
	}
}

func (r *scheduleRepository) Get(ctx context.Context, teamID types.TeamID) (*model.ScheduleSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings, ok := r.tenants[teamID]
	if !ok {
		return nil, nil
	}

	copied := *settings
	return &copied, nil
}

func (r *scheduleRepository) Upsert(ctx context.Context, settings *model.ScheduleSettings) error {
	if settings == nil {
		return goerr.New("schedule settings is nil")
	}
	if err := settings.Validate(); err != nil {
		return goerr.Wrap(err, "invalid schedule settings")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *settings
	r.tenants[settings.TeamID] = &copied

	return nil
}
