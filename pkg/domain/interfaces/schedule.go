package interfaces

import (
	"context"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// ScheduleRepository persists per-tenant weekly schedule settings.
type ScheduleRepository interface {
	// Get returns the stored settings, or nil (no error) when the tenant
	// has none; callers apply model.DefaultScheduleSettings in that case.
	Get(ctx context.Context, teamID types.TeamID) (*model.ScheduleSettings, error)

	// Upsert creates or replaces the tenant's settings.
	Upsert(ctx context.Context, settings *model.ScheduleSettings) error
}
