package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

func runScheduleRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	newTeamID := func() types.TeamID {
		return types.TeamID(fmt.Sprintf("T%d", time.Now().UnixNano()))
	}

	t.Run("Get returns nil for tenant without settings", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		settings, err := repo.Schedule().Get(ctx, newTeamID())
		gt.NoError(t, err).Required()
		gt.Value(t, settings).Nil()
	})

	t.Run("Upsert then Get returns stored settings", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		gt.NoError(t, repo.Schedule().Upsert(ctx, &model.ScheduleSettings{
			TeamID:    teamID,
			OpenDay:   types.Tuesday,
			OpenTime:  "08:30",
			CloseDay:  types.Friday,
			CloseTime: "12:00",
		})).Required()

		settings, err := repo.Schedule().Get(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Value(t, settings.OpenDay).Equal(types.Tuesday)
		gt.Value(t, settings.OpenTime).Equal("08:30")
		gt.Value(t, settings.CloseDay).Equal(types.Friday)
		gt.Value(t, settings.CloseTime).Equal("12:00")
	})

	t.Run("Upsert replaces existing settings", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		gt.NoError(t, repo.Schedule().Upsert(ctx, model.DefaultScheduleSettings(teamID))).Required()
		gt.NoError(t, repo.Schedule().Upsert(ctx, &model.ScheduleSettings{
			TeamID:    teamID,
			OpenDay:   types.Sunday,
			OpenTime:  "10:00",
			CloseDay:  types.Wednesday,
			CloseTime: "18:45",
		})).Required()

		settings, err := repo.Schedule().Get(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Value(t, settings.OpenDay).Equal(types.Sunday)
		gt.Value(t, settings.CloseTime).Equal("18:45")
	})
}

func TestScheduleRepository_Memory(t *testing.T) {
	runScheduleRepositoryTest(t, newMemoryRepository)
}

func TestScheduleRepository_Postgres(t *testing.T) {
	runScheduleRepositoryTest(t, newPostgresRepository)
}
