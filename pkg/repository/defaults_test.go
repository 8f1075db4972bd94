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

func runDefaultsRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	newTeamID := func() types.TeamID {
		return types.TeamID(fmt.Sprintf("T%d", time.Now().UnixNano()))
	}

	t.Run("List returns items in insertion order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		for _, name := range []string{"milk", "bread", "eggs"} {
			gt.NoError(t, repo.Defaults().Upsert(ctx, &model.DefaultItem{
				TeamID:   teamID,
				Name:     name,
				Quantity: 1,
			})).Required()
		}

		items, err := repo.Defaults().List(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(3)
		gt.Value(t, items[0].Name).Equal("milk")
		gt.Value(t, items[1].Name).Equal("bread")
		gt.Value(t, items[2].Name).Equal("eggs")
	})

	t.Run("Upsert keeps position of existing item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		for _, name := range []string{"milk", "bread", "eggs"} {
			gt.NoError(t, repo.Defaults().Upsert(ctx, &model.DefaultItem{
				TeamID:   teamID,
				Name:     name,
				Quantity: 1,
			})).Required()
		}

		gt.NoError(t, repo.Defaults().Upsert(ctx, &model.DefaultItem{
			TeamID:   teamID,
			Name:     "milk",
			Quantity: 4,
		})).Required()

		items, err := repo.Defaults().List(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(3)
		gt.Value(t, items[0].Name).Equal("milk")
		gt.Value(t, items[0].Quantity).Equal(4)
	})

	t.Run("Delete removes item and ignores absent name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		gt.NoError(t, repo.Defaults().Upsert(ctx, &model.DefaultItem{
			TeamID:   teamID,
			Name:     "milk",
			Quantity: 2,
		})).Required()

		gt.NoError(t, repo.Defaults().Delete(ctx, teamID, "milk")).Required()
		gt.NoError(t, repo.Defaults().Delete(ctx, teamID, "nonexistent")).Required()

		items, err := repo.Defaults().List(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(0)
	})

	t.Run("Tenants are isolated", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamA := newTeamID()
		teamB := types.TeamID(string(teamA) + "-other")

		gt.NoError(t, repo.Defaults().Upsert(ctx, &model.DefaultItem{
			TeamID:   teamA,
			Name:     "milk",
			Quantity: 1,
		})).Required()

		items, err := repo.Defaults().List(ctx, teamB)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(0)
	})
}

func TestDefaultsRepository_Memory(t *testing.T) {
	runDefaultsRepositoryTest(t, newMemoryRepository)
}

func TestDefaultsRepository_Postgres(t *testing.T) {
	runDefaultsRepositoryTest(t, newPostgresRepository)
}
