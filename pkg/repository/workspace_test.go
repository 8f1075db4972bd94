package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

func runWorkspaceRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	newTeamID := func() types.TeamID {
		return types.TeamID(fmt.Sprintf("T%d", time.Now().UnixNano()))
	}

	t.Run("Upsert then Get returns credentials", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		err := repo.Workspace().Upsert(ctx, &model.Workspace{
			TeamID:        teamID,
			BotToken:      "xoxb-first",
			SigningSecret: "sig-first",
		})
		gt.NoError(t, err).Required()

		ws, err := repo.Workspace().Get(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Value(t, ws.TeamID).Equal(teamID)
		gt.Value(t, ws.BotToken).Equal("xoxb-first")
		gt.Value(t, ws.SigningSecret).Equal("sig-first")
	})

	t.Run("Upsert replaces credentials on re-install", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		gt.NoError(t, repo.Workspace().Upsert(ctx, &model.Workspace{
			TeamID:        teamID,
			BotToken:      "xoxb-old",
			SigningSecret: "sig-old",
		})).Required()
		gt.NoError(t, repo.Workspace().Upsert(ctx, &model.Workspace{
			TeamID:        teamID,
			BotToken:      "xoxb-new",
			SigningSecret: "sig-new",
		})).Required()

		token, err := repo.Workspace().GetBotToken(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Value(t, token).Equal("xoxb-new")

		teams, err := repo.Workspace().ListTeamIDs(ctx)
		gt.NoError(t, err).Required()

		count := 0
		for _, id := range teams {
			if id == teamID {
				count++
			}
		}
		gt.Value(t, count).Equal(1)
	})

	t.Run("Get unknown team returns ErrWorkspaceNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Workspace().Get(ctx, newTeamID())
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrWorkspaceNotFound)).True()

		_, err = repo.Workspace().GetBotToken(ctx, newTeamID())
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrWorkspaceNotFound)).True()
	})

	t.Run("ListTeamIDs enumerates installed tenants", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		want := map[types.TeamID]bool{}
		for i := 0; i < 3; i++ {
			teamID := types.TeamID(fmt.Sprintf("T%d-%d", time.Now().UnixNano(), i))
			want[teamID] = true
			gt.NoError(t, repo.Workspace().Upsert(ctx, &model.Workspace{
				TeamID:        teamID,
				BotToken:      "xoxb-token",
				SigningSecret: "sig",
			})).Required()
		}

		teams, err := repo.Workspace().ListTeamIDs(ctx)
		gt.NoError(t, err).Required()

		found := 0
		for _, id := range teams {
			if want[id] {
				found++
			}
		}
		gt.Value(t, found).Equal(3)
	})
}

func TestWorkspaceRepository_Memory(t *testing.T) {
	runWorkspaceRepositoryTest(t, newMemoryRepository)
}

func TestWorkspaceRepository_Postgres(t *testing.T) {
	runWorkspaceRepositoryTest(t, newPostgresRepository)
}
