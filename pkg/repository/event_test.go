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

func runEventRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	newTeamID := func() types.TeamID {
		return types.TeamID(fmt.Sprintf("T%d", time.Now().UnixNano()))
	}

	const channelID = types.ChannelID("C0GROCERY")

	message := func(teamID types.TeamID, user, text, ts string) *model.MessageEvent {
		return &model.MessageEvent{
			TeamID:    teamID,
			ChannelID: channelID,
			UserID:    types.UserID(user),
			Text:      text,
			TS:        types.MessageTS(ts),
		}
	}

	reaction := func(teamID types.TeamID, user, name, ts string) *model.ReactionEvent {
		return &model.ReactionEvent{
			TeamID:    teamID,
			ChannelID: channelID,
			UserID:    types.UserID(user),
			Reaction:  name,
			TS:        types.MessageTS(ts),
		}
	}

	t.Run("SaveMessage ignores duplicate delivery", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		ev := message(teamID, "U001", "2 apples", "1700000100.000100")
		gt.NoError(t, repo.Event().SaveMessage(ctx, ev)).Required()
		gt.NoError(t, repo.Event().SaveMessage(ctx, ev)).Required()

		msgs, err := repo.Event().ListMessages(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(1)
		gt.Value(t, msgs[0].Text).Equal("2 apples")
	})

	t.Run("SaveReaction keeps repeated rows", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		// React, unreact, react again: two rows for the same target.
		ev := reaction(teamID, "U002", "+1", "1700000100.000100")
		gt.NoError(t, repo.Event().SaveReaction(ctx, ev)).Required()
		gt.NoError(t, repo.Event().SaveReaction(ctx, ev)).Required()

		reactions, err := repo.Event().ListReactions(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Array(t, reactions).Length(2)
	})

	t.Run("ListMessagesSince filters by epoch ascending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		gt.NoError(t, repo.Event().SaveMessage(ctx, message(teamID, "U001", "old order", "1700000100.000100"))).Required()
		gt.NoError(t, repo.Event().SaveMessage(ctx, message(teamID, "U001", "at cutoff", "1700000200.000200"))).Required()
		gt.NoError(t, repo.Event().SaveMessage(ctx, message(teamID, "U002", "newest", "1700000300.000300"))).Required()

		msgs, err := repo.Event().ListMessagesSince(ctx, teamID, "1700000200.000200")
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(2)
		gt.Value(t, msgs[0].Text).Equal("at cutoff")
		gt.Value(t, msgs[1].Text).Equal("newest")
	})

	t.Run("ListReactionsSince filters by epoch ascending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		gt.NoError(t, repo.Event().SaveReaction(ctx, reaction(teamID, "U001", "+1", "1700000100.000100"))).Required()
		gt.NoError(t, repo.Event().SaveReaction(ctx, reaction(teamID, "U002", "+1", "1700000300.000300"))).Required()

		reactions, err := repo.Event().ListReactionsSince(ctx, teamID, "1700000200.000200")
		gt.NoError(t, err).Required()
		gt.Array(t, reactions).Length(1)
		gt.Value(t, reactions[0].UserID).Equal(types.UserID("U002"))
	})

	t.Run("Tenants are isolated", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamA := newTeamID()
		teamB := types.TeamID(string(teamA) + "-other")

		gt.NoError(t, repo.Event().SaveMessage(ctx, message(teamA, "U001", "apples", "1700000100.000100"))).Required()
		gt.NoError(t, repo.Event().SaveMessage(ctx, message(teamB, "U009", "bananas", "1700000100.000100"))).Required()

		msgs, err := repo.Event().ListMessages(ctx, teamA)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(1)
		gt.Value(t, msgs[0].Text).Equal("apples")
	})

	t.Run("PruneBefore deletes strictly older events", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		teamID := newTeamID()

		gt.NoError(t, repo.Event().SaveMessage(ctx, message(teamID, "U001", "stale", "1700000100.000100"))).Required()
		gt.NoError(t, repo.Event().SaveMessage(ctx, message(teamID, "U001", "boundary", "1700000200.000200"))).Required()
		gt.NoError(t, repo.Event().SaveReaction(ctx, reaction(teamID, "U002", "+1", "1700000100.000100"))).Required()
		gt.NoError(t, repo.Event().SaveReaction(ctx, reaction(teamID, "U002", "+1", "1700000200.000200"))).Required()

		pruned, err := repo.Event().PruneBefore(ctx, teamID, "1700000200.000200")
		gt.NoError(t, err).Required()
		gt.Value(t, pruned).Equal(2)

		msgs, err := repo.Event().ListMessages(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(1)
		gt.Value(t, msgs[0].Text).Equal("boundary")

		reactions, err := repo.Event().ListReactions(ctx, teamID)
		gt.NoError(t, err).Required()
		gt.Array(t, reactions).Length(1)

		// Pruning again removes nothing.
		pruned, err = repo.Event().PruneBefore(ctx, teamID, "1700000200.000200")
		gt.NoError(t, err).Required()
		gt.Value(t, pruned).Equal(0)
	})
}

func TestEventRepository_Memory(t *testing.T) {
	runEventRepositoryTest(t, newMemoryRepository)
}

func TestEventRepository_Postgres(t *testing.T) {
	runEventRepositoryTest(t, newPostgresRepository)
}
