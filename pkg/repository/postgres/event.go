package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

type eventRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.EventRepository = &eventRepository{}

func (r *eventRepository) SaveMessage(ctx context.Context, ev *model.MessageEvent) error {
	if ev == nil {
		return goerr.New("message event is nil")
	}
	if err := ev.Validate(); err != nil {
		return goerr.Wrap(err, "invalid message event")
	}

	// ON CONFLICT DO NOTHING makes webhook replays idempotent
	const q = `INSERT INTO message_event (team_id, channel_id, user_id, text, ts, ts_epoch)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (team_id, channel_id, ts) DO NOTHING`

	_, err := r.pool.Exec(ctx, q,
		ev.TeamID.String(), ev.ChannelID.String(), ev.UserID.String(),
		ev.Text, ev.TS.String(), ev.TS.Epoch(),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save message event",
			goerr.V("team_id", ev.TeamID), goerr.V("ts", ev.TS))
	}

	return nil
}

func (r *eventRepository) SaveReaction(ctx context.Context, ev *model.ReactionEvent) error {
	if ev == nil {
		return goerr.New("reaction event is nil")
	}
	if err := ev.Validate(); err != nil {
		return goerr.Wrap(err, "invalid reaction event")
	}

	const q = `INSERT INTO reaction_event (team_id, channel_id, user_id, reaction, ts, ts_epoch)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, q,
		ev.TeamID.String(), ev.ChannelID.String(), ev.UserID.String(),
		ev.Reaction, ev.TS.String(), ev.TS.Epoch(),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save reaction event",
			goerr.V("team_id", ev.TeamID), goerr.V("ts", ev.TS))
	}

	return nil
}

func (r *eventRepository) ListMessagesSince(ctx context.Context, teamID types.TeamID, fromTS types.MessageTS) ([]*model.MessageEvent, error) {
	return r.listMessages(ctx, teamID, fromTS.Epoch())
}

func (r *eventRepository) ListMessages(ctx context.Context, teamID types.TeamID) ([]*model.MessageEvent, error) {
	return r.listMessages(ctx, teamID, 0)
}

func (r *eventRepository) listMessages(ctx context.Context, teamID types.TeamID, fromEpoch float64) ([]*model.MessageEvent, error) {
	const q = `SELECT team_id, channel_id, user_id, text, ts
		FROM message_event
		WHERE team_id = $1 AND ts_epoch >= $2
		ORDER BY ts_epoch`

	rows, err := r.pool.Query(ctx, q, teamID.String(), fromEpoch)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list message events", goerr.V("team_id", teamID))
	}
	defer rows.Close()

	out := []*model.MessageEvent{}
	for rows.Next() {
		var ev model.MessageEvent
		if err := rows.Scan(&ev.TeamID, &ev.ChannelID, &ev.UserID, &ev.Text, &ev.TS); err != nil {
			return nil, goerr.Wrap(err, "failed to scan message event")
		}
		out = append(out, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate message events")
	}

	return out, nil
}

func (r *eventRepository) ListReactionsSince(ctx context.Context, teamID types.TeamID, fromTS types.MessageTS) ([]*model.ReactionEvent, error) {
	return r.listReactions(ctx, teamID, fromTS.Epoch())
}

func (r *eventRepository) ListReactions(ctx context.Context, teamID types.TeamID) ([]*model.ReactionEvent, error) {
	return r.listReactions(ctx, teamID, 0)
}

func (r *eventRepository) listReactions(ctx context.Context, teamID types.TeamID, fromEpoch float64) ([]*model.ReactionEvent, error) {
	const q = `SELECT team_id, channel_id, user_id, reaction, ts
		FROM reaction_event
		WHERE team_id = $1 AND ts_epoch >= $2
		ORDER BY ts_epoch, id`

	rows, err := r.pool.Query(ctx, q, teamID.String(), fromEpoch)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list reaction events", goerr.V("team_id", teamID))
	}
	defer rows.Close()

	out := []*model.ReactionEvent{}
	for rows.Next() {
		var ev model.ReactionEvent
		if err := rows.Scan(&ev.TeamID, &ev.ChannelID, &ev.UserID, &ev.Reaction, &ev.TS); err != nil {
			return nil, goerr.Wrap(err, "failed to scan reaction event")
		}
		out = append(out, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate reaction events")
	}

	return out, nil
}

func (r *eventRepository) PruneBefore(ctx context.Context, teamID types.TeamID, cutoff types.MessageTS) (int, error) {
	cutoffEpoch := cutoff.Epoch()
	deleted := 0

	for _, q := range []string{
		`DELETE FROM message_event WHERE team_id = $1 AND ts_epoch < $2`,
		`DELETE FROM reaction_event WHERE team_id = $1 AND ts_epoch < $2`,
	} {
		tag, err := r.pool.Exec(ctx, q, teamID.String(), cutoffEpoch)
		if err != nil {
			return deleted, goerr.Wrap(err, "failed to prune events",
				goerr.V("team_id", teamID), goerr.V("cutoff", cutoff))
		}
		deleted += int(tag.RowsAffected())
	}

	return deleted, nil
}
