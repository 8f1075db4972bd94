package interfaces

import (
	"context"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// EventRepository is the append-only store of message and reaction events,
// partitioned by tenant. Range queries compare the numeric epoch form of
// ts; identity uses the verbatim string.
type EventRepository interface {
	// SaveMessage appends a message event. A duplicate on
	// (team, channel, ts) is silently ignored so webhook replays are
	// idempotent.
	SaveMessage(ctx context.Context, ev *model.MessageEvent) error

	// SaveReaction appends a reaction event. No uniqueness is enforced;
	// react/unreact cycles legitimately repeat rows.
	SaveReaction(ctx context.Context, ev *model.ReactionEvent) error

	// ListMessagesSince returns messages with ts epoch >= fromTS epoch,
	// ordered by epoch ascending.
	ListMessagesSince(ctx context.Context, teamID types.TeamID, fromTS types.MessageTS) ([]*model.MessageEvent, error)

	// ListReactionsSince returns reactions with ts epoch >= fromTS epoch,
	// ordered by epoch ascending.
	ListReactionsSince(ctx context.Context, teamID types.TeamID, fromTS types.MessageTS) ([]*model.ReactionEvent, error)

	// ListMessages returns every stored message of the tenant,
	// ordered by epoch ascending.
	ListMessages(ctx context.Context, teamID types.TeamID) ([]*model.MessageEvent, error)

	// ListReactions returns every stored reaction of the tenant,
	// ordered by epoch ascending.
	ListReactions(ctx context.Context, teamID types.TeamID) ([]*model.ReactionEvent, error)

	// PruneBefore deletes events with ts epoch strictly before the cutoff
	// and returns the number of deleted rows. Idempotent.
	PruneBefore(ctx context.Context, teamID types.TeamID, cutoff types.MessageTS) (int, error)
}
