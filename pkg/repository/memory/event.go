package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

type messageKey struct {
	channelID types.ChannelID
	ts        types.MessageTS
}

type tenantEvents struct {
	messages     map[messageKey]*model.MessageEvent
	messageOrder []messageKey
	reactions    []*model.ReactionEvent
}

type eventRepository struct {
	mu      sync.RWMutex
	tenants map[types.TeamID]*tenantEvents
}

var _ interfaces.EventRepository = &eventRepository{}

func newEventRepository() *eventRepository {
	return &eventRepository{
		tenants: make(map[types.TeamID]*tenantEvents),
	}
}

// tenantUnsafe must be called with lock held
func (r *eventRepository) tenantUnsafe(teamID types.TeamID) *tenantEvents {
	t, ok := r.tenants[teamID]
	if !ok {
		t = &tenantEvents{
			messages: make(map[messageKey]*model.MessageEvent),
		}
		r.tenants[teamID] = t
	}
	return t
}

func (r *eventRepository) SaveMessage(ctx context.Context, ev *model.MessageEvent) error {
	if ev == nil {
		return goerr.New("message event is nil")
	}
	if err := ev.Validate(); err != nil {
		return goerr.Wrap(err, "invalid message event")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.tenantUnsafe(ev.TeamID)
	key := messageKey{channelID: ev.ChannelID, ts: ev.TS}
	if _, exists := t.messages[key]; exists {
		// Replayed webhook delivery; keep the first copy
		return nil
	}

	copied := *ev
	t.messages[key] = &copied
	t.messageOrder = append(t.messageOrder, key)

	return nil
}

func (r *eventRepository) SaveReaction(ctx context.Context, ev *model.ReactionEvent) error {
	if ev == nil {
		return goerr.New("reaction event is nil")
	}
	if err := ev.Validate(); err != nil {
		return goerr.Wrap(err, "invalid reaction event")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *ev
	t := r.tenantUnsafe(ev.TeamID)
	t.reactions = append(t.reactions, &copied)

	return nil
}

func (r *eventRepository) ListMessagesSince(ctx context.Context, teamID types.TeamID, fromTS types.MessageTS) ([]*model.MessageEvent, error) {
	return r.listMessages(teamID, fromTS.Epoch())
}

func (r *eventRepository) ListMessages(ctx context.Context, teamID types.TeamID) ([]*model.MessageEvent, error) {
	return r.listMessages(teamID, 0)
}

func (r *eventRepository) listMessages(teamID types.TeamID, fromEpoch float64) ([]*model.MessageEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[teamID]
	if !ok {
		return []*model.MessageEvent{}, nil
	}

	out := make([]*model.MessageEvent, 0, len(t.messages))
	for _, ev := range t.messages {
		if ev.TS.Epoch() >= fromEpoch {
			copied := *ev
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TS.Epoch() < out[j].TS.Epoch()
	})

	return out, nil
}

func (r *eventRepository) ListReactionsSince(ctx context.Context, teamID types.TeamID, fromTS types.MessageTS) ([]*model.ReactionEvent, error) {
	return r.listReactions(teamID, fromTS.Epoch())
}

func (r *eventRepository) ListReactions(ctx context.Context, teamID types.TeamID) ([]*model.ReactionEvent, error) {
	return r.listReactions(teamID, 0)
}

func (r *eventRepository) listReactions(teamID types.TeamID, fromEpoch float64) ([]*model.ReactionEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[teamID]
	if !ok {
		return []*model.ReactionEvent{}, nil
	}

	out := make([]*model.ReactionEvent, 0, len(t.reactions))
	for _, ev := range t.reactions {
		if ev.TS.Epoch() >= fromEpoch {
			copied := *ev
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TS.Epoch() < out[j].TS.Epoch()
	})

	return out, nil
}

func (r *eventRepository) PruneBefore(ctx context.Context, teamID types.TeamID, cutoff types.MessageTS) (int, error) {
	cutoffEpoch := cutoff.Epoch()

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[teamID]
	if !ok {
		return 0, nil
	}

	deleted := 0

	keptOrder := t.messageOrder[:0]
	for _, key := range t.messageOrder {
		ev := t.messages[key]
		if ev.TS.Epoch() < cutoffEpoch {
			delete(t.messages, key)
			deleted++
			continue
		}
		keptOrder = append(keptOrder, key)
	}
	t.messageOrder = keptOrder

	keptReactions := t.reactions[:0]
	for _, ev := range t.reactions {
		if ev.TS.Epoch() < cutoffEpoch {
			deleted++
			continue
		}
		keptReactions = append(keptReactions, ev)
	}
	t.reactions = keptReactions

	return deleted, nil
}
