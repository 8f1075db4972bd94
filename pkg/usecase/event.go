package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/service/order"
	slacksvc "github.com/andreycorp/grocfriend/pkg/service/slack"
	"github.com/andreycorp/grocfriend/pkg/service/summary"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

// AckReaction is added to every recorded order message. It is excluded
// from aggregation so the bot cannot vote for orders.
const AckReaction = "white_check_mark"

// EventUseCase handles Slack event callbacks: home tab opens, order
// mentions and reactions.
type EventUseCase struct {
	repo         interfaces.Repository
	slackService slacksvc.Service
	orderChannel string
}

func NewEventUseCase(repo interfaces.Repository, slackService slacksvc.Service, orderChannel string) *EventUseCase {
	return &EventUseCase{
		repo:         repo,
		slackService: slackService,
		orderChannel: orderChannel,
	}
}

// HandleAppHomeOpened publishes the admin or user home view for the user.
func (uc *EventUseCase) HandleAppHomeOpened(ctx context.Context, teamID types.TeamID, userID types.UserID) error {
	return publishHome(ctx, uc.repo, uc.slackService, uc.orderChannel, teamID, userID)
}

// HandleAppMention records an order message, acknowledges it with a
// checkmark reaction and a one-line threaded echo of the parsed order, and
// refreshes the author's home tab. threadTS is the thread the reply goes
// to: the event's thread_ts when the mention is already threaded, the
// message's own ts otherwise.
func (uc *EventUseCase) HandleAppMention(ctx context.Context, ev *model.MessageEvent, threadTS types.MessageTS) error {
	if err := uc.repo.Event().SaveMessage(ctx, ev); err != nil {
		return goerr.Wrap(err, "failed to save order message", goerr.V("team_id", ev.TeamID), goerr.V("ts", ev.TS))
	}

	logger := logging.From(ctx)

	if err := uc.slackService.AddReactionForTeam(ctx, ev.TeamID, ev.ChannelID, ev.TS, AckReaction); err != nil {
		logger.Warn("failed to add ack reaction", "team_id", ev.TeamID, "ts", ev.TS, "error", err)
	}

	if line := normalizedOrderLine(ev.Text); line != "" {
		if _, err := uc.slackService.SendMessageInThreadForTeam(ctx, ev.TeamID, ev.ChannelID, "Recorded: "+line, threadTS); err != nil {
			logger.Warn("failed to post order acknowledgement", "team_id", ev.TeamID, "ts", ev.TS, "error", err)
		}
	}

	if err := publishHome(ctx, uc.repo, uc.slackService, uc.orderChannel, ev.TeamID, ev.UserID); err != nil {
		logger.Warn("failed to refresh home view after order", "team_id", ev.TeamID, "user_id", ev.UserID, "error", err)
	}
	return nil
}

// HandleReactionAdded records a reaction unless it is the bot's own
// acknowledgement.
func (uc *EventUseCase) HandleReactionAdded(ctx context.Context, ev *model.ReactionEvent) error {
	if ev.Reaction == AckReaction {
		return nil
	}
	if err := uc.repo.Event().SaveReaction(ctx, ev); err != nil {
		return goerr.Wrap(err, "failed to save reaction", goerr.V("team_id", ev.TeamID), goerr.V("ts", ev.TS))
	}
	return nil
}

// normalizedOrderLine renders the parsed orders of one message as a single
// comma-joined line, e.g. "2× apples, 1.5× kg sugar".
func normalizedOrderLine(text string) string {
	parsed := order.Parse(text)
	if len(parsed) == 0 {
		return ""
	}
	entries := make([]string, 0, len(parsed))
	for _, po := range parsed {
		entries = append(entries, summary.FormatOrder(po))
	}
	return strings.Join(entries, ", ")
}
