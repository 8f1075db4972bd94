package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/service/scheduler"
	slacksvc "github.com/andreycorp/grocfriend/pkg/service/slack"
	"github.com/andreycorp/grocfriend/pkg/service/summary"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

// SummaryCommand is the slash command admins use to request a mid-week
// summary by DM.
const SummaryCommand = "/grocery-summary-admin"

// CommandAck is the immediate response body of the slash command.
const CommandAck = "📨 Got it! Generating your summary..."

// CommandUseCase executes the deferred part of slash commands. The HTTP
// controller acknowledges the command first and runs this in the
// background; all outcomes, success or failure, are delivered by DM.
type CommandUseCase struct {
	repo         interfaces.Repository
	slackService slacksvc.Service
	scheduler    *scheduler.Service
	orderChannel string
}

func NewCommandUseCase(repo interfaces.Repository, slackService slacksvc.Service, sched *scheduler.Service, orderChannel string) *CommandUseCase {
	return &CommandUseCase{
		repo:         repo,
		slackService: slackService,
		scheduler:    sched,
		orderChannel: orderChannel,
	}
}

// RunSummaryCommand verifies the requester is an admin, aggregates the
// open thread and DMs the result. Errors that reach the user do so in
// prose; the webhook response was already sent.
func (uc *CommandUseCase) RunSummaryCommand(ctx context.Context, teamID types.TeamID, userID types.UserID) {
	if err := uc.runSummaryCommand(ctx, teamID, userID); err != nil {
		logging.From(ctx).Error("summary command failed", "team_id", teamID, "user_id", userID, "error", err)
		uc.dm(ctx, teamID, userID, "Something went wrong generating your summary.")
	}
}

func (uc *CommandUseCase) runSummaryCommand(ctx context.Context, teamID types.TeamID, userID types.UserID) error {
	isAdmin, err := uc.slackService.IsWorkspaceAdminForTeam(ctx, teamID, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to check workspace admin")
	}
	if !isAdmin {
		uc.dm(ctx, teamID, userID, "Only workspace admins can run this command.")
		return nil
	}

	threadTS, open := uc.scheduler.CurrentThreadTS(teamID)
	if !open {
		uc.dm(ctx, teamID, userID, "No active grocery thread to summarize.")
		return nil
	}

	channelID, err := uc.slackService.ResolveChannelIDByNameForTeam(ctx, teamID, uc.orderChannel)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve order channel")
	}

	messages, err := uc.repo.Event().ListMessagesSince(ctx, teamID, threadTS)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch thread messages")
	}
	inThread := make([]*model.MessageEvent, 0, len(messages))
	for _, msg := range messages {
		if msg.ChannelID == channelID {
			inThread = append(inThread, msg)
		}
	}

	if len(inThread) == 0 {
		uc.dm(ctx, teamID, userID, summary.NoOrdersMessage)
		return nil
	}

	reactions, err := uc.repo.Event().ListReactionsSince(ctx, teamID, threadTS)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch thread reactions")
	}

	uc.dm(ctx, teamID, userID, summary.Build(inThread, reactions))
	return nil
}

// dm best-effort delivers a message to the user's DM channel.
func (uc *CommandUseCase) dm(ctx context.Context, teamID types.TeamID, userID types.UserID, text string) {
	imChannel, err := uc.slackService.OpenIMForTeam(ctx, teamID, userID)
	if err == nil {
		_, err = uc.slackService.SendMessageForTeam(ctx, teamID, imChannel, text)
	}
	if err != nil {
		logging.From(ctx).Error("failed to DM user", "team_id", teamID, "user_id", userID, "error", err)
	}
}
