package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/service/homeview"
	slacksvc "github.com/andreycorp/grocfriend/pkg/service/slack"
	"github.com/andreycorp/grocfriend/pkg/service/summary"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

// publishHome renders and publishes the home tab for one user: the admin
// dashboard for workspace admins, the welcome view for everyone else. Both
// variants embed the live order summary of the tenant.
func publishHome(ctx context.Context, repo interfaces.Repository, slackService slacksvc.Service, orderChannel string, teamID types.TeamID, userID types.UserID) error {
	messages, err := repo.Event().ListMessages(ctx, teamID)
	if err != nil {
		return goerr.Wrap(err, "failed to list messages for home view", goerr.V("team_id", teamID))
	}
	reactions, err := repo.Event().ListReactions(ctx, teamID)
	if err != nil {
		return goerr.Wrap(err, "failed to list reactions for home view", goerr.V("team_id", teamID))
	}

	summaryMD := ""
	if len(messages) > 0 {
		summaryMD = summary.Build(messages, reactions)
	}

	isAdmin, err := slackService.IsWorkspaceAdminForTeam(ctx, teamID, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to check workspace admin", goerr.V("team_id", teamID), goerr.V("user_id", userID))
	}

	if isAdmin {
		settings, err := repo.Schedule().Get(ctx, teamID)
		if err != nil {
			return goerr.Wrap(err, "failed to load schedule settings", goerr.V("team_id", teamID))
		}
		if settings == nil {
			settings = model.DefaultScheduleSettings(teamID)
		}

		defaults, err := repo.Defaults().List(ctx, teamID)
		if err != nil {
			return goerr.Wrap(err, "failed to list default items", goerr.V("team_id", teamID))
		}

		view := homeview.AdminHome(settings, defaults, summaryMD)
		return slackService.PublishHomeViewForTeam(ctx, teamID, userID, view)
	}

	// The deep link is decoration; a failed lookup renders the view
	// without the channel button.
	channelID, err := slackService.ResolveChannelIDByNameForTeam(ctx, teamID, orderChannel)
	if err != nil {
		logging.From(ctx).Warn("failed to resolve order channel for home view", "team_id", teamID, "error", err)
		channelID = ""
	}

	view := homeview.UserWelcome(channelID, orderChannel, summaryMD)
	return slackService.PublishHomeViewForTeam(ctx, teamID, userID, view)
}
