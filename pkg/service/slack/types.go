package slack

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// Service provides the tenant-aware interface to the Slack API. Every
// operation exists in two forms: the plain form resolves the tenant from
// the request context, the ForTeam form takes it explicitly. Scheduler jobs
// run outside a request and always use the explicit form.
type Service interface {
	// SendMessage posts a message to a channel and returns its ts.
	SendMessage(ctx context.Context, channelID types.ChannelID, text string) (types.MessageTS, error)
	SendMessageForTeam(ctx context.Context, teamID types.TeamID, channelID types.ChannelID, text string) (types.MessageTS, error)

	// SendMessageInThread posts a threaded reply and returns its ts.
	SendMessageInThread(ctx context.Context, channelID types.ChannelID, text string, threadTS types.MessageTS) (types.MessageTS, error)
	SendMessageInThreadForTeam(ctx context.Context, teamID types.TeamID, channelID types.ChannelID, text string, threadTS types.MessageTS) (types.MessageTS, error)

	// PinMessage pins an existing message to its channel.
	PinMessage(ctx context.Context, channelID types.ChannelID, ts types.MessageTS) error
	PinMessageForTeam(ctx context.Context, teamID types.TeamID, channelID types.ChannelID, ts types.MessageTS) error

	// OpenIM opens (or resumes) a direct message conversation with a user.
	OpenIM(ctx context.Context, userID types.UserID) (types.ChannelID, error)
	OpenIMForTeam(ctx context.Context, teamID types.TeamID, userID types.UserID) (types.ChannelID, error)

	// IsWorkspaceAdmin reports whether the user is a workspace admin or owner.
	IsWorkspaceAdmin(ctx context.Context, userID types.UserID) (bool, error)
	IsWorkspaceAdminForTeam(ctx context.Context, teamID types.TeamID, userID types.UserID) (bool, error)

	// PublishHomeView publishes the App Home tab for a user.
	PublishHomeView(ctx context.Context, userID types.UserID, view slack.HomeTabViewRequest) error
	PublishHomeViewForTeam(ctx context.Context, teamID types.TeamID, userID types.UserID, view slack.HomeTabViewRequest) error

	// OpenModal opens a modal view in response to an interaction trigger.
	OpenModal(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
	OpenModalForTeam(ctx context.Context, teamID types.TeamID, triggerID string, view slack.ModalViewRequest) error

	// AddReaction adds an emoji reaction to a message.
	AddReaction(ctx context.Context, channelID types.ChannelID, ts types.MessageTS, name string) error
	AddReactionForTeam(ctx context.Context, teamID types.TeamID, channelID types.ChannelID, ts types.MessageTS, name string) error

	// ResolveChannelIDByName finds a public channel ID by its name.
	ResolveChannelIDByName(ctx context.Context, name string) (types.ChannelID, error)
	ResolveChannelIDByNameForTeam(ctx context.Context, teamID types.TeamID, name string) (types.ChannelID, error)
}
