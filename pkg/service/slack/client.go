package slack

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/utils/ctxutil"
)

// DefaultTimeout bounds each outgoing Slack API call.
const DefaultTimeout = 10 * time.Second

// apiEntry caches a constructed API client together with the token it was
// built from, so a rotated token invalidates the cache.
type apiEntry struct {
	token string
	api   *slack.Client
}

// client implements Service on top of slack-go, resolving the bot token of
// each tenant through the workspace store.
type client struct {
	workspaces interfaces.WorkspaceRepository
	httpClient *http.Client

	mu   sync.Mutex
	apis map[types.TeamID]*apiEntry
}

// Option is a functional option for client configuration
type Option func(*client)

// WithTimeout overrides the per-call HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// New creates a tenant-aware Slack service backed by the workspace store.
func New(workspaces interfaces.WorkspaceRepository, opts ...Option) Service {
	c := &client{
		workspaces: workspaces,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		apis:       make(map[types.TeamID]*apiEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Service = &client{}

// apiFor returns the API client of the tenant, rebuilding it when the
// stored token has been rotated since the last call.
func (c *client) apiFor(ctx context.Context, teamID types.TeamID) (*slack.Client, error) {
	token, err := c.workspaces.GetBotToken(ctx, teamID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve bot token", goerr.V("team_id", teamID))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.apis[teamID]; ok && entry.token == token {
		return entry.api, nil
	}

	api := slack.New(token, slack.OptionHTTPClient(c.httpClient))
	c.apis[teamID] = &apiEntry{token: token, api: api}
	return api, nil
}

// teamFrom resolves the tenant bound to the request context.
func teamFrom(ctx context.Context) (types.TeamID, error) {
	teamID, ok := ctxutil.TeamID(ctx)
	if !ok {
		return "", goerr.New("no tenant bound to context")
	}
	return teamID, nil
}

func (c *client) SendMessage(ctx context.Context, channelID types.ChannelID, text string) (types.MessageTS, error) {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return "", err
	}
	return c.SendMessageForTeam(ctx, teamID, channelID, text)
}

func (c *client) SendMessageForTeam(ctx context.Context, teamID types.TeamID, channelID types.ChannelID, text string) (types.MessageTS, error) {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return "", err
	}

	_, ts, err := api.PostMessageContext(ctx, string(channelID), slack.MsgOptionText(text, false))
	if err != nil {
		return "", goerr.Wrap(err, "failed to post message", goerr.V("team_id", teamID), goerr.V("channel_id", channelID))
	}
	return types.MessageTS(ts), nil
}

func (c *client) SendMessageInThread(ctx context.Context, channelID types.ChannelID, text string, threadTS types.MessageTS) (types.MessageTS, error) {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return "", err
	}
	return c.SendMessageInThreadForTeam(ctx, teamID, channelID, text, threadTS)
}

func (c *client) SendMessageInThreadForTeam(ctx context.Context, teamID types.TeamID, channelID types.ChannelID, text string, threadTS types.MessageTS) (types.MessageTS, error) {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return "", err
	}

	_, ts, err := api.PostMessageContext(ctx, string(channelID),
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(string(threadTS)),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post thread message", goerr.V("team_id", teamID), goerr.V("channel_id", channelID), goerr.V("thread_ts", threadTS))
	}
	return types.MessageTS(ts), nil
}

func (c *client) PinMessage(ctx context.Context, channelID types.ChannelID, ts types.MessageTS) error {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return err
	}
	return c.PinMessageForTeam(ctx, teamID, channelID, ts)
}

func (c *client) PinMessageForTeam(ctx context.Context, teamID types.TeamID, channelID types.ChannelID, ts types.MessageTS) error {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return err
	}

	ref := slack.NewRefToMessage(string(channelID), string(ts))
	if err := api.AddPinContext(ctx, string(channelID), ref); err != nil {
		return goerr.Wrap(err, "failed to pin message", goerr.V("team_id", teamID), goerr.V("channel_id", channelID), goerr.V("ts", ts))
	}
	return nil
}

func (c *client) OpenIM(ctx context.Context, userID types.UserID) (types.ChannelID, error) {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return "", err
	}
	return c.OpenIMForTeam(ctx, teamID, userID)
}

func (c *client) OpenIMForTeam(ctx context.Context, teamID types.TeamID, userID types.UserID) (types.ChannelID, error) {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return "", err
	}

	ch, _, _, err := api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{string(userID)},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to open IM", goerr.V("team_id", teamID), goerr.V("user_id", userID))
	}
	return types.ChannelID(ch.ID), nil
}

func (c *client) IsWorkspaceAdmin(ctx context.Context, userID types.UserID) (bool, error) {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return false, err
	}
	return c.IsWorkspaceAdminForTeam(ctx, teamID, userID)
}

func (c *client) IsWorkspaceAdminForTeam(ctx context.Context, teamID types.TeamID, userID types.UserID) (bool, error) {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return false, err
	}

	user, err := api.GetUserInfoContext(ctx, string(userID))
	if err != nil {
		return false, goerr.Wrap(err, "failed to get user info", goerr.V("team_id", teamID), goerr.V("user_id", userID))
	}
	return user.IsAdmin || user.IsOwner || user.IsPrimaryOwner, nil
}

func (c *client) PublishHomeView(ctx context.Context, userID types.UserID, view slack.HomeTabViewRequest) error {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return err
	}
	return c.PublishHomeViewForTeam(ctx, teamID, userID, view)
}

func (c *client) PublishHomeViewForTeam(ctx context.Context, teamID types.TeamID, userID types.UserID, view slack.HomeTabViewRequest) error {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return err
	}

	req := slack.PublishViewContextRequest{
		UserID: string(userID),
		View:   view,
	}
	if _, err := api.PublishViewContext(ctx, req); err != nil {
		return goerr.Wrap(err, "failed to publish home view", goerr.V("team_id", teamID), goerr.V("user_id", userID))
	}
	return nil
}

func (c *client) OpenModal(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return err
	}
	return c.OpenModalForTeam(ctx, teamID, triggerID, view)
}

func (c *client) OpenModalForTeam(ctx context.Context, teamID types.TeamID, triggerID string, view slack.ModalViewRequest) error {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return err
	}

	if _, err := api.OpenViewContext(ctx, triggerID, view); err != nil {
		return goerr.Wrap(err, "failed to open modal", goerr.V("team_id", teamID))
	}
	return nil
}

func (c *client) AddReaction(ctx context.Context, channelID types.ChannelID, ts types.MessageTS, name string) error {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return err
	}
	return c.AddReactionForTeam(ctx, teamID, channelID, ts, name)
}

func (c *client) AddReactionForTeam(ctx context.Context, teamID types.TeamID, channelID types.ChannelID, ts types.MessageTS, name string) error {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return err
	}

	ref := slack.NewRefToMessage(string(channelID), string(ts))
	if err := api.AddReactionContext(ctx, name, ref); err != nil {
		return goerr.Wrap(err, "failed to add reaction", goerr.V("team_id", teamID), goerr.V("channel_id", channelID), goerr.V("reaction", name))
	}
	return nil
}

func (c *client) ResolveChannelIDByName(ctx context.Context, name string) (types.ChannelID, error) {
	teamID, err := teamFrom(ctx)
	if err != nil {
		return "", err
	}
	return c.ResolveChannelIDByNameForTeam(ctx, teamID, name)
}

func (c *client) ResolveChannelIDByNameForTeam(ctx context.Context, teamID types.TeamID, name string) (types.ChannelID, error) {
	api, err := c.apiFor(ctx, teamID)
	if err != nil {
		return "", err
	}

	var cursor string
	for {
		params := &slack.GetConversationsParameters{
			Types:           []string{"public_channel"},
			ExcludeArchived: true,
			Limit:           200,
			Cursor:          cursor,
		}

		convs, nextCursor, err := api.GetConversationsContext(ctx, params)
		if err != nil {
			return "", goerr.Wrap(err, "failed to list conversations", goerr.V("team_id", teamID))
		}

		for _, conv := range convs {
			if conv.Name == name {
				return types.ChannelID(conv.ID), nil
			}
		}

		if nextCursor == "" {
			return "", goerr.New("channel not found", goerr.V("team_id", teamID), goerr.V("channel_name", name))
		}
		cursor = nextCursor
	}
}
