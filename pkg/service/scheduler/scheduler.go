package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	slacksvc "github.com/andreycorp/grocfriend/pkg/service/slack"
	"github.com/andreycorp/grocfriend/pkg/service/summary"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

// NewThreadMessage is the pinned prompt posted when a weekly order thread
// opens.
const NewThreadMessage = "*🛒 New Grocery Order Thread! Please add your items*.\n\n" +
	"Mention me, then list your items :\n```@GrocFriend 2 apples, 1.5 kg sugar, banana```\n\n" +
	"Supported formats:\n" +
	"  – Integers or decimals (e.g. `2`, `1.5`)\n" +
	"  – Commas/semicolons/periods to separate items\n" +
	"  – Multi-word items (e.g. `2 green apples`)\n" +
	"  – Default quantity of `1` if omitted\n" +
	"  – Special characters supported (e.g. `crème fraîche`)\n\n" +
	"React with 👍 to encourage an order.\n" +
	"Items quantity with same name will be aggregated per user.\n" +
	"You can find the real-time grocery list in the *GrocFriend* home tab.\n"

// Rewriter optionally reworks the rendered summary before posting.
type Rewriter interface {
	Rewrite(ctx context.Context, summaryText string) (string, error)
}

// tenantState carries one tenant's scheduled jobs and open-thread marker.
// Its mutex serializes open, close and re-registration for the tenant so a
// reconfiguration never races a running job.
type tenantState struct {
	mu sync.Mutex

	openID  cron.EntryID
	closeID cron.EntryID
	// registered distinguishes "no job" from EntryID zero values.
	registered bool

	currentThreadTS types.MessageTS
	threadChannelID types.ChannelID
}

// Service drives the weekly open/close cycle. One cron runner serves all
// tenants; each tenant owns two entries that are cancelled and re-created
// whenever its schedule changes.
type Service struct {
	repo         interfaces.Repository
	slackService slacksvc.Service
	rewriter     Rewriter

	orderChannel string
	adminChannel string

	cron *cron.Cron

	mu      sync.Mutex
	tenants map[types.TeamID]*tenantState
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithAdminChannel also posts each closing summary to the named channel.
func WithAdminChannel(name string) Option {
	return func(s *Service) {
		s.adminChannel = name
	}
}

// WithRewriter enables LLM polishing of the closing summary.
func WithRewriter(r Rewriter) Option {
	return func(s *Service) {
		s.rewriter = r
	}
}

// New creates the scheduler. Cron expressions are interpreted in loc;
// orderChannel is the channel name the weekly thread lives in.
func New(repo interfaces.Repository, slackService slacksvc.Service, orderChannel string, loc *time.Location, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		slackService: slackService,
		orderChannel: orderChannel,
		cron:         cron.New(cron.WithLocation(loc)),
		tenants:      make(map[types.TeamID]*tenantState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins firing cron entries. Call Bootstrap first to register jobs
// for installed tenants.
func (s *Service) Start() {
	s.cron.Start()
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
}

// Bootstrap registers open/close jobs for every installed tenant. Called
// once at startup; a tenant that fails keeps the rest going.
func (s *Service) Bootstrap(ctx context.Context) error {
	teamIDs, err := s.repo.Workspace().ListTeamIDs(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list tenants for scheduler bootstrap")
	}

	logger := logging.From(ctx)
	var eg errgroup.Group
	eg.SetLimit(8)
	for _, teamID := range teamIDs {
		eg.Go(func() error {
			if err := s.Apply(ctx, teamID); err != nil {
				logger.Error("failed to register scheduler jobs", "team_id", teamID, "error", err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Apply loads the tenant's schedule (or defaults) and re-registers both
// cron jobs: the old entries are removed before the new ones are added. A
// job already in flight runs to completion with its old settings.
func (s *Service) Apply(ctx context.Context, teamID types.TeamID) error {
	settings, err := s.repo.Schedule().Get(ctx, teamID)
	if err != nil {
		return goerr.Wrap(err, "failed to load schedule settings", goerr.V("team_id", teamID))
	}
	if settings == nil {
		settings = model.DefaultScheduleSettings(teamID)
	}
	if err := settings.Validate(); err != nil {
		return goerr.Wrap(err, "invalid schedule settings", goerr.V("team_id", teamID))
	}

	state := s.stateOf(teamID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.registered {
		s.cron.Remove(state.openID)
		s.cron.Remove(state.closeID)
		state.registered = false
	}

	openSpec, err := cronSpec(settings.OpenDay, settings.OpenTime)
	if err != nil {
		return err
	}
	closeSpec, err := cronSpec(settings.CloseDay, settings.CloseTime)
	if err != nil {
		return err
	}

	openID, err := s.cron.AddFunc(openSpec, func() {
		s.runJob(teamID, "open", s.OpenFor)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to register open job", goerr.V("team_id", teamID), goerr.V("spec", openSpec))
	}

	closeID, err := s.cron.AddFunc(closeSpec, func() {
		s.runJob(teamID, "close", s.CloseFor)
	})
	if err != nil {
		s.cron.Remove(openID)
		return goerr.Wrap(err, "failed to register close job", goerr.V("team_id", teamID), goerr.V("spec", closeSpec))
	}

	state.openID = openID
	state.closeID = closeID
	state.registered = true

	logging.From(ctx).Info("registered weekly order jobs",
		"team_id", teamID,
		"open", openSpec,
		"close", closeSpec,
	)
	return nil
}

// runJob executes a fired trigger with a fresh context. Job failures are
// logged, never retried; the next weekly fire tries again.
func (s *Service) runJob(teamID types.TeamID, kind string, fn func(context.Context, types.TeamID) error) {
	ctx := logging.With(context.Background(), logging.Default())
	if err := fn(ctx, teamID); err != nil {
		logging.From(ctx).Error("weekly order job failed", "team_id", teamID, "job", kind, "error", err)
	}
}

// OpenFor posts and pins the weekly prompt for the tenant and records the
// thread ts. Also invoked directly by the debug force-open endpoint.
func (s *Service) OpenFor(ctx context.Context, teamID types.TeamID) error {
	state := s.stateOf(teamID)
	state.mu.Lock()
	defer state.mu.Unlock()

	channelID, err := s.slackService.ResolveChannelIDByNameForTeam(ctx, teamID, s.orderChannel)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve order channel", goerr.V("team_id", teamID), goerr.V("channel_name", s.orderChannel))
	}

	ts, err := s.slackService.SendMessageForTeam(ctx, teamID, channelID, NewThreadMessage)
	if err != nil {
		return goerr.Wrap(err, "failed to open order thread", goerr.V("team_id", teamID))
	}

	state.currentThreadTS = ts
	state.threadChannelID = channelID

	if err := s.slackService.PinMessageForTeam(ctx, teamID, channelID, ts); err != nil {
		// Pinning is cosmetic; the thread stays usable without it.
		logging.From(ctx).Warn("failed to pin order thread", "team_id", teamID, "ts", ts, "error", err)
	}

	logging.From(ctx).Info("opened weekly order thread", "team_id", teamID, "channel_id", channelID, "ts", ts)
	return nil
}

// CloseFor summarizes the open thread, prunes its events, and clears the
// thread marker. Also invoked directly by the debug force-close endpoint.
func (s *Service) CloseFor(ctx context.Context, teamID types.TeamID) error {
	state := s.stateOf(teamID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.currentThreadTS == "" {
		logging.From(ctx).Info("no open order thread to close", "team_id", teamID)
		return nil
	}
	threadTS := state.currentThreadTS
	channelID := state.threadChannelID

	messages, err := s.repo.Event().ListMessagesSince(ctx, teamID, threadTS)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch thread messages", goerr.V("team_id", teamID))
	}

	inThread := make([]*model.MessageEvent, 0, len(messages))
	for _, msg := range messages {
		if msg.ChannelID == channelID {
			inThread = append(inThread, msg)
		}
	}

	if len(inThread) == 0 {
		if _, err := s.slackService.SendMessageInThreadForTeam(ctx, teamID, channelID, summary.NoOrdersMessage, threadTS); err != nil {
			return goerr.Wrap(err, "failed to post empty-week notice", goerr.V("team_id", teamID))
		}
	} else {
		reactions, err := s.repo.Event().ListReactionsSince(ctx, teamID, threadTS)
		if err != nil {
			return goerr.Wrap(err, "failed to fetch thread reactions", goerr.V("team_id", teamID))
		}

		text := summary.Build(inThread, reactions)
		if s.rewriter != nil {
			polished, err := s.rewriter.Rewrite(ctx, text)
			if err != nil {
				logging.From(ctx).Warn("summary polishing failed, posting raw summary", "team_id", teamID, "error", err)
			} else {
				text = polished
			}
		}

		if _, err := s.slackService.SendMessageInThreadForTeam(ctx, teamID, channelID, text, threadTS); err != nil {
			return goerr.Wrap(err, "failed to post weekly summary", goerr.V("team_id", teamID))
		}

		if s.adminChannel != "" {
			adminChannelID, err := s.slackService.ResolveChannelIDByNameForTeam(ctx, teamID, s.adminChannel)
			if err == nil {
				_, err = s.slackService.SendMessageForTeam(ctx, teamID, adminChannelID, "Summary:\n"+text)
			}
			if err != nil {
				logging.From(ctx).Warn("failed to copy summary to admin channel", "team_id", teamID, "error", err)
			}
		}
	}

	pruned, err := s.repo.Event().PruneBefore(ctx, teamID, threadTS)
	if err != nil {
		return goerr.Wrap(err, "failed to prune closed-week events", goerr.V("team_id", teamID))
	}

	state.currentThreadTS = ""
	state.threadChannelID = ""

	logging.From(ctx).Info("closed weekly order thread",
		"team_id", teamID,
		"thread_ts", threadTS,
		"orders", len(inThread),
		"pruned", pruned,
	)
	return nil
}

// CurrentThreadTS reports the tenant's open thread, if any.
func (s *Service) CurrentThreadTS(teamID types.TeamID) (types.MessageTS, bool) {
	state := s.stateOf(teamID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.currentThreadTS, state.currentThreadTS != ""
}

func (s *Service) stateOf(teamID types.TeamID) *tenantState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.tenants[teamID]
	if !ok {
		state = &tenantState{}
		s.tenants[teamID] = state
	}
	return state
}

// cronSpec renders a five-field cron expression firing weekly at the given
// wall-clock day and time.
func cronSpec(day types.Weekday, wallClock string) (string, error) {
	hour, minute, err := model.ParseWallClock(wallClock)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * %s", minute, hour, day), nil
}
