package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/service/homeview"
	"github.com/andreycorp/grocfriend/pkg/service/scheduler"
	slacksvc "github.com/andreycorp/grocfriend/pkg/service/slack"
)

// BlockAction is one admin home interaction, flattened from the
// interaction payload by the HTTP controller.
type BlockAction struct {
	TeamID    types.TeamID
	UserID    types.UserID
	ActionID  string
	Value     string
	TriggerID string
}

// ViewSubmission is a submitted add/edit default item modal.
type ViewSubmission struct {
	TeamID          types.TeamID
	UserID          types.UserID
	CallbackID      string
	PrivateMetadata string
	ItemName        string
	QuantityText    string
}

// InteractionUseCase handles admin home block actions and modal
// submissions.
type InteractionUseCase struct {
	repo         interfaces.Repository
	slackService slacksvc.Service
	scheduler    *scheduler.Service
	orderChannel string
}

func NewInteractionUseCase(repo interfaces.Repository, slackService slacksvc.Service, sched *scheduler.Service, orderChannel string) *InteractionUseCase {
	return &InteractionUseCase{
		repo:         repo,
		slackService: slackService,
		scheduler:    sched,
		orderChannel: orderChannel,
	}
}

// HandleBlockAction dispatches one home tab action. Unknown action IDs are
// ignored; the set is closed.
func (uc *InteractionUseCase) HandleBlockAction(ctx context.Context, action *BlockAction) error {
	switch action.ActionID {
	case homeview.ActionIDOpenDayPicker:
		return uc.updateSchedule(ctx, action, func(s *model.ScheduleSettings) {
			s.OpenDay = types.Weekday(action.Value)
		})
	case homeview.ActionIDOpenTimePicker:
		return uc.updateSchedule(ctx, action, func(s *model.ScheduleSettings) {
			s.OpenTime = action.Value
		})
	case homeview.ActionIDCloseDayPicker:
		return uc.updateSchedule(ctx, action, func(s *model.ScheduleSettings) {
			s.CloseDay = types.Weekday(action.Value)
		})
	case homeview.ActionIDCloseTimePicker:
		return uc.updateSchedule(ctx, action, func(s *model.ScheduleSettings) {
			s.CloseTime = action.Value
		})

	case homeview.ActionIDSaveSchedule:
		if err := uc.scheduler.Apply(ctx, action.TeamID); err != nil {
			return err
		}
		return uc.republishHome(ctx, action)

	case homeview.ActionIDAddDefault:
		return uc.slackService.OpenModalForTeam(ctx, action.TeamID, action.TriggerID, homeview.AddDefaultModal())

	case homeview.ActionIDDefaultItemActions:
		return uc.handleDefaultItemAction(ctx, action)

	default:
		return nil
	}
}

// updateSchedule loads the tenant's settings (or defaults), applies the
// mutation, persists, re-registers the cron jobs and refreshes the view.
func (uc *InteractionUseCase) updateSchedule(ctx context.Context, action *BlockAction, mutate func(*model.ScheduleSettings)) error {
	settings, err := uc.repo.Schedule().Get(ctx, action.TeamID)
	if err != nil {
		return goerr.Wrap(err, "failed to load schedule settings", goerr.V("team_id", action.TeamID))
	}
	if settings == nil {
		settings = model.DefaultScheduleSettings(action.TeamID)
	}

	mutate(settings)

	if err := uc.repo.Schedule().Upsert(ctx, settings); err != nil {
		return goerr.Wrap(err, "failed to save schedule settings", goerr.V("team_id", action.TeamID))
	}
	if err := uc.scheduler.Apply(ctx, action.TeamID); err != nil {
		return err
	}
	return uc.republishHome(ctx, action)
}

// handleDefaultItemAction processes the overflow menu of one default item.
// The option value is "EDIT|name" or "DELETE|name".
func (uc *InteractionUseCase) handleDefaultItemAction(ctx context.Context, action *BlockAction) error {
	mode, name, found := strings.Cut(action.Value, "|")
	if !found {
		return goerr.New("malformed overflow value", goerr.V("value", action.Value))
	}

	if mode == "DELETE" {
		if err := uc.repo.Defaults().Delete(ctx, action.TeamID, name); err != nil {
			return goerr.Wrap(err, "failed to delete default item", goerr.V("team_id", action.TeamID), goerr.V("item", name))
		}
		return uc.republishHome(ctx, action)
	}

	quantity := 1
	items, err := uc.repo.Defaults().List(ctx, action.TeamID)
	if err != nil {
		return goerr.Wrap(err, "failed to list default items", goerr.V("team_id", action.TeamID))
	}
	for _, item := range items {
		if item.Name == name {
			quantity = item.Quantity
			break
		}
	}
	return uc.slackService.OpenModalForTeam(ctx, action.TeamID, action.TriggerID, homeview.EditDefaultModal(name, quantity))
}

// HandleViewSubmission persists a submitted add/edit modal. An edit that
// renamed the item deletes the original row first. A quantity that does
// not parse defaults to 1.
func (uc *InteractionUseCase) HandleViewSubmission(ctx context.Context, sub *ViewSubmission) error {
	if sub.CallbackID != homeview.CallbackIDDefaultModal {
		return nil
	}

	mode, original, _ := strings.Cut(sub.PrivateMetadata, "|")

	name := strings.TrimSpace(sub.ItemName)
	if name == "" {
		return goerr.New("item name is empty", goerr.V("team_id", sub.TeamID))
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(sub.QuantityText))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	if mode == "EDIT" && original != "" && original != name {
		if err := uc.repo.Defaults().Delete(ctx, sub.TeamID, original); err != nil {
			return goerr.Wrap(err, "failed to delete renamed default item", goerr.V("team_id", sub.TeamID), goerr.V("item", original))
		}
	}

	if err := uc.repo.Defaults().Upsert(ctx, &model.DefaultItem{
		TeamID:   sub.TeamID,
		Name:     name,
		Quantity: quantity,
	}); err != nil {
		return goerr.Wrap(err, "failed to upsert default item", goerr.V("team_id", sub.TeamID), goerr.V("item", name))
	}

	return publishHome(ctx, uc.repo, uc.slackService, uc.orderChannel, sub.TeamID, sub.UserID)
}

func (uc *InteractionUseCase) republishHome(ctx context.Context, action *BlockAction) error {
	return publishHome(ctx, uc.repo, uc.slackService, uc.orderChannel, action.TeamID, action.UserID)
}
