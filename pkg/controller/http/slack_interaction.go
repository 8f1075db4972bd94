package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/service/homeview"
	"github.com/andreycorp/grocfriend/pkg/usecase"
	"github.com/andreycorp/grocfriend/pkg/utils/async"
	"github.com/andreycorp/grocfriend/pkg/utils/ctxutil"
	"github.com/andreycorp/grocfriend/pkg/utils/errutil"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

// SlackInteractionHandler handles Slack interactive component payloads
// (block actions and view submissions)
type SlackInteractionHandler struct {
	interactionUC *usecase.InteractionUseCase
}

func NewSlackInteractionHandler(interactionUC *usecase.InteractionUseCase) *SlackInteractionHandler {
	return &SlackInteractionHandler{
		interactionUC: interactionUC,
	}
}

// ServeHTTP handles Slack interaction webhook requests
func (h *SlackInteractionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Slack sends interaction payloads as application/x-www-form-urlencoded
	// with a "payload" field containing JSON
	payload := r.FormValue("payload")
	if payload == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing payload field in interaction request"), http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse interaction payload"), http.StatusBadRequest)
		return
	}

	teamID := types.TeamID(callback.Team.ID)
	ctx = ctxutil.WithTeamID(ctx, teamID)

	switch callback.Type {
	case slack.InteractionTypeBlockActions:
		w.WriteHeader(http.StatusOK)

		actions := make([]*usecase.BlockAction, 0, len(callback.ActionCallback.BlockActions))
		for _, action := range callback.ActionCallback.BlockActions {
			actions = append(actions, &usecase.BlockAction{
				TeamID:    teamID,
				UserID:    types.UserID(callback.User.ID),
				ActionID:  action.ActionID,
				Value:     blockActionValue(action),
				TriggerID: callback.TriggerID,
			})
		}

		async.Dispatch(ctx, func(ctx context.Context) error {
			for _, action := range actions {
				if err := h.interactionUC.HandleBlockAction(ctx, action); err != nil {
					logging.From(ctx).Error("failed to handle block action",
						"error", err,
						"action_id", action.ActionID,
						"team_id", action.TeamID,
						"user_id", action.UserID,
					)
				}
			}
			return nil
		})

	case slack.InteractionTypeViewSubmission:
		// An empty 200 closes the modal
		w.WriteHeader(http.StatusOK)

		submission := &usecase.ViewSubmission{
			TeamID:          teamID,
			UserID:          types.UserID(callback.User.ID),
			CallbackID:      callback.View.CallbackID,
			PrivateMetadata: callback.View.PrivateMetadata,
			ItemName:        viewStateValue(&callback, homeview.BlockIDItemName, homeview.ActionIDItemName),
			QuantityText:    viewStateValue(&callback, homeview.BlockIDQuantity, homeview.ActionIDQuantity),
		}

		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := h.interactionUC.HandleViewSubmission(ctx, submission); err != nil {
				return goerr.Wrap(err, "failed to handle view submission",
					goerr.V("callback_id", submission.CallbackID),
					goerr.V("team_id", submission.TeamID),
				)
			}
			return nil
		})

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// blockActionValue extracts the selected value regardless of the element
// kind that produced the action.
func blockActionValue(action *slack.BlockAction) string {
	if action.SelectedOption.Value != "" {
		return action.SelectedOption.Value
	}
	if action.SelectedTime != "" {
		return action.SelectedTime
	}
	return action.Value
}

func viewStateValue(callback *slack.InteractionCallback, blockID, actionID string) string {
	if callback.View.State == nil {
		return ""
	}
	return callback.View.State.Values[blockID][actionID].Value
}
