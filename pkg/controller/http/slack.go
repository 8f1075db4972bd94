package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/usecase"
	"github.com/andreycorp/grocfriend/pkg/utils/async"
	"github.com/andreycorp/grocfriend/pkg/utils/ctxutil"
	"github.com/andreycorp/grocfriend/pkg/utils/errutil"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
	"github.com/andreycorp/grocfriend/pkg/utils/safe"
)

// maxBodyBytes caps webhook payloads. Slack events are far smaller; anything
// bigger is rejected before signature verification.
const maxBodyBytes = 1 << 20

// verifySlackSignature verifies the Slack request signature.
// This is a pure function that can be used independently for testing.
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	// Reject stale and future-dated requests (replay prevention, ±5 minutes)
	now := time.Now().Unix()
	if diff := now - ts; diff > 60*5 || diff < -60*5 {
		return goerr.New("timestamp outside allowed window", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware creates a middleware that verifies Slack request
// signatures. The body is buffered and restored so downstream handlers can
// parse it again.
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer func() {
				if err := r.Body.Close(); err != nil {
					logging.From(ctx).Error("failed to close request body", "error", err)
				}
			}()

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewBuffer(body))
			next.ServeHTTP(w, r)
		})
	}
}

// SlackEventHandler handles Slack Events API webhook requests
type SlackEventHandler struct {
	eventUC *usecase.EventUseCase
}

func NewSlackEventHandler(eventUC *usecase.EventUseCase) *SlackEventHandler {
	return &SlackEventHandler{
		eventUC: eventUC,
	}
}

// ServeHTTP handles Slack webhook requests
func (h *SlackEventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Body has already been verified by the signature middleware
	body, err := io.ReadAll(r.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slack event"), http.StatusBadRequest)
		return
	}

	switch eventsAPIEvent.Type {
	case slackevents.URLVerification:
		var resp *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to unmarshal challenge"), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		safe.Write(ctx, w, []byte(resp.Challenge))
		return

	case slackevents.CallbackEvent:
		// Return 200 immediately to satisfy Slack's 3-second timeout requirement
		w.WriteHeader(http.StatusOK)

		teamID := types.TeamID(eventsAPIEvent.TeamID)
		ctx = ctxutil.WithTeamID(ctx, teamID)

		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := h.handleCallbackEvent(ctx, teamID, &eventsAPIEvent); err != nil {
				return goerr.Wrap(err, "failed to handle slack event")
			}
			return nil
		})

	default:
		logging.From(ctx).Warn("unknown slack event type", "type", eventsAPIEvent.Type)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackEventHandler) handleCallbackEvent(ctx context.Context, teamID types.TeamID, eventsAPIEvent *slackevents.EventsAPIEvent) error {
	logger := logging.From(ctx)

	switch ev := eventsAPIEvent.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		// Ignore the bot's own messages to avoid feedback loops
		if ev.BotID != "" {
			return nil
		}
		threadTS := types.MessageTS(ev.ThreadTimeStamp)
		if threadTS == "" {
			threadTS = types.MessageTS(ev.TimeStamp)
		}
		return h.eventUC.HandleAppMention(ctx, &model.MessageEvent{
			TeamID:    teamID,
			ChannelID: types.ChannelID(ev.Channel),
			UserID:    types.UserID(ev.User),
			Text:      ev.Text,
			TS:        types.MessageTS(ev.TimeStamp),
		}, threadTS)

	case *slackevents.ReactionAddedEvent:
		return h.eventUC.HandleReactionAdded(ctx, &model.ReactionEvent{
			TeamID:    teamID,
			ChannelID: types.ChannelID(ev.Item.Channel),
			UserID:    types.UserID(ev.User),
			Reaction:  ev.Reaction,
			TS:        types.MessageTS(ev.Item.Timestamp),
		})

	case *slackevents.AppHomeOpenedEvent:
		return h.eventUC.HandleAppHomeOpened(ctx, teamID, types.UserID(ev.User))

	default:
		logger.Info("ignoring slack inner event", "type", eventsAPIEvent.InnerEvent.Type)
		return nil
	}
}
