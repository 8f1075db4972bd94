package http

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/usecase"
	"github.com/andreycorp/grocfriend/pkg/utils/async"
	"github.com/andreycorp/grocfriend/pkg/utils/ctxutil"
	"github.com/andreycorp/grocfriend/pkg/utils/errutil"
	"github.com/andreycorp/grocfriend/pkg/utils/safe"
)

// SlackCommandHandler handles slash command requests
type SlackCommandHandler struct {
	commandUC *usecase.CommandUseCase
}

func NewSlackCommandHandler(commandUC *usecase.CommandUseCase) *SlackCommandHandler {
	return &SlackCommandHandler{
		commandUC: commandUC,
	}
}

// ServeHTTP acknowledges the command within Slack's timeout and runs the
// heavy work in the background.
func (h *SlackCommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}

	if cmd.Command != usecase.SummaryCommand {
		errutil.HandleHTTP(ctx, w, goerr.New("unknown slash command", goerr.V("command", cmd.Command)), http.StatusBadRequest)
		return
	}

	teamID := types.TeamID(cmd.TeamID)
	userID := types.UserID(cmd.UserID)
	ctx = ctxutil.WithTeamID(ctx, teamID)

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	safe.Write(ctx, w, []byte(usecase.CommandAck))

	async.Dispatch(ctx, func(ctx context.Context) error {
		h.commandUC.RunSummaryCommand(ctx, teamID, userID)
		return nil
	})
}
