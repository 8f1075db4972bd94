package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

// OAuthUseCase completes app installation: it exchanges the callback code
// for a bot token and stores the workspace credentials. Every workspace
// shares the app-level signing secret.
type OAuthUseCase struct {
	workspaces    interfaces.WorkspaceRepository
	clientID      string
	clientSecret  string
	signingSecret string
	httpClient    *http.Client
}

func NewOAuthUseCase(workspaces interfaces.WorkspaceRepository, clientID, clientSecret, signingSecret string) *OAuthUseCase {
	return &OAuthUseCase{
		workspaces:    workspaces,
		clientID:      clientID,
		clientSecret:  clientSecret,
		signingSecret: signingSecret,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// HandleCallback performs the oauth.v2.access exchange and upserts the
// installed workspace. Returns the team ID for the confirmation page.
func (uc *OAuthUseCase) HandleCallback(ctx context.Context, code string) (types.TeamID, error) {
	if code == "" {
		return "", goerr.New("missing oauth code")
	}

	resp, err := slack.GetOAuthV2ResponseContext(ctx, uc.httpClient, uc.clientID, uc.clientSecret, code, "")
	if err != nil {
		return "", goerr.Wrap(err, "oauth token exchange failed")
	}

	teamID := types.TeamID(resp.Team.ID)
	if err := uc.workspaces.Upsert(ctx, &model.Workspace{
		TeamID:        teamID,
		BotToken:      resp.AccessToken,
		SigningSecret: uc.signingSecret,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to store workspace credentials", goerr.V("team_id", teamID))
	}

	logging.From(ctx).Info("workspace installed", "team_id", teamID, "team_name", resp.Team.Name)
	return teamID, nil
}
