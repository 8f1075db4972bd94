package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// Workspace holds the credentials of an installed tenant. Exactly one row
// per team; the bot token is replaced on re-install.
type Workspace struct {
	TeamID        types.TeamID
	BotToken      string `masq:"secret"`
	SigningSecret string `masq:"secret"`
	InstalledAt   time.Time
}

// Validate checks if the Workspace is valid
func (w *Workspace) Validate() error {
	if err := w.TeamID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid team ID")
	}
	if w.BotToken == "" {
		return goerr.New("bot token is required", goerr.V("team_id", w.TeamID))
	}
	if w.SigningSecret == "" {
		return goerr.New("signing secret is required", goerr.V("team_id", w.TeamID))
	}
	return nil
}
