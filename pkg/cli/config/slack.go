package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	clientID      string
	clientSecret  string
	signingSecret string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-client-id",
			Usage:       "Slack OAuth client ID",
			Category:    "Slack",
			Sources:     cli.EnvVars("GROCFRIEND_SLACK_CLIENT_ID"),
			Destination: &x.clientID,
		},
		&cli.StringFlag{
			Name:        "slack-client-secret",
			Usage:       "Slack OAuth client secret",
			Category:    "Slack",
			Sources:     cli.EnvVars("GROCFRIEND_SLACK_CLIENT_SECRET"),
			Destination: &x.clientSecret,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for webhook verification)",
			Category:    "Slack",
			Sources:     cli.EnvVars("GROCFRIEND_SLACK_SIGNING_SECRET"),
			Destination: &x.signingSecret,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("client-id.len", len(x.clientID)),
		slog.Int("client-secret.len", len(x.clientSecret)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
	)
}

func (x *Slack) ClientID() string {
	return x.clientID
}

func (x *Slack) ClientSecret() string {
	return x.clientSecret
}

func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// IsOAuthConfigured reports whether the install flow can be served.
func (x *Slack) IsOAuthConfigured() bool {
	return x.clientID != "" && x.clientSecret != ""
}

// Validate checks that webhook verification can run.
func (x *Slack) Validate() error {
	if x.signingSecret == "" {
		return goerr.New("slack-signing-secret is required")
	}
	return nil
}
