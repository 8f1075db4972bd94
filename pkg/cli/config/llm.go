package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the summary-polishing LLM client
type LLM struct {
	apiKey string
}

func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (enables LLM polishing of the weekly summary)",
			Category:    "LLM",
			Sources:     cli.EnvVars("GROCFRIEND_OPENAI_API_KEY"),
			Destination: &x.apiKey,
		},
	}
}

func (x LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", x.apiKey != ""),
	)
}

// Configure creates an OpenAI LLM client from the configured flags.
// Returns nil if no API key is set (summary polishing will be disabled).
func (x *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if x.apiKey == "" {
		return nil, nil
	}

	client, err := openai.New(ctx, x.apiKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create OpenAI client")
	}

	return client, nil
}
