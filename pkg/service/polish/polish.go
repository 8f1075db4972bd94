package polish

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const prompt = `Rewrite the following weekly grocery order summary for a team chat message.
Keep every quantity, item name, user mention and reaction count exactly as given.
Only improve phrasing and layout. Output plain chat markdown, no preamble.

Summary:
%s`

// Service rewrites summary text with an LLM. A nil client disables
// polishing and Rewrite returns its input unchanged.
type Service struct {
	llmClient gollem.LLMClient
}

func New(llmClient gollem.LLMClient) *Service {
	return &Service{llmClient: llmClient}
}

// Rewrite asks the LLM for a polished rendition of the summary. The caller
// treats failures as non-fatal and falls back to the raw summary.
func (s *Service) Rewrite(ctx context.Context, summaryText string) (string, error) {
	if s == nil || s.llmClient == nil {
		return summaryText, nil
	}

	session, err := s.llmClient.NewSession(ctx)
	if err != nil {
		return summaryText, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(fmt.Sprintf(prompt, summaryText)))
	if err != nil {
		return summaryText, goerr.Wrap(err, "failed to generate polished summary")
	}
	if len(resp.Texts) == 0 || resp.Texts[0] == "" {
		return summaryText, nil
	}
	return resp.Texts[0], nil
}
