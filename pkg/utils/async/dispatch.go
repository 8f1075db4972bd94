package async

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/utils/ctxutil"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

// Dispatch executes a handler function asynchronously in a new goroutine.
// The background context keeps the request logger and tenant binding but
// detaches from the HTTP request lifetime, so the webhook can be acked
// before the handler finishes. Each job gets its own ID so log lines from
// concurrent handlers can be told apart.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger.With("job_id", uuid.NewString()))
	}
	if teamID, ok := ctxutil.TeamID(ctx); ok {
		bgCtx = ctxutil.WithTeamID(bgCtx, teamID)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}
