package ctxutil

import (
	"context"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

type ctxTeamIDKey struct{}

// WithTeamID binds the tenant workspace ID to a derived context. The
// dispatcher sets it once per webhook request; scheduler jobs never use it
// and pass team IDs explicitly instead.
func WithTeamID(ctx context.Context, teamID types.TeamID) context.Context {
	return context.WithValue(ctx, ctxTeamIDKey{}, teamID)
}

// TeamID returns the tenant bound to ctx, if any.
func TeamID(ctx context.Context) (types.TeamID, bool) {
	teamID, ok := ctx.Value(ctxTeamIDKey{}).(types.TeamID)
	return teamID, ok
}
