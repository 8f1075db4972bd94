package interfaces

import (
	"context"
	"errors"

	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

// ErrWorkspaceNotFound is returned when no credentials are stored for a
// team ID.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceRepository persists tenant credentials.
type WorkspaceRepository interface {
	// Upsert inserts the workspace or replaces its credentials.
	Upsert(ctx context.Context, ws *model.Workspace) error

	// Get retrieves the full credential row.
	// Returns ErrWorkspaceNotFound when the team is unknown.
	Get(ctx context.Context, teamID types.TeamID) (*model.Workspace, error)

	// GetBotToken retrieves the bot token for the given workspace.
	// Returns ErrWorkspaceNotFound when the team is unknown.
	GetBotToken(ctx context.Context, teamID types.TeamID) (string, error)

	// ListTeamIDs enumerates all installed tenants. Used at startup to
	// register scheduler jobs.
	ListTeamIDs(ctx context.Context) ([]types.TeamID, error)
}
