package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

type workspaceRepository struct {
	mu         sync.RWMutex
	workspaces map[types.TeamID]*model.Workspace
}

var _ interfaces.WorkspaceRepository = &workspaceRepository{}

func newWorkspaceRepository() *workspaceRepository {
	return &workspaceRepository{
		workspaces: make(map[types.TeamID]*model.Workspace),
	}
}

func (r *workspaceRepository) Upsert(ctx context.Context, ws *model.Workspace) error {
	if ws == nil {
		return goerr.New("workspace is nil")
	}
	if err := ws.Validate(); err != nil {
		return goerr.Wrap(err, "invalid workspace")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *ws
	if existing, ok := r.workspaces[ws.TeamID]; ok {
		// Keep the original install time on re-install
		stored.InstalledAt = existing.InstalledAt
	} else if stored.InstalledAt.IsZero() {
		stored.InstalledAt = time.Now()
	}
	r.workspaces[ws.TeamID] = &stored

	return nil
}

func (r *workspaceRepository) Get(ctx context.Context, teamID types.TeamID) (*model.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[teamID]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrWorkspaceNotFound, "no workspace", goerr.V("team_id", teamID))
	}

	copied := *ws
	return &copied, nil
}

func (r *workspaceRepository) GetBotToken(ctx context.Context, teamID types.TeamID) (string, error) {
	ws, err := r.Get(ctx, teamID)
	if err != nil {
		return "", err
	}
	return ws.BotToken, nil
}

func (r *workspaceRepository) ListTeamIDs(ctx context.Context) ([]types.TeamID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]types.TeamID, 0, len(r.workspaces))
	for id := range r.workspaces {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}
