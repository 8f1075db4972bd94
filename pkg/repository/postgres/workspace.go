package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

type workspaceRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.WorkspaceRepository = &workspaceRepository{}

func (r *workspaceRepository) Upsert(ctx context.Context, ws *model.Workspace) error {
	if ws == nil {
		return goerr.New("workspace is nil")
	}
	if err := ws.Validate(); err != nil {
		return goerr.Wrap(err, "invalid workspace")
	}

	const q = `INSERT INTO workspace (team_id, bot_token, signing_secret)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id) DO UPDATE
			SET bot_token = EXCLUDED.bot_token,
			    signing_secret = EXCLUDED.signing_secret`

	if _, err := r.pool.Exec(ctx, q, ws.TeamID.String(), ws.BotToken, ws.SigningSecret); err != nil {
		return goerr.Wrap(err, "failed to upsert workspace", goerr.V("team_id", ws.TeamID))
	}

	return nil
}

func (r *workspaceRepository) Get(ctx context.Context, teamID types.TeamID) (*model.Workspace, error) {
	const q = `SELECT team_id, bot_token, signing_secret, created_at
		FROM workspace WHERE team_id = $1`

	var ws model.Workspace
	row := r.pool.QueryRow(ctx, q, teamID.String())
	if err := row.Scan(&ws.TeamID, &ws.BotToken, &ws.SigningSecret, &ws.InstalledAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrWorkspaceNotFound, "no workspace", goerr.V("team_id", teamID))
		}
		return nil, goerr.Wrap(err, "failed to get workspace", goerr.V("team_id", teamID))
	}

	return &ws, nil
}

func (r *workspaceRepository) GetBotToken(ctx context.Context, teamID types.TeamID) (string, error) {
	ws, err := r.Get(ctx, teamID)
	if err != nil {
		return "", err
	}
	return ws.BotToken, nil
}

func (r *workspaceRepository) ListTeamIDs(ctx context.Context) ([]types.TeamID, error) {
	const q = `SELECT team_id FROM workspace ORDER BY team_id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list team IDs")
	}
	defer rows.Close()

	var ids []types.TeamID
	for rows.Next() {
		var id types.TeamID
		if err := rows.Scan(&id); err != nil {
			return nil, goerr.Wrap(err, "failed to scan team ID")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate team IDs")
	}

	return ids, nil
}
