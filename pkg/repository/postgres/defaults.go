package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
	"github.com/andreycorp/grocfriend/pkg/domain/model"
	"github.com/andreycorp/grocfriend/pkg/domain/types"
)

type defaultsRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.DefaultsRepository = &defaultsRepository{}

func (r *defaultsRepository) List(ctx context.Context, teamID types.TeamID) ([]*model.DefaultItem, error) {
	// ORDER BY id keeps insertion order; updates do not touch id
	const q = `SELECT team_id, item_name, quantity
		FROM default_item WHERE team_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, q, teamID.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list default items", goerr.V("team_id", teamID))
	}
	defer rows.Close()

	out := []*model.DefaultItem{}
	for rows.Next() {
		var item model.DefaultItem
		if err := rows.Scan(&item.TeamID, &item.Name, &item.Quantity); err != nil {
			return nil, goerr.Wrap(err, "failed to scan default item")
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate default items")
	}

	return out, nil
}

func (r *defaultsRepository) Upsert(ctx context.Context, item *model.DefaultItem) error {
	if item == nil {
		return goerr.New("default item is nil")
	}
	if err := item.Validate(); err != nil {
		return goerr.Wrap(err, "invalid default item")
	}

	const q = `INSERT INTO default_item (team_id, item_name, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, item_name) DO UPDATE
			SET quantity = EXCLUDED.quantity`

	if _, err := r.pool.Exec(ctx, q, item.TeamID.String(), item.Name, item.Quantity); err != nil {
		return goerr.Wrap(err, "failed to upsert default item",
			goerr.V("team_id", item.TeamID), goerr.V("item", item.Name))
	}

	return nil
}

func (r *defaultsRepository) Delete(ctx context.Context, teamID types.TeamID, name string) error {
	const q = `DELETE FROM default_item WHERE team_id = $1 AND item_name = $2`

	if _, err := r.pool.Exec(ctx, q, teamID.String(), name); err != nil {
		return goerr.Wrap(err, "failed to delete default item",
			goerr.V("team_id", teamID), goerr.V("item", name))
	}

	return nil
}
