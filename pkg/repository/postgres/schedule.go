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

type scheduleRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.ScheduleRepository = &scheduleRepository{}

func (r *scheduleRepository) Get(ctx context.Context, teamID types.TeamID) (*model.ScheduleSettings, error) {
	const q = `SELECT team_id, open_day, open_time, close_day, close_time, timezone
		FROM schedule_settings WHERE team_id = $1`

	var s model.ScheduleSettings
	row := r.pool.QueryRow(ctx, q, teamID.String())
	if err := row.Scan(&s.TeamID, &s.OpenDay, &s.OpenTime, &s.CloseDay, &s.CloseTime, &s.Timezone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get schedule settings", goerr.V("team_id", teamID))
	}

	return &s, nil
}

func (r *scheduleRepository) Upsert(ctx context.Context, settings *model.ScheduleSettings) error {
	if settings == nil {
		return goerr.New("schedule settings is nil")
	}
	if err := settings.Validate(); err != nil {
		return goerr.Wrap(err, "invalid schedule settings")
	}

	const q = `INSERT INTO schedule_settings (team_id, open_day, open_time, close_day, close_time, timezone, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (team_id) DO UPDATE
			SET open_day = EXCLUDED.open_day,
			    open_time = EXCLUDED.open_time,
			    close_day = EXCLUDED.close_day,
			    close_time = EXCLUDED.close_time,
			    timezone = EXCLUDED.timezone,
			    updated_at = now()`

	_, err := r.pool.Exec(ctx, q,
		settings.TeamID.String(), settings.OpenDay.String(), settings.OpenTime,
		settings.CloseDay.String(), settings.CloseTime, settings.Timezone,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to upsert schedule settings", goerr.V("team_id", settings.TeamID))
	}

	return nil
}
