package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
)

// Client is the Postgres-backed repository. One pgx pool is shared across
// all sub-repositories; tenancy is enforced by team_id predicates, not by
// separate schemas.
type Client struct {
	pool      *pgxpool.Pool
	workspace *workspaceRepository
	event     *eventRepository
	defaults  *defaultsRepository
	schedule  *scheduleRepository
}

var _ interfaces.Repository = &Client{}

// New connects to the database and verifies the connection.
func New(ctx context.Context, dsn string) (*Client, error) {
	if dsn == "" {
		return nil, goerr.New("database DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to ping database")
	}

	return &Client{
		pool:      pool,
		workspace: &workspaceRepository{pool: pool},
		event:     &eventRepository{pool: pool},
		defaults:  &defaultsRepository{pool: pool},
		schedule:  &scheduleRepository{pool: pool},
	}, nil
}

func (c *Client) Workspace() interfaces.WorkspaceRepository {
	return c.workspace
}

func (c *Client) Event() interfaces.EventRepository {
	return c.event
}

func (c *Client) Defaults() interfaces.DefaultsRepository {
	return c.defaults
}

func (c *Client) Schedule() interfaces.ScheduleRepository {
	return c.schedule
}

func (c *Client) Close() error {
	c.pool.Close()
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS workspace (
		team_id        TEXT PRIMARY KEY,
		bot_token      TEXT NOT NULL,
		signing_secret TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS default_item (
		id        BIGSERIAL PRIMARY KEY,
		team_id   TEXT NOT NULL,
		item_name TEXT NOT NULL,
		quantity  INTEGER NOT NULL CHECK (quantity >= 1),
		UNIQUE (team_id, item_name)
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_settings (
		team_id    TEXT PRIMARY KEY,
		open_day   TEXT NOT NULL,
		open_time  TEXT NOT NULL,
		close_day  TEXT NOT NULL,
		close_time TEXT NOT NULL,
		timezone   TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS message_event (
		team_id    TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		text       TEXT NOT NULL,
		ts         TEXT NOT NULL,
		ts_epoch   DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (team_id, channel_id, ts)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_message_event_team_epoch
		ON message_event (team_id, ts_epoch)`,
	`CREATE TABLE IF NOT EXISTS reaction_event (
		id         BIGSERIAL PRIMARY KEY,
		team_id    TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		reaction   TEXT NOT NULL,
		ts         TEXT NOT NULL,
		ts_epoch   DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reaction_event_team_epoch
		ON reaction_event (team_id, ts_epoch)`,
}

// Migrate applies the schema. Statements are individually idempotent so
// re-running a partially applied migration is safe.
func (c *Client) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to apply schema statement", goerr.V("stmt", stmt))
		}
	}
	return nil
}
