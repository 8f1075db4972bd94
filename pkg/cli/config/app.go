package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// App holds bot-level settings: the order channel, the optional admin
// channel and the regional timezone for cron schedules. Values can come
// from flags, environment variables or an optional TOML file; the file
// fills in whatever the flags leave unset.
type App struct {
	configPath   string
	orderChannel string
	adminChannel string
	timezone     string
}

// AppSettings is the resolved configuration used for wiring.
type AppSettings struct {
	OrderChannel string
	AdminChannel string
	Location     *time.Location
}

type appFile struct {
	OrderChannel string `toml:"order_channel"`
	AdminChannel string `toml:"admin_channel"`
	Timezone     string `toml:"timezone"`
}

func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file",
			Category:    "App",
			Sources:     cli.EnvVars("GROCFRIEND_CONFIG"),
			Destination: &x.configPath,
		},
		&cli.StringFlag{
			Name:        "order-channel",
			Usage:       "Channel name where the weekly order thread is posted",
			Category:    "App",
			Sources:     cli.EnvVars("GROCFRIEND_ORDER_CHANNEL"),
			Destination: &x.orderChannel,
		},
		&cli.StringFlag{
			Name:        "admin-channel",
			Usage:       "Optional channel name that receives a copy of each summary",
			Category:    "App",
			Sources:     cli.EnvVars("GROCFRIEND_ADMIN_CHANNEL"),
			Destination: &x.adminChannel,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "IANA timezone for schedule evaluation",
			Category:    "App",
			Value:       "Asia/Jerusalem",
			Sources:     cli.EnvVars("GROCFRIEND_TIMEZONE"),
			Destination: &x.timezone,
		},
	}
}

func (x App) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config", x.configPath),
		slog.String("order-channel", x.orderChannel),
		slog.String("admin-channel", x.adminChannel),
		slog.String("timezone", x.timezone),
	)
}

// Configure merges the TOML file (when given) with the flag values and
// resolves the timezone.
func (x *App) Configure() (*AppSettings, error) {
	settings := &AppSettings{
		OrderChannel: x.orderChannel,
		AdminChannel: x.adminChannel,
	}
	timezone := x.timezone

	if x.configPath != "" {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(x.configPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", x.configPath))
		}

		var file appFile
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", x.configPath))
		}

		if settings.OrderChannel == "" {
			settings.OrderChannel = file.OrderChannel
		}
		if settings.AdminChannel == "" {
			settings.AdminChannel = file.AdminChannel
		}
		if file.Timezone != "" {
			timezone = file.Timezone
		}
	}

	if settings.OrderChannel == "" {
		return nil, goerr.New("order channel is required: set --order-channel or order_channel in the config file")
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid timezone", goerr.V("timezone", timezone))
	}
	settings.Location = loc

	return settings, nil
}
