package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/andreycorp/grocfriend/pkg/cli/config"
	httpctrl "github.com/andreycorp/grocfriend/pkg/controller/http"
	"github.com/andreycorp/grocfriend/pkg/service/polish"
	"github.com/andreycorp/grocfriend/pkg/service/scheduler"
	slacksvc "github.com/andreycorp/grocfriend/pkg/service/slack"
	"github.com/andreycorp/grocfriend/pkg/usecase"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var sentryDSN string
	var appCfg config.App
	var repoCfg config.Repository
	var slackCfg config.Slack
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GROCFRIEND_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Sources:     cli.EnvVars("GROCFRIEND_SENTRY_DSN"),
			Destination: &sentryDSN,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := slackCfg.Validate(); err != nil {
				return goerr.Wrap(err, "invalid slack configuration")
			}

			settings, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load app configuration")
			}

			if sentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{Dsn: sentryDSN}); err != nil {
					return goerr.Wrap(err, "failed to initialize sentry")
				}
				defer sentry.Flush(2 * time.Second)
				logging.Default().Info("Sentry error reporting enabled")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			slackSvc := slacksvc.New(repo.Workspace())

			schedOpts := []scheduler.Option{}
			if settings.AdminChannel != "" {
				schedOpts = append(schedOpts, scheduler.WithAdminChannel(settings.AdminChannel))
			}

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}
			if llmClient != nil {
				schedOpts = append(schedOpts, scheduler.WithRewriter(polish.New(llmClient)))
				logging.Default().Info("LLM summary polishing enabled")
			}

			sched := scheduler.New(repo, slackSvc, settings.OrderChannel, settings.Location, schedOpts...)
			if err := sched.Bootstrap(ctx); err != nil {
				return goerr.Wrap(err, "failed to bootstrap tenant schedules")
			}
			sched.Start()
			defer sched.Stop()

			eventUC := usecase.NewEventUseCase(repo, slackSvc, settings.OrderChannel)
			interactionUC := usecase.NewInteractionUseCase(repo, slackSvc, sched, settings.OrderChannel)
			commandUC := usecase.NewCommandUseCase(repo, slackSvc, sched, settings.OrderChannel)

			httpOpts := []httpctrl.Options{
				httpctrl.WithScheduler(sched),
			}
			if slackCfg.IsOAuthConfigured() {
				oauthUC := usecase.NewOAuthUseCase(repo.Workspace(), slackCfg.ClientID(), slackCfg.ClientSecret(), slackCfg.SigningSecret())
				httpOpts = append(httpOpts, httpctrl.WithOAuth(oauthUC))
				logging.Default().Info("OAuth install endpoint enabled")
			} else {
				logging.Default().Info("OAuth credentials not configured, install endpoint disabled")
			}

			httpHandler := httpctrl.New(slackCfg.SigningSecret(),
				httpctrl.NewSlackEventHandler(eventUC),
				httpctrl.NewSlackInteractionHandler(interactionUC),
				httpctrl.NewSlackCommandHandler(commandUC),
				httpOpts...,
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"order_channel", settings.OrderChannel,
					"timezone", settings.Location.String(),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
