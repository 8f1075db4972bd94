package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/andreycorp/grocfriend/pkg/domain/types"
	"github.com/andreycorp/grocfriend/pkg/service/scheduler"
	"github.com/andreycorp/grocfriend/pkg/usecase"
	"github.com/andreycorp/grocfriend/pkg/utils/ctxutil"
	"github.com/andreycorp/grocfriend/pkg/utils/errutil"
	"github.com/andreycorp/grocfriend/pkg/utils/logging"
	"github.com/andreycorp/grocfriend/pkg/utils/safe"
)

type Server struct {
	router        *chi.Mux
	signingSecret string

	eventHandler       *SlackEventHandler
	interactionHandler *SlackInteractionHandler
	commandHandler     *SlackCommandHandler
	oauthUC            *usecase.OAuthUseCase
	scheduler          *scheduler.Service
}

type Options func(*Server)

// WithOAuth enables the OAuth install callback endpoint.
func WithOAuth(oauthUC *usecase.OAuthUseCase) Options {
	return func(s *Server) {
		s.oauthUC = oauthUC
	}
}

// WithScheduler enables the debug open/close endpoints and schedule
// registration for freshly installed tenants.
func WithScheduler(sched *scheduler.Service) Options {
	return func(s *Server) {
		s.scheduler = sched
	}
}

func New(signingSecret string, eventHandler *SlackEventHandler, interactionHandler *SlackInteractionHandler, commandHandler *SlackCommandHandler, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:             r,
		signingSecret:      signingSecret,
		eventHandler:       eventHandler,
		interactionHandler: interactionHandler,
		commandHandler:     commandHandler,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/slack", func(r chi.Router) {
		// Webhook endpoints - no auth, signature verification only
		r.Group(func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.signingSecret))

			r.Post("/events", s.eventHandler.ServeHTTP)
			r.Post("/interact", s.interactionHandler.ServeHTTP)
			r.Post("/interact/*", s.interactionHandler.ServeHTTP)
			r.Post("/commands", s.commandHandler.ServeHTTP)
		})

		if s.scheduler != nil {
			r.Get("/test/open", s.testOpenHandler)
			r.Get("/test/close", s.testCloseHandler)
		}
	})

	if s.oauthUC != nil {
		r.Get("/oauth/callback", s.oauthCallbackHandler)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// oauthCallbackHandler exchanges the install code for a bot token and
// registers the new tenant's schedule.
func (s *Server) oauthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	teamID, err := s.oauthUC.HandleCallback(ctx, r.URL.Query().Get("code"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "oauth code exchange failed"), http.StatusBadRequest)
		return
	}

	if s.scheduler != nil {
		if err := s.scheduler.Apply(ctx, teamID); err != nil {
			logging.From(ctx).Error("failed to register schedule for new tenant", "team_id", teamID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	safe.Write(ctx, w, []byte("Installation successful! You can close this window."))
}

func (s *Server) testOpenHandler(w http.ResponseWriter, r *http.Request) {
	s.runTenantJob(w, r, s.scheduler.OpenFor)
}

func (s *Server) testCloseHandler(w http.ResponseWriter, r *http.Request) {
	s.runTenantJob(w, r, s.scheduler.CloseFor)
}

func (s *Server) runTenantJob(w http.ResponseWriter, r *http.Request, job func(ctx context.Context, teamID types.TeamID) error) {
	ctx := r.Context()

	teamID := types.TeamID(r.URL.Query().Get("teamId"))
	if teamID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing teamId parameter"), http.StatusBadRequest)
		return
	}
	ctx = ctxutil.WithTeamID(ctx, teamID)

	if err := job(ctx, teamID); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "tenant job failed", goerr.V("team_id", teamID)), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	safe.Write(ctx, w, []byte("ok"))
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
