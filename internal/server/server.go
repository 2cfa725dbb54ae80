package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	v1 "github.com/gosuda/actionfeed/internal/api/v1"
	"github.com/gosuda/actionfeed/internal/api/ws"
	"github.com/gosuda/actionfeed/internal/config"
	feedslack "github.com/gosuda/actionfeed/internal/messenger/slack"
	"github.com/gosuda/actionfeed/internal/metrics"
	"github.com/gosuda/actionfeed/internal/server/middleware"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the HTTP surface exposes. Slack is nil when the Slack
// integration is not configured.
type Deps struct {
	Store   v1.DataStore
	Auth    v1.AuthService
	Items   v1.ItemService
	Members v1.MemberService
	Feed    ws.Subscriber
	Health  map[string]Pinger
	Metrics *metrics.Metrics
	Slack   feedslack.MessageUpdater
}

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server with all routes wired. ctx bounds the background sweepers of
// the rate limiters.
func New(ctx context.Context, cfg *config.Config, d Deps) *Server {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware)
	}

	s := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
	}

	byIP := middleware.RateLimitByIP(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(byIP)
			registerPublicRoutes(humachi.New(r, apiConfig("ActionFeed Auth API")), d)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RequireCompany())
			r.Use(middleware.RateLimit(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
			registerAPIRoutes(humachi.New(r, apiConfig("ActionFeed API")), d)
		})
	})

	if d.Feed != nil {
		router.Route("/ws", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RequireCompany())
			registerWSRoutes(r, ws.NewHub(d.Feed, originHosts(cfg.Server.CORSOrigins)))
		})
	}

	router.Route("/slack", func(r chi.Router) {
		r.Use(byIP)
		if h := buildSlackHandler(cfg, d); h != nil {
			registerSlackRoutes(r, h)
			return
		}
		r.Post("/events", notImplemented)
		r.Post("/interactions", notImplemented)
	})

	router.Get("/healthz", healthz(d.Health))
	if d.Metrics != nil {
		router.Handle("/metrics", d.Metrics.Handler())
	}

	return s
}

func apiConfig(title string) huma.Config {
	c := huma.DefaultConfig(title, "1.0.0")
	c.Servers = []*huma.Server{{URL: "/api/v1"}}
	return c
}

// buildSlackHandler returns nil unless a signing secret is configured.
func buildSlackHandler(cfg *config.Config, d Deps) *feedslack.Handler {
	if cfg.Slack.SigningSecret == "" || d.Items == nil {
		return nil
	}

	handler := feedslack.NewHandler(cfg.Slack.SigningSecret, &slackDismissAdapter{items: d.Items}, d.Slack)
	log.Info().Bool("card_updates", d.Slack != nil).Msg("slack integration enabled")
	return handler
}

func notImplemented(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

const healthTimeout = 2 * time.Second

func healthz(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		for name, p := range deps {
			if err := p.Ping(ctx); err != nil {
				log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = fmt.Fprintf(w, `{"status":"unavailable","dependency":%q}`, name)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// originHosts turns CORS origins such as "https://console.example.com" into the
// host patterns the WebSocket handshake matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, o)
	}
	return hosts
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
