package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/actionfeed/internal/auth"
	"github.com/gosuda/actionfeed/internal/config"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/enterprise"
	"github.com/gosuda/actionfeed/internal/items"
	"github.com/gosuda/actionfeed/internal/members"
	feedslack "github.com/gosuda/actionfeed/internal/messenger/slack"
	"github.com/gosuda/actionfeed/internal/metrics"
	"github.com/gosuda/actionfeed/internal/notify"
	"github.com/gosuda/actionfeed/internal/server"
	"github.com/gosuda/actionfeed/internal/store/postgres"
	redisstore "github.com/gosuda/actionfeed/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	if err := postgres.Migrate(ctx, store.Pool()); err != nil {
		return err
	}

	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	m := metrics.New()
	authSvc := auth.NewService(store.Companies(), store.Users(), store.Logs(),
		cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	if err := bootstrap(ctx, cfg.Bootstrap, authSvc); err != nil {
		return err
	}

	registry := notify.NewRegistry()
	var (
		slackMessenger *feedslack.SlackMessenger
		inviter        members.Inviter
	)
	if cfg.Slack.Enabled() {
		api := slacklib.New(cfg.Slack.BotToken)
		slackMessenger = feedslack.NewSlackMessenger(api)
		registry.Register(slackMessenger.Platform(), slackMessenger)
		inviter = feedslack.NewInviter(api, slackMessenger, cfg.Server.ConsoleURL+"/activate")
	}

	var routes []notify.Route
	if slackMessenger != nil && cfg.Slack.NotifyChannel != "" {
		routes = append(routes, notify.Route{Platform: slackMessenger.Platform(), Channel: cfg.Slack.NotifyChannel})
	}
	notifier := notify.New(registry, routes, cfg.Server.ConsoleURL)
	log.Info().Strs("platforms", registry.Platforms()).Int("routes", len(routes)).Msg("notifications configured")

	itemSvc := items.NewService(store.ActionItems(), store.Logs(), pubsub,
		items.WithNotifier(notifier), items.WithRecorder(m))

	seats := enterprise.NewValidator(license(cfg.License))
	if err := seats.Validate(); err != nil && !errors.Is(err, enterprise.ErrNoLicense) {
		log.Warn().Err(err).Str("license_id", cfg.License.ID).Msg("license check failed")
	}

	memberSvc := members.NewService(members.Deps{
		Companies: store.Companies(),
		Users:     store.Users(),
		Items:     store.ActionItems(),
		Feed:      itemSvc,
		Seats:     seats,
		Cooldown:  pubsub,
		Inviter:   inviter,
		Recorder:  m,
	})

	deps := server.Deps{
		Store:   store,
		Auth:    authSvc,
		Items:   itemSvc,
		Members: memberSvc,
		Feed:    pubsub,
		Health:  map[string]server.Pinger{"redis": pubsub, "postgres": store.Pool()},
		Metrics: m,
	}
	if slackMessenger != nil {
		deps.Slack = slackMessenger
	}
	srv := server.New(ctx, cfg, deps)

	go func() {
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("stopped")
	return nil
}

// bootstrap creates the first company and its admin on an empty deployment.
func bootstrap(ctx context.Context, b config.BootstrapConfig, authSvc *auth.Service) error {
	if b.AdminEmail == "" {
		return nil
	}

	now := time.Now()
	company := &domain.Company{ID: b.CompanyID, Name: b.CompanyName, Seats: b.CompanySeats, CreatedAt: now, UpdatedAt: now}
	admin, err := authSvc.EnsureAdmin(ctx, company, b.AdminEmail, b.AdminPassword, b.AdminName)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	log.Info().Str("company_id", company.ID.String()).Str("admin_id", admin.ID.String()).Msg("bootstrap admin ready")
	return nil
}

// license returns nil when no license is configured.
func license(c config.LicenseConfig) *enterprise.License {
	if c.ID == "" {
		return nil
	}
	return &enterprise.License{ID: c.ID, Org: c.Org, MaxUsers: c.MaxUsers, ExpiresAt: c.ExpiresAt}
}
