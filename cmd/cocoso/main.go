package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/streamerd/cocoso/internal/application"
	"github.com/streamerd/cocoso/internal/calendar"
	"github.com/streamerd/cocoso/internal/config"
	httptransport "github.com/streamerd/cocoso/internal/http"
	"github.com/streamerd/cocoso/internal/maintenance"
	"github.com/streamerd/cocoso/internal/notify"
	"github.com/streamerd/cocoso/internal/persistence"
	"github.com/streamerd/cocoso/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := newRootCommand(logger).Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "cocoso",
		Short:         "Multi-tenant community platform server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(logger), newMigrateCommand(logger))
	return root
}

func newServeCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			loadDotEnv(logger)
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg, logger)
		},
	}
}

func newMigrateCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			loadDotEnv(logger)
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			storage, err := sqlite.Open(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer storage.Close()

			if err := storage.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("migrations applied", "dsn", cfg.SQLiteDSN)
			return nil
		},
	}
}

// loadDotEnv reads an optional .env file into the process environment. A
// missing file is the normal production case and is not an error.
func loadDotEnv(logger *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to load .env file", "error", err)
		}
		return
	}
	logger.Info("environment loaded from .env file")
}

func runServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	userStore := sqlite.NewUserRepository(storage)
	sessionStore := sqlite.NewSessionRepository(storage)
	roomStore := sqlite.NewRoomRepository(storage)
	bookingStore := sqlite.NewBookingRepository(storage)
	groupStore := sqlite.NewGroupRepository(storage)
	hostStore := sqlite.NewHostRepository(storage)
	activityStore := sqlite.NewActivityRepository(storage)
	workStore := sqlite.NewWorkRepository(storage)

	defaults, err := config.LoadTenantDefaults(cfg.TenantDefaults)
	if err != nil {
		return fmt.Errorf("load tenant defaults: %w", err)
	}
	if err := seedTenants(ctx, hostStore, defaults, time.Now, logger); err != nil {
		return fmt.Errorf("seed tenants: %w", err)
	}

	idGenerator := func() string { return uuid.NewString() }
	tokenGenerator := func() string { return uuid.NewString() + uuid.NewString() }
	now := time.Now

	users := newUserRepositoryAdapter(userStore)
	sessions := newSessionRepositoryAdapter(sessionStore)
	bookings := newBookingRepositoryAdapter(bookingStore)
	rooms := newRoomCatalogAdapter(roomStore)
	groups := newGroupRepositoryAdapter(groupStore)
	hosts := newHostRepositoryAdapter(hostStore)
	activities := newActivityRepositoryAdapter(activityStore)
	works := newWorkRepositoryAdapter(workStore)

	authService := application.NewAuthServiceWithLogger(users, sessions, idGenerator, tokenGenerator, now, cfg.SessionTTL, cfg.DefaultHost, logger)
	profileService := application.NewProfileServiceWithLogger(users, hosts, now, logger)
	bookingService := application.NewBookingServiceWithLogger(bookings, rooms, idGenerator, now, logger)
	groupService := application.NewGroupServiceWithLogger(groups, newChatAnnouncer(logger), idGenerator, now, logger)
	activityService := application.NewActivityServiceWithLogger(activities, idGenerator, now, logger)
	workService := application.NewWorkServiceWithLogger(works, idGenerator, now, logger)
	hostService := application.NewHostServiceWithLogger(hosts, now, logger)

	hub := notify.NewHub(cfg.EventBuffer, logger)
	bookingService.SetPublisher(hub)
	groupService.SetPublisher(hub)
	activityService.SetPublisher(hub)
	hostService.SetPublisher(hub)

	janitor := maintenance.NewJanitor(sessionStore, cfg.PurgeSchedule, logger)
	if err := janitor.Start(ctx); err != nil {
		return fmt.Errorf("start session janitor: %w", err)
	}
	defer janitor.Stop()
	janitor.RunOnce(ctx)

	registry := prometheus.NewRegistry()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:           httptransport.NewAuthHandler(authService, logger),
		Profile:        httptransport.NewProfileHandler(profileService, logger),
		Bookings:       httptransport.NewBookingHandler(bookingService, logger),
		Groups:         httptransport.NewGroupHandler(groupService, logger),
		Activities:     httptransport.NewActivityHandler(activityService, logger),
		Works:          httptransport.NewWorkHandler(workService, logger),
		Host:           httptransport.NewHostHandler(hostService, logger),
		Calendar:       httptransport.NewCalendarHandler(calendar.NewFeed(""), activityService, bookingService, logger),
		Events:         httptransport.NewEventsHandler(hub, logger),
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RequireSession: httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.ResolveTenant(cfg.DefaultHost),
			httptransport.RequestMetrics(registry),
		},
	})

	// No WriteTimeout: the event stream holds its response open indefinitely.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("cocoso API listening", "addr", server.Addr, "default_host", cfg.DefaultHost)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// seedTenants writes the configured hosts that do not exist yet. Hosts that
// are already stored are left untouched so admin edits survive restarts.
func seedTenants(ctx context.Context, repo persistence.HostRepository, defaults config.TenantDefaults, now func() time.Time, logger *slog.Logger) error {
	for _, host := range defaults.Hosts {
		_, err := repo.GetHostSettings(ctx, host.Host)
		if err == nil {
			continue
		}
		if !errors.Is(err, persistence.ErrNotFound) {
			return fmt.Errorf("check host %q: %w", host.Host, err)
		}

		menu := make([]persistence.MenuItem, 0, len(host.Menu))
		for _, item := range host.Menu {
			menu = append(menu, persistence.MenuItem{Name: item.Name, Label: item.Label, IsVisible: item.IsVisible})
		}
		settings := persistence.HostSettings{
			Host:       host.Host,
			Name:       host.Name,
			Email:      host.Email,
			City:       host.City,
			Country:    host.Country,
			Menu:       menu,
			MainColorH: 200,
			MainColorS: 50,
			MainColorL: 40,
			UpdatedAt:  now(),
		}
		if err := repo.UpsertHostSettings(ctx, settings); err != nil {
			return fmt.Errorf("seed host %q: %w", host.Host, err)
		}
		logger.InfoContext(ctx, "tenant seeded", "host", host.Host, "name", host.Name)
	}
	return nil
}
