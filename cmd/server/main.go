package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"groupdeck/internal/audit"
	"groupdeck/internal/grouping"
	"groupdeck/internal/hub"
	jwttoken "groupdeck/internal/jwt_token"
	"groupdeck/internal/navconfig"
	"groupdeck/internal/notice"
	"groupdeck/internal/panel"
	"groupdeck/internal/panel/dispatch"
	"groupdeck/internal/panel/selection"
	"groupdeck/internal/platform/config"
	"groupdeck/internal/platform/httpserver"
	"groupdeck/internal/platform/logger"
	"groupdeck/internal/platform/metrics"
	"groupdeck/internal/platform/redis"
	"groupdeck/internal/profile"
	httptransport "groupdeck/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional Redis for persisted domain selection.
	var selectionStore panel.SelectionStore = selection.NewInMemoryStore()
	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		selectionStore = selection.NewRedisStore(rdb.Client)
	}

	// Optional Postgres for the durable mutation trail.
	var auditStore audit.Store = audit.NewInMemoryStore()
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		auditStore = audit.NewPostgresStore(db)
	}

	// Optional Kafka mirror of the trail.
	trailOpts := []audit.TrailOption{audit.WithLogger(log)}
	publisher, err := audit.NewKafkaPublisher(cfg.Kafka, log)
	if err != nil {
		log.Error("kafka producer setup failed", "error", err.Error())
		os.Exit(1)
	}
	if publisher != nil {
		defer publisher.Close()
		trailOpts = append(trailOpts, audit.WithPublisher(publisher))
	}
	trail := audit.NewTrail(auditStore, trailOpts...)

	board := notice.NewBoard(0)

	dialCtx, dialCancel := context.WithTimeout(ctx, 30*time.Second)
	hubClient, err := hub.Dial(dialCtx, cfg.Hub, hub.WithLogger(log))
	dialCancel()
	if err != nil {
		log.Error("hub connection failed", "url", cfg.Hub.URL, "error", err.Error())
		os.Exit(1)
	}
	defer hubClient.Close()

	dispatcher := dispatch.New(hubClient, trail,
		dispatch.WithLogger(log),
		dispatch.WithMetrics(dispatch.NewMetrics()),
		dispatch.WithNotifier(board),
	)

	exclusions := grouping.DefaultExclusions()
	if len(cfg.ExcludedDomains) > 0 {
		exclusions = grouping.NewExclusions(cfg.ExcludedDomains)
	}

	panelMetrics := panel.NewMetrics()
	zones, err := panel.New(panel.ZoneSemantics{}, dispatcher,
		panel.WithLogger(log),
		panel.WithMetrics(panelMetrics),
		panel.WithSelectionStore(selectionStore),
		panel.WithExclusions(exclusions),
	)
	if err != nil {
		log.Error("zones panel setup failed", "error", err.Error())
		os.Exit(1)
	}
	tags, err := panel.New(panel.TagSemantics{}, dispatcher,
		panel.WithLogger(log),
		panel.WithMetrics(panelMetrics),
		panel.WithSelectionStore(selectionStore),
		panel.WithExclusions(exclusions),
	)
	if err != nil {
		log.Error("tags panel setup failed", "error", err.Error())
		os.Exit(1)
	}

	watcher := hub.NewWatcher(hubClient, []hub.Subscriber{zones, tags},
		hub.WithWatcherLogger(log),
		hub.WithWatcherMetrics(hub.NewWatcherMetrics()),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "groupdeck", "groupdeck")

	httpMetrics := metrics.New()
	router := httptransport.NewRouter(
		panel.NewHandler([]*panel.Service{zones, tags}, log, httpMetrics, jwtService),
		notice.NewHandler(board, log),
		profile.NewHandler(hubClient, log, jwtService),
		navconfig.NewHandler(nil, log),
		audit.NewHandler(trail, log, jwtService),
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting groupdeck", "addr", cfg.Addr, "hub", cfg.Hub.URL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("groupdeck stopped")
}
