package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/jaredshillingburg/icehockey-analytics/auth"
	"github.com/jaredshillingburg/icehockey-analytics/cache"
	"github.com/jaredshillingburg/icehockey-analytics/clips"
	"github.com/jaredshillingburg/icehockey-analytics/config"
	"github.com/jaredshillingburg/icehockey-analytics/httpapi"
	"github.com/jaredshillingburg/icehockey-analytics/logging"
	"github.com/jaredshillingburg/icehockey-analytics/market"
	"github.com/jaredshillingburg/icehockey-analytics/nhlapi"
	"github.com/jaredshillingburg/icehockey-analytics/orchestrator"
	"github.com/jaredshillingburg/icehockey-analytics/telemetry"
	"github.com/jaredshillingburg/icehockey-analytics/toolkit"
)

// serveOptions are the CLI flags layered onto config.Load()'s result,
// last-wins, mirroring the teacher's main.go pattern of flags
// overriding environment variables.
type serveOptions struct {
	configPath     string
	listenAddr     string
	logLevel       string
	principalsFile string
	teamCode       string
}

func runServe(opts serveOptions) error {
	if opts.configPath != "" {
		os.Setenv(config.ConfigPathEnvVar, opts.configPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.listenAddr != "" {
		cfg.HTTP.ListenAddr = opts.listenAddr
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	log := logging.Init(cfg.Logging.Level, cfg.Logging.Format)
	log.Info().Str("focus_team", opts.teamCode).Msg("icehockey-analytics starting")

	shutdown := newShutdownSequence(log)

	metrics := telemetry.NewRegistry()
	logging.Banner(log, "telemetry", true)

	enforcer, err := auth.NewEnforcer()
	if err != nil {
		return fmt.Errorf("build rbac enforcer: %w", err)
	}
	logging.Banner(log, "rbac enforcer", true)

	principals, err := loadPrincipals(opts.principalsFile)
	if err != nil {
		return fmt.Errorf("load principals: %w", err)
	}
	principalStore := auth.NewPrincipalStore(principals)
	resolver := auth.NewResolver(principalStore, cfg.Media.OpenAccess)
	logging.Banner(log, "auth", true)

	nhlClient := nhlapi.NewClient(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).
		WithCache(cache.NewStore())
	logging.Banner(log, "nhl api proxy", true)

	var (
		convStore  *orchestrator.ConversationStore
		clipRepo   *clips.Repo
		clipAccess *clips.AccessChecker
		clipSigner *clips.Signer
	)
	if cfg.Database.URL != "" {
		pgDB, err := openPostgres(cfg.Database)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		shutdown.add("postgres", func() error { return pgDB.Close() })

		convStore = orchestrator.NewConversationStore(pgDB, cfg.HTTP.RequestTimeout)
		if err := convStore.CreateSchema(context.Background()); err != nil {
			return fmt.Errorf("create conversation schema: %w", err)
		}

		clipRepo = clips.NewRepo(pgDB, cfg.HTTP.RequestTimeout)
		if err := clipRepo.CreateSchema(context.Background()); err != nil {
			return fmt.Errorf("create clip schema: %w", err)
		}
		logging.Banner(log, "postgres store", true)
	} else {
		log.Warn().Msg("DATABASE_URL not set; clip and conversation routes are disabled")
	}
	clipAccess = clips.NewAccessChecker(enforcer, cfg.Media.OpenAccess)
	clipSigner = clips.NewSigner(cfg.Media.CDNDomain, signerSecret(cfg.Media.SigningSecret))

	var marketStore *market.Store
	duckDSN := cfg.Market.WarehouseDSN
	if duckDSN == "" {
		duckDSN = ":memory:"
	}
	duckDB, err := sql.Open("duckdb", duckDSN)
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	shutdown.add("duckdb", func() error { return duckDB.Close() })
	marketStore = market.NewStore(duckDB, cfg.Market.DisableBigQuery, cfg.Market.ParquetRoot, cfg.Market.ContractsCSVDir)
	if err := marketStore.CreateSchema(context.Background()); err != nil {
		return fmt.Errorf("create market schema: %w", err)
	}
	if err := marketStore.CreateTradesSchema(context.Background()); err != nil {
		return fmt.Errorf("create trades schema: %w", err)
	}
	logging.Banner(log, "market warehouse", true)

	tk := &toolkit.Toolkit{NHL: nhlClient, Clips: clipRepo}
	var orch *orchestrator.Orchestrator
	if convStore != nil {
		orch = orchestrator.NewOrchestrator(convStore, tk.Factory(), 0)
	}
	logging.Banner(log, "query orchestrator", true)

	router := httpapi.NewRouter(httpapi.Deps{
		Log:           log,
		Metrics:       metrics,
		Resolver:      resolver,
		Enforcer:      enforcer,
		Principals:    principalStore,
		Orchestrator:  orch,
		Conversations: convStore,
		ClipRepo:      clipRepo,
		ClipAccess:    clipAccess,
		ClipSigner:    clipSigner,
		NHL:           nhlClient,
		Market:        marketStore,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.ListenAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
		<-serveErr
	}

	shutdown.run()
	log.Info().Msg("shutdown complete")
	return nil
}

func openPostgres(dbcfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dbcfg.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(dbcfg.MaxOpenConns)
	db.SetMaxIdleConns(dbcfg.MaxIdleConns)
	db.SetConnMaxLifetime(dbcfg.ConnMaxLifetime)
	return db, nil
}

func signerSecret(configured string) []byte {
	if configured != "" {
		return []byte(configured)
	}
	return []byte("dev-signing-secret-change-me")
}

// shutdownSequence runs teardown callbacks in reverse registration
// order, generalizing the teacher's main.go shutdown goroutine (which
// saved caches and stopped services in a fixed sequence before
// os.Exit(0)) into a small ordered list instead of the original's
// inline block.
type shutdownSequence struct {
	log   zerolog.Logger
	names []string
	fns   []func() error
}

func newShutdownSequence(log zerolog.Logger) *shutdownSequence {
	return &shutdownSequence{log: log}
}

func (s *shutdownSequence) add(name string, fn func() error) {
	s.names = append(s.names, name)
	s.fns = append(s.fns, fn)
}

func (s *shutdownSequence) run() {
	for i := len(s.fns) - 1; i >= 0; i-- {
		if err := s.fns[i](); err != nil {
			s.log.Error().Err(err).Str("component", s.names[i]).Msg("shutdown step failed")
		}
	}
}
