package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/glossary-backend/internal/adapter/gitarchive"
	"github.com/heartmarshall/glossary-backend/internal/adapter/jsonfile"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/activity"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/changelog"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/editlock"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/resolution"
	reviewrepo "github.com/heartmarshall/glossary-backend/internal/adapter/memory/review"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/term"
	versionrepo "github.com/heartmarshall/glossary-backend/internal/adapter/memory/version"
	"github.com/heartmarshall/glossary-backend/internal/adapter/redis"
	"github.com/heartmarshall/glossary-backend/internal/auth"
	"github.com/heartmarshall/glossary-backend/internal/config"
	"github.com/heartmarshall/glossary-backend/internal/metrics"
	"github.com/heartmarshall/glossary-backend/internal/service/collab"
	"github.com/heartmarshall/glossary-backend/internal/service/glossary"
	"github.com/heartmarshall/glossary-backend/internal/service/review"
	"github.com/heartmarshall/glossary-backend/internal/service/version"
	"github.com/heartmarshall/glossary-backend/internal/transport/middleware"
	"github.com/heartmarshall/glossary-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, restores the
// dictionary from disk, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("data_file", cfg.Store.DataFile),
	)

	a, err := build(ctx, cfg, logger, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	defer a.close()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      a.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		if err := a.glossary.Flush(shutdownCtx); err != nil {
			logger.Error("final flush failed", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}

type application struct {
	handler  http.Handler
	glossary *glossary.Service
	closers  []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// build wires adapters, services and the HTTP stack.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger, clock clockwork.Clock) (*application, error) {
	a := &application{}

	// 1. Adapters.
	store := jsonfile.New(cfg.Store.DataFile)
	terms, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}

	index := term.New(clock)
	index.Replace(terms)
	translator, err := term.NewTranslator(index, cfg.Store.TranslateCacheSize)
	if err != nil {
		return nil, err
	}
	locks := editlock.New(clock, cfg.Store.LockTTL)
	acts := activity.New(clock, activity.Options{
		LogCapacity:    cfg.Store.LogCapacity,
		ChangeCapacity: cfg.Store.ChangeCapacity,
	})

	m := metrics.New()
	m.SetTermCount(index.Len())

	health := map[string]rest.Pinger{"store": store}

	// 2. Optional change feed.
	deps := glossary.Deps{
		Index:      index,
		Translator: translator,
		Ledger:     changelog.New(),
		Locks:      locks,
		Activity:   acts,
		Store:      store,
		Metrics:    m,
		Clock:      clock,
	}
	var changes *rest.ChangeHandler
	if cfg.Redis.Enabled() {
		pub, err := redis.NewPublisher(ctx, cfg.Redis.URL, cfg.Redis.Channel, cfg.Redis.Backlog)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = pub.Close() })
		deps.Publisher = pub
		health["redis"] = pub
		changes = rest.NewChangeHandler(pub, logger)
		logger.Info("change feed enabled", slog.String("channel", pub.Channel()))
	}

	// 3. Services.
	collabService := collab.NewService(logger, clock, locks, acts, m, collab.Config{
		ActiveWindow:   cfg.Store.ActiveWindow,
		ConflictWindow: cfg.Store.ConflictWindow,
	})
	deps.Sync = collabService
	glossaryService := glossary.NewService(logger, deps)
	a.glossary = glossaryService

	var versionService *version.Service
	if cfg.Version.ArchiveDir != "" {
		archive := gitarchive.New(cfg.Version.ArchiveDir, cfg.Version.ArchiveAuthor)
		versionService = version.NewService(logger, clock, glossaryService, versionrepo.New(), archive)
		loaded, err := versionService.LoadArchive(ctx)
		if err != nil {
			return nil, fmt.Errorf("load version archive: %w", err)
		}
		logger.Info("version archive loaded",
			slog.String("dir", archive.Dir()),
			slog.Int("versions", loaded),
		)
	} else {
		versionService = version.NewService(logger, clock, glossaryService, versionrepo.New(), nil)
	}

	reviewService := review.NewService(logger, clock, reviewrepo.New(clock), resolution.New())

	logger.Info("dictionary loaded", slog.Int("terms", index.Len()))

	// 4. HTTP.
	mux := rest.NewRouter(rest.Handlers{
		Health:   rest.NewHealthHandler(BuildVersion(), health),
		Terms:    rest.NewTermHandler(glossaryService, logger),
		Collab:   rest.NewCollabHandler(collabService, logger),
		Versions: rest.NewVersionHandler(versionService, logger),
		Reviews:  rest.NewReviewHandler(reviewService, logger),
		Changes:  changes,
		Metrics:  m.Handler(),
	})

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	limiter := middleware.NewRateLimiter(clock, time.Minute)
	a.closers = append(a.closers, limiter.Stop)

	a.handler = middleware.Chain(
		middleware.RequestID(),
		middleware.Auth(jwtManager),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimit),
		middleware.Metrics(m),
	)(mux)

	return a, nil
}
