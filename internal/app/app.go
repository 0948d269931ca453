package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dkozyr/gomarket/internal/cache"
	"github.com/dkozyr/gomarket/internal/config"
	"github.com/dkozyr/gomarket/internal/handlers"
	"github.com/dkozyr/gomarket/internal/notify"
	"github.com/dkozyr/gomarket/internal/pg"
	"github.com/dkozyr/gomarket/internal/repo"
	"github.com/dkozyr/gomarket/internal/service"
	"github.com/dkozyr/gomarket/pkg/auth"
	"github.com/dkozyr/gomarket/pkg/clients"
	"github.com/dkozyr/gomarket/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context) error
}

type Application struct {
	cfg      *config.Config
	api      *handlers.Handlers
	srv      *service.Services
	repo     *repo.Repositories
	cache    *cache.Memory
	notifier *notify.EmailNotifier

	eg    *errgroup.Group
	ready bool
}

func New() *Application {
	return &Application{}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	conn := pg.New(pool)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	a.cfg = cfg
	a.cache = cache.NewMemory()
	a.notifier = notify.NewEmailNotifier(cfg.NotifyAddress, clients.NewHTTPClient())
	a.repo = repo.New(conn, txManager)
	a.srv = service.New(a.repo, a.cache, a.notifier, jwtService, cfg.TokenTTL)
	a.api = handlers.New(a.srv, jwtService)

	a.eg, ctx = errgroup.WithContext(ctx)
	a.startHTTPServer(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}

	a.eg.Go(func() error {
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	a.eg.Go(func() error {
		zap.L().Info("starting http server", zap.String("address", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server exited with error: %w", err)
		}
		return nil
	})
}

// Wait blocks until the context is cancelled and every subsystem has drained.
func (a *Application) Wait(ctx context.Context) error {
	<-ctx.Done()

	err := a.eg.Wait()

	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.cache != nil {
		a.cache.Close()
	}
	if err != nil {
		zap.L().Error("shutdown finished with error", zap.Error(err))
		return err
	}
	return nil
}
