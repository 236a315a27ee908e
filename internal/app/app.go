package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/data/db"
	"github.com/yungbote/recipe-catalog/internal/data/repos"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	httpx "github.com/yungbote/recipe-catalog/internal/http"
	"github.com/yungbote/recipe-catalog/internal/observability"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
	"github.com/yungbote/recipe-catalog/internal/realtime/bus"
	"github.com/yungbote/recipe-catalog/internal/realtime/feed"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Set
	Services Services
	Feed     *feed.Feed
	Metrics  *observability.Metrics
	Bus      bus.Bus

	shutdownOtel func(context.Context) error
	stopObserver []func()
	closed       bool
}

// NewLogger builds the process logger from LOG_MODE and LOG_FILE after
// loading .env when present.
func NewLogger() (*logger.Logger, error) {
	_ = godotenv.Load()
	logMode := strings.TrimSpace(os.Getenv("LOG_MODE"))
	if logMode == "" {
		logMode = "development"
	}
	return logger.NewWithOptions(logMode, logger.Options{FilePath: os.Getenv("LOG_FILE")})
}

func New(ctx context.Context) (*App, error) {
	log, err := NewLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)

	theDB, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init catalog store: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	changes := feed.New(log)
	a := &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Feed:         changes,
		Metrics:      metrics,
		shutdownOtel: shutdownOtel,
	}
	if metrics != nil {
		a.stopObserver = append(a.stopObserver, changes.Observe(func(_ context.Context, ev *catalog.ChangeEvent) {
			metrics.IncChange(ev.Entity, ev.Kind)
		}))
	}

	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			log.Warn("Redis change relay disabled", "error", err)
		} else {
			a.Bus = b
			a.stopObserver = append(a.stopObserver, changes.Observe(func(ctx context.Context, ev *catalog.ChangeEvent) {
				if err := b.Publish(context.WithoutCancel(ctx), []*catalog.ChangeEvent{ev}); err != nil {
					log.Warn("Relay publish failed", "seq", ev.Seq, "error", err)
				}
			}))
		}
	}

	log.Info("Wiring repos...")
	a.Repos = repos.NewSet(theDB, log)
	a.Services = wireServices(theDB, log, cfg, a.Repos, changes, metrics)
	a.Router = wireRouter(log, cfg, a.Services, changes, metrics)
	return a, nil
}

// Run serves HTTP and, when configured, forwards relayed changes from other
// instances into the local feed. It returns when ctx is cancelled or either
// side fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if a.Bus != nil {
		if err := a.Bus.StartForwarder(gctx, func(ev *catalog.ChangeEvent) {
			a.Feed.Deliver(ev)
		}); err != nil {
			return fmt.Errorf("start change relay: %w", err)
		}
	}

	srv := &httpx.Server{Engine: a.Router}
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", a.Cfg.HTTPAddr)
		return srv.Run(gctx, a.Cfg.HTTPAddr)
	})
	return g.Wait()
}

// Close releases everything New acquired. Safe to call more than once.
func (a *App) Close() {
	if a == nil || a.closed {
		return
	}
	a.closed = true
	for _, stop := range a.stopObserver {
		stop()
	}
	a.stopObserver = nil
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("Close change relay failed", "error", err)
		}
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(context.Background()); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
