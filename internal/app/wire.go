package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	httpctrl "github.com/tradeforge/listsync/internal/adapter/controller/http"
	"github.com/tradeforge/listsync/internal/adapter/gateway/botcore"
	"github.com/tradeforge/listsync/internal/adapter/gateway/dbping"
	"github.com/tradeforge/listsync/internal/adapter/gateway/marketplace"
	"github.com/tradeforge/listsync/internal/adapter/gateway/postgres"
	"github.com/tradeforge/listsync/internal/config"
	domain "github.com/tradeforge/listsync/internal/domain/health"
	httpinfra "github.com/tradeforge/listsync/internal/infra/http"
	"github.com/tradeforge/listsync/internal/infra/http/mw/adminauth"
	"github.com/tradeforge/listsync/internal/infra/metrics"
	"github.com/tradeforge/listsync/internal/infra/scheduler"
	"github.com/tradeforge/listsync/internal/infra/store"
	"github.com/tradeforge/listsync/internal/pkg/dispatch"
	"github.com/tradeforge/listsync/internal/usecase/describe"
	usehealth "github.com/tradeforge/listsync/internal/usecase/health"
	"github.com/tradeforge/listsync/internal/usecase/relist"
	syncuc "github.com/tradeforge/listsync/internal/usecase/sync"
)

type envErr string

func (e envErr) Error() string { return "missing env: " + string(e) }
func ErrEnv(name string) error { return envErr(name) }

// App is the assembled service: the router plus the background machinery
// (write-dispatch queue, heartbeat loop) that Start brings up.
type App struct {
	Router *gin.Engine

	queue     *dispatch.Queue
	heartbeat *scheduler.Heartbeat
}

func Build(cfg config.Config, logger *slog.Logger) (*App, error) {
	if cfg.DBDSN == "" {
		return nil, ErrEnv("DB_DSN")
	}
	if cfg.MarketplaceToken == "" {
		return nil, ErrEnv("MARKETPLACE_TOKEN")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := store.OpenPostgres(cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	prices := postgres.NewPricelistRepo(db)
	inv := botcore.New(cfg.InventoryURL)

	// one write per second at rest; the queue backs off on 429s by itself
	queue := dispatch.New(time.Second, time.Minute)
	queue.Logger = logger.With("component", "dispatch")
	client := marketplace.New(cfg.MarketplaceURL, cfg.MarketplaceToken, queue)
	client.Logger = logger.With("component", "marketplace")

	fmtr := describe.New()
	if cfg.BuyTemplate != "" {
		fmtr.BuyTemplate = cfg.BuyTemplate
	}
	if cfg.SellTemplate != "" {
		fmtr.SellTemplate = cfg.SellTemplate
	}
	if cfg.MaxNameLen > 0 {
		fmtr.MaxNameLen = cfg.MaxNameLen
	}

	rec := &syncuc.Reconciler{
		Prices:             prices,
		Inv:                inv,
		Client:             client,
		Detail:             fmtr,
		State:              syncuc.NewState(),
		Logger:             logger.With("component", "sync"),
		FilterUnaffordable: cfg.FilterUnaffordable,
		ThrottleDelay:      cfg.ThrottleDelay,
	}

	opts := config.NewOptions(cfg.ForcedBump)
	monitor := relist.NewMonitor(marketplace.StatusSource{C: client}, rec, opts)
	monitor.Interval = cfg.RelistInterval
	monitor.Logger = logger.With("component", "relist")

	bi := config.NewBuildInfo()
	uc := &usehealth.ReadinessInteractor{
		Pingers: []domain.Pinger{
			dbping.DBPing{DB: db},
			marketplace.Ping{C: client},
		},
		Version:   bi.Version,
		Commit:    bi.Commit,
		BuildTime: bi.BuildTime,
		StartedAt: bi.StartedAt,
		Clock:     usehealth.SysClock{},
		Timeout:   500 * time.Millisecond,
	}

	router := httpinfra.NewRouter()
	httpctrl.NewHealthController(httpctrl.ReadinessRunner{UC: uc}).Register(router)
	metrics.Register(router)

	auth := adminauth.NewFromEnv()
	httpctrl.NewSyncController(rec, monitor, opts, auth.Handler()).Register(router)

	return &App{
		Router: router,
		queue:  queue,
		heartbeat: &scheduler.Heartbeat{
			Monitor:  monitor,
			Interval: cfg.HeartbeatEvery,
			Logger:   logger.With("component", "heartbeat"),
		},
	}, nil
}

// Start launches the background loops. They stop when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	go a.queue.Run(ctx)
	a.heartbeat.Start(ctx)
}
