package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "nexus-intake/internal/adapter/http"
	appmw "nexus-intake/internal/adapter/middleware"
	"nexus-intake/internal/adapter/repository/kvmem"
	"nexus-intake/internal/adapter/repository/kvredis"
	"nexus-intake/internal/adapter/repository/remotegorm"
	"nexus-intake/internal/adapter/repository/salestore"
	"nexus-intake/internal/clock"
	"nexus-intake/internal/config"
	"nexus-intake/internal/domain/identity"
	"nexus-intake/internal/domain/kv"
	"nexus-intake/internal/usecase/aggregate"
	"nexus-intake/internal/usecase/draft"
	"nexus-intake/internal/usecase/notify"
	"nexus-intake/internal/usecase/poll"
	syncuc "nexus-intake/internal/usecase/sync"
	"nexus-intake/internal/usecase/workflow"
)

// watcher scans for returned sales with a view-all scope so alerts fire even
// when no manager session is polling.
var watcher = identity.User{ID: "system", Name: "system", Role: identity.RoleManager}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage. Redis is preferred; an unreachable redis degrades to the
	// in-memory store (drafts and records then live only for this process).
	var store kv.Store
	rdb, err := kvredis.Open(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unreachable, using in-memory storage",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
		store = kvmem.New()
	} else {
		store = kvredis.New(rdb)
	}

	clk := clock.NewSystem()
	sales := salestore.New(store)
	drafts := draft.NewStore(store, clk, logger)
	hub := draft.NewHub(drafts, logger)
	engine := workflow.NewEngine(sales, drafts, clk, logger)
	view := aggregate.NewView(sales, clk, logger)
	feed := notify.NewFeed(clk)

	tracker := aggregate.NewTracker(func(saleID string) {
		feed.Push(fmt.Sprintf("sale %s was returned to the seller", saleID), notify.Warning)
	})

	// Remote store is optional: without it the service runs local-only and
	// /sync answers 503.
	var (
		syncer    *syncuc.Synchronizer
		connected func() bool
	)
	db, err := remotegorm.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Warn("remote store unavailable, running local-only",
			zap.String("driver", cfg.DBDriver), zap.Error(err))
	} else {
		rs := remotegorm.New(db)
		syncer = syncuc.New(sales, rs, logger).WithTimeout(cfg.RemoteTimeout)

		var online atomic.Bool
		connected = online.Load
		probe := poll.NewLoop(cfg.ProbeInterval, func(ctx context.Context) {
			pctx, cancel := context.WithTimeout(ctx, cfg.RemoteTimeout)
			defer cancel()
			up := rs.Ping(pctx) == nil
			if online.Swap(up) != up {
				if up {
					feed.Push("remote store connection restored", notify.Success)
				} else {
					feed.Push("remote store connection lost", notify.Warning)
				}
			}
		})
		go probe.Run(ctx)

		syncLoop := poll.NewLoop(cfg.SyncInterval, func(ctx context.Context) {
			rep, err := syncer.SyncAll(ctx)
			if err != nil && err != syncuc.ErrInFlight {
				logger.Warn("scheduled sync failed", zap.Error(err))
				return
			}
			if rep.Failed > 0 {
				feed.Push(fmt.Sprintf("%d of %d records failed to sync and will be retried",
					rep.Failed, rep.Failed+rep.Succeeded), notify.Warning)
			}
		})
		go syncLoop.Run(ctx)
	}

	regressions := poll.NewLoop(cfg.ProbeInterval, func(ctx context.Context) {
		if _, _, err := view.ManagerQueue(ctx, watcher, tracker); err != nil {
			logger.Warn("regression scan failed", zap.Error(err))
		}
	})
	go regressions.Run(ctx)

	h := httpadp.NewHandler(drafts, hub, engine, view, tracker, syncer, feed, connected, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())

	var extra []echo.MiddlewareFunc
	if rdb != nil {
		extra = append(extra, appmw.Idempotency(rdb, cfg.IdempTTL, logger))
	}
	h.Register(e, extra...)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("port", cfg.AppPort))
	if err := e.Start(":" + cfg.AppPort); err != nil {
		logger.Info("server stopped", zap.Error(err))
	}
}
