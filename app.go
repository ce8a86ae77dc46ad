package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"semord/internal/corpus"
	"semord/internal/events"
	"semord/internal/game"
	"semord/internal/leaderboard"
	"semord/internal/metrics"
	"semord/internal/puzzle"
	"semord/internal/session"
	"semord/internal/store"
)

// App holds the wired game service and the HTTP-side state.
type App struct {
	Corpus   *corpus.Corpus
	Selector *puzzle.Selector
	Store    store.Store
	Board    *leaderboard.Aggregator
	Service  *game.Service
	Metrics  *metrics.Recorder
	Events   events.Publisher

	IsProduction    bool
	SnapshotPath    string
	RetentionDays   int
	HistoryCacheAge time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	LimiterMap      map[string]*rate.Limiter
	LimiterMutex    sync.Mutex
	StartTime       time.Time
}

// newApp loads the corpus, opens the store and wires every component from cfg.
func newApp(ctx context.Context, cfg *Config) (*App, error) {
	c, err := cfg.loadCorpus()
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	logInfo("Loaded %d dictionary entries (%d distinct words, %d categories)", c.Len(), c.Size(), len(c.Categories()))

	loc, err := cfg.location()
	if err != nil {
		return nil, err
	}
	match, err := leaderboard.ParseMatchMode(cfg.statsMatch)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var rec *metrics.Recorder
	if cfg.metricsEnabled {
		rec = metrics.NewRecorder()
	}

	app := &App{
		Corpus:          c,
		Selector:        puzzle.NewSelector(c, puzzle.WithLocation(loc)),
		Store:           st,
		Metrics:         rec,
		Events:          events.Connect(cfg.kafkaBrokers, cfg.kafkaTopic),
		IsProduction:    cfg.production(),
		RetentionDays:   cfg.retentionDays,
		HistoryCacheAge: cfg.historyCacheAge,
		RateLimitRPS:    cfg.rateLimitRPS,
		RateLimitBurst:  cfg.rateLimitBurst,
		LimiterMap:      make(map[string]*rate.Limiter),
		StartTime:       time.Now(),
	}
	if cfg.store == StoreMemory {
		app.SnapshotPath = cfg.snapshotPath
	}
	app.Board = leaderboard.New(st, leaderboard.WithMatchMode(match))
	app.Service = game.NewService(c, app.Selector, session.NewTracker(st), app.Board,
		game.WithPublisher(app.Events),
		game.WithMetrics(rec),
		game.WithMaxDaysBack(cfg.maxDaysBack),
	)

	app.loadSnapshot()
	return app, nil
}

// Close flushes the snapshot and releases the store and event producer.
func (app *App) Close() error {
	app.saveSnapshot()
	if err := app.Events.Close(); err != nil {
		logWarn("Closing event publisher: %v", err)
	}
	return app.Store.Close()
}

// newRouter builds the gin engine with middleware and every API route.
func (app *App) newRouter() *gin.Engine {
	if app.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(app.metricsMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression, ginGzip.WithExcludedPaths([]string{RouteMetrics})))
	router.Use(app.cacheHeadersMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.GET(RouteDailyWord, app.dailyWordHandler)
	router.POST(RouteValidateWord, app.rateLimitMiddleware(), app.validateWordHandler)
	router.POST(RouteCalculateSimilarity, app.rateLimitMiddleware(), app.similarityHandler)
	router.POST(RouteSaveGameResult, app.rateLimitMiddleware(), app.saveGameResultHandler)
	router.POST(RouteGiveUp, app.rateLimitMiddleware(), app.giveUpHandler)
	router.GET(RoutePlayerStatus, app.playerStatusHandler)
	router.GET(RouteDailyLeaderboard, app.dailyLeaderboardHandler)
	router.GET(RouteHistorical, app.historicalLeaderboardsHandler)
	router.GET(RoutePlayerStats, app.playerStatsHandler)
	router.GET(RouteHealth, app.healthHandler)
	router.GET(RouteHealthz, app.healthzHandler)
	if app.Metrics != nil {
		router.GET(RouteMetrics, gin.WrapH(app.Metrics.Handler()))
	}
	return router
}
