package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"
)

// getLimiter returns a rate limiter for the given key (usually client IP).
func (app *App) getLimiter(key string) *rate.Limiter {
	app.LimiterMutex.Lock()
	defer app.LimiterMutex.Unlock()
	if lim, ok := app.LimiterMap[key]; ok {
		return lim
	}

	if key == "" || key == "::1" {
		logWarn("Rate limiter key is empty or loopback: %q", key)
	}
	rps := app.RateLimitRPS
	if rps <= 0 {
		rps = 1
	}
	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), app.RateLimitBurst)
	app.LimiterMap[key] = lim
	return lim
}

// rateLimitMiddleware returns a Gin middleware that enforces per-client rate limiting.
func (app *App) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !app.getLimiter(key).Allow() {
			logWarnCtx(c.Request.Context(), "Rate limit exceeded for %s on %s", key, c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: ErrorTooManyRequest})
			return
		}
		c.Next()
	}
}

// requestIDMiddleware injects a request ID into the context for each request.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), requestIDKey, reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", reqID)
		c.Next()
	}
}

// metricsMiddleware records request counts and latency by matched route.
func (app *App) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		app.Metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

var noStore = cachecontrol.Config{
	NoStore:        true,
	NoCache:        true,
	MustRevalidate: true,
}

// cacheHeadersMiddleware marks every response uncacheable except the leaderboard
// routes, which choose their own policy in setLeaderboardCache.
func (app *App) cacheHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.FullPath() {
		case RouteDailyLeaderboard, RouteHistorical:
		default:
			cachecontrol.New(noStore)(c)
		}
		c.Next()
	}
}

// setLeaderboardCache lets shared caches keep a leaderboard that ends before today.
// Today's board still changes, so it is never cached.
func (app *App) setLeaderboardCache(c *gin.Context, last time.Time) {
	if app.IsProduction && app.HistoryCacheAge > 0 && last.Before(app.Selector.Today()) {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.HistoryCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(noStore)(c)
}
