// Package kernel assembles the HTTP handler: global middleware, event
// listeners and the route table.
package kernel

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nairobitech/duka/app/controllers"
	"github.com/nairobitech/duka/app/jobs"
	"github.com/nairobitech/duka/app/routes"
	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/config"
	"github.com/nairobitech/duka/pkg/cache"
	"github.com/nairobitech/duka/pkg/database"
	"github.com/nairobitech/duka/pkg/event"
	"github.com/nairobitech/duka/pkg/logger"
	"github.com/nairobitech/duka/pkg/metrics"
	"github.com/nairobitech/duka/pkg/middleware"
	"github.com/nairobitech/duka/pkg/orm"
	"github.com/nairobitech/duka/pkg/queue"
	"github.com/nairobitech/duka/pkg/reqid"
	"github.com/nairobitech/duka/pkg/router"
	"github.com/nairobitech/duka/pkg/session"
)

// Build wires the application together and returns the HTTP handler.
func Build() (http.Handler, error) {
	// Wire cache into ORM (breaks the import cycle).
	orm.CacheStore = &ormCache{}

	// Session rows live in the database unless Redis is configured.
	if config.SessionDriver() == "redis" {
		session.SetStore(session.NewRedisStore())
	} else if database.DB != nil {
		session.SetStore(session.NewGormStore(database.DB))
	}

	// Queue backend, failed-job persistence and job registry.
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	if database.DB != nil {
		queue.UseDB(database.DB)
	}
	jobs.RegisterAll()

	registerListeners()

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery          — catches panics before they kill the goroutine
	//  3. Request ID        — inject unique ID before anything logs
	//  4. Logger            — logs request_id from context
	//  5. Session           — load/create the session cookie
	//  6. CORS              — set CORS headers
	//  7. Rate limiter      — reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Prometheus /metrics endpoint — no auth, no rate limit.
	r.HandleFunc("/metrics", metrics.Handler())

	if err := routes.RegisterAPI(r); err != nil {
		return nil, err
	}

	return r.Handler(), nil
}

// registerListeners feeds order events into the back-office WebSocket feed.
func registerListeners() {
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		broadcast("order.placed", payload)
	})
	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		broadcast("order.status_changed", payload)
	})
}

func broadcast(kind string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{"event": kind, "data": payload})
	if err != nil {
		logger.Error("kernel: marshal feed event", "event", kind, "error", err)
		return
	}
	controllers.OrderFeed.Broadcast <- msg
}

// ormCache bridges pkg/cache to the orm.Cacher interface so neither
// package imports the other.
type ormCache struct{}

func (c *ormCache) Get(key string, dest interface{}) bool {
	return cache.Get(key, dest)
}

func (c *ormCache) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}
