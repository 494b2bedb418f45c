// Package server boots the whole application: configuration, database,
// cache, storage, queue workers, scheduler, gRPC health, and the HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkrylov/camshop/app/jobs"
	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/notifications"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/config"
	"github.com/dkrylov/camshop/internal/kernel"
	"github.com/dkrylov/camshop/pkg/cache"
	"github.com/dkrylov/camshop/pkg/database"
	"github.com/dkrylov/camshop/pkg/event"
	grpcserver "github.com/dkrylov/camshop/pkg/grpc"
	"github.com/dkrylov/camshop/pkg/logger"
	"github.com/dkrylov/camshop/pkg/notification"
	"github.com/dkrylov/camshop/pkg/orm"
	"github.com/dkrylov/camshop/pkg/queue"
	"github.com/dkrylov/camshop/pkg/schedule"
	"github.com/dkrylov/camshop/pkg/storage"
	"github.com/dkrylov/camshop/pkg/ws"
)

type cacheAdapter struct{}

func (cacheAdapter) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (cacheAdapter) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// Boot initializes every subsystem short of listening. Split from Start so
// CLI commands (migrate, seed, queue:work) reuse the same wiring.
func Boot() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	// Redis is optional: without it the catalog serves uncached and the
	// queue falls back to its in-memory driver.
	if err := cache.Connect(); err != nil {
		logger.Warn("boot: redis unavailable, running uncached", "error", err)
	}
	storage.Connect()
	orm.CacheStore = cacheAdapter{}
	notification.SetSlackWebhook(config.Get("SLACK_WEBHOOK_URL", ""))

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	jobs.RegisterAll()
	jobs.SetFacetWarmer(func() error {
		return services.NewCatalogService().WarmFacetCache()
	})

	return nil
}

// Start runs the application until SIGINT/SIGTERM, then shuts down
// gracefully.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orderFeed := ws.NewHub()
	go orderFeed.Run()

	registerListeners(orderFeed)

	queue.StartWorkers(ctx, 4)

	schedule.Every(5).Minutes().
		Name("facet-cache-warm").
		WithoutOverlapping().
		Run(func() {
			if err := queue.Dispatch(&jobs.WarmFacetCacheJob{}); err != nil {
				logger.Error("schedule: facet warm dispatch", "error", err)
			}
		})
	schedule.Start(ctx)

	grpcSrv, grpcLis, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		return err
	}
	go func() {
		if err := grpcSrv.Serve(grpcLis); err != nil {
			logger.Error("grpc: serve", "error", err)
		}
	}()

	httpKernel := kernel.NewHTTPKernel(orderFeed)
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	grpcserver.Stop(grpcSrv)
	return srv.Shutdown(shutdownCtx)
}

// registerListeners wires the catalog mutation events to cache invalidation
// and the order events to the admin websocket feed.
func registerListeners(orderFeed *ws.Hub) {
	invalidate := func(interface{}) {
		services.InvalidateFacetCache()
	}
	event.Listen("product.changed", invalidate)
	event.Listen("category.changed", invalidate)

	event.Listen("order.created", func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		if err := queue.Dispatch(&jobs.OrderConfirmationJob{OrderID: order.ID}); err != nil {
			logger.Error("order: confirmation dispatch", "order", order.Number, "error", err)
		}
		notification.SendAsync("", &notifications.OrderPlaced{Order: order})
		alertLowStock(order)
		orderFeed.BroadcastJSON(map[string]interface{}{
			"event": "order.created",
			"order": order,
		})
	})

	event.Listen("order.updated", func(payload interface{}) {
		if order, ok := payload.(models.Order); ok {
			orderFeed.BroadcastJSON(map[string]interface{}{
				"event": "order.updated",
				"order": order,
			})
		}
	})
}

const lowStockThreshold = 3

// alertLowStock reloads the products an order drained and pings staff for
// any that dropped below the threshold.
func alertLowStock(order models.Order) {
	repo := repositories.NewProductRepository()
	for _, item := range order.Items {
		p, err := repo.FindByID(item.ProductID)
		if err != nil {
			continue
		}
		if p.StockQuantity <= lowStockThreshold {
			notification.SendAsync("", &notifications.LowStock{
				Product:   p,
				Remaining: p.StockQuantity,
			})
		}
	}
}
