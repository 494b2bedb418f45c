// Package routes wires every HTTP endpoint. The public storefront API lives
// under /api; the back office lives under /api/admin behind JWT auth.
package routes

import (
	"net/http"
	"time"

	"github.com/dkrylov/camshop/app/controllers"
	"github.com/dkrylov/camshop/app/graph"
	"github.com/dkrylov/camshop/pkg/logger"
	"github.com/dkrylov/camshop/pkg/metrics"
	"github.com/dkrylov/camshop/pkg/middleware"
	"github.com/dkrylov/camshop/pkg/router"
	"github.com/dkrylov/camshop/pkg/session"
	"github.com/dkrylov/camshop/pkg/storage"
	"github.com/dkrylov/camshop/pkg/ws"
)

// RegisterAPI mounts every route on r. orderFeed is the websocket hub the
// back office listens on for new orders.
func RegisterAPI(r *router.Router, orderFeed *ws.Hub) {
	catalog := controllers.NewCatalogController()
	cart := controllers.NewCartController()
	orders := controllers.NewOrderController()
	authC := controllers.NewAuthController()

	adminCategories := controllers.NewAdminCategoryController()
	adminProducts := controllers.NewAdminProductController()
	adminSpecs := controllers.NewAdminSpecificationController()
	adminOrders := controllers.NewAdminOrderController()

	// Public storefront API. The session carries the guest cart; the rate
	// limit keeps facet aggregation queries from being hammered.
	api := r.Group("/api",
		session.Middleware(session.DefaultOptions()),
		middleware.RateLimit(120, time.Minute),
	)

	api.Get("/products", "catalog.products", catalog.Products)
	api.Get("/products/{slug}", "catalog.show", catalog.Show)
	api.Get("/filters", "catalog.filters", catalog.Filters)

	api.Get("/cart", "cart.show", cart.Show)
	api.Post("/cart/items", "cart.add", cart.Add)
	api.Put("/cart/items/{id}", "cart.update", cart.Update)
	api.Delete("/cart/items/{id}", "cart.remove", cart.Remove)
	api.Delete("/cart", "cart.clear", cart.Clear)

	api.Post("/orders", "orders.checkout", orders.Checkout)

	api.Post("/auth/login", "auth.login", authC.Login)
	api.Post("/auth/refresh", "auth.refresh", authC.Refresh)

	// Back office.
	admin := r.Group("/api/admin", middleware.RequireAuth, middleware.RequireRole("admin"))

	admin.Get("/me", "admin.me", authC.Me)

	admin.Get("/categories", "admin.categories.index", adminCategories.Index)
	admin.Post("/categories", "admin.categories.store", adminCategories.Store)
	admin.Get("/categories/{id}", "admin.categories.show", adminCategories.Show)
	admin.Put("/categories/{id}", "admin.categories.update", adminCategories.Update)
	admin.Delete("/categories/{id}", "admin.categories.delete", adminCategories.Delete)

	admin.Get("/products", "admin.products.index", adminProducts.Index)
	admin.Post("/products", "admin.products.store", adminProducts.Store)
	admin.Get("/products/{id}", "admin.products.show", adminProducts.Show)
	admin.Put("/products/{id}", "admin.products.update", adminProducts.Update)
	admin.Delete("/products/{id}", "admin.products.delete", adminProducts.Delete)
	admin.Put("/products/{id}/specifications", "admin.products.spec", adminProducts.SetSpecification)
	admin.Post("/products/{id}/images", "admin.products.images.store", adminProducts.UploadImage)
	admin.Delete("/products/{id}/images/{imageId}", "admin.products.images.delete", adminProducts.DeleteImage)

	admin.Get("/specifications", "admin.specs.index", adminSpecs.Index)
	admin.Post("/specifications", "admin.specs.store", adminSpecs.Store)
	admin.Put("/specifications/{id}", "admin.specs.update", adminSpecs.Update)
	admin.Delete("/specifications/{id}", "admin.specs.delete", adminSpecs.Delete)

	admin.Get("/orders", "admin.orders.index", adminOrders.Index)
	admin.Get("/orders/{id}", "admin.orders.show", adminOrders.Show)
	admin.Patch("/orders/{id}/status", "admin.orders.status", adminOrders.SetStatus)

	// GraphQL read-only catalog.
	schema, err := graph.NewSchema()
	if err != nil {
		logger.Error("routes: graphql schema", "error", err)
	} else {
		r.Post("/graphql", "graphql", graph.Handler(schema))
	}

	// Live order feed for the admin dashboard.
	r.Get("/ws/admin/orders", "admin.orders.feed", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, orderFeed)
	})

	// Operational endpoints.
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})

	// Locally stored product images.
	r.HandleFunc("/storage/*", storage.ServeLocal)
}
