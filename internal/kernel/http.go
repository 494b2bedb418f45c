// Package kernel assembles the HTTP stack: the global middleware chain and
// every registered route.
package kernel

import (
	"net/http"

	"github.com/dkrylov/camshop/app/routes"
	"github.com/dkrylov/camshop/pkg/metrics"
	"github.com/dkrylov/camshop/pkg/middleware"
	"github.com/dkrylov/camshop/pkg/reqid"
	"github.com/dkrylov/camshop/pkg/router"
	"github.com/dkrylov/camshop/pkg/ws"
)

// HTTPKernel owns the router and the order feed hub.
type HTTPKernel struct {
	router    *router.Router
	orderFeed *ws.Hub
}

// NewHTTPKernel builds the router with the global middleware chain. Order
// matters: metrics wraps everything, the request id must exist before the
// logger runs, and recovery sits inside the logger so panics are logged with
// request context.
func NewHTTPKernel(orderFeed *ws.Hub) *HTTPKernel {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	routes.RegisterAPI(r, orderFeed)

	return &HTTPKernel{router: r, orderFeed: orderFeed}
}

// Handler returns the root http.Handler.
func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the underlying router for route:list.
func (k *HTTPKernel) Router() *router.Router {
	return k.router
}
