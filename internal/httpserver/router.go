package httpserver

import (
	"context"
	"errors"
	"time"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/feed"
	"foodtruck-ordering/internal/logging"
	cartsvc "foodtruck-ordering/internal/service/cart"
	checkoutsvc "foodtruck-ordering/internal/service/checkout"
	menusvc "foodtruck-ordering/internal/service/menu"
	ordersvc "foodtruck-ordering/internal/service/order"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type scheduleService interface {
	Current(ctx context.Context) (domain.Availability, error)
}

type menuService interface {
	ActiveMenu(ctx context.Context, f menusvc.Filter) ([]domain.Category, error)
	Item(ctx context.Context, id int64) (*domain.MenuItem, error)
}

type cartService interface {
	Get(ctx context.Context, token string) (*domain.Cart, error)
	Add(ctx context.Context, token string, in cartsvc.AddInput) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, token string, index, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, token string, index int) (*domain.Cart, error)
	Clear(ctx context.Context, token string) (*domain.Cart, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, actor domain.Actor, token string, in checkoutsvc.Input) (*domain.Order, error)
}

type orderService interface {
	Status(ctx context.Context, id int64) (domain.OrderStatusView, error)
	Details(ctx context.Context, actor domain.Actor, id int64, contactPhone string) (*domain.Order, error)
	Transition(ctx context.Context, actor domain.Actor, id int64, in ordersvc.TransitionInput) (*domain.Order, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64, reason, contactPhone string) (*domain.Order, error)
	Lookup(ctx context.Context, in ordersvc.LookupInput) ([]domain.Order, error)
	History(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	Queue(ctx context.Context, actor domain.Actor, status string) ([]domain.Order, error)
	Recent(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
}

type actorResolver interface {
	Resolve(header string) (domain.Actor, error)
}

// Deps carries the services the router dispatches to.
type Deps struct {
	ScheduleSvc scheduleService
	MenuSvc     menuService
	CartSvc     cartService
	CheckoutSvc checkoutService
	OrderSvc    orderService
	Actors      actorResolver
	Feed        *feed.Hub

	CORSOrigins    []string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db pinger, deps Deps) (*gin.Engine, error) {
	if deps.ScheduleSvc == nil || deps.MenuSvc == nil || deps.CartSvc == nil ||
		deps.CheckoutSvc == nil || deps.OrderSvc == nil || deps.Actors == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}
	logger = logging.OrNop(logger)
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 15 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	if deps.Feed != nil {
		router.GET("/api/staff/orders/feed",
			actorMiddleware(deps.Actors, true),
			requireStaff(),
			h.orderFeed,
		)
	}

	api := router.Group("/api", requestTimeout(deps.RequestTimeout), actorMiddleware(deps.Actors, false))
	api.GET("/schedule/active", h.activeSchedule)
	api.GET("/menu/active", h.activeMenu)
	api.GET("/menu/items/:id", h.menuItem)

	session := sessionMiddleware(deps.SessionTTL)
	cart := api.Group("/cart", session)
	cart.GET("", h.getCart)
	cart.POST("/add", h.addToCart)
	cart.POST("/update-quantity", h.updateCartQuantity)
	cart.POST("/remove", h.removeFromCart)
	cart.POST("/clear", h.clearCart)

	api.POST("/checkout", session, h.checkout)

	orders := api.Group("/orders")
	orders.GET("/mine", h.myOrders)
	orders.POST("/lookup", h.lookupOrders)
	orders.GET("/:id", h.orderDetails)
	orders.GET("/:id/status", h.orderStatus)
	orders.POST("/:id/cancel", h.cancelOrder)
	orders.PATCH("/:id/status", requireStaff(), h.updateOrderStatus)

	staff := api.Group("/staff", requireStaff())
	staff.GET("/orders", h.staffQueue)
	staff.GET("/orders/history", h.staffHistory)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", sessionHeader)
	cfg.ExposeHeaders = []string{sessionHeader, "Location"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
