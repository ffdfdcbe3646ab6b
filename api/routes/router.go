package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/puntoshop/puntoshop-backend/api/controllers"
	"github.com/puntoshop/puntoshop-backend/api/middleware"
	"github.com/puntoshop/puntoshop-backend/internal/auth"
	"github.com/puntoshop/puntoshop-backend/internal/cart"
	"github.com/puntoshop/puntoshop-backend/internal/orders"
	"github.com/puntoshop/puntoshop-backend/internal/points"
	product "github.com/puntoshop/puntoshop-backend/internal/products"
	"github.com/puntoshop/puntoshop-backend/internal/settings"
	"github.com/puntoshop/puntoshop-backend/internal/users"
	"github.com/puntoshop/puntoshop-backend/pkg/config"
	"github.com/puntoshop/puntoshop-backend/pkg/db"
	"github.com/puntoshop/puntoshop-backend/pkg/enums"
	"github.com/puntoshop/puntoshop-backend/pkg/logger"
	"github.com/puntoshop/puntoshop-backend/pkg/metrics"
	"github.com/puntoshop/puntoshop-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	AuthService     auth.Service
	UsersRepo       *users.Repository
	PointsService   points.Service
	ProductService  product.Service
	CartService     cart.Service
	OrdersService   orders.Service
	SettingsService settings.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// Redis-backed middleware degrades to pass-through when no client is
	// wired, which keeps router tests free of a live broker.
	passthrough := func(next http.Handler) http.Handler { return next }
	loginLimit, registerLimit, idem, apiLimit := passthrough, passthrough, passthrough, passthrough
	if deps.Redis != nil {
		loginLimit = middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)
		idem = middleware.Idempotency(deps.Redis, logg)
		apiLimit = middleware.RateLimit(deps.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Window, logg)
	}

	var redisPinger redis.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimit).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(registerLimit, idem).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).
			Get("/check", controllers.AuthCheck(deps.AuthService, logg))
	})

	// Catalog reads are public so the storefront can browse anonymously.
	r.Route("/api/v1/productos", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.ProductService, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.ProductService, logg))
		r.Get("/slug/{slug}", controllers.ProductBySlug(deps.ProductService, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, logg),
				middleware.RequireRole(string(enums.UserRoleAdmin), logg),
			)
			r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.ProductService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(idem)
		r.Use(apiLimit)

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UserMe(deps.UsersRepo, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Get("/{userId}", controllers.UserDetail(deps.UsersRepo, logg))
		})

		r.Route("/carrito", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Put("/items", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		r.Route("/ordenes", func(r chi.Router) {
			r.Get("/mis-ordenes", controllers.MyOrders(deps.OrdersService, logg))
			r.With(middleware.RequireSelfOrAdmin("userId", logg)).
				Post("/checkout/{userId}", controllers.OrderCheckout(deps.OrdersService, logg))
			r.Post("/{orderId}/confirmar-pago", controllers.OrderConfirmPayment(deps.OrdersService, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Get("/usuario/{userId}", controllers.OrdersByUser(deps.OrdersService, logg))
		})

		r.Route("/puntos", func(r chi.Router) {
			r.With(middleware.RequireSelfOrAdmin("userId", logg)).
				Get("/{userId}", controllers.PointsBalance(deps.PointsService, logg))
			r.With(middleware.RequireSelfOrAdmin("userId", logg)).
				Get("/{userId}/movimientos", controllers.PointsMovements(deps.PointsService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Post("/{userId}/credit", controllers.PointsCredit(deps.PointsService, logg))
				r.Post("/{userId}/debit", controllers.PointsDebit(deps.PointsService, logg))
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/rate", controllers.SettingsGetRate(deps.SettingsService, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Put("/rate", controllers.SettingsSetRate(deps.SettingsService, logg))
		})
	})

	return r
}
