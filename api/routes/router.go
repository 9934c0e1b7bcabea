package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelkeys/pixelkeys-backend/api/controllers"
	"github.com/pixelkeys/pixelkeys-backend/api/middleware"
	"github.com/pixelkeys/pixelkeys-backend/internal/auth"
	"github.com/pixelkeys/pixelkeys-backend/internal/cart"
	"github.com/pixelkeys/pixelkeys-backend/internal/catalog"
	"github.com/pixelkeys/pixelkeys-backend/internal/keys"
	"github.com/pixelkeys/pixelkeys-backend/internal/orders"
	"github.com/pixelkeys/pixelkeys-backend/internal/payments"
	"github.com/pixelkeys/pixelkeys-backend/internal/users"
	"github.com/pixelkeys/pixelkeys-backend/pkg/auth/session"
	"github.com/pixelkeys/pixelkeys-backend/pkg/config"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
	"github.com/pixelkeys/pixelkeys-backend/pkg/metrics"
	"github.com/pixelkeys/pixelkeys-backend/pkg/redis"
)

// Services bundles every domain service the router wires up.
type Services struct {
	Auth     auth.Service
	Users    users.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Orders   orders.Service
	Keys     keys.Service
	Payments payments.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	promRegistry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSExtraOrigins),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface.
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/auth/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/users/createUser", controllers.UserRegister(svcs.Users, logg))

		r.Get("/games/showActivityGames", controllers.GamesListActive(svcs.Catalog, logg))
		r.Get("/games/showGamesById/{id}", controllers.GameByID(svcs.Catalog, logg))

		r.Get("/payments/callback", controllers.PaymentCallback(logg))
		r.Post("/payments/webhook", controllers.PaymentWebhook(svcs.Payments, logg))

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/auth/logout", controllers.AuthLogout(svcs.Auth, logg))
			r.Post("/users/updateUser", controllers.UserUpdate(svcs.Users, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Put("/items", controllers.CartUpdateQuantity(svcs.Cart, logg))
				r.Delete("/items/{gameId}", controllers.CartRemoveItem(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			})

			r.Post("/orders/create", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/orders/user", controllers.OrdersForUser(svcs.Orders, logg))
			r.Get("/orders/user/{id}", controllers.OrderDetail(svcs.Orders, logg))

			// Admin back office.
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly(logg))

				r.Get("/games/showGames", controllers.GamesListAll(svcs.Catalog, logg))
				r.Post("/games/create", controllers.GameCreate(svcs.Catalog, logg))
				r.Put("/games/update/{id}", controllers.GameUpdate(svcs.Catalog, logg))
				r.Delete("/games/delete/{id}", controllers.GameDelete(svcs.Catalog, logg))
				r.Put("/games/updateStatus/{id}", controllers.GameUpdateStatus(svcs.Catalog, logg))

				r.Get("/orders/all", controllers.OrdersListAll(svcs.Orders, logg))
				r.Put("/orders/updateStatus/{id}", controllers.OrderUpdateStatus(svcs.Orders, logg))

				r.Get("/gamekeys/showGameKeys", controllers.KeysList(svcs.Keys, logg))
				r.Post("/gamekeys/createGameKeys", controllers.KeysCreate(svcs.Keys, logg))
				r.Delete("/gamekeys/delete/{id}", controllers.KeyDelete(svcs.Keys, logg))

				r.Get("/users/showUsers", controllers.UsersList(svcs.Users, logg))
				r.Put("/users/updateStatus/{id}", controllers.UserUpdateStatus(svcs.Users, logg))
			})
		})
	})

	return r
}
