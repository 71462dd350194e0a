package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/breadcrumbsapp/breadcrumbs-backend/api/controllers"
	"github.com/breadcrumbsapp/breadcrumbs-backend/api/middleware"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/auth"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/restaurants"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/users"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/visits"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/auth/session"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/config"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/logger"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/metrics"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	sessions session.AccessSessionChecker,
	authService auth.Service,
	userService users.Service,
	connectionService connections.Service,
	restaurantService restaurants.Service,
	visitService visits.Service,
) http.Handler {
	r := chi.NewRouter()

	// A nil *Registry must not reach NewHTTPMetrics through the Registerer
	// interface; the wrapped nil would pass its interface nil check and
	// MustRegister would panic.
	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Get("/", controllers.Home())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
	r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.AuthSignup(authService, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/logout", controllers.AuthLogout(authService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(userService, logg))
			r.Get("/{userId}", controllers.UserProfile(userService, logg))
			r.Get("/{userId}/visits.json", controllers.UserVisits(visitService, logg))
		})

		r.Post("/add-friend", controllers.FriendAdd(connectionService, logg))
		r.Route("/friends", func(r chi.Router) {
			r.Get("/", controllers.FriendsOverview(connectionService, logg))
			r.Get("/search", controllers.FriendSearch(userService, logg))
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", controllers.RestaurantList(restaurantService, logg))
			r.Get("/search", controllers.RestaurantSearch(restaurantService, logg))
			r.Get("/{restaurantId}", controllers.RestaurantDetail(restaurantService, logg))
		})

		r.Post("/add-visit", controllers.VisitCreate(visitService, logg))
		r.Post("/visits/{visitId}/images", controllers.VisitAttachImage(visitService, logg))
		r.Get("/visits/{visitId}/images", controllers.VisitImages(visitService, logg))
	})

	return r
}
