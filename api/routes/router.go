package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chirag847/kisaaan/api/controllers"
	"github.com/chirag847/kisaaan/api/middleware"
	"github.com/chirag847/kisaaan/internal/auth"
	"github.com/chirag847/kisaaan/internal/contacts"
	"github.com/chirag847/kisaaan/internal/deals"
	"github.com/chirag847/kisaaan/internal/grains"
	"github.com/chirag847/kisaaan/internal/media"
	"github.com/chirag847/kisaaan/internal/payments"
	"github.com/chirag847/kisaaan/internal/users"
	"github.com/chirag847/kisaaan/pkg/config"
	"github.com/chirag847/kisaaan/pkg/db"
	"github.com/chirag847/kisaaan/pkg/enums"
	"github.com/chirag847/kisaaan/pkg/logger"
	"github.com/chirag847/kisaaan/pkg/metrics"
	"github.com/chirag847/kisaaan/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	storage *media.Storage,
	authService auth.Service,
	registerService auth.RegisterService,
	usersService users.Service,
	grainsService grains.Service,
	dealsService deals.Service,
	paymentsService payments.Service,
	contactsService contacts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
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
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbClient, redisClient))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.Uploads.Dir))))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(registerService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/profile", controllers.AuthProfile(authService, logg))
			r.Put("/profile", controllers.AuthUpdateProfile(authService, logg))
		})
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/farmers", controllers.UsersListFarmers(usersService, logg))
		r.Get("/{userId}", controllers.UsersPublicProfile(usersService, logg))
	})

	r.Route("/api/v1/grains", func(r chi.Router) {
		r.Get("/", controllers.GrainsList(grainsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, logg),
				middleware.RequireRole(string(enums.UserRoleFarmer), logg),
			)
			r.Get("/my-listings", controllers.GrainsMine(grainsService, logg))
			r.Post("/", controllers.GrainsCreate(grainsService, storage, cfg.Uploads, logg))
			r.Put("/{grainId}", controllers.GrainsUpdate(grainsService, logg))
			r.Delete("/{grainId}", controllers.GrainsDelete(grainsService, logg))
		})

		r.Get("/{grainId}", controllers.GrainsGet(grainsService, logg))
	})

	r.Route("/api/v1/deals", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(redisClient, logg),
		)
		r.Post("/", controllers.DealsCreate(dealsService, logg))
		r.Get("/my-deals", controllers.DealsMine(dealsService, logg))
		r.Get("/{dealId}", controllers.DealsGet(dealsService, logg))
		r.Put("/{dealId}/status", controllers.DealsSetStatus(dealsService, logg))
	})

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(redisClient, logg),
		)
		r.Post("/create-order", controllers.PaymentsCreateOrder(paymentsService, logg))
		r.Post("/verify", controllers.PaymentsVerify(paymentsService, logg))
		r.Get("/payment/{paymentId}", controllers.PaymentsGet(paymentsService, logg))
	})

	r.Route("/api/v1/contacts", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(redisClient, logg),
		)
		r.Post("/", controllers.ContactsSend(contactsService, logg))
		r.Get("/received", controllers.ContactsReceived(contactsService, logg))
		r.Get("/sent", controllers.ContactsSent(contactsService, logg))
		r.Get("/unread-count", controllers.ContactsUnreadCount(contactsService, logg))
		r.Put("/{contactId}/read", controllers.ContactsMarkRead(contactsService, logg))
		r.Put("/{contactId}/replied", controllers.ContactsMarkReplied(contactsService, logg))
	})

	return r
}
