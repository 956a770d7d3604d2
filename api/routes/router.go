package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ziksirlabs/ziksir-backend/api/controllers"
	"github.com/ziksirlabs/ziksir-backend/api/middleware"
	"github.com/ziksirlabs/ziksir-backend/internal/auth"
	"github.com/ziksirlabs/ziksir-backend/internal/bookings"
	"github.com/ziksirlabs/ziksir-backend/internal/consulting"
	"github.com/ziksirlabs/ziksir-backend/internal/equipment"
	"github.com/ziksirlabs/ziksir-backend/internal/messages"
	"github.com/ziksirlabs/ziksir-backend/internal/prototyping"
	"github.com/ziksirlabs/ziksir-backend/internal/requests"
	"github.com/ziksirlabs/ziksir-backend/pkg/auth/session"
	"github.com/ziksirlabs/ziksir-backend/pkg/config"
	"github.com/ziksirlabs/ziksir-backend/pkg/db"
	"github.com/ziksirlabs/ziksir-backend/pkg/enums"
	"github.com/ziksirlabs/ziksir-backend/pkg/logger"
	"github.com/ziksirlabs/ziksir-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Grouping them keeps the
// constructor signature stable as endpoints are added.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth        auth.Service
	Register    auth.RegisterService
	Reset       auth.PasswordResetService
	Bookings    bookings.Service
	Equipment   equipment.Service
	Requests    requests.Service
	Consulting  consulting.Service
	Prototyping prototyping.Service
	Messages    messages.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	// Public intake shares the register window so a single client cannot
	// flood the admin inbox.
	intakePolicy := middleware.NewRateLimitPolicy(
		"intake",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		0,
	)

	authed := middleware.Auth(cfg.JWT, d.Sessions, logg)
	adminOnly := middleware.RequireRole(enums.UserRoleAdmin.String(), logg)
	idempotent := middleware.Idempotency(d.Redis, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.With(middleware.RateLimit(registerPolicy, d.Redis, logg), idempotent).Post("/register", controllers.AuthRegister(d.Register, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
			r.With(middleware.RateLimit(loginPolicy, d.Redis, logg)).Post("/forgot-password", controllers.ForgotPassword(d.Reset, logg))
			r.Post("/reset-password", controllers.ResetPassword(d.Reset, logg))
		})

		r.Get("/equipment", controllers.ListEquipment(d.Equipment, logg))
		r.Get("/equipment/count", controllers.EquipmentCounts(d.Equipment, logg))
		r.Get("/equipment/{id}", controllers.GetEquipment(d.Equipment, logg))

		// Public intake surfaces.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(intakePolicy, d.Redis, logg))
			r.Use(idempotent)
			r.Post("/requests", controllers.CreateEquipmentRequest(d.Requests, logg))
			r.Post("/consulting", controllers.CreateConsultingInquiry(d.Consulting, logg))
			r.Post("/prototyping", controllers.CreatePrototypingRequest(d.Prototyping, logg))
			r.Post("/messages", controllers.CreateContactMessage(d.Messages, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(authed)
			// After Auth so booking idempotency records scope per user.
			r.Use(idempotent)

			r.Post("/bookings", controllers.CreateBooking(d.Bookings, logg))
			r.Get("/bookings/user/{userId}", controllers.ListUserBookings(d.Bookings, logg))
			r.Get("/bookings/count/{userId}", controllers.UserBookingCounts(d.Bookings, logg))
			r.Delete("/bookings/{id}", controllers.DeleteBooking(d.Bookings, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Get("/bookings", controllers.ListBookings(d.Bookings, logg))
				r.Get("/bookings/count", controllers.BookingCounts(d.Bookings, logg))
				r.Put("/bookings/{id}", controllers.UpdateBooking(d.Bookings, logg))

				r.Post("/equipment", controllers.CreateEquipment(d.Equipment, logg))
				r.Put("/equipment/{id}", controllers.UpdateEquipment(d.Equipment, logg))
				r.Delete("/equipment/{id}", controllers.DeleteEquipment(d.Equipment, logg))

				r.Get("/requests", controllers.ListEquipmentRequests(d.Requests, logg))
				r.Put("/requests/{id}", controllers.ResolveEquipmentRequest(d.Requests, logg))
				r.Get("/consulting", controllers.ListConsultingInquiries(d.Consulting, logg))
				r.Get("/prototyping", controllers.ListPrototypingRequests(d.Prototyping, logg))
				r.Put("/prototyping/{id}", controllers.QuotePrototypingRequest(d.Prototyping, logg))
				r.Get("/messages", controllers.ListContactMessages(d.Messages, logg))
				r.Put("/messages/{id}/read", controllers.MarkContactMessageRead(d.Messages, logg))
			})
		})
	})

	return r
}
