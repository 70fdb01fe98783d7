package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studiobook/studio-booking/internal/booking"
	"github.com/studiobook/studio-booking/internal/user"
)

type RouterConfig struct {
	Bookings *booking.Service
	Users    *user.Service
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Env      string
	Version  string
	Log      *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", registerHandler(cfg.Users))
		r.Post("/login", loginHandler(cfg.Users))
		r.Post("/forgot", forgotHandler(cfg.Users))
		r.Post("/reset", resetHandler(cfg.Users))

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Users))
			r.Get("/me", meHandler())
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Users))

		r.Get("/users", listUsersHandler(cfg.Users))

		r.Route("/booking", func(r chi.Router) {
			svc := cfg.Bookings

			r.Get("/availability", availabilityHandler(svc))
			r.Post("/", createBookingHandler(svc))

			r.Route("/manager/slots", func(r chi.Router) {
				r.Post("/bulk", bulkSlotsHandler(svc))
				r.Get("/", managerSlotsHandler(svc))
				r.Delete("/{id}", deleteSlotHandler(svc))
			})

			r.Post("/{id}/producer/accept", transitionHandler(func(req *http.Request, id uuid.UUID) (*booking.Booking, error) {
				return svc.ProducerAccept(req.Context(), CurrentUser(req.Context()), id)
			}))
			r.Post("/{id}/producer/reject", transitionHandler(func(req *http.Request, id uuid.UUID) (*booking.Booking, error) {
				return svc.ProducerReject(req.Context(), CurrentUser(req.Context()), id)
			}))
			r.Post("/{id}/manager/accept", transitionHandler(func(req *http.Request, id uuid.UUID) (*booking.Booking, error) {
				return svc.ManagerAccept(req.Context(), CurrentUser(req.Context()), id)
			}))
			r.Post("/{id}/manager/reject", transitionHandler(func(req *http.Request, id uuid.UUID) (*booking.Booking, error) {
				return svc.ManagerReject(req.Context(), CurrentUser(req.Context()), id)
			}))
			r.Post("/{id}/producer/cancel", transitionHandler(func(req *http.Request, id uuid.UUID) (*booking.Booking, error) {
				return svc.ProducerCancel(req.Context(), CurrentUser(req.Context()), id)
			}))
			r.Post("/{id}/artist/cancel", transitionHandler(func(req *http.Request, id uuid.UUID) (*booking.Booking, error) {
				return svc.ArtistCancel(req.Context(), CurrentUser(req.Context()), id)
			}))

			r.Get("/producer/incoming", producerIncomingHandler(svc))
			r.Get("/manager/pending", managerPendingHandler(svc))
			r.Get("/agenda/confirmed", agendaConfirmedHandler(svc))
		})
	})

	return r
}
