package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-push-nosql/internal/application/device"
	"github.com/go-push-nosql/internal/application/notification"
	"github.com/go-push-nosql/internal/config"
	"github.com/go-push-nosql/internal/transport/http/handler"
	appmiddleware "github.com/go-push-nosql/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds the internal API router: notification feed, push-token
// registration and health check. The mesh in front of it handles identity;
// this surface is not exposed publicly.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second with a burst of 10 on mutating endpoints.
	mutatingRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifSvc := notification.NewService(deps.NotificationRepo)
	deviceSvc := device.NewService(deps.DeviceRepo, deps.UserRepo)

	healthH := handler.NewHealthHandler()
	notifH := handler.NewNotificationHandler(notifSvc)
	deviceH := handler.NewDeviceHandler(deviceSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", healthH.Ping)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/notifications", notifH.ListUnread)
			r.With(mutatingRL.Limit).Put("/notifications/{notificationID}/read", notifH.MarkAsRead)
			r.With(mutatingRL.Limit).Put("/push-token", deviceH.RegisterToken)
			r.Get("/devices", deviceH.List)
		})
	})

	return r
}
