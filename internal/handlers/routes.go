package handlers

import (
	"net/http"

	"github.com/campuspulse/campus-events-api/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	collegeHandler *CollegeHandler,
	studentHandler *StudentHandler,
	eventHandler *EventHandler,
	participationHandler *ParticipationHandler,
	reportHandler *ReportHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Campus Events API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(r, config)

	adminOnly := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"bearerAuth": {}}}
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Post(api, "/api/auth/login", authHandler.HandleLogin)

	huma.Get(api, "/api/colleges", collegeHandler.HandleList)
	huma.Get(api, "/api/students", studentHandler.HandleList)
	huma.Get(api, "/api/events", eventHandler.HandleList)
	huma.Get(api, "/api/events/{id}", eventHandler.HandleGet)

	// Participation lifecycle
	huma.Post(api, "/api/events/{id}/register", participationHandler.HandleRegister)
	huma.Post(api, "/api/events/{id}/check-in", participationHandler.HandleCheckIn)
	huma.Post(api, "/api/events/{id}/feedback", participationHandler.HandleFeedback)

	// Reports
	huma.Get(api, "/api/reports/event-popularity", reportHandler.HandleEventPopularity)
	huma.Get(api, "/api/reports/events/{id}/attendance", reportHandler.HandleEventAttendance)
	huma.Get(api, "/api/reports/students/{id}", reportHandler.HandleStudentSummary)
	huma.Get(api, "/api/reports/top-active-students", reportHandler.HandleTopActiveStudents)
	huma.Get(api, "/api/reports/event-types", reportHandler.HandleEventTypeStats)

	// Staff routes
	huma.Post(api, "/api/colleges", collegeHandler.HandleCreate, adminOnly)
	huma.Post(api, "/api/students", studentHandler.HandleCreate, adminOnly)
	huma.Post(api, "/api/events", eventHandler.HandleCreate, adminOnly)
	huma.Post(api, "/api/events/{id}/cancel", eventHandler.HandleCancel, adminOnly)
}
