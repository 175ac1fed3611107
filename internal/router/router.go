package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/2021-nbs/zealthy-exercise/internal/handler"
	mw "github.com/2021-nbs/zealthy-exercise/internal/middleware"
)

func New(configH *handler.ConfigHandler, subH *handler.SubmissionHandler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	// Health check
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"Onboarding API is running","version":"1.0.0"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Field configuration
		r.Get("/form-config", configH.Get)
		r.Post("/update-form-config", configH.Update)

		// Submissions
		r.Post("/submit-form", subH.Create)
		r.Put("/update-form/{id}", subH.Update)
		r.Get("/form-submission/{id}", subH.Get)
		r.Get("/form-submissions", subH.List)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Resource not found"}`))
	})

	return r
}
