package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/patientedu/internal/api"
	apiMiddleware "github.com/phrazzld/patientedu/internal/api/middleware"
	"github.com/phrazzld/patientedu/internal/api/shared"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(apiMiddleware.Metrics(app.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))

	catalogHandler := api.NewCatalogHandler(app.catalogService, app.exportService, app.logger)
	bannerHandler := api.NewBannerHandler(app.bannerService, app.logger)
	authHandler := api.NewAuthHandler(app.authenticator, app.logger)
	adminAuth := apiMiddleware.NewAdminAuth(app.authenticator)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", catalogHandler.Status)
		r.Get("/search", catalogHandler.Search)
		r.Get("/blobs/{blobID}", catalogHandler.GetBlob)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/sections", catalogHandler.ListSections)
		r.Get("/sections/{sectionID}", catalogHandler.GetSection)
		r.Get("/sections/{sectionID}/diseases/{diseaseID}", catalogHandler.GetDisease)
		r.Get("/sections/{sectionID}/diseases/{diseaseID}/export", catalogHandler.Export)

		r.Get("/banners", bannerHandler.List)
		r.Get("/banners/current", bannerHandler.Current)
		r.Post("/banners/rotation/next", bannerHandler.Next)
		r.Post("/banners/rotation/previous", bannerHandler.Previous)
		r.Post("/banners/rotation/goto/{index}", bannerHandler.Goto)

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth.Authenticate)

			r.Post("/sections", catalogHandler.CreateSection)
			r.Put("/sections/{sectionID}", catalogHandler.UpdateSection)
			r.Delete("/sections/{sectionID}", catalogHandler.DeleteSection)

			r.Post("/sections/{sectionID}/diseases", catalogHandler.CreateDisease)
			r.Put("/sections/{sectionID}/diseases/{diseaseID}", catalogHandler.UpdateDisease)
			r.Delete("/sections/{sectionID}/diseases/{diseaseID}", catalogHandler.DeleteDisease)

			r.Post("/sections/{sectionID}/diseases/{diseaseID}/files", catalogHandler.CreateFile)
			r.Delete("/sections/{sectionID}/diseases/{diseaseID}/files/{fileID}", catalogHandler.DeleteFile)

			r.Post("/banners", bannerHandler.Create)
			r.Put("/banners/{bannerID}", bannerHandler.Update)
			r.Delete("/banners/{bannerID}", bannerHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	// Ready once the initial load has settled, whether or not it succeeded.
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		status := app.catalogService.Status(r.Context())
		if status.Loading {
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, status)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
