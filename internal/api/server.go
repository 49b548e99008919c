package api

import (
	"net/http"
	"time"

	"github.com/EdnondDantes/golosStroyki/internal/api/complaint"
	"github.com/EdnondDantes/golosStroyki/internal/api/docs"
	"github.com/EdnondDantes/golosStroyki/internal/api/middleware"
	"github.com/EdnondDantes/golosStroyki/internal/api/record"
	"github.com/EdnondDantes/golosStroyki/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(recordHandler *record.Handler, complaintHandler *complaint.Handler, apiToken string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	docs.RegisterRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BearerAuth(apiToken))

		record.RegisterRoutes(r, recordHandler)
		complaint.RegisterRoutes(r, complaintHandler)
	})

	return r
}
