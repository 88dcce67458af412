package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wrenhealth/careline/internal/calendar"
	calendarHandler "github.com/wrenhealth/careline/internal/handler/calendar"
	chatHandler "github.com/wrenhealth/careline/internal/handler/chat"
	middlewarePkg "github.com/wrenhealth/careline/internal/middleware"
	"github.com/wrenhealth/careline/internal/service/dialog"
	"github.com/wrenhealth/careline/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(dialogSvc *dialog.Service, exporter *calendar.Exporter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatH := chatHandler.New(dialogSvc)
	calendarH := calendarHandler.New(exporter)

	r.Route("/api", func(api chi.Router) {
		chatH.RegisterRoutes(api)
		calendarH.RegisterRoutes(api)

		api.Get("/meta", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{
				"service":    "careline",
				"disclaimer": dialog.Disclaimer,
			})
		})
	})

	return r
}
