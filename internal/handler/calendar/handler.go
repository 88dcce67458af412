package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wrenhealth/careline/internal/calendar"
	"github.com/wrenhealth/careline/internal/model/booking"
	"github.com/wrenhealth/careline/pkg/utils"
)

// Handler serves calendar-document downloads for completed appointments.
type Handler struct {
	exporter *calendar.Exporter
}

// New creates the calendar handler.
func New(exporter *calendar.Exporter) *Handler {
	return &Handler{exporter: exporter}
}

// RegisterRoutes mounts the export route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/calendar", h.handleExport)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var appointment booking.Appointment
	if err := json.NewDecoder(r.Body).Decode(&appointment); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	document, err := h.exporter.Export(appointment)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidAppointment) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to export calendar event")
		return
	}

	w.Header().Set("Content-Type", calendar.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", calendar.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}
