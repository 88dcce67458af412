package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wrenhealth/careline/internal/service/dialog"
	"github.com/wrenhealth/careline/internal/service/session"
	"github.com/wrenhealth/careline/pkg/utils"
)

// Handler exposes the session and utterance endpoints.
type Handler struct {
	dialog *dialog.Service
}

// New creates the chat handler.
func New(dialogSvc *dialog.Service) *Handler {
	return &Handler{dialog: dialogSvc}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions", h.handleListSessions)
	r.Post("/sessions/{index}/select", h.handleSelectSession)
	r.Get("/sessions/{index}/messages", h.handleTranscript)
	r.Post("/sessions/{index}/messages", h.handleSubmitUtterance)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	created := h.dialog.NewSession()
	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.dialog.ListSessions())
}

func (h *Handler) handleSelectSession(w http.ResponseWriter, r *http.Request) {
	index, ok := sessionIndex(w, r)
	if !ok {
		return
	}

	if err := h.dialog.SelectSession(index); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]int{"active": index})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	index, ok := sessionIndex(w, r)
	if !ok {
		return
	}

	messages, err := h.dialog.Transcript(index)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSubmitUtterance(w http.ResponseWriter, r *http.Request) {
	index, ok := sessionIndex(w, r)
	if !ok {
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Content == "" {
		utils.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	reply, err := h.dialog.SubmitUtterance(r.Context(), index, payload.Content)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrOutOfRange):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, dialog.ErrAnswerUnavailable):
			utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, "failed to process utterance")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

// sessionIndex parses the {index} URL parameter, responding 400 on junk.
func sessionIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid session index")
		return 0, false
	}
	return index, true
}
