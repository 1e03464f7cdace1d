package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// WidgetHandler handles HTTP requests for browser widget sessions.
type WidgetHandler struct {
	service *service.WidgetService
}

// NewWidgetHandler creates a new WidgetHandler.
func NewWidgetHandler(svc *service.WidgetService) *WidgetHandler {
	return &WidgetHandler{service: svc}
}

// HandleCreate handles POST /api/v1/widgets requests.
func (h *WidgetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var patch model.ConfigPatch
	if !decodeJSON(w, r, &patch, true) {
		return
	}

	resp, err := h.service.Create(&patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /api/v1/widgets/{id} requests.
func (h *WidgetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}

	st, err := h.service.State(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleUpdate handles PATCH /api/v1/widgets/{id} requests.
func (h *WidgetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}

	var patch model.ConfigPatch
	if !decodeJSON(w, r, &patch, false) {
		return
	}

	st, err := h.service.Update(id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleRegenerate handles POST /api/v1/widgets/{id}/regenerate requests.
func (h *WidgetHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}

	st, err := h.service.Regenerate(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleCopy handles POST /api/v1/widgets/{id}/copy/{index} requests.
func (h *WidgetHandler) HandleCopy(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid entry index"))
		return
	}

	resp, err := h.service.Copy(id, index)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleKey handles POST /api/v1/widgets/{id}/keys requests.
func (h *WidgetHandler) HandleKey(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}

	var req model.KeyRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if req.Combo == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("combo is required"))
		return
	}

	resp, err := h.service.Key(id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/widgets/{id} requests.
func (h *WidgetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := widgetID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// widgetID returns the widget the request's token was issued for. Routes
// using it must sit behind middleware.WidgetAuth.
func widgetID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.WidgetIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("missing authorization token"))
	}
	return id, ok
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWidgetNotFound), errors.Is(err, service.ErrEntryNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNothingToCopy):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrTooManyWidgets):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
