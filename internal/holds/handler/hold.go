package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bouncebook/internal/holds/service"
	apperrors "bouncebook/pkg/errors"
	httputil "bouncebook/pkg/http"
	"bouncebook/pkg/logger"
)

type HoldHandler struct {
	service service.HoldService
	log     *logger.Logger
}

func NewHoldHandler(service service.HoldService, log *logger.Logger) *HoldHandler {
	return &HoldHandler{
		service: service,
		log:     log,
	}
}

func (h *HoldHandler) CreateHold(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.CreateHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "CreateHold", apperrors.InvalidInput("Invalid request body"))
		return
	}

	hold, err := h.service.CreateHold(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CreateHold", err)
		return
	}

	if err := httputil.WriteCreated(w, hold); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateHold", "error", err)
	}
}

func (h *HoldHandler) GetHold(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hold, err := h.service.GetActiveHold(r.Context(), ps.ByName("session_id"))
	if err != nil {
		h.writeError(w, "GetHold", err)
		return
	}

	if err := httputil.WriteSuccess(w, hold); err != nil {
		h.log.Error("failed to write success response", "handler", "GetHold", "error", err)
	}
}

func (h *HoldHandler) ReleaseHold(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.ReleaseHold(r.Context(), ps.ByName("session_id")); err != nil {
		h.writeError(w, "ReleaseHold", err)
		return
	}

	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write response", "handler", "ReleaseHold", "error", err)
	}
}

func (h *HoldHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *HoldHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/holds", h.CreateHold)
	router.GET("/api/v1/holds/session/:session_id", h.GetHold)
	router.DELETE("/api/v1/holds/session/:session_id", h.ReleaseHold)
}
