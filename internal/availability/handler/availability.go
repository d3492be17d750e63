package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"bouncebook/internal/availability/service"
	apperrors "bouncebook/pkg/errors"
	httputil "bouncebook/pkg/http"
	"bouncebook/pkg/logger"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Days(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	productID := query.Get("product_id")
	from := query.Get("from")
	bookingType := query.Get("booking_type")

	days := 0
	if daysStr := query.Get("days"); daysStr != "" {
		var err error
		days, err = strconv.Atoi(daysStr)
		if err != nil {
			h.writeError(w, "Days", apperrors.InvalidInput("invalid days parameter: "+daysStr))
			return
		}
	}

	out, err := h.service.Days(r.Context(), productID, from, days, bookingType)
	if err != nil {
		h.writeError(w, "Days", err)
		return
	}

	if err := httputil.WriteSuccess(w, out); err != nil {
		h.log.Error("failed to write success response", "handler", "Days", "error", err)
	}
}

func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	out, err := h.service.Slots(r.Context(), query.Get("product_id"), query.Get("date"))
	if err != nil {
		h.writeError(w, "Slots", err)
		return
	}

	if err := httputil.WriteSuccess(w, out); err != nil {
		h.log.Error("failed to write success response", "handler", "Slots", "error", err)
	}
}

func (h *AvailabilityHandler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Validate", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Validate(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Validate", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Validate", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/days", h.Days)
	router.GET("/api/v1/availability/slots", h.Slots)
	router.POST("/api/v1/availability/validate", h.Validate)
}
