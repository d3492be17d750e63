package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"bouncebook/internal/bookings/service"
	apperrors "bouncebook/pkg/errors"
	httputil "bouncebook/pkg/http"
	"bouncebook/pkg/logger"
	"bouncebook/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "error", err)
	}
}

func (h *BookingHandler) decode(w http.ResponseWriter, r *http.Request, handler string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, handler, apperrors.InvalidInput("Invalid request body"))
		return false
	}
	return true
}

// PaymentWebhook receives gateway notifications. It always answers 200
// for settled outcomes, including slot_lost, so the gateway does not
// retry a promotion that can never succeed.
func (h *BookingHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.PaymentWebhookRequest
	if !h.decode(w, r, "PaymentWebhook", &req) {
		return
	}

	result, err := h.service.HandlePaymentEvent(r.Context(), &req)
	if err != nil {
		h.writeError(w, "PaymentWebhook", err)
		return
	}

	h.writeSuccess(w, "PaymentWebhook", result)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetBooking", err)
		return
	}

	h.writeSuccess(w, "GetBooking", booking)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListBookings", apperrors.InvalidInput(err.Error()))
		return
	}

	bookings, total, err := h.service.ListBookings(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.writeError(w, "ListBookings", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListBookings", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Status string `json:"status"`
	}
	if !h.decode(w, r, "UpdateStatus", &req) {
		return
	}

	booking, err := h.service.AdvanceStatus(r.Context(), ps.ByName("id"), model.BookingStatus(req.Status))
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	h.writeSuccess(w, "UpdateStatus", booking)
}

func (h *BookingHandler) RequestCancellation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !h.decode(w, r, "RequestCancellation", &req) {
		return
	}

	request, err := h.service.RequestCancellation(r.Context(), ps.ByName("id"), req.Reason)
	if err != nil {
		h.writeError(w, "RequestCancellation", err)
		return
	}

	if err := httputil.WriteCreated(w, request); err != nil {
		h.log.Error("failed to write created response", "handler", "RequestCancellation", "error", err)
	}
}

func (h *BookingHandler) ReviewCancellation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Approve bool `json:"approve"`
	}
	if !h.decode(w, r, "ReviewCancellation", &req) {
		return
	}

	booking, err := h.service.ReviewCancellation(r.Context(), ps.ByName("id"), req.Approve)
	if err != nil {
		h.writeError(w, "ReviewCancellation", err)
		return
	}

	h.writeSuccess(w, "ReviewCancellation", booking)
}

func (h *BookingHandler) RescheduleOptions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	horizonDays := 0
	if horizonStr := r.URL.Query().Get("horizon_days"); horizonStr != "" {
		var err error
		horizonDays, err = strconv.Atoi(horizonStr)
		if err != nil {
			h.writeError(w, "RescheduleOptions", apperrors.InvalidInput("invalid horizon_days parameter: "+horizonStr))
			return
		}
	}

	options, err := h.service.RescheduleOptions(r.Context(), ps.ByName("id"), horizonDays)
	if err != nil {
		h.writeError(w, "RescheduleOptions", err)
		return
	}

	h.writeSuccess(w, "RescheduleOptions", options)
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req service.RescheduleRequest
	if !h.decode(w, r, "Reschedule", &req) {
		return
	}

	booking, err := h.service.Reschedule(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Reschedule", err)
		return
	}

	h.writeSuccess(w, "Reschedule", booking)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments/webhook", h.PaymentWebhook)

	router.GET("/api/v1/bookings", h.ListBookings)
	router.GET("/api/v1/bookings/id/:id", h.GetBooking)
	router.PATCH("/api/v1/bookings/id/:id/status", h.UpdateStatus)
	router.POST("/api/v1/bookings/id/:id/cancel", h.RequestCancellation)
	router.GET("/api/v1/bookings/id/:id/reschedule/options", h.RescheduleOptions)
	router.POST("/api/v1/bookings/id/:id/reschedule", h.Reschedule)

	router.POST("/api/v1/cancellations/id/:id/review", h.ReviewCancellation)
}
