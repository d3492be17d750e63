package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bouncebook/internal/catalog/service"
	apperrors "bouncebook/pkg/errors"
	httputil "bouncebook/pkg/http"
	"bouncebook/pkg/logger"
	"bouncebook/pkg/model"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

// response plumbing shared by every endpoint in this handler

func (h *CatalogHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *CatalogHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "error", err)
	}
}

func (h *CatalogHandler) writeCreated(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteCreated(w, data); err != nil {
		h.log.Error("failed to write created response", "handler", handler, "error", err)
	}
}

func (h *CatalogHandler) writePaginated(w http.ResponseWriter, handler string, data any, total int64, limit int, offset int64) {
	if err := httputil.WritePaginated(w, data, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", handler, "error", err)
	}
}

func (h *CatalogHandler) decode(w http.ResponseWriter, r *http.Request, handler string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, handler, apperrors.InvalidInput("Invalid request body"))
		return false
	}
	return true
}

// products

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var product model.Product
	if !h.decode(w, r, "CreateProduct", &product) {
		return
	}

	if err := h.service.CreateProduct(r.Context(), &product); err != nil {
		h.writeError(w, "CreateProduct", err)
		return
	}

	h.writeCreated(w, "CreateProduct", product)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	product, err := h.service.GetProduct(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetProduct", err)
		return
	}

	h.writeSuccess(w, "GetProduct", product)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListProducts", err)
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"

	products, total, err := h.service.ListProducts(r.Context(), activeOnly, limit, offset)
	if err != nil {
		h.writeError(w, "ListProducts", err)
		return
	}

	h.writePaginated(w, "ListProducts", products, total, limit, offset)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ProductUpdate
	if !h.decode(w, r, "UpdateProduct", &updates) {
		return
	}

	if err := h.service.UpdateProduct(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "UpdateProduct", err)
		return
	}

	_ = httputil.WriteNoContent(w)
}

func (h *CatalogHandler) RetireProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.RetireProduct(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "RetireProduct", err)
		return
	}

	_ = httputil.WriteNoContent(w)
}

// units

func (h *CatalogHandler) CreateUnit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var unit model.Unit
	if !h.decode(w, r, "CreateUnit", &unit) {
		return
	}

	if err := h.service.CreateUnit(r.Context(), &unit); err != nil {
		h.writeError(w, "CreateUnit", err)
		return
	}

	h.writeCreated(w, "CreateUnit", unit)
}

func (h *CatalogHandler) GetUnit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	unit, err := h.service.GetUnit(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetUnit", err)
		return
	}

	h.writeSuccess(w, "GetUnit", unit)
}

func (h *CatalogHandler) ListUnits(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	productID := query.Get("product_id")
	status := model.UnitStatus(query.Get("status"))

	units, err := h.service.ListUnits(r.Context(), productID, status)
	if err != nil {
		h.writeError(w, "ListUnits", err)
		return
	}

	h.writeSuccess(w, "ListUnits", units)
}

func (h *CatalogHandler) UpdateUnit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.UnitUpdate
	if !h.decode(w, r, "UpdateUnit", &updates) {
		return
	}

	if err := h.service.UpdateUnit(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "UpdateUnit", err)
		return
	}

	_ = httputil.WriteNoContent(w)
}

// crews

func (h *CatalogHandler) CreateCrew(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var crew model.Crew
	if !h.decode(w, r, "CreateCrew", &crew) {
		return
	}

	if err := h.service.CreateCrew(r.Context(), &crew); err != nil {
		h.writeError(w, "CreateCrew", err)
		return
	}

	h.writeCreated(w, "CreateCrew", crew)
}

func (h *CatalogHandler) GetCrew(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	crew, err := h.service.GetCrew(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetCrew", err)
		return
	}

	h.writeSuccess(w, "GetCrew", crew)
}

func (h *CatalogHandler) ListCrews(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListCrews", err)
		return
	}

	crews, total, err := h.service.ListCrews(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "ListCrews", err)
		return
	}

	h.writePaginated(w, "ListCrews", crews, total, limit, offset)
}

func (h *CatalogHandler) UpdateCrew(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.CrewUpdate
	if !h.decode(w, r, "UpdateCrew", &updates) {
		return
	}

	if err := h.service.UpdateCrew(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "UpdateCrew", err)
		return
	}

	_ = httputil.WriteNoContent(w)
}

// slots

func (h *CatalogHandler) CreateSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var slot model.Slot
	if !h.decode(w, r, "CreateSlot", &slot) {
		return
	}

	if err := h.service.CreateSlot(r.Context(), &slot); err != nil {
		h.writeError(w, "CreateSlot", err)
		return
	}

	h.writeCreated(w, "CreateSlot", slot)
}

func (h *CatalogHandler) ListSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	productID := query.Get("product_id")
	activeOnly := query.Get("active") == "true"

	slots, err := h.service.ListSlots(r.Context(), productID, activeOnly)
	if err != nil {
		h.writeError(w, "ListSlots", err)
		return
	}

	h.writeSuccess(w, "ListSlots", slots)
}

func (h *CatalogHandler) UpdateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SlotUpdate
	if !h.decode(w, r, "UpdateSlot", &updates) {
		return
	}

	if err := h.service.UpdateSlot(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "UpdateSlot", err)
		return
	}

	_ = httputil.WriteNoContent(w)
}

// blackouts

func (h *CatalogHandler) CreateBlackout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var blackout model.BlackoutDate
	if !h.decode(w, r, "CreateBlackout", &blackout) {
		return
	}

	if err := h.service.CreateBlackout(r.Context(), &blackout); err != nil {
		h.writeError(w, "CreateBlackout", err)
		return
	}

	h.writeCreated(w, "CreateBlackout", blackout)
}

func (h *CatalogHandler) ListBlackouts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListBlackouts", err)
		return
	}

	blackouts, total, err := h.service.ListBlackouts(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "ListBlackouts", err)
		return
	}

	h.writePaginated(w, "ListBlackouts", blackouts, total, limit, offset)
}

func (h *CatalogHandler) DeleteBlackout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteBlackout(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteBlackout", err)
		return
	}

	_ = httputil.WriteNoContent(w)
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/products", h.CreateProduct)
	router.GET("/api/v1/products", h.ListProducts)
	router.GET("/api/v1/products/id/:id", h.GetProduct)
	router.PATCH("/api/v1/products/id/:id", h.UpdateProduct)
	router.DELETE("/api/v1/products/id/:id", h.RetireProduct)

	router.POST("/api/v1/units", h.CreateUnit)
	router.GET("/api/v1/units", h.ListUnits)
	router.GET("/api/v1/units/id/:id", h.GetUnit)
	router.PATCH("/api/v1/units/id/:id", h.UpdateUnit)

	router.POST("/api/v1/crews", h.CreateCrew)
	router.GET("/api/v1/crews", h.ListCrews)
	router.GET("/api/v1/crews/id/:id", h.GetCrew)
	router.PATCH("/api/v1/crews/id/:id", h.UpdateCrew)

	router.POST("/api/v1/slots", h.CreateSlot)
	router.GET("/api/v1/slots", h.ListSlots)
	router.PATCH("/api/v1/slots/id/:id", h.UpdateSlot)

	router.POST("/api/v1/blackouts", h.CreateBlackout)
	router.GET("/api/v1/blackouts", h.ListBlackouts)
	router.DELETE("/api/v1/blackouts/id/:id", h.DeleteBlackout)
}
