package http

import (
	"encoding/json"
	"net/http"
	"time"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/service"

	"github.com/gorilla/mux"
)

type ResourceHandler struct {
	resources service.ResourceService
}

func NewResourceHandler(resources service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

type createResourceRequest struct {
	Kind           string     `json:"kind"`
	Name           string     `json:"name"`
	TotalCapacity  *int32     `json:"total_capacity"`
	Deadline       *time.Time `json:"deadline"`
	UnitPriceCents int64      `json:"unit_price_cents"`
}

// Create handles POST /api/admin/resources
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	res := &domain.CapacityResource{
		Kind:           domain.ResourceKind(req.Kind),
		Name:           req.Name,
		TotalCapacity:  req.TotalCapacity,
		Deadline:       req.Deadline,
		UnitPriceCents: req.UnitPriceCents,
	}
	if err := h.resources.CreateResource(r.Context(), res); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Get handles GET /api/resources/{id}
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}
	res, err := h.resources.GetResource(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// List handles GET /api/resources, optionally filtered by kind.
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	kind := r.URL.Query().Get("kind")

	items, total, err := h.resources.ListResources(r.Context(), kind, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.CapacityResource]{Items: items, Total: total})
}

// Archive handles DELETE /api/admin/resources/{id}. Archived resources refuse
// new reservations; existing ones are untouched.
func (h *ResourceHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}
	if err := h.resources.ArchiveResource(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
