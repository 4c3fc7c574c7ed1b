package http

import (
	"encoding/json"
	"net/http"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/payment"
	"campus-reserve-backend/internal/service"

	"github.com/gorilla/mux"
)

type ReservationHandler struct {
	registration service.RegistrationService
}

func NewReservationHandler(registration service.RegistrationService) *ReservationHandler {
	return &ReservationHandler{registration: registration}
}

type submitRequest struct {
	Quantity int32  `json:"quantity"`
	Method   string `json:"method"` // "WALLET", "CARD" or empty for free resources
}

// Submit handles POST /api/resources/{id}/reservations
func (h *ReservationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	resourceID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quantity must be positive"})
		return
	}

	holderID := holderIDFromContext(r.Context())
	rsv, err := h.registration.Submit(r.Context(), resourceID, holderID, req.Quantity, domain.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rsv)
}

type settleResponse struct {
	Reservation  *domain.Reservation `json:"reservation"`
	Receipt      *payment.Receipt    `json:"receipt,omitempty"`
	ClientSecret string              `json:"client_secret,omitempty"`
}

// Settle handles POST /api/reservations/{id}/settle
func (h *ReservationHandler) Settle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid reservation id"})
		return
	}

	holderID := holderIDFromContext(r.Context())
	outcome, err := h.registration.Settle(r.Context(), holderID, reservationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settleResponse{
		Reservation:  outcome.Reservation,
		Receipt:      outcome.Receipt,
		ClientSecret: outcome.ClientSecret,
	})
}

// Cancel handles POST /api/reservations/{id}/cancel
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservationID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid reservation id"})
		return
	}

	holderID := holderIDFromContext(r.Context())
	rsv, err := h.registration.Cancel(r.Context(), holderID, reservationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsv)
}

// Get handles GET /api/reservations/{id}
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	reservationID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid reservation id"})
		return
	}

	holderID := holderIDFromContext(r.Context())
	rsv, err := h.registration.GetReservation(r.Context(), holderID, reservationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsv)
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int32 `json:"total"`
}

// List handles GET /api/reservations
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	holderID := holderIDFromContext(r.Context())
	page, pageSize := parsePagination(r)

	items, total, err := h.registration.ListReservations(r.Context(), holderID, r.URL.Query().Get("state"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Reservation]{Items: items, Total: total})
}

// ListByResource handles GET /api/admin/resources/{id}/reservations
func (h *ReservationHandler) ListByResource(w http.ResponseWriter, r *http.Request) {
	resourceID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}
	page, pageSize := parsePagination(r)

	items, total, err := h.registration.ListResourceReservations(r.Context(), resourceID, r.URL.Query().Get("state"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Reservation]{Items: items, Total: total})
}

// Transitions handles GET /api/reservations/{id}/transitions (admin audit view)
func (h *ReservationHandler) Transitions(w http.ResponseWriter, r *http.Request) {
	reservationID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid reservation id"})
		return
	}

	transitions, err := h.registration.ListTransitions(r.Context(), reservationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transitions)
}
