package http

import (
	"encoding/json"
	"net/http"

	"campus-reserve-backend/internal/service"
)

// PaymentHandler is the re-entry point for the asynchronous card rail: the
// processor's webhook and the holder's redirect callback both land here,
// keyed by intent id, possibly more than once.
type PaymentHandler struct {
	registration service.RegistrationService
}

func NewPaymentHandler(registration service.RegistrationService) *PaymentHandler {
	return &PaymentHandler{registration: registration}
}

type confirmRequest struct {
	IntentID string `json:"intent_id"`
}

// Confirm handles POST /api/payments/card/confirm
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IntentID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "intent_id is required"})
		return
	}

	rsv, err := h.registration.ConfirmCardPayment(r.Context(), req.IntentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsv)
}
