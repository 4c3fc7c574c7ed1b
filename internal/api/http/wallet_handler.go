package http

import (
	"encoding/json"
	"net/http"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/service"

	"github.com/gorilla/mux"
)

type WalletHandler struct {
	wallet service.WalletService
}

func NewWalletHandler(wallet service.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

type balanceResponse struct {
	BalanceCents int64 `json:"balance_cents"`
}

// GetBalance handles GET /api/wallet/balance
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	holderID := holderIDFromContext(r.Context())
	balance, err := h.wallet.GetBalance(r.Context(), holderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{BalanceCents: balance})
}

// ListEntries handles GET /api/wallet/entries
func (h *WalletHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	holderID := holderIDFromContext(r.Context())
	page, pageSize := parsePagination(r)

	items, total, err := h.wallet.ListEntries(r.Context(), holderID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.WalletEntry]{Items: items, Total: total})
}

type topUpRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
}

// TopUp handles POST /api/admin/wallets/{holderId}/top-up
func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	holderID, err := parseID(mux.Vars(r)["holderId"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid holder id"})
		return
	}

	var req topUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AmountCents <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount_cents must be positive"})
		return
	}

	adminID := holderIDFromContext(r.Context())
	entry, err := h.wallet.TopUp(r.Context(), adminID, holderID, req.AmountCents, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
