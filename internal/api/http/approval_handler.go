package http

import (
	"context"
	"encoding/json"
	"net/http"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/service"

	"github.com/gorilla/mux"
)

type ApprovalHandler struct {
	approval service.ApprovalService
}

func NewApprovalHandler(approval service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approval: approval}
}

type boothApplicationRequest struct {
	ResourceID int64  `json:"resource_id"`
	Note       string `json:"note"`
}

type boothApplicationResponse struct {
	Case        *domain.ApprovalCase `json:"case"`
	Reservation *domain.Reservation  `json:"reservation"`
}

// SubmitBoothApplication handles POST /api/approvals/booth-applications
func (h *ApprovalHandler) SubmitBoothApplication(w http.ResponseWriter, r *http.Request) {
	var req boothApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResourceID == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "resource_id is required"})
		return
	}

	holderID := holderIDFromContext(r.Context())
	ac, rsv, err := h.approval.SubmitBoothApplication(r.Context(), req.ResourceID, holderID, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, boothApplicationResponse{Case: ac, Reservation: rsv})
}

type verificationRequest struct {
	Note string `json:"note"`
}

// SubmitAccountVerification handles POST /api/approvals/account-verifications
func (h *ApprovalHandler) SubmitAccountVerification(w http.ResponseWriter, r *http.Request) {
	var req verificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	holderID := holderIDFromContext(r.Context())
	ac, err := h.approval.SubmitAccountVerification(r.Context(), holderID, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ac)
}

// Approve handles POST /api/admin/approvals/{id}/approve
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.approval.Approve)
}

// Reject handles POST /api/admin/approvals/{id}/reject
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.approval.Reject)
}

func (h *ApprovalHandler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, adminID, caseID int64) (*domain.ApprovalCase, error)) {
	caseID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid case id"})
		return
	}

	adminID := holderIDFromContext(r.Context())
	ac, err := fn(r.Context(), adminID, caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ac)
}

// Get handles GET /api/approvals/{id}
func (h *ApprovalHandler) Get(w http.ResponseWriter, r *http.Request) {
	caseID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid case id"})
		return
	}

	ac, err := h.approval.GetCase(r.Context(), caseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ac)
}

// ListPending handles GET /api/admin/approvals
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	items, total, err := h.approval.ListPending(r.Context(), r.URL.Query().Get("kind"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.ApprovalCase]{Items: items, Total: total})
}

// ListMine handles GET /api/approvals/mine
func (h *ApprovalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	holderID := holderIDFromContext(r.Context())
	cases, err := h.approval.ListByHolder(r.Context(), holderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}
