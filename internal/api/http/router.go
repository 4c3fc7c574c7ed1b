package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router wires together. RateLimiter may be
// nil, in which case submit endpoints run unthrottled.
type Handlers struct {
	Auth        *AuthMiddleware
	Reservation *ReservationHandler
	Payment     *PaymentHandler
	Approval    *ApprovalHandler
	Wallet      *WalletHandler
	Resource    *ResourceHandler
	RateLimiter *RateLimiter
}

// NewRouter builds the full route table. Everything under /api requires a
// bearer token except the card confirmation callback, which the processor
// calls back without one.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Processor callback, keyed by intent id rather than caller identity.
	r.HandleFunc("/api/payments/card/confirm", h.Payment.Confirm).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.Auth.Require)

	limited := func(fn http.HandlerFunc) http.Handler {
		if h.RateLimiter == nil {
			return fn
		}
		return h.RateLimiter.Limit(fn)
	}

	// Resources
	api.HandleFunc("/resources", h.Resource.List).Methods(http.MethodGet)
	api.HandleFunc("/resources/{id}", h.Resource.Get).Methods(http.MethodGet)

	// Reservations
	api.Handle("/resources/{id}/reservations", limited(h.Reservation.Submit)).Methods(http.MethodPost)
	api.HandleFunc("/reservations", h.Reservation.List).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", h.Reservation.Get).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}/settle", h.Reservation.Settle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/cancel", h.Reservation.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/transitions", h.Reservation.Transitions).Methods(http.MethodGet)

	// Approvals
	api.Handle("/approvals/booth-applications", limited(h.Approval.SubmitBoothApplication)).Methods(http.MethodPost)
	api.Handle("/approvals/account-verifications", limited(h.Approval.SubmitAccountVerification)).Methods(http.MethodPost)
	api.HandleFunc("/approvals/mine", h.Approval.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/approvals/{id}", h.Approval.Get).Methods(http.MethodGet)

	// Wallet
	api.HandleFunc("/wallet/balance", h.Wallet.GetBalance).Methods(http.MethodGet)
	api.HandleFunc("/wallet/entries", h.Wallet.ListEntries).Methods(http.MethodGet)

	// Administration
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.Auth.RequireAdmin)
	admin.HandleFunc("/resources", h.Resource.Create).Methods(http.MethodPost)
	admin.HandleFunc("/resources/{id}", h.Resource.Archive).Methods(http.MethodDelete)
	admin.HandleFunc("/resources/{id}/reservations", h.Reservation.ListByResource).Methods(http.MethodGet)
	admin.HandleFunc("/approvals", h.Approval.ListPending).Methods(http.MethodGet)
	admin.HandleFunc("/approvals/{id}/approve", h.Approval.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/approvals/{id}/reject", h.Approval.Reject).Methods(http.MethodPost)
	admin.HandleFunc("/wallets/{holderId}/top-up", h.Wallet.TopUp).Methods(http.MethodPost)

	return r
}
