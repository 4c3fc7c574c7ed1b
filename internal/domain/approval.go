package domain

import "time"

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

type ApprovalKind string

const (
	ApprovalKindBoothApplication    ApprovalKind = "BOOTH_APPLICATION"
	ApprovalKindAccountVerification ApprovalKind = "ACCOUNT_VERIFICATION"
)

// ApprovalCase gates a holder's claim behind an administrator decision.
// A booth application wraps a free Reservation whose capacity was already
// taken at submission time; rejecting it must return that capacity. An
// account verification case carries no reservation.
type ApprovalCase struct {
	ID            int64          `json:"id"`
	Kind          ApprovalKind   `json:"kind"`
	HolderID      int64          `json:"holder_id"`
	ReservationID *int64         `json:"reservation_id,omitempty"`
	Status        ApprovalStatus `json:"status"`
	Note          string         `json:"note"`
	DecidedBy     *int64         `json:"decided_by,omitempty"`
	DecidedOn     *time.Time     `json:"decided_on,omitempty"`
	CreatedOn     time.Time      `json:"created_on"`
}

// Resolved reports whether an administrator has already decided the case.
func (c *ApprovalCase) Resolved() bool {
	return c.Status != ApprovalStatusPending
}
