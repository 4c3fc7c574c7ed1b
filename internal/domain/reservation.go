package domain

import "time"

type ReservationState string

const (
	ReservationStateDraft              ReservationState = "DRAFT"
	ReservationStateReserved           ReservationState = "RESERVED"
	ReservationStateAwaitingSettlement ReservationState = "AWAITING_SETTLEMENT"
	ReservationStateConfirmed          ReservationState = "CONFIRMED"
	ReservationStateReleased           ReservationState = "RELEASED"
	ReservationStateRefunded           ReservationState = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodNone   PaymentMethod = "NONE" // free resources
)

// Reservation is a holder's claim against a CapacityResource. A reservation
// is never deleted; it only transitions state so the audit trail survives.
type Reservation struct {
	ID          int64            `json:"id"`
	ResourceID  int64            `json:"resource_id"`
	HolderID    int64            `json:"holder_id"`
	Quantity    int32            `json:"quantity"`
	State       ReservationState `json:"state"`
	Method      PaymentMethod    `json:"method"`
	PaymentRef  *string          `json:"payment_ref,omitempty"` // settlement adapter token
	AmountCents int64            `json:"amount_cents"`
	CreatedOn   time.Time        `json:"created_on"`
	ResolvedOn  *time.Time       `json:"resolved_on,omitempty"`
}

// Terminal reports whether the reservation has reached an end state. Release
// and credit calls against a terminal reservation are no-ops.
func (r *Reservation) Terminal() bool {
	return r.State == ReservationStateReleased || r.State == ReservationStateRefunded
}

// Live reports whether the reservation still holds capacity or payment state
// that the duplicate-submission guard must protect.
func (r *Reservation) Live() bool {
	return !r.Terminal()
}

// Transition is one audit-trail entry: who moved a reservation between which
// states, and when. Appended on every state change, never updated.
type Transition struct {
	ID            int64            `json:"id"`
	ReservationID int64            `json:"reservation_id"`
	FromState     ReservationState `json:"from_state"`
	ToState       ReservationState `json:"to_state"`
	ActorID       int64            `json:"actor_id"` // 0 = system (sweep)
	OccurredOn    time.Time        `json:"occurred_on"`
}
