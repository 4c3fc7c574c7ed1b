package domain

import "time"

type EventType string

const (
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationReleased  EventType = "reservation.released"
	EventReservationRefunded  EventType = "reservation.refunded"
	EventApprovalApproved     EventType = "approval.approved"
	EventApprovalRejected     EventType = "approval.rejected"
)

// TransitionEvent is published to the notification collaborator on state
// changes. Delivery is fire-and-forget; the engine owes no guarantee back.
type TransitionEvent struct {
	Type          EventType         `json:"type"`
	ReservationID int64             `json:"reservation_id,omitempty"`
	ApprovalID    int64             `json:"approval_id,omitempty"`
	ResourceID    int64             `json:"resource_id,omitempty"`
	HolderID      int64             `json:"holder_id"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	OccurredOn    time.Time         `json:"occurred_on"`
}
