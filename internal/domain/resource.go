package domain

import "time"

type ResourceKind string

const (
	ResourceKindEvent      ResourceKind = "EVENT"
	ResourceKindGymSession ResourceKind = "GYM_SESSION"
	ResourceKindBoothSlot  ResourceKind = "BOOTH_SLOT"
)

// CapacityResource is any finite-slot bookable entity: an event, a gym
// session, or a bazaar booth slot. ReservedCount is a derived counter whose
// only writer is the registration orchestrator (through the resource
// repository's conditional updates).
type CapacityResource struct {
	ID             int64        `json:"id"`
	Kind           ResourceKind `json:"kind"`
	Name           string       `json:"name"`
	TotalCapacity  *int32       `json:"total_capacity,omitempty"` // nil = unbounded
	ReservedCount  int32        `json:"reserved_count"`
	Deadline       *time.Time   `json:"deadline,omitempty"` // nil = no deadline
	UnitPriceCents int64        `json:"unit_price_cents"`   // 0 = free
	Archived       bool         `json:"archived"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

// Free reports whether reservations against this resource settle without
// payment.
func (r *CapacityResource) Free() bool {
	return r.UnitPriceCents == 0
}

// Unbounded reports whether the resource has no capacity ceiling.
func (r *CapacityResource) Unbounded() bool {
	return r.TotalCapacity == nil
}

// DeadlinePassed reports whether new reservations must be refused at now.
func (r *CapacityResource) DeadlinePassed(now time.Time) bool {
	return r.Deadline != nil && !now.Before(*r.Deadline)
}
