package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/logger"
	"campus-reserve-backend/internal/notifier"
	"campus-reserve-backend/internal/payment"
	"campus-reserve-backend/internal/repository"
)

// ErrUnauthorized is returned when the acting identity does not own the
// reservation it is operating on.
var ErrUnauthorized = errors.New("unauthorized")

const systemActorID = 0 // actor id recorded for sweep-driven transitions

type registrationService struct {
	resourceRepo      repository.ResourceRepository
	reservationRepo   repository.ReservationRepository
	wallet            payment.Settler
	card              *payment.CardSettler
	notifier          notifier.Notifier
	settlementTimeout time.Duration
	sweepBatchSize    int32
}

func NewRegistrationService(
	resourceRepo repository.ResourceRepository,
	reservationRepo repository.ReservationRepository,
	wallet payment.Settler,
	card *payment.CardSettler,
	notif notifier.Notifier,
	settlementTimeout time.Duration,
	sweepBatchSize int32,
) RegistrationService {
	return &registrationService{
		resourceRepo:      resourceRepo,
		reservationRepo:   reservationRepo,
		wallet:            wallet,
		card:              card,
		notifier:          notif,
		settlementTimeout: settlementTimeout,
		sweepBatchSize:    sweepBatchSize,
	}
}

func (s *registrationService) Submit(ctx context.Context, resourceID, holderID int64, quantity int32, method domain.PaymentMethod) (*domain.Reservation, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be a positive integer")
	}

	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.Archived {
		return nil, domain.ErrResourceNotFound
	}
	if res.DeadlinePassed(time.Now()) {
		return nil, domain.ErrDeadlinePassed
	}

	// Fast-path idempotency check. The partial unique index below is the
	// authoritative guard; this read only spares a doomed insert.
	existing, err := s.reservationRepo.GetLive(ctx, resourceID, holderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return resolveDuplicate(existing)
	}

	if res.Free() {
		method = domain.PaymentMethodNone
	} else if method != domain.PaymentMethodWallet && method != domain.PaymentMethodCard {
		return nil, domain.ErrPaymentMethodRequired
	}

	rsv := &domain.Reservation{
		ResourceID:  resourceID,
		HolderID:    holderID,
		Quantity:    quantity,
		State:       domain.ReservationStateReserved,
		Method:      method,
		AmountCents: res.UnitPriceCents * int64(quantity),
	}

	// The insert and the capacity increment commit or roll back together:
	// a capacity refusal must not leave a reservation row behind, and a
	// duplicate insert must not bump the counter.
	err = s.reservationRepo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.reservationRepo.Create(txCtx, rsv); err != nil {
			return err
		}
		if err := s.resourceRepo.TryReserve(txCtx, resourceID, quantity); err != nil {
			return err
		}
		return s.reservationRepo.RecordTransition(txCtx, &domain.Transition{
			ReservationID: rsv.ID,
			FromState:     domain.ReservationStateDraft,
			ToState:       domain.ReservationStateReserved,
			ActorID:       holderID,
		})
	})
	if errors.Is(err, domain.ErrDuplicateReservation) {
		// Lost the race against a concurrent submit from the same holder.
		existing, gerr := s.reservationRepo.GetLive(ctx, resourceID, holderID)
		if gerr == nil && existing != nil {
			return resolveDuplicate(existing)
		}
		return nil, domain.ErrDuplicateReservation
	}
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "reservation created", "reservation_id", rsv.ID,
		"resource_id", resourceID, "holder_id", holderID, "method", method)
	return rsv, nil
}

// resolveDuplicate implements the idempotent-retry contract: a live
// reservation still working through settlement is returned as-is, a confirmed
// one is a genuine duplicate.
func resolveDuplicate(existing *domain.Reservation) (*domain.Reservation, error) {
	switch existing.State {
	case domain.ReservationStateReserved, domain.ReservationStateAwaitingSettlement:
		return existing, nil
	default:
		return nil, domain.ErrDuplicateReservation
	}
}

func (s *registrationService) Settle(ctx context.Context, holderID, reservationID int64) (*SettlementOutcome, error) {
	rsv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rsv.HolderID != holderID {
		return nil, ErrUnauthorized
	}

	switch rsv.State {
	case domain.ReservationStateConfirmed:
		// Settle retry after success.
		return &SettlementOutcome{Reservation: rsv}, nil
	case domain.ReservationStateReleased, domain.ReservationStateRefunded:
		return nil, domain.ErrInvalidState
	case domain.ReservationStateReserved:
		won, err := s.reservationRepo.TransitionState(ctx, rsv.ID, domain.ReservationStateReserved, domain.ReservationStateAwaitingSettlement)
		if err != nil {
			return nil, err
		}
		if !won {
			// A concurrent settle or cancel moved it first; act on what it is now.
			rsv, err = s.reservationRepo.GetByID(ctx, reservationID)
			if err != nil {
				return nil, err
			}
			if rsv.State == domain.ReservationStateConfirmed {
				return &SettlementOutcome{Reservation: rsv}, nil
			}
			if rsv.State != domain.ReservationStateAwaitingSettlement {
				return nil, domain.ErrInvalidState
			}
		} else {
			s.audit(ctx, rsv.ID, domain.ReservationStateReserved, domain.ReservationStateAwaitingSettlement, holderID)
			rsv.State = domain.ReservationStateAwaitingSettlement
		}
	}

	if rsv.AmountCents == 0 {
		return s.confirmSettled(ctx, rsv, holderID, nil)
	}

	settler, err := s.settlerFor(rsv.Method)
	if err != nil {
		return nil, err
	}

	result, err := settler.Begin(ctx, rsv)
	if err != nil {
		// The capacity hold must never outlive a failed settlement.
		s.compensate(ctx, rsv, holderID)
		return nil, err
	}

	if err := s.reservationRepo.SetSettlement(ctx, rsv.ID, result.PaymentRef, rsv.AmountCents); err != nil {
		return nil, err
	}
	rsv.PaymentRef = &result.PaymentRef

	if result.Settled() {
		return s.confirmSettled(ctx, rsv, holderID, result.Receipt)
	}

	// Card rail: the reservation stays AWAITING_SETTLEMENT until the intent
	// confirmation re-enters through ConfirmCardPayment or the sweep expires it.
	return &SettlementOutcome{Reservation: rsv, ClientSecret: result.ClientSecret}, nil
}

func (s *registrationService) confirmSettled(ctx context.Context, rsv *domain.Reservation, actorID int64, receipt *payment.Receipt) (*SettlementOutcome, error) {
	won, err := s.reservationRepo.TransitionState(ctx, rsv.ID, domain.ReservationStateAwaitingSettlement, domain.ReservationStateConfirmed)
	if err != nil {
		return nil, err
	}
	if !won {
		// A cancel or the expiry sweep terminated the reservation between
		// the settlement and this confirmation. If money moved, hand it back.
		current, gerr := s.reservationRepo.GetByID(ctx, rsv.ID)
		if gerr != nil {
			return nil, gerr
		}
		if receipt != nil && current.Terminal() {
			if settler, serr := s.settlerFor(current.Method); serr == nil {
				if rerr := settler.Refund(ctx, current); rerr != nil {
					logger.ErrorContext(ctx, "failed to refund settlement that lost to a cancel",
						"reservation_id", current.ID, "error", rerr)
				}
			}
		}
		return &SettlementOutcome{Reservation: current, Receipt: receipt}, nil
	}

	s.audit(ctx, rsv.ID, domain.ReservationStateAwaitingSettlement, domain.ReservationStateConfirmed, actorID)
	rsv.State = domain.ReservationStateConfirmed
	now := time.Now()
	rsv.ResolvedOn = &now
	s.notifier.Notify(ctx, domain.TransitionEvent{
		Type:          domain.EventReservationConfirmed,
		ReservationID: rsv.ID,
		ResourceID:    rsv.ResourceID,
		HolderID:      rsv.HolderID,
	})
	return &SettlementOutcome{Reservation: rsv, Receipt: receipt}, nil
}

func (s *registrationService) ConfirmCardPayment(ctx context.Context, intentID string) (*domain.Reservation, error) {
	rsv, err := s.reservationRepo.GetByPaymentRef(ctx, intentID)
	if err != nil {
		return nil, err
	}

	switch rsv.State {
	case domain.ReservationStateConfirmed:
		// Webhook and redirect callback both land here; the second is a no-op.
		return rsv, nil
	case domain.ReservationStateReleased, domain.ReservationStateRefunded:
		return nil, domain.ErrIntentExpired
	case domain.ReservationStateAwaitingSettlement:
		// proceed
	default:
		return nil, domain.ErrInvalidState
	}

	receipt, err := s.card.Confirm(ctx, intentID)
	if err != nil {
		if errors.Is(err, domain.ErrCardDeclined) || errors.Is(err, domain.ErrIntentExpired) {
			s.compensate(ctx, rsv, rsv.HolderID)
		}
		return nil, err
	}

	outcome, err := s.confirmSettled(ctx, rsv, rsv.HolderID, receipt)
	if err != nil {
		return nil, err
	}
	if outcome.Reservation.State != domain.ReservationStateConfirmed {
		// The sweep released the hold between our state read and the gateway
		// confirmation. The charge went through with no slot to give; flag it
		// for reconciliation.
		current, gerr := s.reservationRepo.GetByID(ctx, rsv.ID)
		if gerr == nil && current.State == domain.ReservationStateConfirmed {
			return current, nil
		}
		logger.ErrorContext(ctx, "card settlement landed on a released reservation",
			"reservation_id", rsv.ID, "intent_id", intentID, "amount_cents", receipt.AmountCents)
		return nil, domain.ErrIntentExpired
	}
	return outcome.Reservation, nil
}

func (s *registrationService) Cancel(ctx context.Context, holderID, reservationID int64) (*domain.Reservation, error) {
	rsv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rsv.HolderID != holderID {
		return nil, ErrUnauthorized
	}

	switch rsv.State {
	case domain.ReservationStateReleased, domain.ReservationStateRefunded:
		// Already terminal; cancelling again is a no-op.
		return rsv, nil

	case domain.ReservationStateReserved, domain.ReservationStateAwaitingSettlement:
		won, err := s.reservationRepo.TransitionState(ctx, rsv.ID, rsv.State, domain.ReservationStateReleased)
		if err != nil {
			return nil, err
		}
		if !won {
			return s.reservationRepo.GetByID(ctx, reservationID)
		}
		s.releaseCapacity(ctx, rsv)
		s.audit(ctx, rsv.ID, rsv.State, domain.ReservationStateReleased, holderID)
		rsv.State = domain.ReservationStateReleased
		s.notifier.Notify(ctx, domain.TransitionEvent{
			Type:          domain.EventReservationReleased,
			ReservationID: rsv.ID,
			ResourceID:    rsv.ResourceID,
			HolderID:      rsv.HolderID,
			Attributes:    map[string]string{"reason": "cancelled"},
		})
		return rsv, nil

	case domain.ReservationStateConfirmed:
		won, err := s.reservationRepo.TransitionState(ctx, rsv.ID, domain.ReservationStateConfirmed, domain.ReservationStateRefunded)
		if err != nil {
			return nil, err
		}
		if !won {
			return s.reservationRepo.GetByID(ctx, reservationID)
		}
		s.releaseCapacity(ctx, rsv)
		if rsv.AmountCents > 0 {
			settler, serr := s.settlerFor(rsv.Method)
			if serr != nil {
				logger.ErrorContext(ctx, "no settler for refund", "reservation_id", rsv.ID, "method", rsv.Method)
			} else if err := settler.Refund(ctx, rsv); err != nil {
				logger.ErrorContext(ctx, "refund failed", "reservation_id", rsv.ID, "error", err)
			}
		}
		s.audit(ctx, rsv.ID, domain.ReservationStateConfirmed, domain.ReservationStateRefunded, holderID)
		rsv.State = domain.ReservationStateRefunded
		s.notifier.Notify(ctx, domain.TransitionEvent{
			Type:          domain.EventReservationRefunded,
			ReservationID: rsv.ID,
			ResourceID:    rsv.ResourceID,
			HolderID:      rsv.HolderID,
		})
		return rsv, nil

	default:
		return nil, domain.ErrInvalidState
	}
}

func (s *registrationService) ExpireStaleSettlements(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.settlementTimeout)
	stale, err := s.reservationRepo.ListAwaitingSettlementBefore(ctx, cutoff, s.sweepBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		rsv := &stale[i]
		won, err := s.reservationRepo.TransitionState(ctx, rsv.ID, domain.ReservationStateAwaitingSettlement, domain.ReservationStateReleased)
		if err != nil {
			logger.ErrorContext(ctx, "failed to expire reservation", "reservation_id", rsv.ID, "error", err)
			continue
		}
		if !won {
			// Settled or cancelled since the listing; nothing to do.
			continue
		}
		s.releaseCapacity(ctx, rsv)
		s.audit(ctx, rsv.ID, domain.ReservationStateAwaitingSettlement, domain.ReservationStateReleased, systemActorID)
		s.notifier.Notify(ctx, domain.TransitionEvent{
			Type:          domain.EventReservationReleased,
			ReservationID: rsv.ID,
			ResourceID:    rsv.ResourceID,
			HolderID:      rsv.HolderID,
			Attributes:    map[string]string{"reason": "settlement_timeout"},
		})
		expired++
	}
	return expired, nil
}

func (s *registrationService) GetReservation(ctx context.Context, holderID, reservationID int64) (*domain.Reservation, error) {
	rsv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rsv.HolderID != holderID {
		return nil, ErrUnauthorized
	}
	return rsv, nil
}

func (s *registrationService) ListReservations(ctx context.Context, holderID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return s.reservationRepo.ListByHolder(ctx, holderID, state, page, pageSize)
}

func (s *registrationService) ListResourceReservations(ctx context.Context, resourceID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		return nil, 0, err
	}
	return s.reservationRepo.ListByResource(ctx, resourceID, state, page, pageSize)
}

func (s *registrationService) ListTransitions(ctx context.Context, reservationID int64) ([]domain.Transition, error) {
	return s.reservationRepo.ListTransitions(ctx, reservationID)
}

func (s *registrationService) settlerFor(method domain.PaymentMethod) (payment.Settler, error) {
	switch method {
	case domain.PaymentMethodWallet:
		return s.wallet, nil
	case domain.PaymentMethodCard:
		return s.card, nil
	default:
		return nil, fmt.Errorf("no settlement rail for method %s", method)
	}
}

// compensate rolls an AWAITING_SETTLEMENT reservation back to RELEASED and
// returns the held capacity. Losing the transition race means someone else
// already terminated the reservation, so there is nothing left to undo.
func (s *registrationService) compensate(ctx context.Context, rsv *domain.Reservation, actorID int64) {
	won, err := s.reservationRepo.TransitionState(ctx, rsv.ID, domain.ReservationStateAwaitingSettlement, domain.ReservationStateReleased)
	if err != nil {
		logger.ErrorContext(ctx, "failed to release reservation after settlement failure",
			"reservation_id", rsv.ID, "error", err)
		return
	}
	if !won {
		return
	}
	s.releaseCapacity(ctx, rsv)
	s.audit(ctx, rsv.ID, domain.ReservationStateAwaitingSettlement, domain.ReservationStateReleased, actorID)
	rsv.State = domain.ReservationStateReleased
	s.notifier.Notify(ctx, domain.TransitionEvent{
		Type:          domain.EventReservationReleased,
		ReservationID: rsv.ID,
		ResourceID:    rsv.ResourceID,
		HolderID:      rsv.HolderID,
		Attributes:    map[string]string{"reason": "settlement_failed"},
	})
}

func (s *registrationService) releaseCapacity(ctx context.Context, rsv *domain.Reservation) {
	if err := s.resourceRepo.Release(ctx, rsv.ResourceID, rsv.Quantity); err != nil {
		logger.ErrorContext(ctx, "failed to release capacity",
			"resource_id", rsv.ResourceID, "reservation_id", rsv.ID, "error", err)
	}
}

func (s *registrationService) audit(ctx context.Context, reservationID int64, from, to domain.ReservationState, actorID int64) {
	err := s.reservationRepo.RecordTransition(ctx, &domain.Transition{
		ReservationID: reservationID,
		FromState:     from,
		ToState:       to,
		ActorID:       actorID,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to record transition",
			"reservation_id", reservationID, "from", from, "to", to, "error", err)
	}
}
