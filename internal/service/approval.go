package service

import (
	"context"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/logger"
	"campus-reserve-backend/internal/notifier"
	"campus-reserve-backend/internal/repository"
)

// approvalService layers the administrator decision gate on top of the
// registration engine. Booth capacity is taken speculatively at submission;
// the decision only settles (approve) or releases (reject) the claim.
type approvalService struct {
	approvalRepo    repository.ApprovalRepository
	reservationRepo repository.ReservationRepository
	resourceRepo    repository.ResourceRepository
	registration    RegistrationService
	notifier        notifier.Notifier
}

func NewApprovalService(
	approvalRepo repository.ApprovalRepository,
	reservationRepo repository.ReservationRepository,
	resourceRepo repository.ResourceRepository,
	registration RegistrationService,
	notif notifier.Notifier,
) ApprovalService {
	return &approvalService{
		approvalRepo:    approvalRepo,
		reservationRepo: reservationRepo,
		resourceRepo:    resourceRepo,
		registration:    registration,
		notifier:        notif,
	}
}

func (s *approvalService) SubmitBoothApplication(ctx context.Context, resourceID, holderID int64, note string) (*domain.ApprovalCase, *domain.Reservation, error) {
	ac := &domain.ApprovalCase{
		Kind:     domain.ApprovalKindBoothApplication,
		HolderID: holderID,
		Status:   domain.ApprovalStatusPending,
		Note:     note,
	}

	// The capacity claim and the PENDING case commit or roll back together.
	// A claim without a case could never reach a decision, and the expiry
	// sweep does not cover RESERVED holds.
	var rsv *domain.Reservation
	err := s.reservationRepo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		// Approval settlement is always free; money never gates a booth claim.
		rsv, err = s.registration.Submit(txCtx, resourceID, holderID, 1, domain.PaymentMethodNone)
		if err != nil {
			return err
		}
		ac.ReservationID = &rsv.ID
		return s.approvalRepo.Create(txCtx, ac)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.InfoContext(ctx, "booth application submitted",
		"case_id", ac.ID, "reservation_id", rsv.ID, "holder_id", holderID)
	return ac, rsv, nil
}

func (s *approvalService) SubmitAccountVerification(ctx context.Context, holderID int64, note string) (*domain.ApprovalCase, error) {
	ac := &domain.ApprovalCase{
		Kind:     domain.ApprovalKindAccountVerification,
		HolderID: holderID,
		Status:   domain.ApprovalStatusPending,
		Note:     note,
	}
	if err := s.approvalRepo.Create(ctx, ac); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "account verification requested", "case_id", ac.ID, "holder_id", holderID)
	return ac, nil
}

func (s *approvalService) Approve(ctx context.Context, adminID, caseID int64) (*domain.ApprovalCase, error) {
	return s.decide(ctx, adminID, caseID, domain.ApprovalStatusApproved)
}

func (s *approvalService) Reject(ctx context.Context, adminID, caseID int64) (*domain.ApprovalCase, error) {
	return s.decide(ctx, adminID, caseID, domain.ApprovalStatusRejected)
}

func (s *approvalService) decide(ctx context.Context, adminID, caseID int64, status domain.ApprovalStatus) (*domain.ApprovalCase, error) {
	won, err := s.approvalRepo.Decide(ctx, caseID, status, adminID)
	if err != nil {
		return nil, err
	}

	ac, err := s.approvalRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !won {
		// Repeating the decision already taken is a no-op; contradicting it
		// is an error.
		if ac.Status == status {
			return ac, nil
		}
		return nil, domain.ErrAlreadyResolved
	}

	if ac.ReservationID != nil {
		switch status {
		case domain.ApprovalStatusApproved:
			s.confirmClaim(ctx, *ac.ReservationID, adminID)
		case domain.ApprovalStatusRejected:
			s.releaseClaim(ctx, *ac.ReservationID, adminID)
		}
	}

	eventType := domain.EventApprovalApproved
	if status == domain.ApprovalStatusRejected {
		eventType = domain.EventApprovalRejected
	}
	event := domain.TransitionEvent{
		Type:       eventType,
		ApprovalID: ac.ID,
		HolderID:   ac.HolderID,
	}
	if ac.ReservationID != nil {
		event.ReservationID = *ac.ReservationID
	}
	s.notifier.Notify(ctx, event)

	logger.InfoContext(ctx, "approval case decided", "case_id", caseID, "status", status, "admin_id", adminID)
	return ac, nil
}

// confirmClaim walks the free reservation under an approved case to
// CONFIRMED. The claim was submitted free, so there is nothing to settle.
func (s *approvalService) confirmClaim(ctx context.Context, reservationID, adminID int64) {
	won, err := s.reservationRepo.TransitionState(ctx, reservationID, domain.ReservationStateReserved, domain.ReservationStateAwaitingSettlement)
	if err != nil || !won {
		if err != nil {
			logger.ErrorContext(ctx, "failed to advance approved claim", "reservation_id", reservationID, "error", err)
		}
		return
	}
	s.auditTransition(ctx, reservationID, domain.ReservationStateReserved, domain.ReservationStateAwaitingSettlement, adminID)

	won, err = s.reservationRepo.TransitionState(ctx, reservationID, domain.ReservationStateAwaitingSettlement, domain.ReservationStateConfirmed)
	if err != nil || !won {
		if err != nil {
			logger.ErrorContext(ctx, "failed to confirm approved claim", "reservation_id", reservationID, "error", err)
		}
		return
	}
	s.auditTransition(ctx, reservationID, domain.ReservationStateAwaitingSettlement, domain.ReservationStateConfirmed, adminID)
}

// releaseClaim returns the speculatively held capacity of a rejected case.
// No-op when the holder already cancelled the underlying reservation.
func (s *approvalService) releaseClaim(ctx context.Context, reservationID, adminID int64) {
	rsv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load rejected claim", "reservation_id", reservationID, "error", err)
		return
	}
	if rsv.Terminal() {
		return
	}

	won, err := s.reservationRepo.TransitionState(ctx, reservationID, rsv.State, domain.ReservationStateReleased)
	if err != nil {
		logger.ErrorContext(ctx, "failed to release rejected claim", "reservation_id", reservationID, "error", err)
		return
	}
	if !won {
		return
	}
	if err := s.resourceRepo.Release(ctx, rsv.ResourceID, rsv.Quantity); err != nil {
		logger.ErrorContext(ctx, "failed to release capacity for rejected claim",
			"resource_id", rsv.ResourceID, "reservation_id", reservationID, "error", err)
	}
	s.auditTransition(ctx, reservationID, rsv.State, domain.ReservationStateReleased, adminID)
}

func (s *approvalService) auditTransition(ctx context.Context, reservationID int64, from, to domain.ReservationState, actorID int64) {
	err := s.reservationRepo.RecordTransition(ctx, &domain.Transition{
		ReservationID: reservationID,
		FromState:     from,
		ToState:       to,
		ActorID:       actorID,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to record transition", "reservation_id", reservationID, "error", err)
	}
}

func (s *approvalService) GetCase(ctx context.Context, caseID int64) (*domain.ApprovalCase, error) {
	return s.approvalRepo.GetByID(ctx, caseID)
}

func (s *approvalService) ListPending(ctx context.Context, kind string, page, pageSize int32) ([]domain.ApprovalCase, int32, error) {
	return s.approvalRepo.ListPending(ctx, kind, page, pageSize)
}

func (s *approvalService) ListByHolder(ctx context.Context, holderID int64) ([]domain.ApprovalCase, error) {
	return s.approvalRepo.ListByHolder(ctx, holderID)
}
