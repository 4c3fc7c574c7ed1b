package http

import (
	"context"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/security"
	"campus-reserve-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// stubVerifier swaps real token parsing for canned claims.
type stubVerifier struct {
	claims *security.UserClaims
	err    error
}

func (s *stubVerifier) ValidateToken(tokenString string) (*security.UserClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

// MockRegistrationService
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Submit(ctx context.Context, resourceID, holderID int64, quantity int32, method domain.PaymentMethod) (*domain.Reservation, error) {
	args := m.Called(ctx, resourceID, holderID, quantity, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockRegistrationService) Settle(ctx context.Context, holderID, reservationID int64) (*service.SettlementOutcome, error) {
	args := m.Called(ctx, holderID, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SettlementOutcome), args.Error(1)
}
func (m *MockRegistrationService) ConfirmCardPayment(ctx context.Context, intentID string) (*domain.Reservation, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockRegistrationService) Cancel(ctx context.Context, holderID, reservationID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, holderID, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockRegistrationService) ExpireStaleSettlements(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockRegistrationService) GetReservation(ctx context.Context, holderID, reservationID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, holderID, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockRegistrationService) ListReservations(ctx context.Context, holderID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, holderID, state, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockRegistrationService) ListResourceReservations(ctx context.Context, resourceID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, resourceID, state, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockRegistrationService) ListTransitions(ctx context.Context, reservationID int64) ([]domain.Transition, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).([]domain.Transition), args.Error(1)
}

// MockApprovalService
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) SubmitBoothApplication(ctx context.Context, resourceID, holderID int64, note string) (*domain.ApprovalCase, *domain.Reservation, error) {
	args := m.Called(ctx, resourceID, holderID, note)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ApprovalCase), args.Get(1).(*domain.Reservation), args.Error(2)
}
func (m *MockApprovalService) SubmitAccountVerification(ctx context.Context, holderID int64, note string) (*domain.ApprovalCase, error) {
	args := m.Called(ctx, holderID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalCase), args.Error(1)
}
func (m *MockApprovalService) Approve(ctx context.Context, adminID, caseID int64) (*domain.ApprovalCase, error) {
	args := m.Called(ctx, adminID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalCase), args.Error(1)
}
func (m *MockApprovalService) Reject(ctx context.Context, adminID, caseID int64) (*domain.ApprovalCase, error) {
	args := m.Called(ctx, adminID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalCase), args.Error(1)
}
func (m *MockApprovalService) GetCase(ctx context.Context, caseID int64) (*domain.ApprovalCase, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalCase), args.Error(1)
}
func (m *MockApprovalService) ListPending(ctx context.Context, kind string, page, pageSize int32) ([]domain.ApprovalCase, int32, error) {
	args := m.Called(ctx, kind, page, pageSize)
	return args.Get(0).([]domain.ApprovalCase), args.Get(1).(int32), args.Error(2)
}
func (m *MockApprovalService) ListByHolder(ctx context.Context, holderID int64) ([]domain.ApprovalCase, error) {
	args := m.Called(ctx, holderID)
	return args.Get(0).([]domain.ApprovalCase), args.Error(1)
}

// MockWalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetBalance(ctx context.Context, holderID int64) (int64, error) {
	args := m.Called(ctx, holderID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockWalletService) ListEntries(ctx context.Context, holderID int64, page, pageSize int32) ([]domain.WalletEntry, int32, error) {
	args := m.Called(ctx, holderID, page, pageSize)
	return args.Get(0).([]domain.WalletEntry), args.Get(1).(int32), args.Error(2)
}
func (m *MockWalletService) TopUp(ctx context.Context, adminID, holderID, amountCents int64, description string) (*domain.WalletEntry, error) {
	args := m.Called(ctx, adminID, holderID, amountCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletEntry), args.Error(1)
}

// MockResourceService
type MockResourceService struct {
	mock.Mock
}

func (m *MockResourceService) CreateResource(ctx context.Context, res *domain.CapacityResource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockResourceService) GetResource(ctx context.Context, id int64) (*domain.CapacityResource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapacityResource), args.Error(1)
}
func (m *MockResourceService) ListResources(ctx context.Context, kind string, page, pageSize int32) ([]domain.CapacityResource, int32, error) {
	args := m.Called(ctx, kind, page, pageSize)
	return args.Get(0).([]domain.CapacityResource), args.Get(1).(int32), args.Error(2)
}
func (m *MockResourceService) ArchiveResource(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
