package service

import (
	"context"
	"time"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/payment"

	"github.com/stretchr/testify/mock"
)

// MockResourceRepo
type MockResourceRepo struct {
	mock.Mock
}

func (m *MockResourceRepo) Create(ctx context.Context, res *domain.CapacityResource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockResourceRepo) GetByID(ctx context.Context, id int64) (*domain.CapacityResource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapacityResource), args.Error(1)
}
func (m *MockResourceRepo) List(ctx context.Context, kind string, page, pageSize int32) ([]domain.CapacityResource, int32, error) {
	args := m.Called(ctx, kind, page, pageSize)
	return args.Get(0).([]domain.CapacityResource), args.Get(1).(int32), args.Error(2)
}
func (m *MockResourceRepo) Archive(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockResourceRepo) TryReserve(ctx context.Context, resourceID int64, quantity int32) error {
	args := m.Called(ctx, resourceID, quantity)
	return args.Error(0)
}
func (m *MockResourceRepo) Release(ctx context.Context, resourceID int64, quantity int32) error {
	args := m.Called(ctx, resourceID, quantity)
	return args.Error(0)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
func (m *MockReservationRepo) Create(ctx context.Context, rsv *domain.Reservation) error {
	args := m.Called(ctx, rsv)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetLive(ctx context.Context, resourceID, holderID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, resourceID, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetByPaymentRef(ctx context.Context, ref string) (*domain.Reservation, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) TransitionState(ctx context.Context, id int64, from, to domain.ReservationState) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) SetSettlement(ctx context.Context, id int64, paymentRef string, amountCents int64) error {
	args := m.Called(ctx, id, paymentRef, amountCents)
	return args.Error(0)
}
func (m *MockReservationRepo) RecordTransition(ctx context.Context, tr *domain.Transition) error {
	args := m.Called(ctx, tr)
	return args.Error(0)
}
func (m *MockReservationRepo) ListTransitions(ctx context.Context, reservationID int64) ([]domain.Transition, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).([]domain.Transition), args.Error(1)
}
func (m *MockReservationRepo) ListByHolder(ctx context.Context, holderID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, holderID, state, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) ListByResource(ctx context.Context, resourceID int64, state string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, resourceID, state, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) ListAwaitingSettlementBefore(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) CreateAccount(ctx context.Context, holderID int64) error {
	args := m.Called(ctx, holderID)
	return args.Error(0)
}
func (m *MockWalletRepo) GetAccount(ctx context.Context, holderID int64) (*domain.WalletAccount, error) {
	args := m.Called(ctx, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletAccount), args.Error(1)
}
func (m *MockWalletRepo) Debit(ctx context.Context, entry *domain.WalletEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockWalletRepo) Credit(ctx context.Context, entry *domain.WalletEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockWalletRepo) ListEntries(ctx context.Context, holderID int64, page, pageSize int32) ([]domain.WalletEntry, int32, error) {
	args := m.Called(ctx, holderID, page, pageSize)
	return args.Get(0).([]domain.WalletEntry), args.Get(1).(int32), args.Error(2)
}

// MockApprovalRepo
type MockApprovalRepo struct {
	mock.Mock
}

func (m *MockApprovalRepo) Create(ctx context.Context, ac *domain.ApprovalCase) error {
	args := m.Called(ctx, ac)
	return args.Error(0)
}
func (m *MockApprovalRepo) GetByID(ctx context.Context, id int64) (*domain.ApprovalCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalCase), args.Error(1)
}
func (m *MockApprovalRepo) Decide(ctx context.Context, id int64, status domain.ApprovalStatus, adminID int64) (bool, error) {
	args := m.Called(ctx, id, status, adminID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApprovalRepo) ListPending(ctx context.Context, kind string, page, pageSize int32) ([]domain.ApprovalCase, int32, error) {
	args := m.Called(ctx, kind, page, pageSize)
	return args.Get(0).([]domain.ApprovalCase), args.Get(1).(int32), args.Error(2)
}
func (m *MockApprovalRepo) ListByHolder(ctx context.Context, holderID int64) ([]domain.ApprovalCase, error) {
	args := m.Called(ctx, holderID)
	return args.Get(0).([]domain.ApprovalCase), args.Error(1)
}

// MockSettler
type MockSettler struct {
	mock.Mock
	method domain.PaymentMethod
}

func (m *MockSettler) Method() domain.PaymentMethod {
	return m.method
}
func (m *MockSettler) Begin(ctx context.Context, rsv *domain.Reservation) (*payment.Result, error) {
	args := m.Called(ctx, rsv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Result), args.Error(1)
}
func (m *MockSettler) Refund(ctx context.Context, rsv *domain.Reservation) error {
	args := m.Called(ctx, rsv)
	return args.Error(0)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, amountCents int64, currency string) (*payment.Intent, error) {
	args := m.Called(ctx, amountCents, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}
func (m *MockGateway) ConfirmIntent(ctx context.Context, intentID string) (*payment.Receipt, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Receipt), args.Error(1)
}

// MockNotifier records published events for assertions.
type MockNotifier struct {
	Events []domain.TransitionEvent
}

func (m *MockNotifier) Notify(ctx context.Context, event domain.TransitionEvent) {
	m.Events = append(m.Events, event)
}
func (m *MockNotifier) Close() error { return nil }
