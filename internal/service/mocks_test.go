package service_test

import (
	"context"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/repository"
	"kioskrent-backend/internal/verify"

	"github.com/stretchr/testify/mock"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, r *domain.Rental) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) List(ctx context.Context, f repository.RentalFilter) ([]domain.Rental, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Rental), args.Get(1).(int64), args.Error(2)
}
func (m *MockRentalRepo) TransitionStatus(ctx context.Context, id string, from, to domain.RentalStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockRentalRepo) MarkDeposited(ctx context.Context, id, lockerID string) error {
	args := m.Called(ctx, id, lockerID)
	return args.Error(0)
}
func (m *MockRentalRepo) MarkClaimed(ctx context.Context, id, lockerID string) error {
	args := m.Called(ctx, id, lockerID)
	return args.Error(0)
}
func (m *MockRentalRepo) MarkReturned(ctx context.Context, id, lockerID, verificationID string) error {
	args := m.Called(ctx, id, lockerID, verificationID)
	return args.Error(0)
}
func (m *MockRentalRepo) ListActiveEndingBy(ctx context.Context, cutoff time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByVerificationID(ctx context.Context, verificationID string) (*domain.Rental, error) {
	args := m.Called(ctx, verificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

// MockLockerRepo
type MockLockerRepo struct {
	mock.Mock
}

func (m *MockLockerRepo) GetByID(ctx context.Context, id string) (*domain.Locker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Locker), args.Error(1)
}
func (m *MockLockerRepo) Acquire(ctx context.Context, lockerID, rentalID string) error {
	args := m.Called(ctx, lockerID, rentalID)
	return args.Error(0)
}
func (m *MockLockerRepo) Release(ctx context.Context, lockerID string) error {
	args := m.Called(ctx, lockerID)
	return args.Error(0)
}
func (m *MockLockerRepo) ListAvailable(ctx context.Context, kioskID string, size domain.LockerSize) ([]domain.Locker, error) {
	args := m.Called(ctx, kioskID, size)
	return args.Get(0).([]domain.Locker), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) Confirm(ctx context.Context, id, externalReference string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, id, externalReference, paidAt)
	return args.Bool(0), args.Error(1)
}
func (m *MockTransactionRepo) MarkRefunded(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}
func (m *MockTransactionRepo) ListByRental(ctx context.Context, rentalID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockVerificationRepo
type MockVerificationRepo struct {
	mock.Mock
}

func (m *MockVerificationRepo) Create(ctx context.Context, v *domain.Verification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVerificationRepo) GetByID(ctx context.Context, id string) (*domain.Verification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}
func (m *MockVerificationRepo) UpdateResult(ctx context.Context, v *domain.Verification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVerificationRepo) ListUnresolvedBefore(ctx context.Context, cutoff time.Time) ([]domain.Verification, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Verification), args.Error(1)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEngine
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Verify(ctx context.Context, originalImages, kioskImages []string, attemptNumber int) (*verify.Result, error) {
	args := m.Called(ctx, originalImages, kioskImages, attemptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verify.Result), args.Error(1)
}

// MockCoordinator
type MockCoordinator struct {
	mock.Mock
}

func (m *MockCoordinator) VerifyReturn(ctx context.Context, item *domain.Item, kioskImages []string) (*domain.Verification, error) {
	args := m.Called(ctx, item, kioskImages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}
func (m *MockCoordinator) ApplyDecision(ctx context.Context, rental *domain.Rental, v *domain.Verification) error {
	args := m.Called(ctx, rental, v)
	return args.Error(0)
}
func (m *MockCoordinator) RetryUnresolved(ctx context.Context, olderThan time.Duration) error {
	args := m.Called(ctx, olderThan)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n *domain.Notification) {
	m.Called(ctx, n)
}
