package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/sunpay/installment-service/internal/domain"
)

// MockPlanRepository is a mock implementation of PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, planID string) (*domain.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *domain.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) FindByStatusDueBefore(ctx context.Context, status domain.PlanStatus, cutoff time.Time, limit, offset int) ([]*domain.Plan, error) {
	args := m.Called(ctx, status, cutoff, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Plan), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ClaimTransactionReference(ctx context.Context, txRef string) (bool, error) {
	args := m.Called(ctx, txRef)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) ReleaseTransactionReference(ctx context.Context, txRef string) error {
	args := m.Called(ctx, txRef)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByTransactionReference(ctx context.Context, txRef string) (*domain.Payment, error) {
	args := m.Called(ctx, txRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ExistsByTransactionReference(ctx context.Context, txRef string) (bool, error) {
	args := m.Called(ctx, txRef)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) FindByPlanID(ctx context.Context, planID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByPlanIDWithPagination(ctx context.Context, planID string, limit, offset int) ([]*domain.Payment, error) {
	args := m.Called(ctx, planID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountByPlanID(ctx context.Context, planID string) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type sentMessage struct {
	phone   string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, phone, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{phone: phone, message: message})
	return nil
}

func (n *recordingNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type reminderKey struct {
	planID  string
	dueDate string
	stage   string
}

type memReminderLog struct {
	mu      sync.Mutex
	claimed map[reminderKey]bool
}

func newMemReminderLog() *memReminderLog {
	return &memReminderLog{claimed: make(map[reminderKey]bool)}
}

func (l *memReminderLog) Claim(_ context.Context, planID string, dueDate time.Time, stage string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := reminderKey{planID: planID, dueDate: dueDate.Format("2006-01-02"), stage: stage}
	if l.claimed[key] {
		return false, nil
	}
	l.claimed[key] = true
	return true, nil
}

func (l *memReminderLog) Release(_ context.Context, planID string, dueDate time.Time, stage string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claimed, reminderKey{planID: planID, dueDate: dueDate.Format("2006-01-02"), stage: stage})
	return nil
}
