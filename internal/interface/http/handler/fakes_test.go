package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sunpay/installment-service/internal/domain"
)

type memPlanRepository struct {
	mu    sync.Mutex
	plans map[string]domain.Plan
}

func newMemPlanRepository(plans ...*domain.Plan) *memPlanRepository {
	repo := &memPlanRepository{plans: make(map[string]domain.Plan)}
	for _, p := range plans {
		repo.plans[p.ID] = *p
	}
	return repo
}

func (r *memPlanRepository) FindByID(_ context.Context, id string) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return &p, nil
}

func (r *memPlanRepository) Create(_ context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; ok {
		return domain.ErrPlanExists
	}
	r.plans[plan.ID] = *plan
	return nil
}

func (r *memPlanRepository) Save(_ context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.plans[plan.ID]
	if !ok {
		return domain.ErrPlanNotFound
	}
	if stored.Version != plan.Version {
		return domain.ErrOptimisticLock
	}
	plan.Version++
	r.plans[plan.ID] = *plan
	return nil
}

func (r *memPlanRepository) FindByStatusDueBefore(_ context.Context, status domain.PlanStatus, cutoff time.Time, limit, offset int) ([]*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Plan
	for _, p := range r.plans {
		if p.Status == status && !p.DueDate.After(cutoff) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memPaymentRepository struct {
	mu       sync.Mutex
	payments []*domain.Payment
	claims   map[string]bool

	// beforeClaim, when set, runs ahead of every claim outside the lock.
	beforeClaim func()
}

func (r *memPaymentRepository) ClaimTransactionReference(_ context.Context, txRef string) (bool, error) {
	if r.beforeClaim != nil {
		r.beforeClaim()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claims[txRef] {
		return false, nil
	}
	for _, p := range r.payments {
		if p.TransactionReference == txRef {
			return false, nil
		}
	}
	if r.claims == nil {
		r.claims = make(map[string]bool)
	}
	r.claims[txRef] = true
	return true, nil
}

func (r *memPaymentRepository) ReleaseTransactionReference(_ context.Context, txRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claims, txRef)
	return nil
}

func (r *memPaymentRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

func (r *memPaymentRepository) Save(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.TransactionReference == payment.TransactionReference {
			return domain.ErrDuplicateTransaction
		}
	}
	if payment.ID == "" {
		payment.ID = "payment-" + payment.TransactionReference
	}
	r.payments = append(r.payments, payment)
	return nil
}

func (r *memPaymentRepository) FindByTransactionReference(_ context.Context, txRef string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.TransactionReference == txRef {
			return p, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *memPaymentRepository) ExistsByTransactionReference(ctx context.Context, txRef string) (bool, error) {
	_, err := r.FindByTransactionReference(ctx, txRef)
	return err == nil, nil
}

func (r *memPaymentRepository) FindByPlanID(_ context.Context, planID string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if p.PlanID == planID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TransactionDate.After(out[j].TransactionDate) })
	return out, nil
}

func (r *memPaymentRepository) FindByPlanIDWithPagination(ctx context.Context, planID string, limit, offset int) ([]*domain.Payment, error) {
	all, _ := r.FindByPlanID(ctx, planID)
	if offset >= len(all) {
		return []*domain.Payment{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memPaymentRepository) CountByPlanID(ctx context.Context, planID string) (int64, error) {
	all, _ := r.FindByPlanID(ctx, planID)
	return int64(len(all)), nil
}
