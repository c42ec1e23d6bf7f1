package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"sanasa-loans/domain"
)

// LoanApplicationMemory is an in-memory implementation of LoanApplicationRepository.
type LoanApplicationMemory struct {
	mu   sync.RWMutex
	data map[string]domain.LoanApplication
}

var _ LoanApplicationRepository = (*LoanApplicationMemory)(nil)

// NewLoanApplicationMemory creates a new in-memory loan application repository.
func NewLoanApplicationMemory() *LoanApplicationMemory {
	return &LoanApplicationMemory{
		data: make(map[string]domain.LoanApplication),
	}
}

// Create stores the application in memory.
func (r *LoanApplicationMemory) Create(_ context.Context, app domain.LoanApplication) (domain.LoanApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[app.ID] = app
	return app, nil
}

func (r *LoanApplicationMemory) Update(_ context.Context, app domain.LoanApplication) (domain.LoanApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[app.ID]; !ok {
		return domain.LoanApplication{}, ErrNotFound
	}
	r.data[app.ID] = app
	return app, nil
}

func (r *LoanApplicationMemory) GetByID(_ context.Context, id string) (domain.LoanApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[id]
	if !ok {
		return domain.LoanApplication{}, ErrNotFound
	}
	return app, nil
}

func (r *LoanApplicationMemory) List(_ context.Context, filter domain.ApplicationFilter) ([]domain.LoanApplication, int, error) {
	r.mu.RLock()
	matched := make([]domain.LoanApplication, 0, len(r.data))
	for _, app := range r.data {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		matched = append(matched, app)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ApplicationNumber > matched[j].ApplicationNumber
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start, end := pageBounds(len(matched), filter.Page, filter.Limit)
	return matched[start:end], len(matched), nil
}

func (r *LoanApplicationMemory) CountCreatedBetween(_ context.Context, from, to time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, app := range r.data {
		if !app.CreatedAt.Before(from) && app.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}
