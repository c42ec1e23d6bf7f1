package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"sanasa-loans/domain"
	"sanasa-loans/repository"
)

type MockCache struct {
	mu         sync.Mutex
	Data       map[string]string
	Gets       int
	Sets       int
	ForceError bool
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string]string)}
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.ForceError {
		return errors.New("cache unavailable")
	}
	m.Data[key] = value
	return nil
}

// MockLoanApplicationRepository wraps the memory repository and can be told
// to fail writes.
type MockLoanApplicationRepository struct {
	*repository.LoanApplicationMemory
	CreateCalled bool
	ForceError   bool
}

func NewMockLoanApplicationRepository() *MockLoanApplicationRepository {
	return &MockLoanApplicationRepository{LoanApplicationMemory: repository.NewLoanApplicationMemory()}
}

func (m *MockLoanApplicationRepository) Create(
	ctx context.Context,
	app domain.LoanApplication,
) (domain.LoanApplication, error) {
	m.CreateCalled = true
	if m.ForceError {
		return domain.LoanApplication{}, errors.New("save error")
	}
	return m.LoanApplicationMemory.Create(ctx, app)
}
