package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"sanasa-loans/domain"
)

var ErrNotFound = errors.New("loan application not found")

// LoanApplicationRepository persists loan applications.
type LoanApplicationRepository interface {
	Create(ctx context.Context, app domain.LoanApplication) (domain.LoanApplication, error)
	Update(ctx context.Context, app domain.LoanApplication) (domain.LoanApplication, error)
	GetByID(ctx context.Context, id string) (domain.LoanApplication, error)
	// List returns one page of applications, newest first, and the total
	// number matching the filter.
	List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.LoanApplication, int, error)
	// CountCreatedBetween counts applications with from <= createdAt < to.
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

func pageBounds(total, page, limit int) (int, int) {
	if page < 1 || limit < 1 {
		return 0, 0
	}
	if page-1 > total/limit {
		return total, total
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
