package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sanasa-loans/amortization"
	"sanasa-loans/domain"
	"sanasa-loans/repository"
)

// CalculatorService serves installment plans, caching computed plans by terms.
type CalculatorService struct {
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCalculatorService creates a CalculatorService that keeps plans in cache
// for ttl.
func NewCalculatorService(cache repository.CacheRepository, ttl time.Duration, logger *zap.Logger) *CalculatorService {
	return &CalculatorService{cache: cache, ttl: ttl, logger: logger}
}

// Calculate validates terms and returns their installment plan.
func (s *CalculatorService) Calculate(
	ctx context.Context,
	terms domain.LoanTerms,
	mode amortization.Mode,
) (domain.InstallmentPlan, error) {
	if err := ValidateTerms(terms); err != nil {
		return domain.InstallmentPlan{}, err
	}
	return s.plan(ctx, terms, mode), nil
}

// Preview returns the sampled plan shown by the interactive calculator. Out of
// range terms are not rejected; they produce the zero plan without touching
// the cache.
func (s *CalculatorService) Preview(ctx context.Context, terms domain.LoanTerms) domain.InstallmentPlan {
	if ValidateTerms(terms) != nil || amortization.Payment(terms) == 0 {
		return amortization.Compute(domain.LoanTerms{}, amortization.SampledSchedule)
	}
	return s.plan(ctx, terms, amortization.SampledSchedule)
}

func (s *CalculatorService) plan(ctx context.Context, terms domain.LoanTerms, mode amortization.Mode) domain.InstallmentPlan {
	key := cacheKey(terms, mode)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var plan domain.InstallmentPlan
		err := json.Unmarshal([]byte(cached), &plan)
		if err == nil {
			return plan
		}
		s.logger.Warn("discarding undecodable cached plan", zap.String("key", key), zap.Error(err))
	}

	plan := amortization.Compute(terms, mode)

	// caching is best effort
	data, err := json.Marshal(plan)
	if err != nil {
		s.logger.Warn("failed to encode plan", zap.String("key", key), zap.Error(err))
		return plan
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		s.logger.Warn("failed to cache plan", zap.String("key", key), zap.Error(err))
	}
	return plan
}

func cacheKey(terms domain.LoanTerms, mode amortization.Mode) string {
	return fmt.Sprintf("plan:%s:%g:%g:%d", mode, terms.Principal, terms.AnnualRatePercent, terms.TenureMonths)
}

// ValidateTerms rejects terms the calculator does not serve. Unlike the
// engine, a zero rate is an error here.
func ValidateTerms(terms domain.LoanTerms) error {
	var flds []FieldError

	switch {
	case !(terms.Principal > 0):
		flds = append(flds, FieldError{Field: "principal", Error: "principal must be greater than 0"})
	case terms.Principal > MaxLoanAmount:
		flds = append(flds, FieldError{Field: "principal", Error: fmt.Sprintf("principal exceeds the maximum of %.2f", MaxLoanAmount)})
	}

	switch {
	case !(terms.AnnualRatePercent > 0):
		flds = append(flds, FieldError{Field: "rate", Error: "rate must be greater than 0"})
	case terms.AnnualRatePercent > MaxInterestRate:
		flds = append(flds, FieldError{Field: "rate", Error: fmt.Sprintf("rate exceeds the maximum of %.2f%%", MaxInterestRate)})
	}

	switch {
	case terms.TenureMonths < MinTermMonths:
		flds = append(flds, FieldError{Field: "tenure", Error: fmt.Sprintf("tenure must be at least %d month", MinTermMonths)})
	case terms.TenureMonths > MaxTermMonths:
		flds = append(flds, FieldError{Field: "tenure", Error: fmt.Sprintf("tenure exceeds the maximum of %d months", MaxTermMonths)})
	}

	if len(flds) > 0 {
		return NewValidationError(errors.New("invalid loan terms"), flds...)
	}
	return nil
}
