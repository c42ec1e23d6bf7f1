package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sanasa-loans/amortization"
	"sanasa-loans/domain"
)

const (
	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"
)

// TenureAdvisorService ranks the tenures whose installment fits a monthly budget.
type TenureAdvisorService struct {
	calculator *CalculatorService
	validator  *Validator
	logger     *zap.Logger
}

func NewTenureAdvisorService(calculator *CalculatorService, validator *Validator, logger *zap.Logger) *TenureAdvisorService {
	return &TenureAdvisorService{
		calculator: calculator,
		validator:  validator,
		logger:     logger,
	}
}

// Recommend evaluates every tenure in the requested range and returns the
// affordable ones, best first.
func (s *TenureAdvisorService) Recommend(
	ctx context.Context,
	input domain.TenureRecommendationInput,
) (domain.TenureRecommendationResult, error) {
	if err := s.validator.Validate(input); err != nil {
		return domain.TenureRecommendationResult{}, err
	}
	if input.MaxTenureMonths > MaxTermMonths {
		return domain.TenureRecommendationResult{}, NewValidationError(nil, FieldError{
			Field: "maxTenure",
			Error: fmt.Sprintf("maxTenure exceeds the limit of %d months", MaxTermMonths),
		})
	}
	// keep the number of evaluated plans bounded
	if input.MaxTenureMonths-input.MinTenureMonths > MaxTermRangeMonths {
		return domain.TenureRecommendationResult{}, NewValidationError(nil, FieldError{
			Field: "maxTenure",
			Error: fmt.Sprintf("tenure range exceeds the maximum of %d months", MaxTermRangeMonths),
		})
	}

	recommendations := []domain.TenureRecommendation{}
	for tenure := input.MinTenureMonths; tenure <= input.MaxTenureMonths; tenure++ {
		plan, err := s.calculator.Calculate(ctx, domain.LoanTerms{
			Principal:         input.Principal,
			AnnualRatePercent: input.AnnualRatePercent,
			TenureMonths:      tenure,
		}, amortization.SampledSchedule)
		if err != nil {
			return domain.TenureRecommendationResult{}, err
		}

		if plan.PeriodicPayment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TenureRecommendation{
			TenureMonths:      tenure,
			MonthlyPayment:    plan.PeriodicPayment,
			TotalInterest:     plan.TotalInterest,
			TotalPayable:      plan.TotalPayable,
			DebtToIncomeRatio: DebtToIncomeRatio(plan.PeriodicPayment, input.MonthlyIncome),
		})
	}

	if len(recommendations) == 0 {
		return domain.TenureRecommendationResult{}, NewValidationError(
			errors.New("no tenure in the requested range keeps the installment within maxMonthlyPayment"),
		)
	}

	scoreRecommendations(recommendations, input.Preference)

	// shorter tenures win ties
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	describeRecommendations(recommendations, input.Preference)

	s.logger.Debug("tenure recommendations computed",
		zap.Int("candidates", len(recommendations)),
		zap.Int("recommended", recommendations[0].TenureMonths),
	)

	return domain.TenureRecommendationResult{
		RecommendedTenure: recommendations[0].TenureMonths,
		Recommendations:   recommendations,
	}, nil
}

// scoreRecommendations rates each option from 0 to 10 relative to the other
// affordable options, weighting interest, installment and tenure by preference.
func scoreRecommendations(recs []domain.TenureRecommendation, preference string) {
	minInterest, maxInterest := math.Inf(1), math.Inf(-1)
	minPayment, maxPayment := math.Inf(1), math.Inf(-1)
	minTenure, maxTenure := recs[0].TenureMonths, recs[len(recs)-1].TenureMonths
	for _, r := range recs {
		minInterest = math.Min(minInterest, r.TotalInterest)
		maxInterest = math.Max(maxInterest, r.TotalInterest)
		minPayment = math.Min(minPayment, r.MonthlyPayment)
		maxPayment = math.Max(maxPayment, r.MonthlyPayment)
	}

	for i := range recs {
		interestScore := normalizedScore(recs[i].TotalInterest, minInterest, maxInterest)
		paymentScore := normalizedScore(recs[i].MonthlyPayment, minPayment, maxPayment)
		tenureScore := normalizedScore(float64(recs[i].TenureMonths), float64(minTenure), float64(maxTenure))

		var score float64
		switch preference {
		case PreferenceMinimizeInterest:
			score = 0.6*interestScore + 0.2*paymentScore + 0.2*tenureScore
		case PreferenceMinimizePayment:
			score = 0.2*interestScore + 0.6*paymentScore + 0.2*tenureScore
		case PreferenceBalanced:
			score = 0.4*interestScore + 0.4*paymentScore + 0.2*tenureScore
		}
		recs[i].Score = round2(score)
	}
}

// normalizedScore maps v in [lo, hi] to 10 (at lo) .. 0 (at hi).
func normalizedScore(v, lo, hi float64) float64 {
	if hi <= lo {
		return 10
	}
	return 10 * (1 - (v-lo)/(hi-lo))
}

// describeRecommendations explains the best option by preference and every
// other option by how it trades installment against interest with the best.
func describeRecommendations(recs []domain.TenureRecommendation, preference string) {
	best := recs[0]
	recs[0].Reason = reasonFor(preference)
	for i := 1; i < len(recs); i++ {
		r := &recs[i]
		if r.TenureMonths < best.TenureMonths {
			r.Reason = fmt.Sprintf(
				"Saves %.0f in interest over the recommended %d-month tenure for an installment %.0f higher",
				best.TotalInterest-r.TotalInterest, best.TenureMonths, r.MonthlyPayment-best.MonthlyPayment,
			)
			continue
		}
		r.Reason = fmt.Sprintf(
			"Installment %.0f lower than the recommended %d-month tenure for %.0f more interest",
			best.MonthlyPayment-r.MonthlyPayment, best.TenureMonths, r.TotalInterest-best.TotalInterest,
		)
	}
}

func reasonFor(preference string) string {
	switch preference {
	case PreferenceMinimizeInterest:
		return "Tenure chosen to minimize the total interest paid"
	case PreferenceMinimizePayment:
		return "Tenure chosen to minimize the monthly installment"
	case PreferenceBalanced:
		return "Best balance between monthly installment and total cost"
	}
	return "Recommendation based on the supplied parameters"
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
