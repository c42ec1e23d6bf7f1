// Package amortization computes fixed installments and amortization schedules
// for reducing-balance loans. Every function is pure and safe for concurrent
// use.
package amortization

import (
	"math"

	"sanasa-loans/domain"
)

// Mode selects which periods of the schedule are returned.
type Mode int

const (
	// FullSchedule returns every period.
	FullSchedule Mode = iota
	// SampledSchedule returns every SampleInterval-th period plus the final one.
	SampledSchedule
)

// SampleInterval is the spacing, in periods, of rows kept by SampledSchedule.
const SampleInterval = 3

func (m Mode) String() string {
	if m == SampledSchedule {
		return "sampled"
	}
	return "full"
}

// MonthlyRate converts an annual percentage rate into a decimal monthly rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// Payment returns the unrounded fixed monthly installment for terms, or zero
// when the terms are degenerate.
func Payment(terms domain.LoanTerms) float64 {
	if !computable(terms) {
		return 0
	}
	payment := annuity(terms.Principal, MonthlyRate(terms.AnnualRatePercent), terms.TenureMonths)
	if !finite(payment) {
		return 0
	}
	return payment
}

// Compute returns the installment plan for terms. Degenerate terms (non-positive
// principal, rate or tenure) yield a zero plan with an empty schedule.
//
// Interest is accumulated on unrounded values; rows and totals are rounded to
// whole currency units only when they are emitted.
func Compute(terms domain.LoanTerms, mode Mode) domain.InstallmentPlan {
	payment := Payment(terms)
	if payment == 0 {
		return zeroPlan()
	}

	r := MonthlyRate(terms.AnnualRatePercent)
	n := terms.TenureMonths

	capacity := n
	if mode == SampledSchedule {
		capacity = n/SampleInterval + 1
	}
	schedule := make([]domain.PaymentRow, 0, capacity)

	balance := terms.Principal
	totalInterest := 0.0
	for month := 1; month <= n; month++ {
		interest := balance * r
		principal := payment - interest
		balance -= principal
		totalInterest += interest

		if mode == SampledSchedule && month%SampleInterval != 0 && month != n {
			continue
		}
		schedule = append(schedule, domain.PaymentRow{
			PeriodIndex:        month,
			Payment:            round(payment),
			PrincipalComponent: round(principal),
			InterestComponent:  round(interest),
			RemainingBalance:   math.Max(0, round(balance)),
		})
	}

	return domain.InstallmentPlan{
		PeriodicPayment: round(payment),
		TotalPayable:    round(terms.Principal + totalInterest),
		TotalInterest:   round(totalInterest),
		Schedule:        schedule,
	}
}

func annuity(principal, r float64, n int) float64 {
	growth := math.Pow(1+r, float64(n))
	return principal * r * growth / (growth - 1)
}

func computable(terms domain.LoanTerms) bool {
	return terms.Principal > 0 && finite(terms.Principal) &&
		terms.AnnualRatePercent > 0 && finite(terms.AnnualRatePercent) &&
		terms.TenureMonths > 0
}

func zeroPlan() domain.InstallmentPlan {
	return domain.InstallmentPlan{Schedule: []domain.PaymentRow{}}
}

// round rounds half up, so x.5 always moves towards +Inf.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
