package amortization

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanasa-loans/domain"
)

func terms(principal, rate float64, tenure int) domain.LoanTerms {
	return domain.LoanTerms{Principal: principal, AnnualRatePercent: rate, TenureMonths: tenure}
}

func TestMonthlyRate(t *testing.T) {
	assert.InDelta(t, 0.011667, MonthlyRate(14), 1e-6)
	assert.Equal(t, 0.01, MonthlyRate(12))
}

func TestCompute_KnownScenario(t *testing.T) {
	plan := Compute(terms(100000, 14, 24), FullSchedule)

	assert.Equal(t, 4801.0, plan.PeriodicPayment)
	assert.Equal(t, 115231.0, plan.TotalPayable)
	assert.Equal(t, 15231.0, plan.TotalInterest)
	require.Len(t, plan.Schedule, 24)

	assert.Equal(t, domain.PaymentRow{
		PeriodIndex:        1,
		Payment:            4801,
		PrincipalComponent: 3635,
		InterestComponent:  1167,
		RemainingBalance:   96365,
	}, plan.Schedule[0])
	assert.Equal(t, domain.PaymentRow{
		PeriodIndex:        24,
		Payment:            4801,
		PrincipalComponent: 4746,
		InterestComponent:  55,
		RemainingBalance:   0,
	}, plan.Schedule[23])
}

func TestCompute_SingleMonth(t *testing.T) {
	plan := Compute(terms(1200, 12, 1), FullSchedule)

	assert.Equal(t, 1212.0, plan.PeriodicPayment)
	assert.Equal(t, 1212.0, plan.TotalPayable)
	assert.Equal(t, 12.0, plan.TotalInterest)
	assert.Equal(t, []domain.PaymentRow{
		{PeriodIndex: 1, Payment: 1212, PrincipalComponent: 1200, InterestComponent: 12, RemainingBalance: 0},
	}, plan.Schedule)
}

func TestCompute_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		terms domain.LoanTerms
	}{
		{"zero principal", terms(0, 14, 24)},
		{"zero rate", terms(100000, 0, 24)},
		{"zero tenure", terms(100000, 14, 0)},
		{"negative principal", terms(-5000, 14, 24)},
		{"negative rate", terms(100000, -3, 24)},
		{"negative tenure", terms(100000, 14, -12)},
		{"nan principal", terms(math.NaN(), 14, 24)},
		{"infinite rate", terms(100000, math.Inf(1), 24)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []Mode{FullSchedule, SampledSchedule} {
				plan := Compute(tt.terms, mode)
				assert.Zero(t, plan.PeriodicPayment)
				assert.Zero(t, plan.TotalPayable)
				assert.Zero(t, plan.TotalInterest)
				assert.NotNil(t, plan.Schedule)
				assert.Empty(t, plan.Schedule)
			}
			assert.Zero(t, Payment(tt.terms))
		})
	}
}

func TestCompute_Properties(t *testing.T) {
	cases := []domain.LoanTerms{
		terms(100000, 14, 24),
		terms(500000, 12, 60),
		terms(2000000, 24, 60),
		terms(10000, 5, 6),
		terms(750000, 9.5, 120),
		terms(25000000, 18, 360),
	}
	for _, c := range cases {
		plan := Compute(c, FullSchedule)
		require.Len(t, plan.Schedule, c.TenureMonths)

		sum := 0.0
		for i, row := range plan.Schedule {
			assert.Equal(t, i+1, row.PeriodIndex)
			assert.InDelta(t, row.Payment, row.PrincipalComponent+row.InterestComponent, 1)
			if i > 0 {
				assert.Less(t, row.RemainingBalance, plan.Schedule[i-1].RemainingBalance, "period %d of %+v", row.PeriodIndex, c)
			}
			sum += row.Payment
		}

		assert.InDelta(t, plan.TotalPayable, sum, float64(c.TenureMonths))
		assert.Zero(t, plan.Schedule[len(plan.Schedule)-1].RemainingBalance)
		assert.Equal(t, plan.TotalPayable-c.Principal, plan.TotalInterest)
	}
}

// Totals are rounded independently, so with a fractional principal the
// interest is not totalPayable-principal.
func TestCompute_FractionalPrincipalTotals(t *testing.T) {
	tests := []struct {
		in            domain.LoanTerms
		totalPayable  float64
		totalInterest float64
	}{
		{terms(100000.6, 14, 24), 115232, 15231},
		{terms(1000.5, 14, 24), 1153, 152},
	}
	for _, tt := range tests {
		plan := Compute(tt.in, FullSchedule)
		assert.Equal(t, tt.totalPayable, plan.TotalPayable)
		assert.Equal(t, tt.totalInterest, plan.TotalInterest)
		assert.NotEqual(t, plan.TotalPayable-tt.in.Principal, plan.TotalInterest)
	}
}

func TestCompute_SampledSchedule(t *testing.T) {
	full := Compute(terms(100000, 14, 24), FullSchedule)
	sampled := Compute(terms(100000, 14, 24), SampledSchedule)

	var months []int
	for _, row := range sampled.Schedule {
		months = append(months, row.PeriodIndex)
		assert.Equal(t, full.Schedule[row.PeriodIndex-1], row)
	}
	assert.Equal(t, []int{3, 6, 9, 12, 15, 18, 21, 24}, months)
	assert.Equal(t, full.PeriodicPayment, sampled.PeriodicPayment)
	assert.Equal(t, full.TotalPayable, sampled.TotalPayable)
	assert.Equal(t, full.TotalInterest, sampled.TotalInterest)
}

func TestCompute_SampledScheduleKeepsFinalPeriod(t *testing.T) {
	tests := []struct {
		tenure int
		want   []int
	}{
		{1, []int{1}},
		{2, []int{2}},
		{7, []int{3, 6, 7}},
		{10, []int{3, 6, 9, 10}},
	}
	for _, tt := range tests {
		plan := Compute(terms(50000, 10, tt.tenure), SampledSchedule)
		var months []int
		for _, row := range plan.Schedule {
			months = append(months, row.PeriodIndex)
		}
		assert.Equal(t, tt.want, months, "tenure %d", tt.tenure)
		assert.Zero(t, plan.Schedule[len(plan.Schedule)-1].RemainingBalance)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	in := terms(333333.33, 13.75, 47)
	first := Compute(in, FullSchedule)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, Compute(in, FullSchedule))
		}()
	}
	wg.Wait()
}

func TestPayment_Unrounded(t *testing.T) {
	assert.InDelta(t, 4801.288326838795, Payment(terms(100000, 14, 24)), 1e-9)
	assert.InDelta(t, 8789.258259087479, Payment(terms(250000, 16, 36)), 1e-9)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.0, round(2.5))
	assert.Equal(t, 2.0, round(2.4999))
	assert.Equal(t, -2.0, round(-2.5))
	assert.Equal(t, 0.0, round(-0.3))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "full", FullSchedule.String())
	assert.Equal(t, "sampled", SampledSchedule.String())
}
