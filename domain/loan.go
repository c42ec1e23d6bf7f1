package domain

// LoanTerms are the inputs of an installment calculation.
type LoanTerms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"rate"`
	TenureMonths      int     `json:"tenure"`
}

// PaymentRow is one period of an amortization schedule. Amounts are rounded
// to whole currency units.
type PaymentRow struct {
	PeriodIndex        int     `json:"month"`
	Payment            float64 `json:"emi"`
	PrincipalComponent float64 `json:"principal"`
	InterestComponent  float64 `json:"interest"`
	RemainingBalance   float64 `json:"balance"`
}

type InstallmentPlan struct {
	PeriodicPayment float64      `json:"emi"`
	TotalPayable    float64      `json:"totalPayable"`
	TotalInterest   float64      `json:"totalInterest"`
	Schedule        []PaymentRow `json:"amortizationSchedule"`
}
