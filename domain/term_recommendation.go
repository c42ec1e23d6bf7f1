package domain

type TenureRecommendationInput struct {
	Principal         float64 `json:"principal" validate:"required,gt=0"`
	AnnualRatePercent float64 `json:"rate" validate:"required,gt=0"`
	MinTenureMonths   int     `json:"minTenure" validate:"required,gte=1"`
	MaxTenureMonths   int     `json:"maxTenure" validate:"required,gtefield=MinTenureMonths"`
	MaxMonthlyPayment float64 `json:"maxMonthlyPayment" validate:"required,gt=0"`
	MonthlyIncome     float64 `json:"monthlyIncome" validate:"gte=0"`
	Preference        string  `json:"preference" validate:"required,oneof=minimize_interest minimize_payment balanced"`
}

type TenureRecommendation struct {
	TenureMonths      int     `json:"tenure"`
	MonthlyPayment    float64 `json:"emi"`
	TotalInterest     float64 `json:"totalInterest"`
	TotalPayable      float64 `json:"totalPayable"`
	DebtToIncomeRatio float64 `json:"debtToIncomeRatio,omitempty"`
	Score             float64 `json:"score"`
	Reason            string  `json:"reason"`
}

type TenureRecommendationResult struct {
	RecommendedTenure int                    `json:"recommendedTenure"`
	Recommendations   []TenureRecommendation `json:"recommendations"`
}
