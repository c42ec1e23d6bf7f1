package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sanasa-loans/amortization"
	"sanasa-loans/domain"
	"sanasa-loans/service"
)

const methodName = "Reducing Balance"

var errTermsRequired = echo.NewHTTPError(http.StatusBadRequest, "Principal, rate, and tenure are required")

type LoanHandler struct {
	service *service.CalculatorService
}

func NewLoanHandler(service *service.CalculatorService) *LoanHandler {
	return &LoanHandler{service: service}
}

type calculateEMIResponse struct {
	Success bool   `json:"success"`
	Method  string `json:"method"`
	domain.InstallmentPlan
}

type previewResponse struct {
	Success           bool    `json:"success"`
	Method            string  `json:"method"`
	DebtToIncomeRatio float64 `json:"debtToIncomeRatio"`
	domain.InstallmentPlan
}

// CalculateEMI returns the full amortization schedule for the posted terms.
func (h *LoanHandler) CalculateEMI(c echo.Context) error {
	var terms domain.LoanTerms
	if err := c.Bind(&terms); err != nil {
		return err
	}
	if terms.Principal == 0 || terms.AnnualRatePercent == 0 || terms.TenureMonths == 0 {
		return errTermsRequired
	}

	plan, err := h.service.Calculate(c.Request().Context(), terms, amortization.FullSchedule)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, calculateEMIResponse{
		Success:         true,
		Method:          methodName,
		InstallmentPlan: plan,
	})
}

// CalculatorPreview backs the interactive calculator: it never rejects terms
// and returns the sampled schedule.
func (h *LoanHandler) CalculatorPreview(c echo.Context) error {
	var (
		terms  domain.LoanTerms
		income float64
	)
	err := echo.QueryParamsBinder(c).
		Float64("amount", &terms.Principal).
		Float64("rate", &terms.AnnualRatePercent).
		Int("tenure", &terms.TenureMonths).
		Float64("income", &income).
		BindError()
	if err != nil {
		return err
	}

	plan := h.service.Preview(c.Request().Context(), terms)

	return c.JSON(http.StatusOK, previewResponse{
		Success:           true,
		Method:            methodName,
		DebtToIncomeRatio: service.DebtToIncomeRatio(plan.PeriodicPayment, income),
		InstallmentPlan:   plan,
	})
}
