package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sanasa-loans/domain"
	"sanasa-loans/repository"
)

func validApplication() domain.NewLoanApplication {
	return domain.NewLoanApplication{
		Applicant: domain.Applicant{
			FullName:      "Nimal Perera",
			NIC:           "901234567V",
			DateOfBirth:   "1990-04-12",
			Gender:        "male",
			Occupation:    "Farmer",
			MonthlyIncome: 75000,
		},
		Contact: domain.Contact{
			Phone: "0771234567",
			Email: "nimal@example.lk",
			Address: domain.Address{
				Line1: "12 Temple Road",
				City:  "Wilbagedara",
			},
		},
		Loan: domain.LoanRequest{
			Product:         "agri-loan",
			AmountRequested: 250000,
			Purpose:         "Paddy cultivation",
			PurposeCategory: "agriculture",
			TenureMonths:    36,
		},
	}
}

func newApplicationService(repo repository.LoanApplicationRepository, now *time.Time) *LoanApplicationService {
	svc := NewLoanApplicationService(repo, NewValidator(), zap.NewNop())
	svc.now = func() time.Time { return *now }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("app-%d", seq)
	}
	return svc
}

func TestSubmit_OK(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	repo := NewMockLoanApplicationRepository()
	svc := newApplicationService(repo, &now)

	app, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)

	assert.True(t, repo.CreateCalled)
	assert.Equal(t, "app-1", app.ID)
	assert.Equal(t, "WLB26030001", app.ApplicationNumber)
	assert.Equal(t, domain.StatusSubmitted, app.Status)
	assert.Equal(t, []domain.StatusChange{{Status: domain.StatusSubmitted, ChangedAt: now}}, app.StatusHistory)
	assert.Equal(t, domain.SourceWebsite, app.Source)
	assert.Equal(t, domain.DefaultDistrict, app.Contact.Address.District)
	assert.Equal(t, now, app.CreatedAt)

	// no interest rate assigned yet
	assert.Zero(t, app.CalculatedEMI)
	assert.Zero(t, app.TotalPayable)
	assert.Zero(t, app.DebtToIncomeRatio)

	stored, err := svc.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, app, stored)
}

func TestSubmit_ApplicationNumbersRestartEachMonth(t *testing.T) {
	now := time.Date(2026, 3, 30, 23, 0, 0, 0, time.UTC)
	svc := newApplicationService(repository.NewLoanApplicationMemory(), &now)

	first, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)

	now = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	third, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)

	assert.Equal(t, "WLB26030001", first.ApplicationNumber)
	assert.Equal(t, "WLB26030002", second.ApplicationNumber)
	assert.Equal(t, "WLB26040001", third.ApplicationNumber)
}

func TestSubmit_KeepsProvidedSourceAndDistrict(t *testing.T) {
	now := time.Now()
	svc := newApplicationService(repository.NewLoanApplicationMemory(), &now)

	in := validApplication()
	in.Source = "referral"
	in.Contact.Address.District = "Kurunegala"

	app, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "referral", app.Source)
	assert.Equal(t, "Kurunegala", app.Contact.Address.District)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.NewLoanApplication)
		field  string
	}{
		{"bad nic", func(a *domain.NewLoanApplication) { a.Applicant.NIC = "12345" }, "applicant.nic"},
		{"bad phone", func(a *domain.NewLoanApplication) { a.Contact.Phone = "12-34" }, "contact.phone"},
		{"bad email", func(a *domain.NewLoanApplication) { a.Contact.Email = "nimal" }, "contact.email"},
		{"missing name", func(a *domain.NewLoanApplication) { a.Applicant.FullName = "" }, "applicant.fullName"},
		{"amount below minimum", func(a *domain.NewLoanApplication) { a.Loan.AmountRequested = 999 }, "loan.amountRequested"},
		{"missing tenure", func(a *domain.NewLoanApplication) { a.Loan.TenureMonths = 0 }, "loan.tenureMonths"},
		{"unknown gender", func(a *domain.NewLoanApplication) { a.Applicant.Gender = "x" }, "applicant.gender"},
		{"unknown purpose", func(a *domain.NewLoanApplication) { a.Loan.PurposeCategory = "holiday" }, "loan.purposeCategory"},
		{"negative income", func(a *domain.NewLoanApplication) { a.Applicant.MonthlyIncome = -1 }, "applicant.monthlyIncome"},
		{"bad birth date", func(a *domain.NewLoanApplication) { a.Applicant.DateOfBirth = "12/04/1990" }, "applicant.dateOfBirth"},
		{"bad guarantor", func(a *domain.NewLoanApplication) {
			a.Guarantors = []domain.Guarantor{{FullName: "Sunil", NIC: "199012345678", Phone: "abc"}}
		}, "guarantors[0].phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			repo := NewMockLoanApplicationRepository()
			svc := newApplicationService(repo, &now)

			in := validApplication()
			tt.mutate(&in)

			_, err := svc.Submit(context.Background(), in)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %T", err)
			assert.Contains(t, svc.validator.Translate(verrs), tt.field)
			assert.False(t, repo.CreateCalled, "repository Create should NOT be called")
		})
	}
}

func TestSubmit_RepositoryError(t *testing.T) {
	now := time.Now()
	repo := NewMockLoanApplicationRepository()
	repo.ForceError = true
	svc := newApplicationService(repo, &now)

	_, err := svc.Submit(context.Background(), validApplication())
	assert.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestUpdate_AssignsRateAndRecalculates(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	svc := newApplicationService(repository.NewLoanApplicationMemory(), &now)

	app, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)

	now = now.Add(48 * time.Hour)
	status := domain.StatusApproved
	rate := 16.0
	amount := 240000.0
	app, err = svc.Update(context.Background(), app.ID, domain.ApplicationUpdate{
		Status:         &status,
		InterestRate:   &rate,
		ApprovedAmount: &amount,
		Remarks:        "documents verified",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, app.Status)
	require.Len(t, app.StatusHistory, 2)
	assert.Equal(t, domain.StatusChange{Status: status, ChangedAt: now, Remarks: "documents verified"}, app.StatusHistory[1])
	assert.Equal(t, 240000.0, app.ApprovedAmount)
	assert.Equal(t, 16.0, app.InterestRate)
	assert.Equal(t, now, app.UpdatedAt)

	assert.Equal(t, 8789.26, app.CalculatedEMI)
	assert.Equal(t, 316413.3, app.TotalPayable)
	assert.Equal(t, 11.72, app.DebtToIncomeRatio)
}

func TestUpdate_RemarksWithoutStatus(t *testing.T) {
	now := time.Now()
	svc := newApplicationService(repository.NewLoanApplicationMemory(), &now)

	app, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)

	app, err = svc.Update(context.Background(), app.ID, domain.ApplicationUpdate{Remarks: "called applicant"})
	require.NoError(t, err)
	assert.Len(t, app.StatusHistory, 1)
	require.Len(t, app.Remarks, 1)
	assert.Equal(t, "called applicant", app.Remarks[0].Text)
}

func TestUpdate_InvalidStatus(t *testing.T) {
	now := time.Now()
	svc := newApplicationService(repository.NewLoanApplicationMemory(), &now)

	app, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)

	status := "paid"
	_, err = svc.Update(context.Background(), app.ID, domain.ApplicationUpdate{Status: &status})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestUpdate_NotFound(t *testing.T) {
	now := time.Now()
	svc := newApplicationService(repository.NewLoanApplicationMemory(), &now)

	_, err := svc.Update(context.Background(), "missing", domain.ApplicationUpdate{})
	assert.Equal(t, repository.ErrNotFound, errors.Cause(err))

	_, err = svc.Get(context.Background(), "missing")
	assert.Equal(t, repository.ErrNotFound, errors.Cause(err))
}

func TestList_NormalizesPaging(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := newApplicationService(repository.NewLoanApplicationMemory(), &now)
	for i := 0; i < 3; i++ {
		now = now.Add(time.Hour)
		_, err := svc.Submit(context.Background(), validApplication())
		require.NoError(t, err)
	}

	apps, filter, total, err := svc.List(context.Background(), domain.ApplicationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, DefaultPageSize, filter.Limit)
	assert.Equal(t, 3, total)
	require.Len(t, apps, 3)
	assert.Equal(t, "WLB26030003", apps[0].ApplicationNumber)

	_, filter, _, err = svc.List(context.Background(), domain.ApplicationFilter{Page: 2, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, filter.Limit)

	apps, _, total, err = svc.List(context.Background(), domain.ApplicationFilter{Status: domain.StatusApproved})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, apps)

	_, _, _, err = svc.List(context.Background(), domain.ApplicationFilter{Status: "paid"})
	assert.True(t, IsValidationError(err))
}

func TestList_HugePageIsEmpty(t *testing.T) {
	now := time.Now()
	svc := newApplicationService(repository.NewLoanApplicationMemory(), &now)
	_, err := svc.Submit(context.Background(), validApplication())
	require.NoError(t, err)

	apps, filter, total, err := svc.List(context.Background(), domain.ApplicationFilter{Page: 2305843009213693954, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, MaxPage, filter.Page)
	assert.Equal(t, 1, total)
	assert.Empty(t, apps)
}

func TestApplyCalculatedFields(t *testing.T) {
	app := domain.LoanApplication{
		Applicant: domain.Applicant{MonthlyIncome: 0},
		Loan:      domain.LoanRequest{AmountRequested: 100000, TenureMonths: 24},
	}
	applyCalculatedFields(&app)
	assert.Zero(t, app.CalculatedEMI, "no rate assigned")

	app.InterestRate = 14
	applyCalculatedFields(&app)
	assert.Equal(t, 4801.29, app.CalculatedEMI)
	assert.Equal(t, 115230.92, app.TotalPayable)
	assert.Zero(t, app.DebtToIncomeRatio, "no income declared")
}

func TestDebtToIncomeRatio(t *testing.T) {
	assert.Equal(t, 11.72, DebtToIncomeRatio(8789.26, 75000))
	assert.Equal(t, 9.96, DebtToIncomeRatio(4982, 50000))
	assert.Zero(t, DebtToIncomeRatio(4982, 0))
	assert.Zero(t, DebtToIncomeRatio(4982, -10))
}
