package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sanasa-loans/amortization"
	"sanasa-loans/domain"
	"sanasa-loans/repository"
)

var validStatuses = func() map[string]bool {
	m := make(map[string]bool, len(domain.Statuses))
	for _, s := range domain.Statuses {
		m[s] = true
	}
	return m
}()

type LoanApplicationService struct {
	repo      repository.LoanApplicationRepository
	validator *Validator
	logger    *zap.Logger

	now   func() time.Time
	newID func() string

	// serializes count+create so application numbers stay unique
	numbering sync.Mutex
}

func NewLoanApplicationService(
	repo repository.LoanApplicationRepository,
	validator *Validator,
	logger *zap.Logger,
) *LoanApplicationService {
	return &LoanApplicationService{
		repo:      repo,
		validator: validator,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Submit validates and stores a new application with status "submitted".
func (s *LoanApplicationService) Submit(
	ctx context.Context,
	in domain.NewLoanApplication,
) (domain.LoanApplication, error) {
	if err := s.validator.Validate(in); err != nil {
		return domain.LoanApplication{}, err
	}

	now := s.now()
	app := domain.LoanApplication{
		ID:           s.newID(),
		Applicant:    in.Applicant,
		Contact:      in.Contact,
		Loan:         in.Loan,
		Membership:   in.Membership,
		Collateral:   in.Collateral,
		Guarantors:   in.Guarantors,
		Source:       in.Source,
		ReferralCode: in.ReferralCode,
		Status:       domain.StatusSubmitted,
		StatusHistory: []domain.StatusChange{
			{Status: domain.StatusSubmitted, ChangedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if app.Source == "" {
		app.Source = domain.SourceWebsite
	}
	if app.Contact.Address.District == "" {
		app.Contact.Address.District = domain.DefaultDistrict
	}
	applyCalculatedFields(&app)

	s.numbering.Lock()
	defer s.numbering.Unlock()

	number, err := s.nextApplicationNumber(ctx, now)
	if err != nil {
		return domain.LoanApplication{}, err
	}
	app.ApplicationNumber = number

	app, err = s.repo.Create(ctx, app)
	if err != nil {
		return domain.LoanApplication{}, errors.Wrap(err, "failed to save loan application")
	}
	s.logger.Info("loan application submitted",
		zap.String("id", app.ID),
		zap.String("applicationNumber", app.ApplicationNumber),
		zap.Float64("amountRequested", app.Loan.AmountRequested),
	)
	return app, nil
}

// nextApplicationNumber formats WLB<yy><mm><seq>, seq being the 1-based
// position of the application within its calendar month.
func (s *LoanApplicationService) nextApplicationNumber(ctx context.Context, now time.Time) (string, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count, err := s.repo.CountCreatedBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return "", errors.Wrap(err, "failed to count applications for numbering")
	}
	return fmt.Sprintf("%s%s%04d", ApplicationNumberPrefix, now.Format("0601"), count+1), nil
}

// List returns one page of applications, newest first, with the total count.
func (s *LoanApplicationService) List(
	ctx context.Context,
	filter domain.ApplicationFilter,
) ([]domain.LoanApplication, domain.ApplicationFilter, int, error) {
	if filter.Status != "" && !validStatuses[filter.Status] {
		return nil, filter, 0, NewValidationError(nil, FieldError{Field: "status", Error: "unknown status " + filter.Status})
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}
	// keeps (page-1)*limit from overflowing in the stores
	if filter.Page > MaxPage {
		filter.Page = MaxPage
	}

	apps, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, filter, 0, errors.Wrap(err, "failed to list loan applications")
	}
	return apps, filter, total, nil
}

func (s *LoanApplicationService) Get(ctx context.Context, id string) (domain.LoanApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.LoanApplication{}, errors.Wrapf(err, "loan application %s", id)
	}
	return app, nil
}

// Update applies staff changes, records status transitions and recomputes
// the calculated fields.
func (s *LoanApplicationService) Update(
	ctx context.Context,
	id string,
	upd domain.ApplicationUpdate,
) (domain.LoanApplication, error) {
	if err := s.validator.Validate(upd); err != nil {
		return domain.LoanApplication{}, err
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.LoanApplication{}, errors.Wrapf(err, "loan application %s", id)
	}

	now := s.now()
	if upd.Status != nil {
		app.Status = *upd.Status
		app.StatusHistory = append(app.StatusHistory, domain.StatusChange{
			Status:    *upd.Status,
			ChangedAt: now,
			Remarks:   upd.Remarks,
		})
	} else if upd.Remarks != "" {
		app.Remarks = append(app.Remarks, domain.Remark{Text: upd.Remarks, AddedAt: now})
	}
	if upd.ApprovedAmount != nil {
		app.ApprovedAmount = *upd.ApprovedAmount
	}
	if upd.ApprovedTenure != nil {
		app.ApprovedTenure = *upd.ApprovedTenure
	}
	if upd.InterestRate != nil {
		app.InterestRate = *upd.InterestRate
	}
	if upd.ProcessingFee != nil {
		app.ProcessingFee = *upd.ProcessingFee
	}
	app.UpdatedAt = now
	applyCalculatedFields(&app)

	app, err = s.repo.Update(ctx, app)
	if err != nil {
		return domain.LoanApplication{}, errors.Wrapf(err, "failed to update loan application %s", id)
	}
	s.logger.Info("loan application updated",
		zap.String("id", app.ID),
		zap.String("status", app.Status),
		zap.Float64("calculatedEMI", app.CalculatedEMI),
	)
	return app, nil
}

// applyCalculatedFields derives the denormalized EMI, total payable and
// debt-to-income ratio. It runs only once an interest rate has been assigned.
func applyCalculatedFields(app *domain.LoanApplication) {
	if app.Loan.AmountRequested <= 0 || app.Loan.TenureMonths <= 0 || app.InterestRate <= 0 {
		return
	}

	payment := amortization.Payment(domain.LoanTerms{
		Principal:         app.Loan.AmountRequested,
		AnnualRatePercent: app.InterestRate,
		TenureMonths:      app.Loan.TenureMonths,
	})
	emi := decimal.NewFromFloat(payment).Round(2)

	app.CalculatedEMI = emi.InexactFloat64()
	app.TotalPayable = decimal.NewFromFloat(payment * float64(app.Loan.TenureMonths)).Round(2).InexactFloat64()

	if app.Applicant.MonthlyIncome > 0 {
		app.DebtToIncomeRatio = DebtToIncomeRatio(app.CalculatedEMI, app.Applicant.MonthlyIncome)
	}
}

// DebtToIncomeRatio returns payment as a percentage of monthly income, rounded
// to two decimals. It is zero when income is not positive.
func DebtToIncomeRatio(payment, monthlyIncome float64) float64 {
	if monthlyIncome <= 0 {
		return 0
	}
	return decimal.NewFromFloat(payment).
		Div(decimal.NewFromFloat(monthlyIncome)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
