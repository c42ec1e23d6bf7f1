package domain

import "time"

const (
	StatusDraft             = "draft"
	StatusSubmitted         = "submitted"
	StatusUnderReview       = "under_review"
	StatusDocumentsRequired = "documents_required"
	StatusApproved          = "approved"
	StatusRejected          = "rejected"
	StatusDisbursed         = "disbursed"
	StatusCancelled         = "cancelled"

	SourceWebsite = "website"

	DefaultDistrict = "Bandarakoswaththa"
)

// Statuses lists every application status in workflow order.
var Statuses = []string{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusDocumentsRequired,
	StatusApproved,
	StatusRejected,
	StatusDisbursed,
	StatusCancelled,
}

type (
	Applicant struct {
		FullName      string  `json:"fullName" validate:"required,max=100"`
		NameInSinhala string  `json:"nameInSinhala,omitempty"`
		NIC           string  `json:"nic" validate:"required,nic"`
		DateOfBirth   string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
		Gender        string  `json:"gender" validate:"required,oneof=male female other"`
		MaritalStatus string  `json:"maritalStatus,omitempty" validate:"omitempty,oneof=single married divorced widowed"`
		Occupation    string  `json:"occupation" validate:"required"`
		Employer      string  `json:"employer,omitempty"`
		MonthlyIncome float64 `json:"monthlyIncome" validate:"gte=0"`
	}

	Address struct {
		Line1      string `json:"line1" validate:"required"`
		Line2      string `json:"line2,omitempty"`
		City       string `json:"city" validate:"required"`
		District   string `json:"district,omitempty"`
		PostalCode string `json:"postalCode,omitempty"`
	}

	Contact struct {
		Phone    string  `json:"phone" validate:"required,lk_phone"`
		WhatsApp string  `json:"whatsapp,omitempty"`
		Email    string  `json:"email,omitempty" validate:"omitempty,email"`
		Address  Address `json:"address"`
	}

	LoanRequest struct {
		Product            string  `json:"product" validate:"required"`
		ProductName        string  `json:"productName,omitempty"`
		AmountRequested    float64 `json:"amountRequested" validate:"required,gte=1000"`
		Purpose            string  `json:"purpose" validate:"required"`
		PurposeCategory    string  `json:"purposeCategory,omitempty" validate:"omitempty,oneof=business_expansion working_capital equipment_purchase agriculture education medical home_improvement vehicle personal other"`
		TenureMonths       int     `json:"tenureMonths" validate:"required,gte=1"`
		PreferredStartDate string  `json:"preferredStartDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	}

	ExistingLoan struct {
		LoanType          string  `json:"loanType"`
		OutstandingAmount float64 `json:"outstandingAmount"`
		MonthlyPayment    float64 `json:"monthlyPayment"`
	}

	Membership struct {
		MemberNumber  string         `json:"memberNumber,omitempty"`
		IsMember      bool           `json:"isMember"`
		MemberSince   string         `json:"memberSince,omitempty" validate:"omitempty,datetime=2006-01-02"`
		ShareCapital  float64        `json:"shareCapital"`
		ExistingLoans []ExistingLoan `json:"existingLoans,omitempty"`
	}

	Collateral struct {
		Type           string  `json:"type,omitempty" validate:"omitempty,oneof=property vehicle fixed_deposit gold guarantor none"`
		Description    string  `json:"description,omitempty"`
		EstimatedValue float64 `json:"estimatedValue,omitempty" validate:"gte=0"`
	}

	Guarantor struct {
		FullName      string  `json:"fullName" validate:"required"`
		NIC           string  `json:"nic" validate:"required,nic"`
		Relationship  string  `json:"relationship,omitempty"`
		Phone         string  `json:"phone" validate:"required,lk_phone"`
		Address       string  `json:"address,omitempty"`
		Occupation    string  `json:"occupation,omitempty"`
		MonthlyIncome float64 `json:"monthlyIncome,omitempty"`
	}

	StatusChange struct {
		Status    string    `json:"status"`
		ChangedAt time.Time `json:"changedAt"`
		Remarks   string    `json:"remarks,omitempty"`
	}

	Remark struct {
		Text    string    `json:"text"`
		AddedAt time.Time `json:"addedAt"`
	}

	// NewLoanApplication is the payload a member submits from the website.
	NewLoanApplication struct {
		Applicant    Applicant   `json:"applicant"`
		Contact      Contact     `json:"contact"`
		Loan         LoanRequest `json:"loan"`
		Membership   Membership  `json:"membership"`
		Collateral   Collateral  `json:"collateral"`
		Guarantors   []Guarantor `json:"guarantors,omitempty" validate:"dive"`
		Source       string      `json:"source,omitempty" validate:"omitempty,oneof=website walk_in phone referral facebook"`
		ReferralCode string      `json:"referralCode,omitempty"`
	}

	LoanApplication struct {
		ID                string `json:"id"`
		ApplicationNumber string `json:"applicationNumber"`

		Applicant    Applicant   `json:"applicant"`
		Contact      Contact     `json:"contact"`
		Loan         LoanRequest `json:"loan"`
		Membership   Membership  `json:"membership"`
		Collateral   Collateral  `json:"collateral"`
		Guarantors   []Guarantor `json:"guarantors,omitempty"`
		Source       string      `json:"source"`
		ReferralCode string      `json:"referralCode,omitempty"`

		Status        string         `json:"status"`
		StatusHistory []StatusChange `json:"statusHistory"`
		Remarks       []Remark       `json:"remarks,omitempty"`

		ApprovedAmount float64 `json:"approvedAmount,omitempty"`
		ApprovedTenure int     `json:"approvedTenure,omitempty"`
		InterestRate   float64 `json:"interestRate,omitempty"`
		ProcessingFee  float64 `json:"processingFee,omitempty"`

		CalculatedEMI     float64 `json:"calculatedEMI,omitempty"`
		TotalPayable      float64 `json:"totalPayable,omitempty"`
		DebtToIncomeRatio float64 `json:"debtToIncomeRatio,omitempty"`

		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// ApplicationUpdate holds the fields staff may change on an application.
	// Nil fields are left untouched.
	ApplicationUpdate struct {
		Status         *string  `json:"status" validate:"omitempty,oneof=draft submitted under_review documents_required approved rejected disbursed cancelled"`
		ApprovedAmount *float64 `json:"approvedAmount" validate:"omitempty,gt=0"`
		ApprovedTenure *int     `json:"approvedTenure" validate:"omitempty,gte=1"`
		InterestRate   *float64 `json:"interestRate" validate:"omitempty,gte=0,lte=1000"`
		ProcessingFee  *float64 `json:"processingFee" validate:"omitempty,gte=0"`
		Remarks        string   `json:"remarks" validate:"max=2000"`
	}

	ApplicationFilter struct {
		Status string
		Page   int
		Limit  int
	}
)
