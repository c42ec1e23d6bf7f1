package service

import "math"

const (
	MaxLoanAmount   = 1_000_000_000.0 // 1 billion
	MaxInterestRate = 1000.0          // 1000% per annum
	MaxTermMonths   = 600             // 50 years
	MinTermMonths   = 1

	// tenure range evaluated by the tenure advisor (10 years)
	MaxTermRangeMonths = 120

	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = math.MaxInt / MaxPageSize

	ApplicationNumberPrefix = "WLB"
)
