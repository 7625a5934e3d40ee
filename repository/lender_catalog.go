package repository

import "autoloan-agent/domain"

// DefaultLenderCatalog is the static lender panel loaded at startup.
func DefaultLenderCatalog() []domain.LenderProduct {
	return []domain.LenderProduct{
		{
			ID:                      "chase-auto",
			Name:                    "Chase Auto Finance",
			MinLoanAmount:           5000,
			MaxLoanAmount:           100000,
			MinCreditScore:          650,
			MinMonthlyIncome:        3000,
			AcceptedEmploymentTypes: []string{domain.EmploymentFullTime, domain.EmploymentPartTime, domain.EmploymentSelfEmployed},
			LoanTermsMonths:         []int{36, 48, 60, 72},
			APRRange:                domain.APRRange{Min: 3.99, Max: 18.99, GoodCredit: 4.5, FairCredit: 8.9, PoorCredit: 15.9},
			MaxLTV:                  0.90,
			SpecialPrograms:         []string{"First-time buyer", "Refinance"},
			IsActive:                true,
		},
		{
			ID:                      "capital-one",
			Name:                    "Capital One Auto Finance",
			MinLoanAmount:           4000,
			MaxLoanAmount:           75000,
			MinCreditScore:          600,
			MinMonthlyIncome:        2500,
			AcceptedEmploymentTypes: []string{domain.EmploymentFullTime, domain.EmploymentPartTime},
			LoanTermsMonths:         []int{36, 48, 60, 72, 84},
			APRRange:                domain.APRRange{Min: 4.24, Max: 19.99, GoodCredit: 5.2, FairCredit: 10.5, PoorCredit: 17.8},
			MaxLTV:                  0.85,
			SpecialPrograms:         []string{"Used car specialists"},
			IsActive:                true,
		},
		{
			ID:                      "wells-fargo",
			Name:                    "Wells Fargo Auto",
			MinLoanAmount:           5000,
			MaxLoanAmount:           150000,
			MinCreditScore:          680,
			MinMonthlyIncome:        3500,
			AcceptedEmploymentTypes: []string{domain.EmploymentFullTime, domain.EmploymentSelfEmployed},
			LoanTermsMonths:         []int{24, 36, 48, 60, 72},
			APRRange:                domain.APRRange{Min: 3.74, Max: 16.99, GoodCredit: 4.1, FairCredit: 7.9, PoorCredit: 14.5},
			MaxLTV:                  0.95,
			SpecialPrograms:         []string{"Green vehicle discount", "Refinance"},
			IsActive:                true,
		},
		{
			ID:                      "credit-union-one",
			Name:                    "Local Credit Union",
			MinLoanAmount:           3000,
			MaxLoanAmount:           80000,
			MinCreditScore:          580,
			MinMonthlyIncome:        2000,
			AcceptedEmploymentTypes: []string{domain.EmploymentFullTime, domain.EmploymentPartTime, domain.EmploymentSelfEmployed, domain.EmploymentRetired},
			LoanTermsMonths:         []int{36, 48, 60, 72},
			APRRange:                domain.APRRange{Min: 3.25, Max: 15.99, GoodCredit: 3.8, FairCredit: 6.9, PoorCredit: 12.9},
			MaxLTV:                  0.90,
			SpecialPrograms:         []string{"Member benefits", "First-time buyer"},
			IsActive:                true,
		},
		{
			ID:                      "ally-bank",
			Name:                    "Ally Bank Auto",
			MinLoanAmount:           5000,
			MaxLoanAmount:           100000,
			MinCreditScore:          620,
			MinMonthlyIncome:        2800,
			AcceptedEmploymentTypes: []string{domain.EmploymentFullTime, domain.EmploymentPartTime},
			LoanTermsMonths:         []int{36, 48, 60, 72, 84},
			APRRange:                domain.APRRange{Min: 4.49, Max: 19.49, GoodCredit: 5.1, FairCredit: 9.8, PoorCredit: 16.9},
			MaxLTV:                  0.85,
			SpecialPrograms:         []string{"Online-only rates"},
			IsActive:                true,
		},
		{
			ID:                      "bank-of-america",
			Name:                    "Bank of America Auto",
			MinLoanAmount:           7500,
			MaxLoanAmount:           125000,
			MinCreditScore:          660,
			MinMonthlyIncome:        3200,
			AcceptedEmploymentTypes: []string{domain.EmploymentFullTime, domain.EmploymentSelfEmployed},
			LoanTermsMonths:         []int{36, 48, 60, 72},
			APRRange:                domain.APRRange{Min: 4.19, Max: 17.99, GoodCredit: 4.7, FairCredit: 8.5, PoorCredit: 15.2},
			MaxLTV:                  0.88,
			SpecialPrograms:         []string{"Preferred Rewards discount"},
			IsActive:                true,
		},
		{
			ID:                      "lightstream",
			Name:                    "LightStream Auto",
			MinLoanAmount:           5000,
			MaxLoanAmount:           100000,
			MinCreditScore:          720,
			MinMonthlyIncome:        4000,
			AcceptedEmploymentTypes: []string{domain.EmploymentFullTime},
			LoanTermsMonths:         []int{24, 36, 48, 60, 72, 84},
			APRRange:                domain.APRRange{Min: 3.99, Max: 12.99, GoodCredit: 4.2, FairCredit: 6.8, PoorCredit: 10.9},
			MaxLTV:                  0.95,
			SpecialPrograms:         []string{"Excellent credit rates", "No fees"},
			IsActive:                true,
		},
	}
}
