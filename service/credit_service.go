package service

import "autoloan-agent/domain"

// EstimateCreditScore derives a synthetic score in [300, 850] from income,
// balance and employment. It is deterministic.
func EstimateCreditScore(profile domain.BorrowerProfile) int {
	score := baselineCreditScore
	income := profile.MonthlyIncome
	balance := profile.AccountBalance

	switch {
	case income >= 8000:
		score += 60
	case income >= 6000:
		score += 40
	case income >= 4500:
		score += 25
	case income >= 3000:
		score += 10
	case income < 2500:
		score -= 30
	}

	switch {
	case balance >= 30000:
		score += 40
	case balance >= 20000:
		score += 30
	case balance >= 10000:
		score += 20
	case balance >= 5000:
		score += 10
	case balance < 2000:
		score -= 25
	}

	switch NormalizeEmploymentType(profile.EmploymentType) {
	case domain.EmploymentFullTime:
		score += 20
	case domain.EmploymentPartTime:
		score -= 5
	case domain.EmploymentSelfEmployed:
		score -= 15
	case domain.EmploymentRetired:
		score += 10
	}

	// Savings rate: balance against a year of income.
	annualIncome := income * 12
	switch {
	case annualIncome > 0:
		ratio := balance / annualIncome
		if ratio > 0.5 {
			score += 15
		} else if ratio < 0.1 {
			score -= 10
		}
	case balance > 0:
		// no income on record but savings exist
		score += 15
	}

	return clampScore(score)
}

func clampScore(score int) int {
	if score < MinCreditScore {
		return MinCreditScore
	}
	if score > MaxCreditScore {
		return MaxCreditScore
	}
	return score
}
