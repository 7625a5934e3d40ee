package service

import (
	"fmt"
	"strconv"
	"strings"

	"autoloan-agent/domain"
)

// ParseMoney converts a display string such as "$12,500" into whole dollars.
// Anything after the leading integer is ignored; unparsable or negative input
// yields 0.
func ParseMoney(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" || s == "$0" {
		return 0
	}
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return float64(n)
}

// NormalizeEmploymentType maps free text onto the catalog's employment types.
// Unknown values pass through unchanged.
func NormalizeEmploymentType(employmentType string) string {
	if employmentType == "" {
		return ""
	}
	n := strings.ToLower(strings.TrimSpace(employmentType))
	switch {
	case strings.Contains(n, "full") && strings.Contains(n, "time"):
		return domain.EmploymentFullTime
	case strings.Contains(n, "part") && strings.Contains(n, "time"):
		return domain.EmploymentPartTime
	case strings.Contains(n, "self") || strings.Contains(n, "freelance"):
		return domain.EmploymentSelfEmployed
	case strings.Contains(n, "retire"):
		return domain.EmploymentRetired
	}
	return employmentType
}

// ParseBorrowerProfile validates the wizard's raw record and produces the
// typed snapshot used by matching and quoting.
func ParseBorrowerProfile(raw domain.RawBorrowerProfile) (domain.BorrowerProfile, error) {
	if strings.TrimSpace(raw.MonthlyIncome) == "" {
		return domain.BorrowerProfile{}, fmt.Errorf("%w: monthly income is required", domain.ErrValidation)
	}
	if raw.EstimatedCreditScore != 0 &&
		(raw.EstimatedCreditScore < MinCreditScore || raw.EstimatedCreditScore > MaxCreditScore) {
		return domain.BorrowerProfile{}, fmt.Errorf("%w: credit score %d outside [%d, %d]",
			domain.ErrValidation, raw.EstimatedCreditScore, MinCreditScore, MaxCreditScore)
	}

	return domain.BorrowerProfile{
		MonthlyIncome:  ParseMoney(raw.MonthlyIncome),
		EmploymentType: NormalizeEmploymentType(raw.EmploymentType),
		DateOfBirth:    strings.TrimSpace(raw.DateOfBirth),
		VinOrModel:     strings.TrimSpace(raw.VinOrModel),
		PurchasePrice:  ParseMoney(raw.PurchasePrice),
		DownPayment:    ParseMoney(raw.DownPayment),
		TradeInValue:   ParseMoney(raw.TradeInValue),
		AccountBalance: ParseMoney(raw.AccountBalance),
		CreditScore:    raw.EstimatedCreditScore,
	}, nil
}
