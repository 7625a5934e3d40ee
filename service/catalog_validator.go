package service

import (
	"fmt"
	"strings"

	"autoloan-agent/domain"
)

// CatalogIssue is one data-quality problem found in a lender product.
type CatalogIssue struct {
	LenderID string `json:"lenderId"`
	Problem  string `json:"problem"`
}

func (i CatalogIssue) String() string {
	return i.LenderID + ": " + i.Problem
}

// ValidateCatalog checks the invariants the matching engine relies on but the
// catalog data does not enforce.
func ValidateCatalog(products []domain.LenderProduct) []CatalogIssue {
	var issues []CatalogIssue
	seen := make(map[string]bool, len(products))

	for _, p := range products {
		add := func(format string, args ...any) {
			issues = append(issues, CatalogIssue{LenderID: p.ID, Problem: fmt.Sprintf(format, args...)})
		}

		if strings.TrimSpace(p.ID) == "" {
			add("missing id")
		} else if seen[p.ID] {
			add("duplicate id")
		}
		seen[p.ID] = true

		r := p.APRRange
		if !(r.Min <= r.GoodCredit && r.GoodCredit <= r.FairCredit &&
			r.FairCredit <= r.PoorCredit && r.PoorCredit <= r.Max) {
			add("APR table out of order: min %.2f good %.2f fair %.2f poor %.2f max %.2f",
				r.Min, r.GoodCredit, r.FairCredit, r.PoorCredit, r.Max)
		}
		if p.MinLoanAmount < 0 || p.MinLoanAmount > p.MaxLoanAmount {
			add("loan amount range [%.0f, %.0f] is invalid", p.MinLoanAmount, p.MaxLoanAmount)
		}
		if len(p.LoanTermsMonths) == 0 {
			add("no loan terms")
		}
		for i, t := range p.LoanTermsMonths {
			if t <= 0 {
				add("non-positive loan term %d", t)
			}
			if i > 0 && t <= p.LoanTermsMonths[i-1] {
				add("loan terms not strictly ascending")
				break
			}
		}
		if p.MaxLTV <= 0 || p.MaxLTV > 1.5 {
			add("max LTV %.2f outside (0, 1.5]", p.MaxLTV)
		}
		if p.MinCreditScore < MinCreditScore || p.MinCreditScore > MaxCreditScore {
			add("min credit score %d outside [%d, %d]", p.MinCreditScore, MinCreditScore, MaxCreditScore)
		}
		if len(p.AcceptedEmploymentTypes) == 0 {
			add("no accepted employment types")
		}
	}
	return issues
}
