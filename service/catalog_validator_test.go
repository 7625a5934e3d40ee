package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoloan-agent/domain"
	"autoloan-agent/repository"
)

func TestValidateCatalog_DefaultCatalogIsClean(t *testing.T) {
	assert.Empty(t, ValidateCatalog(repository.DefaultLenderCatalog()))
}

func TestValidateCatalog_ReportsProblems(t *testing.T) {
	good := testProduct("good", 600, 5)

	badAPR := testProduct("bad-apr", 600, 5)
	badAPR.APRRange.FairCredit = 3

	badTerms := testProduct("bad-terms", 600, 5)
	badTerms.LoanTermsMonths = []int{60, 48}

	noTerms := testProduct("no-terms", 600, 5)
	noTerms.LoanTermsMonths = nil

	badLTV := testProduct("bad-ltv", 600, 5)
	badLTV.MaxLTV = 0

	badScore := testProduct("bad-score", 900, 5)

	badRange := testProduct("bad-range", 600, 5)
	badRange.MinLoanAmount = 200000

	noEmployment := testProduct("no-employment", 600, 5)
	noEmployment.AcceptedEmploymentTypes = nil

	duplicate := testProduct("good", 600, 5)

	issues := ValidateCatalog([]domain.LenderProduct{
		good, badAPR, badTerms, noTerms, badLTV, badScore, badRange, noEmployment, duplicate,
	})

	byLender := map[string][]string{}
	for _, issue := range issues {
		byLender[issue.LenderID] = append(byLender[issue.LenderID], issue.Problem)
	}

	require.Len(t, byLender["good"], 1)
	assert.Equal(t, "duplicate id", byLender["good"][0])
	assert.Contains(t, byLender["bad-apr"][0], "APR table out of order")
	assert.Equal(t, []string{"loan terms not strictly ascending"}, byLender["bad-terms"])
	assert.Equal(t, []string{"no loan terms"}, byLender["no-terms"])
	assert.Equal(t, []string{"max LTV 0.00 outside (0, 1.5]"}, byLender["bad-ltv"])
	assert.Equal(t, []string{"min credit score 900 outside [300, 850]"}, byLender["bad-score"])
	assert.Equal(t, []string{"loan amount range [200000, 100000] is invalid"}, byLender["bad-range"])
	assert.Equal(t, []string{"no accepted employment types"}, byLender["no-employment"])

	assert.Equal(t, "bad-ltv: max LTV 0.00 outside (0, 1.5]", CatalogIssue{LenderID: "bad-ltv", Problem: "max LTV 0.00 outside (0, 1.5]"}.String())
}
