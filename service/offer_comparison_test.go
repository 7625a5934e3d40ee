package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoloan-agent/domain"
)

func comparisonQuotes() []domain.LenderQuote {
	bank := testQuote("ally-bank", 6.1, domain.QuoteFees{Processing: 300})
	bank.LenderName = "Ally Bank Auto"
	cu := testQuote("credit-union-one", 4.8, domain.QuoteFees{Processing: 250, Documentation: 100})
	cu.LenderName = "Local Credit Union"
	cu.TermLength = 72
	cu.MonthlyPayment = monthlyPaymentDollars(20000, 4.8, 72)
	online := testQuote("lightstream", 5.0, domain.QuoteFees{})
	online.LenderName = "LightStream Auto"
	online.TermLength = 36
	online.MonthlyPayment = monthlyPaymentDollars(20000, 5.0, 36)
	return []domain.LenderQuote{bank, cu, online}
}

func offerIDs(offers []ComparedOffer) []string {
	ids := make([]string, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.LenderID)
	}
	return ids
}

func TestCompareOffers_Sorts(t *testing.T) {
	quotes := comparisonQuotes()

	byAPR, err := CompareOffers(quotes, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"credit-union-one", "lightstream", "ally-bank"}, offerIDs(byAPR))

	byPayment, err := CompareOffers(quotes, SortByPayment, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"credit-union-one", "ally-bank", "lightstream"}, offerIDs(byPayment))

	byTerm, err := CompareOffers(quotes, SortByTerm, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"lightstream", "ally-bank", "credit-union-one"}, offerIDs(byTerm))

	byTotal, err := CompareOffers(quotes, SortByTotal, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"lightstream", "credit-union-one", "ally-bank"}, offerIDs(byTotal))

	cu := byAPR[0]
	assert.Equal(t, cu.MonthlyPayment*72, cu.TotalCost)
	assert.Equal(t, 350.0, cu.TotalFees)

	// input order is preserved
	assert.Equal(t, "ally-bank", quotes[0].LenderID)
}

func TestCompareOffers_Filters(t *testing.T) {
	quotes := comparisonQuotes()

	banks, err := CompareOffers(quotes, SortByAPR, FilterBank)
	require.NoError(t, err)
	assert.Equal(t, []string{"ally-bank"}, offerIDs(banks))

	unions, err := CompareOffers(quotes, SortByAPR, FilterCreditUnion)
	require.NoError(t, err)
	assert.Equal(t, []string{"credit-union-one"}, offerIDs(unions))

	online, err := CompareOffers(quotes, SortByAPR, FilterOnline)
	require.NoError(t, err)
	assert.Equal(t, []string{"lightstream"}, offerIDs(online))
}

func TestCompareOffers_RejectsUnknownOptions(t *testing.T) {
	_, err := CompareOffers(comparisonQuotes(), "cheapest", FilterAll)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = CompareOffers(comparisonQuotes(), SortByAPR, "crypto")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
