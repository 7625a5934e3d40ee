package service

import (
	"fmt"
	"sort"
	"strings"

	"autoloan-agent/domain"
)

type OfferSort string

const (
	SortByAPR     OfferSort = "apr"
	SortByPayment OfferSort = "payment"
	SortByTerm    OfferSort = "term"
	SortByTotal   OfferSort = "total"
)

type OfferFilter string

const (
	FilterAll         OfferFilter = "all"
	FilterBank        OfferFilter = "bank"
	FilterCreditUnion OfferFilter = "credit-union"
	FilterOnline      OfferFilter = "online"
)

// ComparedOffer is a quote with its total cost over the term.
type ComparedOffer struct {
	domain.LenderQuote
	TotalCost float64 `json:"totalCost"`
	TotalFees float64 `json:"totalFees"`
}

// CompareOffers filters and sorts quotes for side-by-side comparison. Empty
// options default to apr / all. The input slice is not modified.
func CompareOffers(quotes []domain.LenderQuote, sortBy OfferSort, filterBy OfferFilter) ([]ComparedOffer, error) {
	if sortBy == "" {
		sortBy = SortByAPR
	}
	if filterBy == "" {
		filterBy = FilterAll
	}

	var less func(a, b ComparedOffer) bool
	switch sortBy {
	case SortByAPR:
		less = func(a, b ComparedOffer) bool { return a.OfferedAPR < b.OfferedAPR }
	case SortByPayment:
		less = func(a, b ComparedOffer) bool { return a.MonthlyPayment < b.MonthlyPayment }
	case SortByTerm:
		less = func(a, b ComparedOffer) bool { return a.TermLength < b.TermLength }
	case SortByTotal:
		less = func(a, b ComparedOffer) bool { return a.TotalCost < b.TotalCost }
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", domain.ErrValidation, sortBy)
	}

	var keep func(name string) bool
	switch filterBy {
	case FilterAll:
		keep = func(string) bool { return true }
	case FilterBank:
		keep = func(name string) bool { return strings.Contains(name, "bank") }
	case FilterCreditUnion:
		keep = func(name string) bool { return strings.Contains(name, "credit union") }
	case FilterOnline:
		keep = func(name string) bool {
			return !strings.Contains(name, "bank") && !strings.Contains(name, "credit union")
		}
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", domain.ErrValidation, filterBy)
	}

	out := make([]ComparedOffer, 0, len(quotes))
	for _, q := range quotes {
		if !keep(strings.ToLower(q.LenderName)) {
			continue
		}
		out = append(out, ComparedOffer{
			LenderQuote: q.Clone(),
			TotalCost:   q.MonthlyPayment * float64(q.TermLength),
			TotalFees:   q.Fees.Total(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}
