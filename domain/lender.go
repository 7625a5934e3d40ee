package domain

// Confidence is the qualitative strength of a match or quote.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidence tiers, higher is stronger.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// APRRange holds a lender's rate table by credit tier plus absolute bounds.
type APRRange struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	GoodCredit float64 `json:"goodCredit"`
	FairCredit float64 `json:"fairCredit"`
	PoorCredit float64 `json:"poorCredit"`
}

// LenderProduct is an immutable catalog entry.
type LenderProduct struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	MinLoanAmount           float64  `json:"minLoanAmount"`
	MaxLoanAmount           float64  `json:"maxLoanAmount"`
	MinCreditScore          int      `json:"minCreditScore"`
	MinMonthlyIncome        float64  `json:"minMonthlyIncome"`
	AcceptedEmploymentTypes []string `json:"acceptedEmploymentTypes"`
	LoanTermsMonths         []int    `json:"loanTermsMonths"`
	APRRange                APRRange `json:"aprRange"`
	MaxLTV                  float64  `json:"maxLTV"`
	SpecialPrograms         []string `json:"specialPrograms,omitempty"`
	IsActive                bool     `json:"isActive"`
}

// AcceptsEmployment reports whether the employment type is in the accepted set.
func (l LenderProduct) AcceptsEmployment(employmentType string) bool {
	for _, t := range l.AcceptedEmploymentTypes {
		if t == employmentType {
			return true
		}
	}
	return false
}

// PreferredTerm is 60 months when offered, otherwise the first listed term.
func (l LenderProduct) PreferredTerm() int {
	for _, t := range l.LoanTermsMonths {
		if t == 60 {
			return 60
		}
	}
	if len(l.LoanTermsMonths) == 0 {
		return 0
	}
	return l.LoanTermsMonths[0]
}

// LenderMatch is the result of evaluating one eligible lender.
type LenderMatch struct {
	Lender         LenderProduct `json:"lender"`
	EstimatedAPR   float64       `json:"estimatedAPR"`
	MonthlyPayment float64       `json:"monthlyPayment"`
	LoanAmount     float64       `json:"loanAmount"`
	LoanTerm       int           `json:"loanTerm"`
	Confidence     Confidence    `json:"confidence"`
	Reasons        []string      `json:"reasons"`
}

// MatchResult is returned by a matching run.
type MatchResult struct {
	Matches         []LenderMatch   `json:"matches"`
	NoMatchReasons  []string        `json:"noMatchReasons"`
	BorrowerSummary BorrowerSummary `json:"borrowerSummary"`
}
