package domain

// Employment types accepted by the lender catalog.
const (
	EmploymentFullTime     = "Full-time"
	EmploymentPartTime     = "Part-time"
	EmploymentSelfEmployed = "Self-employed"
	EmploymentRetired      = "Retired"
)

// RawBorrowerProfile is the loosely typed record collected by the
// conversation wizard. Money fields arrive as display strings ("$1,234").
type RawBorrowerProfile struct {
	FullName             string `json:"fullName,omitempty"`
	Email                string `json:"email,omitempty"`
	MonthlyIncome        string `json:"monthlyIncome"`
	EmploymentType       string `json:"employmentType,omitempty"`
	EmployerName         string `json:"employerName,omitempty"`
	DateOfBirth          string `json:"dateOfBirth,omitempty"`
	VehicleType          string `json:"vehicleType,omitempty"`
	VinOrModel           string `json:"vinOrModel,omitempty"`
	PurchasePrice        string `json:"purchasePrice,omitempty"`
	DownPayment          string `json:"downPayment,omitempty"`
	TradeInValue         string `json:"tradeInValue,omitempty"`
	AccountBalance       string `json:"accountBalance,omitempty"`
	EstimatedCreditScore int    `json:"estimatedCreditScore,omitempty"`
}

// BorrowerProfile is the validated snapshot consumed by matching and quoting.
// Money values are whole dollars.
type BorrowerProfile struct {
	MonthlyIncome  float64 `json:"monthlyIncome"`
	EmploymentType string  `json:"employmentType,omitempty"`
	DateOfBirth    string  `json:"dateOfBirth,omitempty"`
	VinOrModel     string  `json:"vinOrModel,omitempty"`
	PurchasePrice  float64 `json:"purchasePrice,omitempty"`
	DownPayment    float64 `json:"downPayment"`
	TradeInValue   float64 `json:"tradeInValue"`
	AccountBalance float64 `json:"accountBalance"`

	// CreditScore is set when the caller already knows the score; zero means
	// it must be estimated.
	CreditScore int `json:"creditScore,omitempty"`
}

// BorrowerSummary is the resolved view of a profile used for one matching run.
type BorrowerSummary struct {
	MonthlyIncome        float64 `json:"monthlyIncome"`
	LoanAmount           float64 `json:"loanAmount"`
	VehicleValue         float64 `json:"vehicleValue"`
	DownPayment          float64 `json:"downPayment"`
	EstimatedCreditScore int     `json:"estimatedCreditScore"`
	EmploymentType       string  `json:"employmentType,omitempty"`
}

// VehicleEstimate is what the valuation oracle returns for a descriptor.
type VehicleEstimate struct {
	Make          string     `json:"make"`
	Model         string     `json:"model"`
	Year          int        `json:"year"`
	BasePrice     float64    `json:"basePrice"`
	IsNew         bool       `json:"isNew"`
	Depreciation  float64    `json:"depreciation"`
	FinalEstimate float64    `json:"finalEstimate"`
	Confidence    Confidence `json:"confidence"`
}
