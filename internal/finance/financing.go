package finance

import (
	"errors"
	"fmt"
	"math"

	"estatify/server/internal/models"
)

var ErrInvalidFinancing = errors.New("invalid financing configuration")

// Longer terms overflow the annuity formula
const maxLoanTermYears = 100

// FinancingConfig describes how a purchase is financed
type FinancingConfig struct {
	// DownPayment in percent of the total cost (0-100)
	DownPayment float64 `form:"downPayment" json:"downPayment"`
	// InterestRate is the annual interest rate in percent
	InterestRate  float64 `form:"interestRate" json:"interestRate"`
	LoanTermYears int     `form:"loanTerm" json:"loanTerm"`
}

func (f FinancingConfig) Validate() error {
	if !isFinite(f.DownPayment) || !isFinite(f.InterestRate) {
		return fmt.Errorf("%w: down payment and interest rate must be finite numbers", ErrInvalidFinancing)
	}
	if f.DownPayment < 0 || f.DownPayment > 100 {
		return fmt.Errorf("%w: down payment must be between 0 and 100, got %v", ErrInvalidFinancing, f.DownPayment)
	}
	if f.InterestRate < 0 {
		return fmt.Errorf("%w: interest rate must not be negative, got %v", ErrInvalidFinancing, f.InterestRate)
	}
	if f.LoanTermYears <= 0 || f.LoanTermYears > maxLoanTermYears {
		return fmt.Errorf("%w: loan term must be between 1 and %d years, got %d", ErrInvalidFinancing, maxLoanTermYears, f.LoanTermYears)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MonthlyPayment returns the annuity payment of a loan. annualRate is in
// percent. A zero rate spreads the principal evenly over the term.
func MonthlyPayment(loanAmount, annualRate float64, termYears int) (float64, error) {
	numPayments := termYears * 12
	if numPayments <= 0 {
		return 0, fmt.Errorf("%w: loan term must be positive, got %d", ErrInvalidFinancing, termYears)
	}

	monthlyRate := annualRate / 100 / 12
	growth := math.Pow(1+monthlyRate, float64(numPayments))
	// Rates too small to change 1+monthlyRate are treated as interest free
	if monthlyRate == 0 || growth == 1 {
		return loanAmount / float64(numPayments), nil
	}

	payment := loanAmount * (monthlyRate * growth) / (growth - 1)
	if !isFinite(payment) {
		return 0, fmt.Errorf("%w: monthly payment is not a finite number for rate %v over %d years", ErrInvalidFinancing, annualRate, termYears)
	}
	return payment, nil
}

// ROIBreakdown is the return on the full investment after operating
// expenses. It differs from the acquisition ROI stored on listings, which
// ignores operating expenses.
type ROIBreakdown struct {
	AnnualRent      float64 `json:"annualRent"`
	AcquisitionCost float64 `json:"acquisitionCost"`
	TotalInvestment float64 `json:"totalInvestment"`
	AnnualExpenses  float64 `json:"annualExpenses"`
	NetAnnualIncome float64 `json:"netAnnualIncome"`
	OperatingROI    float64 `json:"operatingRoi"`
}

// OperatingROI computes the ROI breakdown of a listing. The listing price
// must be positive.
func (c *Calculator) OperatingROI(l *models.Listing) ROIBreakdown {
	annualRent := l.EstimatedRent * 12
	annualExpenses := l.Price * c.assumptions.AnnualExpenseRate
	netAnnualIncome := annualRent - annualExpenses
	totalInvestment := c.TotalInvestment(l.Price)

	return ROIBreakdown{
		AnnualRent:      annualRent,
		AcquisitionCost: c.AcquisitionCost(l.Price),
		TotalInvestment: totalInvestment,
		AnnualExpenses:  annualExpenses,
		NetAnnualIncome: netAnnualIncome,
		OperatingROI:    netAnnualIncome / totalInvestment * 100,
	}
}

type YearProjection struct {
	Year             int     `json:"year"`
	PropertyValue    float64 `json:"propertyValue"`
	AnnualRent       float64 `json:"annualRent"`
	Equity           float64 `json:"equity"`
	CumulativeReturn float64 `json:"cumulativeReturn"`
}

type FinancingProjection struct {
	Config            FinancingConfig  `json:"financing"`
	LoanAmount        float64          `json:"loanAmount"`
	MonthlyPayment    float64          `json:"monthlyPayment"`
	TotalLoanCost     float64          `json:"totalLoanCost"`
	MonthlyCashFlow   float64          `json:"monthlyCashFlow"`
	TotalInvestment   float64          `json:"totalInvestment"`
	ROIBreakdown      ROIBreakdown     `json:"roiBreakdown"`
	YearlyProjections []YearProjection `json:"yearlyProjections"`
}

// ProjectFinancing computes the mortgage, monthly cash flow and the yearly
// value/rent projection of a listing. The result only depends on its inputs.
func (c *Calculator) ProjectFinancing(l *models.Listing, cfg FinancingConfig) (*FinancingProjection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l.Price <= 0 {
		return nil, fmt.Errorf("%w: listing price must be positive", ErrInvalidFinancing)
	}

	totalCost := c.TotalInvestment(l.Price)
	loanAmount := totalCost * (1 - cfg.DownPayment/100)

	monthlyPayment, err := MonthlyPayment(loanAmount, cfg.InterestRate, cfg.LoanTermYears)
	if err != nil {
		return nil, err
	}

	monthlyUpkeep := l.Price * c.assumptions.MonthlyUpkeepRate
	cashInvested := totalCost * (cfg.DownPayment / 100)
	breakdown := c.OperatingROI(l)

	return &FinancingProjection{
		Config:            cfg,
		LoanAmount:        loanAmount,
		MonthlyPayment:    monthlyPayment,
		TotalLoanCost:     monthlyPayment * float64(cfg.LoanTermYears*12),
		MonthlyCashFlow:   l.EstimatedRent - monthlyPayment - monthlyUpkeep,
		TotalInvestment:   cashInvested,
		ROIBreakdown:      breakdown,
		YearlyProjections: c.project(l.Price, breakdown.AnnualRent, cashInvested),
	}, nil
}

func (c *Calculator) project(price, baseAnnualRent, cashInvested float64) []YearProjection {
	years := c.assumptions.ProjectionYears
	projections := make([]YearProjection, 0, years)

	for year := 1; year <= years; year++ {
		propertyValue := price * math.Pow(1+c.assumptions.AppreciationRate, float64(year))
		annualRent := baseAnnualRent * math.Pow(1+c.assumptions.RentGrowthRate, float64(year))

		projections = append(projections, YearProjection{
			Year:             year,
			PropertyValue:    propertyValue,
			AnnualRent:       annualRent,
			Equity:           propertyValue - cashInvested*c.assumptions.EquityCashFactor,
			CumulativeReturn: annualRent*float64(year) + (propertyValue - price),
		})
	}

	return projections
}
