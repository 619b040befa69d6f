package actions

import (
	"errors"
	"fmt"

	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/datagen"
)

// ErrAmountOutOfRange is returned when a principal falls outside the accepted loan range.
var ErrAmountOutOfRange = errors.New("loan amount out of range")

// Calculation is the repayment breakdown for a loan.
type Calculation struct {
	Principal      float64
	Rate           float64
	Months         int
	SimpleInterest float64
	EMI            float64
	TotalPayable   float64
}

// Calculate computes simple interest and EMI for a loan. The principal must be
// within the configured loan amount range.
func Calculate(principal, rate float64, months int) (Calculation, error) {
	if !datagen.IsValidLoanAmount(principal, config.MinLoanAmount, config.MaxLoanAmount) {
		return Calculation{}, fmt.Errorf("%w: %s not within %s to %s", ErrAmountOutOfRange,
			datagen.FormatCurrency(principal),
			datagen.FormatCurrency(config.MinLoanAmount),
			datagen.FormatCurrency(config.MaxLoanAmount))
	}

	emi, err := datagen.CalculateEMI(principal, rate, months)
	if err != nil {
		return Calculation{}, err
	}

	return Calculation{
		Principal:      principal,
		Rate:           rate,
		Months:         months,
		SimpleInterest: datagen.CalculateSimpleInterest(principal, rate, months),
		EMI:            emi,
		TotalPayable:   emi * float64(months),
	}, nil
}

// Rows returns the calculation as label/value pairs with currency formatting.
func (c Calculation) Rows() [][]string {
	return [][]string{
		{"Principal", datagen.FormatCurrency(c.Principal)},
		{"Annual Rate", fmt.Sprintf("%.2f%%", c.Rate)},
		{"Tenure", fmt.Sprintf("%d months", c.Months)},
		{"Simple Interest", datagen.FormatCurrency(c.SimpleInterest)},
		{"Monthly EMI", datagen.FormatCurrency(c.EMI)},
		{"Total Payable", datagen.FormatCurrency(c.TotalPayable)},
	}
}
