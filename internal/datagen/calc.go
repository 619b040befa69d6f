package datagen

import (
	"math"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes formatted amounts.
const CurrencySymbol = "₹"

// CalculateSimpleInterest returns principal * rate * months / 1200, with rate as an annual percentage.
func CalculateSimpleInterest(principal, rate float64, months int) float64 {
	return (principal * rate * float64(months)) / (12 * 100)
}

// CalculateEMI returns the equated monthly installment for an amortized loan.
// A zero rate degenerates to principal / months.
func CalculateEMI(principal, rate float64, months int) (float64, error) {
	if months <= 0 {
		return 0, ErrDivisionByZero
	}

	monthlyRate := rate / (12 * 100)
	if monthlyRate == 0 {
		return principal / float64(months), nil
	}

	growth := math.Pow(1+monthlyRate, float64(months))

	denominator := growth - 1
	if denominator == 0 {
		return 0, ErrDivisionByZero
	}

	return principal * monthlyRate * growth / denominator, nil
}

// IsValidLoanAmount reports whether amount lies within [min, max].
func IsValidLoanAmount(amount, min, max float64) bool {
	return amount >= min && amount <= max
}

// FormatCurrency renders an amount with two decimal places and the currency symbol.
func FormatCurrency(amount float64) string {
	return CurrencySymbol + decimal.NewFromFloat(amount).StringFixed(2)
}
