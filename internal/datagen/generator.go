// Package datagen generates and validates loan test data.
package datagen

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/loan"
)

var (
	// ErrInvalidRange is returned when a lower bound exceeds its upper bound.
	ErrInvalidRange = errors.New("invalid range")
	// ErrDivisionByZero is returned when a calculation would divide by zero.
	ErrDivisionByZero = errors.New("division by zero")
)

const (
	// DateFormat is the ISO date layout used for application dates.
	DateFormat = "2006-01-02"

	defaultPurpose = "Business Loan"
)

// Generator produces random loan data. Two generators created with the same
// seed yield identical sequences. A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // test data, not secrets
		now: time.Now,
	}
}

// GenerateLoanAmount returns a uniformly distributed amount in [min, max].
func (g *Generator) GenerateLoanAmount(min, max float64) (float64, error) {
	if min > max {
		return 0, fmt.Errorf("%w: loan amount min %.2f > max %.2f", ErrInvalidRange, min, max)
	}

	return min + (max-min)*g.rng.Float64(), nil
}

// GenerateTenure returns a uniformly distributed tenure in months within [min, max].
func (g *Generator) GenerateTenure(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: tenure min %d > max %d", ErrInvalidRange, min, max)
	}

	return g.rng.Intn(max-min+1) + min, nil
}

// GenerateLoanData builds a loan application at the default interest rate dated today.
func (g *Generator) GenerateLoanData(userID int, amount float64, tenure int) loan.Request {
	req := loan.NewRequest(userID, amount, config.DefaultInterestRate, tenure, defaultPurpose)
	req.ApplicationDate = CurrentDate(g.now())

	return req
}

// GenerateRandomLoan builds a loan application with amount and tenure drawn from the configured ranges.
func (g *Generator) GenerateRandomLoan(userID int) (loan.Request, error) {
	amount, err := g.GenerateLoanAmount(config.MinLoanAmount, config.MaxLoanAmount)
	if err != nil {
		return loan.Request{}, err
	}

	tenure, err := g.GenerateTenure(config.MinTenure, config.MaxTenure)
	if err != nil {
		return loan.Request{}, err
	}

	return g.GenerateLoanData(userID, amount, tenure), nil
}

// GenerateTransactionID returns an identifier of the form TXN<unix millis><0-999>.
func (g *Generator) GenerateTransactionID() string {
	return fmt.Sprintf("TXN%d%d", g.now().UnixMilli(), g.rng.Intn(1000))
}

// CurrentDate formats t as an ISO yyyy-MM-dd date.
func CurrentDate(t time.Time) string {
	return t.Format(DateFormat)
}
