// Package loansuite defines the built-in loan API regression cases.
package loansuite

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/datagen"
	"github.com/jason-fintech/loan-api-tests/internal/loan"
	"github.com/jason-fintech/loan-api-tests/internal/testing/assertion"
	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
)

const (
	// CreatedLoanIDKey is the state key holding the id of the loan created by the first case.
	CreatedLoanIDKey = "createdLoanId"

	// ExistingLoanID is a fixed resource present in every environment.
	ExistingLoanID = "1"
	// MissingLoanID never exists.
	MissingLoanID = "999999"

	createTimeLimit = 3 * time.Second
	expansionAmount = 5000.00
	expansionTenure = 24
	expansionReason = "Business Expansion"
)

// Case names, in execution order.
const (
	CaseCreateLoan     = "create loan application"
	CaseGetLoan        = "get loan by id"
	CaseGetMissingLoan = "get non-existent loan"
	CaseDeleteLoan     = "delete created loan"
	CaseUpdateLoan     = "update loan"
	CaseNegativeAmount = "create loan with negative amount"
	CaseListUsers      = "list users"
	CaseListTxns       = "list transactions"
)

// CreateLoanBody is the application submitted by the create case.
func CreateLoanBody() loan.Request {
	return loan.NewRequest(config.DefaultUserID, expansionAmount, config.DefaultInterestRate, expansionTenure, expansionReason)
}

// Core returns the create, fetch and missing-resource cases.
func Core() []suite.Case {
	return coreCases(config.MaxResponseTime)
}

// Full returns every built-in case. The update case sends a loan drawn from gen.
func Full(gen *datagen.Generator, timeouts config.Timeouts) ([]suite.Case, error) {
	update, err := gen.GenerateRandomLoan(config.DefaultUserID)
	if err != nil {
		return nil, fmt.Errorf("generating update payload: %w", err)
	}

	negative := CreateLoanBody()
	negative.Amount = -expansionAmount

	cases := coreCases(timeouts.MaxResponse)

	cases = append(cases,
		suite.Case{
			Name:        CaseDeleteLoan,
			Order:       40,
			Method:      http.MethodDelete,
			Path:        config.EndpointLoanByID,
			StateParams: map[string]string{"id": CreatedLoanIDKey},
			Assertions: []assertion.Assertion{
				assertion.StatusIn(http.StatusOK, http.StatusNoContent),
			},
		},
		suite.Case{
			Name:       CaseUpdateLoan,
			Order:      50,
			Method:     http.MethodPut,
			Path:       config.EndpointLoanByID,
			PathParams: map[string]string{"id": ExistingLoanID},
			Headers:    map[string]string{"X-Transaction-Id": gen.GenerateTransactionID()},
			Body:       update,
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(http.StatusOK),
				assertion.BodyFieldEquals("tenure", update.Tenure),
				assertion.ElapsedLessThan(timeouts.MaxResponse),
			},
		},
		suite.Case{
			Name:   CaseNegativeAmount,
			Order:  60,
			Method: http.MethodPost,
			Path:   config.EndpointLoans,
			Body:   negative,
			Assertions: []assertion.Assertion{
				assertion.StatusIn(http.StatusCreated, http.StatusBadRequest),
			},
		},
		suite.Case{
			Name:   CaseListUsers,
			Order:  70,
			Method: http.MethodGet,
			Path:   config.EndpointUsers,
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(http.StatusOK),
				assertion.BodySizeGreaterThan(0),
				assertion.HeaderContains("Content-Type", "application/json"),
			},
		},
		suite.Case{
			Name:   CaseListTxns,
			Order:  80,
			Method: http.MethodGet,
			Path:   config.EndpointTransactions,
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(http.StatusOK),
				assertion.BodySizeGreaterThan(0),
			},
		},
	)

	return cases, nil
}

func coreCases(maxResponse time.Duration) []suite.Case {
	return []suite.Case{
		{
			Name:   CaseCreateLoan,
			Order:  10,
			Method: http.MethodPost,
			Path:   config.EndpointLoans,
			Body:   CreateLoanBody(),
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(http.StatusCreated),
				assertion.BodyFieldNotNull("id"),
				assertion.ElapsedLessThan(createTimeLimit),
			},
			Captures: map[string]string{CreatedLoanIDKey: "id"},
		},
		{
			Name:       CaseGetLoan,
			Order:      20,
			Method:     http.MethodGet,
			Path:       config.EndpointLoanByID,
			PathParams: map[string]string{"id": ExistingLoanID},
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(http.StatusOK),
				assertion.BodyFieldEquals("id", 1),
				assertion.ElapsedLessThan(maxResponse),
			},
		},
		{
			Name:       CaseGetMissingLoan,
			Order:      30,
			Method:     http.MethodGet,
			Path:       config.EndpointLoanByID,
			PathParams: map[string]string{"id": MissingLoanID},
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(http.StatusNotFound),
			},
		},
	}
}
