package config

import "time"

const (
	// DefaultEnvironment is used when no environment selector is supplied.
	DefaultEnvironment = EnvQA

	// EndpointLoans is the loan collection resource.
	EndpointLoans = "/posts"
	// EndpointLoanByID is a single loan resource; {id} is substituted per request.
	EndpointLoanByID = "/posts/{id}"
	// EndpointUsers is the user collection resource.
	EndpointUsers = "/users"
	// EndpointTransactions is the transaction collection resource.
	EndpointTransactions = "/comments"

	// ConnectionTimeout bounds establishing a connection.
	ConnectionTimeout = 10000 * time.Millisecond
	// ReadTimeout bounds waiting for a response.
	ReadTimeout = 30000 * time.Millisecond
	// MaxResponseTime is the maximum acceptable response time asserted by timing checks.
	MaxResponseTime = 2000 * time.Millisecond

	// DefaultUserID is the user that owns generated loan applications.
	DefaultUserID = 1
	// MinLoanAmount is the smallest acceptable loan amount.
	MinLoanAmount = 1000.00
	// MaxLoanAmount is the largest acceptable loan amount.
	MaxLoanAmount = 1000000.00
	// DefaultInterestRate is the annual interest rate in percent.
	DefaultInterestRate = 12.5
	// MinTenure is the shortest tenure in months.
	MinTenure = 6
	// MaxTenure is the longest tenure in months.
	MaxTenure = 60
)
