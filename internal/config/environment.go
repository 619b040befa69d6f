package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownEnvironment is returned when an environment selector does not name a known environment.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment identifies a deployment of the loan API.
type Environment string

const (
	// EnvDev is the development deployment.
	EnvDev Environment = "DEV"
	// EnvQA is the QA deployment, backed by a public JSON placeholder API.
	EnvQA Environment = "QA"
	// EnvStaging is the staging deployment.
	EnvStaging Environment = "STAGING"
	// EnvProd is the production deployment.
	EnvProd Environment = "PROD"
)

var baseURLs = map[Environment]string{
	EnvDev:     "https://dev-api.fintech.com",
	EnvQA:      "https://jsonplaceholder.typicode.com",
	EnvStaging: "https://staging-api.fintech.com",
	EnvProd:    "https://api.fintech.com",
}

// Timeouts holds the connection, read and acceptable response time limits.
type Timeouts struct {
	Connection  time.Duration
	Read        time.Duration
	MaxResponse time.Duration
}

// DefaultTimeouts returns the documented timeout constants.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connection:  ConnectionTimeout,
		Read:        ReadTimeout,
		MaxResponse: MaxResponseTime,
	}
}

// Resolved is the outcome of resolving an environment selector.
type Resolved struct {
	Environment Environment
	BaseURL     string
	Timeouts    Timeouts
}

// Environments returns every known environment in declaration order.
func Environments() []Environment {
	return []Environment{EnvDev, EnvQA, EnvStaging, EnvProd}
}

// ResolveEnvironment maps a case-insensitive environment name to its base URL and timeouts.
func ResolveEnvironment(name string) (Resolved, error) {
	env := Environment(strings.ToUpper(name))

	baseURL, ok := baseURLs[env]
	if !ok {
		return Resolved{}, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownEnvironment, name, environmentList())
	}

	return Resolved{
		Environment: env,
		BaseURL:     baseURL,
		Timeouts:    DefaultTimeouts(),
	}, nil
}

// BaseURL returns the fixed base URL for the environment, or "" if it is unknown.
func (e Environment) BaseURL() string {
	return baseURLs[e]
}

func (e Environment) String() string {
	return string(e)
}

func environmentList() string {
	envs := Environments()
	names := make([]string, 0, len(envs))

	for _, env := range envs {
		names = append(names, string(env))
	}

	return strings.Join(names, ", ")
}
