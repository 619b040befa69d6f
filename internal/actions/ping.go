package actions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/testing/httpexec"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentPings = 4

// PingResult is the reachability of one environment.
type PingResult struct {
	Environment config.Environment
	BaseURL     string
	Status      int
	Elapsed     time.Duration
	Err         error
}

// Reachable reports whether the environment answered with any HTTP status.
func (p PingResult) Reachable() bool {
	return p.Err == nil
}

// Ping sends one GET to each environment's base URL concurrently. The base URL
// override only applies to the configured environment. Failures are
// recorded per environment; the returned error is only set for an invalid
// environment or a cancelled context.
func Ping(ctx context.Context, log logrus.FieldLogger, app *config.AppConfig, envs []config.Environment) ([]PingResult, error) {
	results := make([]PingResult, len(envs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPings)

	for i, env := range envs {
		resolved, err := pingTarget(app, env)
		if err != nil {
			return nil, err
		}

		g.Go(func() error {
			results[i] = ping(gctx, log, resolved)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, nil
}

func pingTarget(app *config.AppConfig, env config.Environment) (config.Resolved, error) {
	if strings.EqualFold(app.Environment, env.String()) {
		return app.Resolve(env.String())
	}

	resolved, err := config.ResolveEnvironment(env.String())
	if err != nil {
		return config.Resolved{}, err
	}

	resolved.Timeouts = app.Timeouts

	return resolved, nil
}

func ping(ctx context.Context, log logrus.FieldLogger, env config.Resolved) PingResult {
	result := PingResult{Environment: env.Environment, BaseURL: env.BaseURL}

	executor := httpexec.NewExecutor(log, env.Timeouts)

	resp, err := executor.Execute(ctx, httpexec.Request{Method: http.MethodGet, URL: env.BaseURL + "/"})
	if err != nil {
		result.Err = err
		log.WithError(err).WithField("environment", env.Environment).Debug("environment unreachable")
		return result
	}

	result.Status = resp.Status
	result.Elapsed = resp.Elapsed

	return result
}
