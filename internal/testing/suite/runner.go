package suite

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/testing/assertion"
	"github.com/jason-fintech/loan-api-tests/internal/testing/httpexec"
	"github.com/sirupsen/logrus"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// Config configures a Runner.
type Config struct {
	App *config.AppConfig
	// Environment selects the target; empty uses App.Environment.
	Environment string
	// Executor sends requests. When nil one is built from the resolved timeouts.
	Executor httpexec.Executor
	Filter   Filter
	Hooks    Hooks
	Listener Listener
}

// Runner executes cases sequentially in Order and produces a Result.
type Runner interface {
	Run(ctx context.Context, cases []Case) (*Result, error)
	Phase() Phase
}

type runner struct {
	log   logrus.FieldLogger
	cfg   Config
	phase atomic.Int32
}

var _ Runner = (*runner)(nil)

// NewRunner creates a new suite runner.
func NewRunner(log logrus.FieldLogger, cfg Config) Runner {
	if cfg.App == nil {
		cfg.App = &config.AppConfig{Environment: string(config.DefaultEnvironment), Timeouts: config.DefaultTimeouts()}
	}

	if cfg.Listener == nil {
		cfg.Listener = NopListener{}
	}

	return &runner{
		log: log.WithField("component", "suite_runner"),
		cfg: cfg,
	}
}

func (r *runner) Phase() Phase {
	return Phase(r.phase.Load())
}

func (r *runner) enter(p Phase) {
	r.phase.Store(int32(p))
}

// Run validates and executes the cases. The returned error is non-nil only for
// suite-level setup failures; case failures are reported in the Result.
func (r *runner) Run(ctx context.Context, cases []Case) (*Result, error) {
	r.enter(PhaseSuiteSetup)
	defer r.enter(PhaseDone)

	ordered, err := prepareCases(cases)
	if err != nil {
		return nil, err
	}

	env, err := r.cfg.App.Resolve(r.cfg.Environment)
	if err != nil {
		return nil, err
	}

	executor := r.cfg.Executor
	if executor == nil {
		executor = httpexec.NewExecutor(r.log, env.Timeouts)
	}

	result := &Result{
		RunID:       uuid.NewString(),
		Environment: env.Environment,
		BaseURL:     env.BaseURL,
		Started:     time.Now(),
	}

	log := r.log.WithFields(logrus.Fields{
		"run_id":      result.RunID,
		"environment": env.Environment,
	})

	log.WithFields(logrus.Fields{
		"base_url": env.BaseURL,
		"cases":    len(ordered),
	}).Info("Starting test suite")

	providers := Providers(ordered)
	for _, issue := range CheckPlan(ordered, r.cfg.Filter) {
		log.WithFields(logrus.Fields{
			"case":      issue.Case,
			"missing":   issue.Missing,
			"providers": providersFor(providers, issue.Missing),
		}).Warn("Case depends on state no earlier selected case captures")
	}

	defer func() {
		r.enter(PhaseSuiteTeardown)

		result.Elapsed = time.Since(result.Started)

		if r.cfg.Hooks.AfterSuite != nil {
			r.cfg.Hooks.AfterSuite(ctx, result)
		}

		r.cfg.Listener.SuiteFinished(result)

		log.WithField("duration", result.Elapsed).Info("Test suite finished")
	}()

	r.cfg.Listener.SuiteStarted(result)

	if r.cfg.Hooks.BeforeSuite != nil {
		if err := r.cfg.Hooks.BeforeSuite(ctx, env); err != nil {
			return result, fmt.Errorf("%w: %w", ErrSuiteSetup, err)
		}
	}

	state := NewState()

	for i := range ordered {
		c := &ordered[i]
		caseResult := r.runCase(ctx, log, executor, env, state, c)
		result.Cases = append(result.Cases, caseResult)
	}

	return result, nil
}

func (r *runner) runCase(
	ctx context.Context,
	log logrus.FieldLogger,
	executor httpexec.Executor,
	env config.Resolved,
	state *State,
	c *Case,
) CaseResult {
	r.enter(PhaseCaseSetup)

	method := strings.ToUpper(c.Method)
	if method == "" {
		method = "GET"
	}

	res := CaseResult{
		Name:   c.Name,
		Order:  c.Order,
		Method: method,
		Status: StatusPassed,
	}

	log = log.WithFields(logrus.Fields{"case": c.Name, "order": c.Order})

	r.cfg.Listener.CaseStarted(c)

	if r.cfg.Filter != nil && !r.cfg.Filter(c.Name) {
		res.Status = StatusSkipped
		res.SkipReason = "excluded by filter"
		log.Debug("Skipping case")
		r.cfg.Listener.CaseFinished(&res)
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Status = StatusSkipped
		res.SkipReason = fmt.Sprintf("run cancelled: %v", err)
		log.Debug("Skipping case after cancellation")
		r.cfg.Listener.CaseFinished(&res)
		return res
	}

	log.Info("Setting up case")

	if r.cfg.Hooks.BeforeCase != nil {
		r.cfg.Hooks.BeforeCase(ctx, c)
	}

	defer func() {
		r.enter(PhaseCaseTeardown)

		if r.cfg.Hooks.AfterCase != nil {
			r.cfg.Hooks.AfterCase(ctx, c, &res)
		}

		log.WithFields(logrus.Fields{
			"status":  res.Status,
			"elapsed": res.Elapsed,
		}).Info("Tearing down case")

		r.cfg.Listener.CaseFinished(&res)
	}()

	for _, key := range c.Dependencies() {
		if !state.Has(key) {
			res.addError(fmt.Errorf("%w: state key %q was not captured", ErrMissingDependency, key))
		}
	}

	if res.Status == StatusFailed {
		log.Warn("Case dependencies not satisfied, request not sent")
		return res
	}

	target, err := buildURL(env.BaseURL, c, state)
	if err != nil {
		res.addError(err)
		return res
	}

	req := httpexec.Request{
		Method:  method,
		URL:     target,
		Headers: c.Headers,
		Body:    c.Body,
	}

	res.URL = target
	res.Curl = httpexec.ToCurl(req)

	r.enter(PhaseCaseExecuting)

	resp, err := executor.Execute(ctx, req)
	if err != nil {
		log.WithError(err).Warn("Request failed")
		res.addError(err)
		return res
	}

	res.Elapsed = resp.Elapsed
	res.ResponseStatus = resp.Status

	r.enter(PhaseCaseAsserting)

	for _, failure := range assertion.Evaluate(resp, c.Assertions) {
		res.addError(failure)
	}

	if res.Status != StatusPassed {
		return res
	}

	if err := capture(state, resp, c.Captures); err != nil {
		res.addError(err)
	}

	return res
}

// buildURL joins the base URL and the case path, filling placeholders from
// literal params first and captured state second.
func buildURL(baseURL string, c *Case, state *State) (string, error) {
	var missing []string

	path := placeholderPattern.ReplaceAllStringFunc(c.Path, func(match string) string {
		name := match[1 : len(match)-1]

		if value, ok := c.PathParams[name]; ok {
			return url.PathEscape(value)
		}

		if key, ok := c.StateParams[name]; ok {
			if value, found := state.Get(key); found {
				return url.PathEscape(Render(value))
			}
		}

		missing = append(missing, name)

		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s in %s", errUnresolvedPlaceholder, strings.Join(missing, ", "), c.Path)
	}

	target := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")

	if len(c.Query) > 0 {
		query := url.Values{}
		for k, v := range c.Query {
			query.Set(k, v)
		}
		target += "?" + query.Encode()
	}

	return target, nil
}

// capture resolves every capture path before writing any of them, so a case
// that fails to capture leaves no state behind.
func capture(state *State, resp *httpexec.Response, captures map[string]string) error {
	keys := make([]string, 0, len(captures))
	for key := range captures {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	resolved := make(map[string]ldvalue.Value, len(keys))

	for _, key := range keys {
		if resp.ParseErr != nil {
			return fmt.Errorf("%w: %s: %w", errCaptureFailed, key, resp.ParseErr)
		}

		path := captures[key]

		value, found := assertion.Lookup(resp.Body, path)
		if !found || value.IsNull() {
			return fmt.Errorf("%w: %s: body.%s is not present", errCaptureFailed, key, path)
		}

		if state.Has(key) {
			return fmt.Errorf("%w: %q", ErrStateKeyExists, key)
		}

		resolved[key] = value
	}

	for _, key := range keys {
		if err := state.Set(key, resolved[key]); err != nil {
			return err
		}
	}

	return nil
}

func providersFor(providers map[string][]string, keys []string) []string {
	names := make([]string, 0)
	for _, key := range keys {
		names = append(names, providers[key]...)
	}

	return names
}
