package suite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/testing/assertion"
	"github.com/jason-fintech/loan-api-tests/internal/testing/httpexec"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const fakeBaseURL = "http://loans.test"

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return log
}

func appConfig(baseURL string) *config.AppConfig {
	return &config.AppConfig{
		Environment:     "QA",
		BaseURLOverride: baseURL,
		Timeouts:        config.DefaultTimeouts(),
	}
}

// loanAPI emulates the placeholder loan endpoints.
func loanAPI() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":101,"userId":1}`))
	})

	mux.HandleFunc("GET /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.PathValue("id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"userId":1,"title":"loan"}`))
	})

	mux.HandleFunc("DELETE /posts/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{}`))
	})

	return mux
}

func scenarioCases() []Case {
	// Declared out of order on purpose; Order decides execution.
	return []Case{
		{
			Name:       "get non-existent loan",
			Order:      3,
			Method:     http.MethodGet,
			Path:       "/posts/{id}",
			PathParams: map[string]string{"id": "999999"},
			Assertions: []assertion.Assertion{assertion.StatusEquals(404)},
		},
		{
			Name:   "create loan application",
			Order:  1,
			Method: http.MethodPost,
			Path:   "/posts",
			Body: map[string]interface{}{
				"userId": 1, "amount": 5000.00, "interestRate": 12.5, "tenure": 24, "purpose": "Business Expansion",
			},
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(201),
				assertion.BodyFieldNotNull("id"),
				assertion.ElapsedLessThan(3 * time.Second),
			},
			Captures: map[string]string{"createdLoanId": "id"},
		},
		{
			Name:       "get loan by id",
			Order:      2,
			Method:     http.MethodGet,
			Path:       "/posts/{id}",
			PathParams: map[string]string{"id": "1"},
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(200),
				assertion.BodyFieldEquals("id", 1),
			},
		},
	}
}

func TestRun_EndToEndScenario(t *testing.T) {
	t.Parallel()

	handler, requests := httphelpers.RecordingHandler(loanAPI())

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		cases := append(scenarioCases(), Case{
			Name:        "delete created loan",
			Order:       4,
			Method:      http.MethodDelete,
			Path:        "/posts/{id}",
			StateParams: map[string]string{"id": "createdLoanId"},
			Assertions:  []assertion.Assertion{assertion.StatusIn(200, 204)},
		})

		runner := NewRunner(newTestLogger(), Config{App: appConfig(server.URL)})

		result, err := runner.Run(context.Background(), cases)
		require.NoError(t, err)
		require.Len(t, result.Cases, 4)

		assert.True(t, result.OK())
		assert.Equal(t, config.EnvQA, result.Environment)
		assert.Equal(t, server.URL, result.BaseURL)
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, PhaseDone, runner.Phase())

		var names []string
		for _, c := range result.Cases {
			names = append(names, c.Name)
			assert.Equal(t, StatusPassed, c.Status, "case %s: %v", c.Name, c.Failures)
		}
		assert.Equal(t, []string{
			"create loan application", "get loan by id", "get non-existent loan", "delete created loan",
		}, names)

		assert.Equal(t, 201, result.Cases[0].ResponseStatus)
		assert.Contains(t, result.Cases[0].Curl, "curl -X POST")

		var paths []string
		for i := 0; i < 4; i++ {
			info := <-requests
			paths = append(paths, info.Request.Method+" "+info.Request.URL.Path)
		}
		assert.Equal(t, []string{"POST /posts", "GET /posts/1", "GET /posts/999999", "DELETE /posts/101"}, paths)
	})
}

func TestRun_MissingDependencySendsNoRequest(t *testing.T) {
	t.Parallel()

	handler, requests := httphelpers.RecordingHandler(loanAPI())

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		cases := []Case{
			{
				Name:       "create with wrong expectation",
				Order:      1,
				Method:     http.MethodPost,
				Path:       "/posts",
				Body:       map[string]interface{}{"userId": 1},
				Assertions: []assertion.Assertion{assertion.StatusEquals(200)},
				Captures:   map[string]string{"createdLoanId": "id"},
			},
			{
				Name:        "delete created loan",
				Order:       2,
				Method:      http.MethodDelete,
				Path:        "/posts/{id}",
				StateParams: map[string]string{"id": "createdLoanId"},
			},
			{
				Name:       "get loan by id",
				Order:      3,
				Path:       "/posts/1",
				Assertions: []assertion.Assertion{assertion.StatusEquals(200)},
			},
		}

		result, err := NewRunner(newTestLogger(), Config{App: appConfig(server.URL)}).Run(context.Background(), cases)
		require.NoError(t, err)
		require.Len(t, result.Cases, 3)

		assert.Equal(t, StatusFailed, result.Cases[0].Status)

		dependent := result.Cases[1]
		assert.Equal(t, StatusFailed, dependent.Status)
		require.Len(t, dependent.Errors, 1)
		assert.ErrorIs(t, dependent.Errors[0], ErrMissingDependency)
		assert.Zero(t, dependent.ResponseStatus)
		assert.Empty(t, dependent.Curl)

		assert.Equal(t, StatusPassed, result.Cases[2].Status)
		assert.False(t, result.OK())
		assert.Len(t, result.Failed(), 2)

		first := <-requests
		assert.Equal(t, http.MethodPost, first.Request.Method)
		second := <-requests
		assert.Equal(t, "/posts/1", second.Request.URL.Path)

		select {
		case extra := <-requests:
			t.Fatalf("unexpected request %s %s", extra.Request.Method, extra.Request.URL.Path)
		default:
		}
	})
}

type fakeExecutor struct {
	responses map[string]*httpexec.Response
	errs      map[string]error
	calls     []string
}

func (f *fakeExecutor) Execute(_ context.Context, req httpexec.Request) (*httpexec.Response, error) {
	key := req.Method + " " + strings.TrimPrefix(req.URL, fakeBaseURL)
	f.calls = append(f.calls, key)

	if err, ok := f.errs[key]; ok {
		return nil, err
	}

	if resp, ok := f.responses[key]; ok {
		return resp, nil
	}

	return &httpexec.Response{Status: http.StatusNotFound, Body: ldvalue.Null()}, nil
}

func TestRun_NetworkErrorIsScopedToCase(t *testing.T) {
	t.Parallel()

	netErr := &httpexec.NetworkError{Method: "GET", URL: fakeBaseURL + "/users", Err: errors.New("connection refused")}

	executor := &fakeExecutor{
		errs: map[string]error{"GET /users": netErr},
		responses: map[string]*httpexec.Response{
			"GET /comments": {Status: 200, Body: ldvalue.ArrayOf(ldvalue.Int(1)), RawBody: []byte("[1]")},
		},
	}

	cases := []Case{
		{Name: "list users", Order: 1, Path: "/users", Assertions: []assertion.Assertion{assertion.StatusEquals(200)}},
		{Name: "list transactions", Order: 2, Path: "/comments", Assertions: []assertion.Assertion{
			assertion.StatusEquals(200),
			assertion.BodySizeGreaterThan(0),
		}},
	}

	result, err := NewRunner(newTestLogger(), Config{
		App:      appConfig(fakeBaseURL),
		Executor: executor,
	}).Run(context.Background(), cases)
	require.NoError(t, err)

	require.Len(t, result.Cases, 2)
	assert.Equal(t, StatusFailed, result.Cases[0].Status)
	require.Len(t, result.Cases[0].Errors, 1)
	assert.True(t, httpexec.IsNetworkError(result.Cases[0].Errors[0]))
	assert.Contains(t, result.Cases[0].Failures[0], "connection refused")

	assert.Equal(t, StatusPassed, result.Cases[1].Status)
	assert.Equal(t, []string{"GET /users", "GET /comments"}, executor.calls)
}

func TestRun_CollectsAllAssertionFailures(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{responses: map[string]*httpexec.Response{
		"GET /posts/1": {
			Status:  500,
			Body:    ldvalue.Parse([]byte(`{"error":"boom"}`)),
			Elapsed: 5 * time.Second,
		},
	}}

	result, err := NewRunner(newTestLogger(), Config{App: appConfig(fakeBaseURL), Executor: executor}).
		Run(context.Background(), []Case{{
			Name:  "get loan by id",
			Order: 1,
			Path:  "/posts/1",
			Assertions: []assertion.Assertion{
				assertion.StatusEquals(200),
				assertion.BodyFieldEquals("id", 1),
				assertion.ElapsedLessThan(2 * time.Second),
			},
		}})
	require.NoError(t, err)

	res := result.Cases[0]
	assert.Equal(t, StatusFailed, res.Status)
	assert.Len(t, res.Failures, 3)
	assert.Equal(t, 5*time.Second, res.Elapsed)
	assert.Equal(t, 500, res.ResponseStatus)
}

func TestRun_CaptureFailureFailsCase(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{responses: map[string]*httpexec.Response{
		"POST /posts": {Status: 201, Body: ldvalue.Parse([]byte(`{"title":"x"}`))},
	}}

	result, err := NewRunner(newTestLogger(), Config{App: appConfig(fakeBaseURL), Executor: executor}).
		Run(context.Background(), []Case{{
			Name:       "create loan",
			Order:      1,
			Method:     http.MethodPost,
			Path:       "/posts",
			Assertions: []assertion.Assertion{assertion.StatusEquals(201)},
			Captures:   map[string]string{"createdLoanId": "id"},
		}})
	require.NoError(t, err)

	res := result.Cases[0]
	assert.Equal(t, StatusFailed, res.Status)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], errCaptureFailed)
}

func TestRun_SetupErrors(t *testing.T) {
	t.Parallel()

	valid := Case{Name: "a", Order: 1, Path: "/posts"}

	tests := []struct {
		name     string
		app      *config.AppConfig
		env      string
		cases    []Case
		expected error
	}{
		{name: "no cases", app: appConfig(fakeBaseURL), expected: ErrNoCases},
		{
			name:     "duplicate order",
			app:      appConfig(fakeBaseURL),
			cases:    []Case{valid, {Name: "b", Order: 1, Path: "/users"}},
			expected: ErrDuplicateOrder,
		},
		{
			name:     "duplicate name",
			app:      appConfig(fakeBaseURL),
			cases:    []Case{valid, {Name: "a", Order: 2, Path: "/users"}},
			expected: ErrInvalidCase,
		},
		{
			name:     "missing path",
			app:      appConfig(fakeBaseURL),
			cases:    []Case{{Name: "a", Order: 1}},
			expected: ErrInvalidCase,
		},
		{
			name:     "unknown environment",
			app:      appConfig(""),
			env:      "UAT",
			cases:    []Case{valid},
			expected: config.ErrUnknownEnvironment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			executor := &fakeExecutor{}

			runner := NewRunner(newTestLogger(), Config{App: tt.app, Environment: tt.env, Executor: executor})

			result, err := runner.Run(context.Background(), tt.cases)
			require.ErrorIs(t, err, tt.expected)
			assert.Nil(t, result)
			assert.Empty(t, executor.calls)
			assert.Equal(t, PhaseDone, runner.Phase())
		})
	}
}

func TestRun_HooksAndPhases(t *testing.T) {
	t.Parallel()

	var events []string

	var r Runner

	hooks := Hooks{
		BeforeSuite: func(_ context.Context, env config.Resolved) error {
			events = append(events, fmt.Sprintf("before-suite %s %s", env.Environment, r.Phase()))
			return nil
		},
		AfterSuite: func(_ context.Context, result *Result) {
			events = append(events, fmt.Sprintf("after-suite %d %s", len(result.Cases), r.Phase()))
		},
		BeforeCase: func(_ context.Context, c *Case) {
			events = append(events, fmt.Sprintf("before-case %s %s", c.Name, r.Phase()))
		},
		AfterCase: func(_ context.Context, c *Case, res *CaseResult) {
			events = append(events, fmt.Sprintf("after-case %s %s %s", c.Name, res.Status, r.Phase()))
		},
	}

	executor := &fakeExecutor{
		errs: map[string]error{"GET /users": errors.New("boom")},
		responses: map[string]*httpexec.Response{
			"GET /posts/1": {Status: 200, Body: ldvalue.Null()},
		},
	}

	r = NewRunner(newTestLogger(), Config{App: appConfig(fakeBaseURL), Executor: executor, Hooks: hooks})

	_, err := r.Run(context.Background(), []Case{
		{Name: "second", Order: 20, Path: "/users"},
		{Name: "first", Order: 10, Path: "/posts/1", Assertions: []assertion.Assertion{assertion.StatusEquals(200)}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"before-suite QA SUITE_SETUP",
		"before-case first CASE_SETUP",
		"after-case first PASSED CASE_TEARDOWN",
		"before-case second CASE_SETUP",
		"after-case second FAILED CASE_TEARDOWN",
		"after-suite 2 SUITE_TEARDOWN",
	}, events)
	assert.Equal(t, PhaseDone, r.Phase())
}

func TestRun_BeforeSuiteErrorStillTearsDown(t *testing.T) {
	t.Parallel()

	afterSuite := false
	executor := &fakeExecutor{}

	result, err := NewRunner(newTestLogger(), Config{
		App:      appConfig(fakeBaseURL),
		Executor: executor,
		Hooks: Hooks{
			BeforeSuite: func(context.Context, config.Resolved) error { return errors.New("no token") },
			AfterSuite:  func(context.Context, *Result) { afterSuite = true },
		},
	}).Run(context.Background(), []Case{{Name: "a", Order: 1, Path: "/posts"}})

	require.ErrorIs(t, err, ErrSuiteSetup)
	require.NotNil(t, result)
	assert.Empty(t, result.Cases)
	assert.True(t, afterSuite)
	assert.Empty(t, executor.calls)
}

func TestRun_FilterSkipsCasesAndTheirCaptures(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{responses: map[string]*httpexec.Response{
		"POST /posts": {Status: 201, Body: ldvalue.Parse([]byte(`{"id":101}`))},
	}}

	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^create"))

	result, err := NewRunner(newTestLogger(), Config{
		App:      appConfig(fakeBaseURL),
		Executor: executor,
		Filter:   filters.AsFilter,
	}).Run(context.Background(), []Case{
		{Name: "create loan", Order: 1, Method: http.MethodPost, Path: "/posts", Captures: map[string]string{"createdLoanId": "id"}},
		{Name: "delete loan", Order: 2, Method: http.MethodDelete, Path: "/posts/{id}", StateParams: map[string]string{"id": "createdLoanId"}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSkipped, result.Cases[0].Status)
	assert.Equal(t, "excluded by filter", result.Cases[0].SkipReason)
	assert.Equal(t, StatusFailed, result.Cases[1].Status)
	assert.ErrorIs(t, result.Cases[1].Errors[0], ErrMissingDependency)
	assert.Empty(t, executor.calls)
}

func TestRun_CancelledContextSkipsRemainingCases(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := &fakeExecutor{}

	result, err := NewRunner(newTestLogger(), Config{App: appConfig(fakeBaseURL), Executor: executor}).
		Run(ctx, []Case{{Name: "a", Order: 1, Path: "/posts"}, {Name: "b", Order: 2, Path: "/users"}})
	require.NoError(t, err)

	for _, c := range result.Cases {
		assert.Equal(t, StatusSkipped, c.Status)
		assert.Contains(t, c.SkipReason, "cancelled")
	}
	assert.Empty(t, executor.calls)
	assert.True(t, result.OK())
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	state := NewState()
	require.NoError(t, state.Set("createdLoanId", ldvalue.Int(101)))
	require.NoError(t, state.Set("ref", ldvalue.String("a b")))

	tests := []struct {
		name     string
		c        Case
		expected string
		err      error
	}{
		{name: "plain", c: Case{Path: "/users"}, expected: "http://loans.test/users"},
		{name: "no leading slash", c: Case{Path: "users"}, expected: "http://loans.test/users"},
		{
			name:     "literal param",
			c:        Case{Path: "/posts/{id}", PathParams: map[string]string{"id": "1"}},
			expected: "http://loans.test/posts/1",
		},
		{
			name:     "state param",
			c:        Case{Path: "/posts/{id}", StateParams: map[string]string{"id": "createdLoanId"}},
			expected: "http://loans.test/posts/101",
		},
		{
			name:     "escaped state param",
			c:        Case{Path: "/refs/{ref}", StateParams: map[string]string{"ref": "ref"}},
			expected: "http://loans.test/refs/a%20b",
		},
		{
			name:     "query",
			c:        Case{Path: "/comments", Query: map[string]string{"postId": "1", "sort": "desc"}},
			expected: "http://loans.test/comments?postId=1&sort=desc",
		},
		{name: "unresolved", c: Case{Path: "/posts/{id}"}, err: errUnresolvedPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target, err := buildURL(fakeBaseURL+"/", &tt.c, state)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}

func TestRun_PartialCaptureWritesNoState(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		executor := &fakeExecutor{responses: map[string]*httpexec.Response{
			"POST /posts": {Status: 201, Body: ldvalue.Parse([]byte(`{"id":101}`))},
		}}

		result, err := NewRunner(newTestLogger(), Config{App: appConfig(fakeBaseURL), Executor: executor}).
			Run(context.Background(), []Case{
				{
					Name:       "create loan",
					Order:      1,
					Method:     http.MethodPost,
					Path:       "/posts",
					Assertions: []assertion.Assertion{assertion.StatusEquals(201)},
					Captures:   map[string]string{"createdLoanId": "id", "ref": "reference"},
				},
				{
					Name:        "delete created loan",
					Order:       2,
					Method:      http.MethodDelete,
					Path:        "/posts/{id}",
					StateParams: map[string]string{"id": "createdLoanId"},
				},
			})
		require.NoError(t, err)
		require.Len(t, result.Cases, 2)

		assert.Equal(t, StatusFailed, result.Cases[0].Status)
		require.Len(t, result.Cases[0].Errors, 1)
		assert.ErrorIs(t, result.Cases[0].Errors[0], errCaptureFailed)

		require.Len(t, result.Cases[1].Errors, 1)
		assert.ErrorIs(t, result.Cases[1].Errors[0], ErrMissingDependency)
		require.Equal(t, []string{"POST /posts"}, executor.calls)
	}
}

func TestRun_NetworkErrorOnCreatorBlocksDependents(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{
		errs: map[string]error{
			"POST /posts": &httpexec.NetworkError{Method: "POST", URL: fakeBaseURL + "/posts", Err: errors.New("connection reset")},
		},
		responses: map[string]*httpexec.Response{
			"GET /posts/1": {Status: 200, Body: ldvalue.Parse([]byte(`{"id":1}`))},
		},
	}

	result, err := NewRunner(newTestLogger(), Config{App: appConfig(fakeBaseURL), Executor: executor}).
		Run(context.Background(), []Case{
			{
				Name:       "create loan",
				Order:      1,
				Method:     http.MethodPost,
				Path:       "/posts",
				Assertions: []assertion.Assertion{assertion.StatusEquals(201)},
				Captures:   map[string]string{"createdLoanId": "id"},
			},
			{
				Name:        "delete created loan",
				Order:       2,
				Method:      http.MethodDelete,
				Path:        "/posts/{id}",
				StateParams: map[string]string{"id": "createdLoanId"},
			},
			{
				Name:       "get loan by id",
				Order:      3,
				Path:       "/posts/1",
				Assertions: []assertion.Assertion{assertion.BodyFieldEquals("id", 1)},
			},
		})
	require.NoError(t, err)
	require.Len(t, result.Cases, 3)

	require.Len(t, result.Cases[0].Errors, 1)
	assert.True(t, httpexec.IsNetworkError(result.Cases[0].Errors[0]))

	require.Len(t, result.Cases[1].Errors, 1)
	assert.ErrorIs(t, result.Cases[1].Errors[0], ErrMissingDependency)

	assert.Equal(t, StatusPassed, result.Cases[2].Status)
	assert.Equal(t, []string{"POST /posts", "GET /posts/1"}, executor.calls)
}

type eventListener struct {
	events []string
}

func (l *eventListener) SuiteStarted(*Result)       { l.events = append(l.events, "suite-started") }
func (l *eventListener) CaseStarted(c *Case)        { l.events = append(l.events, "case-started "+c.Name) }
func (l *eventListener) CaseFinished(r *CaseResult) { l.events = append(l.events, "case-finished "+r.Name) }
func (l *eventListener) SuiteFinished(*Result)      { l.events = append(l.events, "suite-finished") }

func TestRun_BeforeSuiteErrorPairsListenerEvents(t *testing.T) {
	t.Parallel()

	listener := &eventListener{}

	_, err := NewRunner(newTestLogger(), Config{
		App:      appConfig(fakeBaseURL),
		Executor: &fakeExecutor{},
		Listener: listener,
		Hooks: Hooks{
			BeforeSuite: func(context.Context, config.Resolved) error { return errors.New("no token") },
		},
	}).Run(context.Background(), []Case{{Name: "a", Order: 1, Path: "/posts"}})

	require.ErrorIs(t, err, ErrSuiteSetup)
	assert.Equal(t, []string{"suite-started", "suite-finished"}, listener.events)
}
