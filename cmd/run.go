package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/actions"
	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/datagen"
	"github.com/jason-fintech/loan-api-tests/internal/testing/casedef"
	"github.com/jason-fintech/loan-api-tests/internal/testing/loansuite"
	"github.com/jason-fintech/loan-api-tests/internal/testing/metrics"
	"github.com/jason-fintech/loan-api-tests/internal/testing/report"
	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	suiteCore = "core"
	suiteFull = "full"
)

var (
	errTestsFailed  = errors.New("some test cases failed")
	errUnknownSuite = errors.New("unknown suite")
)

var (
	// Run command flags
	runEnvironment string
	runSuite       string
	runCases       string
	runFilters     suite.RegexFilters
	runSeed        int64
	runTimeout     time.Duration
	runVerbose     bool
	runAllowProd   bool
	runReportJSON  string
	runReportXLSX  string
)

// runCmd runs a suite against one environment
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the loan API regression suite",
	Long: `Execute the regression cases in order against the selected environment.

Cases run sequentially; values captured by earlier cases (such as the id of a
created loan) feed later ones. A failed case never stops the run, but a case
whose captured inputs are missing fails without sending its request.

Example:
  loan-api-tests run --environment QA
  loan-api-tests run -e staging --suite core --report-json reports/run.json
  loan-api-tests run --cases cases/ --run 'loan' --skip '^delete'`,
	RunE: runTests,
}

func init() {
	runCmd.Flags().StringVarP(&runEnvironment, "environment", "e", "", "Target environment (DEV, QA, STAGING, PROD); defaults to API_ENV")
	runCmd.Flags().StringVar(&runSuite, "suite", suiteFull, "Built-in suite to run (core, full)")
	runCmd.Flags().StringVar(&runCases, "cases", "", "YAML case file or directory to run instead of a built-in suite")
	runCmd.Flags().Var(&runFilters.MustMatch, "run", "Regex pattern(s) selecting cases to run")
	runCmd.Flags().Var(&runFilters.MustNotMatch, "skip", "Regex pattern(s) selecting cases to skip")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Seed for generated test data (0 picks one from the clock)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "Overall run timeout")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Verbose output")
	runCmd.Flags().BoolVar(&runAllowProd, "allow-prod", false, "Allow write cases against PROD")
	runCmd.Flags().StringVar(&runReportJSON, "report-json", "", "Write a JSON report to this path")
	runCmd.Flags().StringVar(&runReportXLSX, "report-xlsx", "", "Write an Excel report to this path")

	rootCmd.AddCommand(runCmd)
}

func runTests(_ *cobra.Command, _ []string) error {
	log := newLogger(runVerbose)

	app, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	env, err := app.Resolve(runEnvironment)
	if err != nil {
		return err
	}

	if err := actions.GuardProduction(log, env, runAllowProd); err != nil {
		return err
	}

	cases, err := loadCases(log, app)
	if err != nil {
		return err
	}

	if runFilters.IsDefined() {
		fmt.Printf("Some cases will be skipped: %s\n\n", runFilters.Describe())
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	// Ctrl+C aborts the in-flight request; remaining cases are reported as skipped.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector(log)

	runner := suite.NewRunner(log, suite.Config{
		App:         app,
		Environment: runEnvironment,
		Filter:      runFilters.AsFilter,
		Listener: report.MultiListener{
			report.NewConsoleListener(os.Stdout, runVerbose),
			collector,
		},
	})

	result, err := runner.Run(ctx, cases)
	if err != nil {
		return fmt.Errorf("running suite: %w", err)
	}

	summary := report.Summarize(result)
	latency := collector.GetSummary()
	renderer := report.NewRenderer()

	fmt.Println(report.NewResultsFormatter(log, renderer).Format(result))
	fmt.Println(report.NewSummaryFormatter(log, renderer).Format(result, summary, &latency))

	if err := writeReports(log, result, summary, env.Timeouts.MaxResponse); err != nil {
		return err
	}

	if !summary.OK() {
		return fmt.Errorf("%w: %d of %d", errTestsFailed, summary.Failed, summary.Total)
	}

	return nil
}

func loadCases(log logrus.FieldLogger, app *config.AppConfig) ([]suite.Case, error) {
	if runCases != "" {
		cases, err := casedef.NewLoader(log).Load(runCases)
		if err != nil {
			return nil, fmt.Errorf("loading cases: %w", err)
		}
		return cases, nil
	}

	switch runSuite {
	case suiteCore:
		return loansuite.Core(), nil
	case suiteFull:
		seed := runSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		log.WithField("seed", seed).Info("Generating test data")

		return loansuite.Full(datagen.NewGenerator(seed), app.Timeouts)
	default:
		return nil, fmt.Errorf("%w: %q (expected %s or %s)", errUnknownSuite, runSuite, suiteCore, suiteFull)
	}
}

func writeReports(log logrus.FieldLogger, result *suite.Result, summary report.Summary, slow time.Duration) error {
	if runReportJSON != "" {
		if err := report.WriteJSON(runReportJSON, result, summary); err != nil {
			return fmt.Errorf("writing JSON report: %w", err)
		}
		log.WithField("path", runReportJSON).Info("JSON report written")
	}

	if runReportXLSX != "" {
		if err := report.WriteXLSX(runReportXLSX, result, summary, slow); err != nil {
			return fmt.Errorf("writing Excel report: %w", err)
		}
		log.WithField("path", runReportXLSX).Info("Excel report written")
	}

	return nil
}
