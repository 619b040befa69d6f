package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/actions"
	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/testing/report"
	"github.com/spf13/cobra"
)

var (
	pingAll     bool
	pingTimeout time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping [environment...]",
	Short: "Check which environments are reachable",
	Long: `Sends one GET request to the base URL of each environment concurrently.

With no arguments the configured environment (API_ENV) is checked.

Example:
  loan-api-tests ping
  loan-api-tests ping dev qa
  loan-api-tests ping --all`,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().BoolVar(&pingAll, "all", false, "Check every known environment")
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 30*time.Second, "Overall timeout")

	rootCmd.AddCommand(pingCmd)
}

func runPing(_ *cobra.Command, args []string) error {
	app, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var envs []config.Environment

	switch {
	case pingAll:
		envs = config.Environments()
	case len(args) > 0:
		for _, arg := range args {
			envs = append(envs, config.Environment(strings.ToUpper(arg)))
		}
	default:
		envs = []config.Environment{config.Environment(strings.ToUpper(app.Environment))}
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	results, err := actions.Ping(ctx, newLogger(false), app, envs)
	if err != nil {
		return fmt.Errorf("pinging environments: %w", err)
	}

	colors := report.NewColorHelper()
	rows := make([][]string, 0, len(results))
	unreachable := 0

	for _, r := range results {
		status := colors.Success(fmt.Sprintf("%d", r.Status))
		latency := r.Elapsed.Round(time.Millisecond).String()

		if !r.Reachable() {
			unreachable++
			status = colors.Failure("unreachable")
			latency = colors.Muted(r.Err.Error())
		}

		rows = append(rows, []string{r.Environment.String(), r.BaseURL, status, latency})
	}

	report.NewRenderer().RenderToWriter(os.Stdout, []string{"Environment", "Base URL", "Status", "Latency"}, rows)

	if unreachable > 0 {
		return fmt.Errorf("%d of %d environments unreachable", unreachable, len(results))
	}

	return nil
}
