package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"

	"github.com/jason-fintech/loan-api-tests/internal/actions"
	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/interactive"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive TUI mode",
	Long:  `Launches the interactive Terminal User Interface for the loan API suite.`,
	Run: func(_ *cobra.Command, _ []string) {
		RunInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive shows the main menu until the user exits.
func RunInteractive() {
	fmt.Println("Loan API Tests - Interactive Mode")
	fmt.Println("=================================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "🧪 Run Suite",
				Description: "Run the loan API regression suite against an environment",
				Action:      runSuiteInteractive,
			},
			{
				Name:        "🌐 Ping Environments",
				Description: "Check which environments are reachable",
				Action: func() error {
					return runCLICommand("ping", "--all")
				},
			},
			{
				Name:        "🧮 Loan Calculator",
				Description: "Calculate simple interest and EMI",
				Action:      runCalcInteractive,
			},
			{
				Name:        "🗂️  Environments",
				Description: "List known environments and base URLs",
				Action: func() error {
					return runCLICommand("environments")
				},
			},
			{
				Name:        "📋 Show Config",
				Description: "Display current environment configuration",
				Action: func() error {
					if err := actions.ShowConfig(os.Stdout); err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
					}
					interactive.PauseForEnter()
					return nil
				},
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			log.Fatal(err)
		}

		fmt.Println()
	}
}

func runSuiteInteractive() error {
	envs := config.Environments()
	names := make([]string, 0, len(envs))
	for _, env := range envs {
		names = append(names, env.String())
	}

	env, err := interactive.SelectFromList("Select environment:", names)
	if err != nil {
		fmt.Println("Selection canceled.")
		interactive.PauseForEnter()
		return nil
	}

	suiteName, err := interactive.SelectFromList("Select suite:", []string{suiteFull, suiteCore})
	if err != nil {
		fmt.Println("Selection canceled.")
		interactive.PauseForEnter()
		return nil
	}

	args := []string{"run", "--environment", env, "--suite", suiteName}

	if env == config.EnvProd.String() {
		if !interactive.Confirm("⚠️  This suite creates, updates and deletes loans. Run it against PROD?") {
			fmt.Println("Run canceled.")
			interactive.PauseForEnter()
			return nil
		}
		args = append(args, "--allow-prod")
	}

	pattern, err := interactive.Input("Only run cases matching (regex, empty for all):", "")
	if err != nil {
		fmt.Println("Selection canceled.")
		interactive.PauseForEnter()
		return nil
	}
	if pattern != "" {
		args = append(args, "--run", pattern)
	}

	if interactive.Confirm("Enable verbose output?") {
		args = append(args, "--verbose")
	}

	return runCLICommand(args...)
}

func runCalcInteractive() error {
	principal, err := interactive.InputFloat("Principal:", 5000)
	if err != nil {
		fmt.Println("Input canceled.")
		interactive.PauseForEnter()
		return nil
	}

	rate, err := interactive.InputFloat("Annual interest rate (%):", config.DefaultInterestRate)
	if err != nil {
		fmt.Println("Input canceled.")
		interactive.PauseForEnter()
		return nil
	}

	months, err := interactive.InputFloat("Tenure (months):", 24)
	if err != nil {
		fmt.Println("Input canceled.")
		interactive.PauseForEnter()
		return nil
	}

	return runCLICommand("calc",
		"--principal", strconv.FormatFloat(principal, 'f', -1, 64),
		"--rate", strconv.FormatFloat(rate, 'f', -1, 64),
		"--months", strconv.Itoa(int(months)),
	)
}

// runCLICommand runs a subcommand in a child process so each run starts with
// fresh flag state.
func runCLICommand(args ...string) error {
	binaryPath, err := os.Executable()
	if err != nil {
		fmt.Printf("\n❌ Cannot locate executable: %v\n", err)
		interactive.PauseForEnter()
		return nil
	}

	if envFile != "" {
		args = append(args, "--env", envFile)
	}

	fmt.Printf("\n🚀 Running: %s %v\n\n", binaryPath, args)

	// #nosec G204 -- binaryPath is this executable and args are controlled by menu selections
	cmd := exec.Command(binaryPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		fmt.Printf("\n❌ Command failed: %v\n", err)
		interactive.PauseForEnter()
		return nil
	}

	interactive.PauseForEnter()
	return nil
}
