package cmd

import (
	"fmt"
	"os"

	"github.com/jason-fintech/loan-api-tests/internal/actions"
	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/testing/report"
	"github.com/spf13/cobra"
)

var (
	calcPrincipal float64
	calcRate      float64
	calcMonths    int
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate simple interest and EMI for a loan",
	Long: `Computes the simple interest, monthly installment (EMI) and total payable
for a loan, using the same calculations the suite uses to validate responses.

Example:
  loan-api-tests calc --principal 5000 --rate 12.5 --months 24`,
	RunE: func(_ *cobra.Command, _ []string) error {
		calc, err := actions.Calculate(calcPrincipal, calcRate, calcMonths)
		if err != nil {
			return fmt.Errorf("calculating repayment: %w", err)
		}

		report.NewRenderer().RenderToWriter(os.Stdout, []string{"Item", "Value"}, calc.Rows(), report.WithBorder(false))
		return nil
	},
}

func init() {
	calcCmd.Flags().Float64Var(&calcPrincipal, "principal", 5000, "Loan principal")
	calcCmd.Flags().Float64Var(&calcRate, "rate", config.DefaultInterestRate, "Annual interest rate in percent")
	calcCmd.Flags().IntVar(&calcMonths, "months", 24, "Tenure in months")

	rootCmd.AddCommand(calcCmd)
}
