package cmd

import (
	"os"
	"strings"

	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/testing/report"
	"github.com/spf13/cobra"
)

var environmentsCmd = &cobra.Command{
	Use:     "environments",
	Aliases: []string{"envs"},
	Short:   "List the known environments and their base URLs",
	Run: func(_ *cobra.Command, _ []string) {
		current := strings.ToUpper(os.Getenv("API_ENV"))
		if current == "" {
			current = config.DefaultEnvironment.String()
		}

		rows := make([][]string, 0, len(config.Environments()))
		for _, env := range config.Environments() {
			marker := ""
			if env.String() == current {
				marker = "*"
			}
			rows = append(rows, []string{marker, env.String(), env.BaseURL()})
		}

		report.NewRenderer().RenderToWriter(os.Stdout, []string{"", "Environment", "Base URL"}, rows, report.WithBorder(false))
	},
}

func init() {
	rootCmd.AddCommand(environmentsCmd)
}
