package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/folio/pkg/folio/budget"
)

var budgetCmd = &cobra.Command{
	Use:   "budget [path]",
	Short: "Write the performance budget descriptor",
	Long: `Write the Lighthouse performance budget descriptor without running an audit.

The path defaults to report.budget_path from the configuration (budget.json).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, args []string) error {
	path := loadedConfig().Report.BudgetPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no budget path configured")
	}

	if err := budget.Write(path); err != nil {
		return err
	}
	printInfo("Performance budget written to %s", path)
	return nil
}
