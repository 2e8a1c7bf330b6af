package main

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/folio/pkg/folio/config"
	"github.com/jamesainslie/folio/pkg/folio/history"
	"github.com/jamesainslie/folio/pkg/folio/output"
	"github.com/jamesainslie/folio/pkg/folio/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View audit history",
	Long: `View previous bundle audits.

Every audit is recorded in a local database (history.path in the config,
$XDG_DATA_HOME/folio/history by default) so size trends can be compared
between builds.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full report of an audit",
	Long:  `Display a recorded audit by its ID or an unambiguous ID prefix of at least eight characters.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove audits older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the configured history store.
func openHistory() (*history.Store, error) {
	c := loadedConfig()
	path := c.History.Path
	if path == "" {
		path = config.DefaultHistoryPath()
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// runHistory lists recent audits.
func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No audits recorded yet.")
		printInfo("Run 'folio' to build and audit the bundle.")
		return nil
	}

	fmt.Print(formatHistoryTable(entries, time.Now()))
	fmt.Println("\nUse 'folio history show <id>' for the full report.")
	return nil
}

// formatHistoryTable renders entries as a fixed-width table.
func formatHistoryTable(entries []history.Entry, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%-36s  %-16s  %-8s  %-10s  %6s  %s\n", "ID", "WHEN", "STATUS", "TOTAL", "FILES", "ISSUES")
	sb.WriteString(strings.Repeat("-", 96))
	sb.WriteString("\n")

	for _, e := range entries {
		fmt.Fprintf(&sb, "%-36s  %-16s  %-8s  %-10s  %6d  %dE %dW\n",
			truncateString(e.ID, 36),
			humanize.RelTime(e.Timestamp, now, "ago", "from now"),
			e.Status,
			types.FormatSize(e.TotalSize*types.KiB),
			e.FileCount,
			e.ErrorCount,
			e.WarningCount,
		)
	}

	sb.WriteString(strings.Repeat("-", 96))
	sb.WriteString("\n")
	return sb.String()
}

// runHistoryShow displays one recorded report with the selected formatter.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}
	if entry.Report == nil {
		return fmt.Errorf("entry %s has no stored report", entry.ID)
	}

	formatter, err := resolveFormatter(loadedConfig())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, &output.Result{Report: entry.Report}); err != nil {
		return err
	}
	if isPretty(formatter) {
		fmt.Printf("%s %s\n\n", output.LabelStyle.Render("Recorded:"),
			output.ValueStyle.Render(entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST")))
	}
	fmt.Print(buf.String())
	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	retentionDays := loadedConfig().History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	printInfo("Cleaning audits older than %d days...", retentionDays)

	n, err := store.Cleanup(time.Duration(retentionDays) * 24 * time.Hour)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d %s.", n, plural(n, "audit", "audits"))
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
