package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyFormat string
	clearForce    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded batch operations",
	Long:  `List recorded batch operations, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validFormat(historyFormat); err != nil {
			return err
		}

		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		entries, err := eng.History(historyLimit)
		if err != nil {
			return err
		}

		if historyFormat == formatJSON {
			return outputJSON(entries)
		}

		if len(entries) == 0 {
			PrintInfo("No operations recorded")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			status := fmt.Sprintf("%d/%d ok", entry.Summary.Succeeded, entry.FileCount)
			if entry.Undone() {
				status = "undone"
			}
			rows = append(rows, []string{
				entry.ID,
				entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.OperationType,
				strconv.Itoa(entry.FileCount),
				status,
			})
		}
		PrintTable([]string{"ID", "WHEN", "TYPE", "FILES", "STATUS"}, rows)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop journal entries beyond the configured limits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		dropped, err := eng.PruneHistory()
		if err != nil {
			return err
		}

		if dropped == 0 {
			PrintInfo("Nothing to prune")
			return nil
		}
		PrintSuccess(fmt.Sprintf("Pruned %d entries", dropped))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the entire journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearForce {
			return fmt.Errorf("refusing to erase the journal without --force")
		}

		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		if err := eng.ClearHistory(); err != nil {
			return err
		}
		PrintSuccess("Journal cleared")
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum entries to show (0 = all)")
	historyCmd.Flags().StringVar(&historyFormat, "format", formatTable, "Output format: table or json")

	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Confirm erasing the journal")

	historyCmd.AddCommand(pruneCmd)
	historyCmd.AddCommand(clearCmd)
}
