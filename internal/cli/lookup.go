package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lookupFormat string

var lookupCmd = &cobra.Command{
	Use:   "lookup <path>...",
	Short: "Trace a file's rename lineage through the journal",
	Long: `Trace a file's rename lineage through the journal.

A file can be looked up by any name it has ever had; chains of renames
are followed so the earliest and latest locations are always reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validFormat(lookupFormat); err != nil {
			return err
		}

		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		lookups, err := eng.LookupMultipleFiles(args)
		if err != nil {
			return err
		}

		if lookupFormat == formatJSON {
			return outputJSON(lookups)
		}

		for i, path := range args {
			if i > 0 {
				fmt.Println()
			}
			lookup := lookups[path]
			if !lookup.Found {
				PrintInfo(fmt.Sprintf("%s: no recorded operations", path))
				continue
			}

			PrintLabelValue("Searched", lookup.SearchedPath)
			PrintLabelValue("Original", *lookup.OriginalPath)
			PrintLabelValue("Current", *lookup.CurrentPath)
			PrintLabelValue("At original location", fmt.Sprintf("%t", lookup.IsAtOriginal))

			rows := make([][]string, 0, len(lookup.Operations))
			for _, op := range lookup.Operations {
				target := "-"
				if op.NewPath != nil {
					target = *op.NewPath
				}
				rows = append(rows, []string{
					op.Timestamp.Format("2006-01-02 15:04:05"),
					op.OperationType,
					op.OriginalPath,
					target,
				})
			}
			PrintTable([]string{"WHEN", "TYPE", "FROM", "TO"}, rows)
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupFormat, "format", formatTable, "Output format: table or json")
}
