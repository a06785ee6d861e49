package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tidyapp/tidy/internal/engine"
)

var (
	undoDryRun bool
	undoForce  bool
	undoFormat string
)

var undoCmd = &cobra.Command{
	Use:   "undo [entry-id]",
	Short: "Reverse a recorded batch operation",
	Long: `Reverse a recorded batch operation by moving its files back.

Without an entry id the most recent operation that has not already been
undone is targeted. Files whose current location no longer matches the
journal are skipped; directories created by the original operation are
removed when empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validFormat(undoFormat); err != nil {
			return err
		}

		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		entryID := ""
		if len(args) == 1 {
			entryID = args[0]
		}

		if !undoForce && !undoDryRun {
			ok, err := confirmUndo(eng, entryID)
			if err != nil {
				return err
			}
			if !ok {
				PrintInfo("Aborted")
				return nil
			}
		}

		ctx, cancel := signalContext()
		defer cancel()

		result, err := eng.Undo(ctx, engine.UndoRequest{EntryID: entryID, DryRun: undoDryRun})
		if err != nil {
			switch {
			case errors.Is(err, engine.ErrEmptyHistory):
				PrintInfo("Nothing to undo")
				return nil
			case errors.Is(err, engine.ErrAlreadyUndone):
				PrintWarning("That operation has already been undone")
				return nil
			}
			return err
		}

		if err := renderUndoResult(result, undoFormat); err != nil {
			return err
		}

		// Exit 2 when only part of the batch could be restored.
		if !result.DryRun && result.FilesRestored > 0 && (result.FilesFailed > 0 || result.FilesSkipped > 0) {
			return &ExitError{Code: 2}
		}
		if !result.Success {
			return &ExitError{Code: 1}
		}
		return nil
	},
}

func init() {
	undoCmd.Flags().BoolVar(&undoDryRun, "dry-run", false, "Show what would be restored without touching anything")
	undoCmd.Flags().BoolVarP(&undoForce, "force", "f", false, "Skip the confirmation prompt")
	undoCmd.Flags().StringVar(&undoFormat, "format", formatTable, "Output format: table, json, or plain")
}

// confirmUndo shows what is about to be reversed and asks for confirmation.
func confirmUndo(eng *engine.Engine, entryID string) (bool, error) {
	preview, err := eng.Undo(context.Background(), engine.UndoRequest{EntryID: entryID, DryRun: true})
	if err != nil {
		// Let the real run surface the error with proper handling.
		return true, nil
	}

	PrintInfo(fmt.Sprintf("About to undo operation %s (%d file(s) to restore)", preview.EntryID, preview.FilesRestored))
	fmt.Print("Proceed? [y/N]: ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, nil
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func renderUndoResult(result *engine.UndoResult, format string) error {
	switch format {
	case formatJSON:
		return outputJSON(result)

	case formatPlain:
		for _, f := range result.Files {
			switch {
			case f.Restored:
				fmt.Printf("restored %s -> %s\n", f.CurrentPath, f.OriginalPath)
			case f.SkipReason != "":
				fmt.Printf("skipped %s: %s\n", f.CurrentPath, f.SkipReason)
			default:
				fmt.Printf("failed %s: %s\n", f.CurrentPath, f.Error)
			}
		}
		return nil
	}

	rows := make([][]string, 0, len(result.Files))
	for _, f := range result.Files {
		status := "restored"
		detail := ""
		switch {
		case f.SkipReason != "":
			status = "skipped"
			detail = f.SkipReason
		case f.Error != "":
			status = "failed"
			detail = f.Error
		}
		rows = append(rows, []string{f.CurrentPath, f.OriginalPath, status, detail})
	}
	PrintTable([]string{"FROM", "RESTORED TO", "RESULT", "DETAIL"}, rows)
	fmt.Println()

	summary := fmt.Sprintf("%d restored, %d skipped, %d failed",
		result.FilesRestored, result.FilesSkipped, result.FilesFailed)
	switch {
	case result.DryRun:
		PrintInfo("Dry run - " + summary)
	case result.Success && result.FilesSkipped == 0:
		PrintSuccess(summary)
	default:
		PrintWarning(summary)
	}

	if len(result.DirectoriesRemoved) > 0 {
		PrintInfo("Removed directories:")
		PrintList(result.DirectoriesRemoved, 1)
	}
	return nil
}
