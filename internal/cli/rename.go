package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tidyapp/tidy/internal/engine"
	"github.com/tidyapp/tidy/internal/fsops"
	"github.com/tidyapp/tidy/internal/planner"
	"github.com/tidyapp/tidy/internal/proposal"
)

var (
	renameProposalsFile  string
	renameCreateDirs     bool
	renameSkipValidation bool
	renameNoHistory      bool
	renameFormat         string
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Execute a batch of rename proposals",
	Long: `Execute a batch of rename proposals from a JSON file.

The batch is checked for internal conflicts (duplicate targets, case
collisions) and validated against the filesystem before the first file
moves. Proposals that fail conflict detection are skipped; a validation
failure aborts the whole batch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validFormat(renameFormat); err != nil {
			return err
		}

		proposals, err := loadProposals(renameProposalsFile)
		if err != nil {
			return err
		}
		if len(proposals) == 0 {
			PrintInfo("Nothing to do: the proposal file is empty")
			return nil
		}

		eng, cfg, err := newEngine()
		if err != nil {
			return err
		}

		createDirs := cfg.CreateDirectories
		if cmd.Flags().Changed("create-dirs") {
			createDirs = renameCreateDirs
		}

		annotateProposals(proposals)

		ctx, cancel := signalContext()
		defer cancel()

		result, err := eng.ExecuteBatchRename(ctx, proposals, engine.ExecuteOptions{
			CreateDirectories: createDirs,
			SkipValidation:    renameSkipValidation,
			SkipHistory:       renameNoHistory,
		})
		if err != nil {
			var preflight *engine.PreflightError
			if errors.As(err, &preflight) {
				printValidationErrors(preflight.Errors)
				return &ExitError{Code: 1}
			}
			return err
		}

		if err := renderRenameResult(result, renameFormat); err != nil {
			return err
		}

		if !result.Success {
			return &ExitError{Code: 2}
		}
		return nil
	},
}

func init() {
	renameCmd.Flags().StringVarP(&renameProposalsFile, "proposals", "p", "", "Path to a JSON file containing the proposal batch (required)")
	renameCmd.Flags().BoolVar(&renameCreateDirs, "create-dirs", false, "Create missing destination directories for move operations")
	renameCmd.Flags().BoolVar(&renameSkipValidation, "skip-validation", false, "Skip pre-flight filesystem validation")
	renameCmd.Flags().BoolVar(&renameNoHistory, "no-history", false, "Do not record this batch in the journal")
	renameCmd.Flags().StringVar(&renameFormat, "format", formatTable, "Output format: table, json, or plain")
	_ = renameCmd.MarkFlagRequired("proposals")
}

// loadProposals reads a JSON array of rename proposals.
func loadProposals(path string) ([]proposal.RenameProposal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proposals: %w", err)
	}

	var proposals []proposal.RenameProposal
	if err := json.Unmarshal(data, &proposals); err != nil {
		return nil, fmt.Errorf("failed to parse proposals: %w", err)
	}
	return proposals, nil
}

// annotateProposals runs conflict detection over the batch and demotes
// proposals with error-severity issues to conflict status so the engine
// skips them. Warnings are printed but do not block execution.
func annotateProposals(proposals []proposal.RenameProposal) {
	fs := fsops.NewRealFS()
	existing := make(map[string]bool, len(proposals))
	for i := range proposals {
		path := proposals[i].ProposedPath
		if _, seen := existing[path]; seen {
			continue
		}
		exists, err := fs.Exists(path)
		existing[path] = err == nil && exists
	}

	ctx := &planner.DetectContext{
		Proposals:       proposals,
		CheckFileSystem: true,
		ExistingFiles:   existing,
	}

	for i := range proposals {
		p := &proposals[i]
		issues := planner.DetectIssues(p, ctx)
		if len(issues) == 0 {
			continue
		}
		p.Issues = append(p.Issues, issues...)
		if p.HasErrors() && p.Status == proposal.StatusReady {
			p.Status = proposal.StatusConflict
		}
		for _, issue := range issues {
			msg := fmt.Sprintf("%s: %s", p.OriginalName, issue.Message)
			if issue.Suggestion != "" {
				msg += fmt.Sprintf(" (suggestion: %s)", issue.Suggestion)
			}
			PrintWarning(msg)
		}
	}
}

func printValidationErrors(errs []planner.ValidationError) {
	PrintError(fmt.Sprintf("Validation failed with %d error(s); no files were renamed", len(errs)))
	rows := make([][]string, 0, len(errs))
	for _, ve := range errs {
		rows = append(rows, []string{ve.Code, ve.Path, ve.Message})
	}
	PrintTable([]string{"CODE", "PATH", "DETAIL"}, rows)
}

func renderRenameResult(result *engine.BatchRenameResult, format string) error {
	switch format {
	case formatJSON:
		return outputJSON(result)

	case formatPlain:
		for _, r := range result.Results {
			detail := ""
			if r.Error != nil {
				detail = ": " + *r.Error
			}
			target := r.OriginalName
			if r.NewName != nil {
				target = *r.NewName
			}
			fmt.Printf("%s %s -> %s%s\n", r.Outcome, r.OriginalName, target, detail)
		}
		return nil
	}

	rows := make([][]string, 0, len(result.Results))
	for _, r := range result.Results {
		target := "-"
		if r.NewName != nil {
			target = *r.NewName
		}
		detail := ""
		if r.Error != nil {
			detail = *r.Error
		}
		rows = append(rows, []string{r.OriginalName, target, r.Outcome, detail})
	}
	PrintTable([]string{"FILE", "NEW NAME", "RESULT", "DETAIL"}, rows)
	fmt.Println()

	summary := fmt.Sprintf("%d renamed, %d skipped, %d failed in %dms",
		result.Summary.Succeeded, result.Summary.Skipped, result.Summary.Failed, result.DurationMs)
	switch {
	case result.Aborted:
		PrintWarning("Batch cancelled: " + summary)
	case result.Success:
		PrintSuccess(summary)
	default:
		PrintWarning(summary)
	}

	if len(result.DirectoriesCreated) > 0 {
		PrintInfo("Created directories:")
		PrintList(result.DirectoriesCreated, 1)
	}
	if result.HistoryEntryID != "" {
		PrintLabelValue("Journal entry", result.HistoryEntryID)
	}
	return nil
}
