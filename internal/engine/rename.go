package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidyapp/tidy/internal/fsops"
	"github.com/tidyapp/tidy/internal/history"
	"github.com/tidyapp/tidy/internal/planner"
	"github.com/tidyapp/tidy/internal/proposal"
)

// cancelledReason is recorded on every file skipped by cancellation.
const cancelledReason = "Operation cancelled"

// PreflightError reports the validation errors that blocked a batch.
// It unwraps to ErrValidation.
type PreflightError struct {
	Errors []planner.ValidationError
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(e.Errors))
}

func (e *PreflightError) Unwrap() error {
	return ErrValidation
}

// ExecuteBatchRename performs a batch of rename/move operations.
//
// Algorithm steps:
//  1. Filter to actionable proposals
//  2. Preflight validation (unless skipped); any error aborts before any mutation
//  3. Process actionable proposals sequentially, polling ctx per file
//  4. Append skipped results for non-actionable proposals
//  5. Compute summary and record the batch in the journal (best effort)
func (e *Engine) ExecuteBatchRename(ctx context.Context, proposals []proposal.RenameProposal, opts ExecuteOptions) (*BatchRenameResult, error) {
	startedAt := e.clock.Now()

	var actionable []proposal.RenameProposal
	var rest []proposal.RenameProposal
	for _, p := range proposals {
		if p.Actionable() {
			actionable = append(actionable, p)
		} else {
			rest = append(rest, p)
		}
	}

	if !opts.SkipValidation {
		vr, err := planner.ValidateBatch(e.fs, proposals, planner.ValidateOptions{
			CreateDirectories: opts.CreateDirectories,
		})
		if err != nil {
			return nil, fmt.Errorf("preflight validation failed: %w", err)
		}
		if !vr.Valid {
			return nil, &PreflightError{Errors: vr.Errors}
		}
	}

	result := &BatchRenameResult{
		StartedAt: startedAt,
	}
	createdDirs := map[string]bool{}
	total := len(actionable)
	cancelled := false

	for i := range actionable {
		p := &actionable[i]

		if !cancelled && ctx.Err() != nil {
			cancelled = true
			result.Aborted = true
		}

		var fileResult FileRenameResult
		if cancelled {
			fileResult = skippedResult(p, cancelledReason)
		} else {
			fileResult = e.renameOne(p, opts, createdDirs, result)
		}

		result.Results = append(result.Results, fileResult)
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, total, &fileResult)
		}
	}

	// Non-actionable proposals are reported as skipped, after the loop.
	for i := range rest {
		p := &rest[i]
		result.Results = append(result.Results, skippedResult(p, skipReasonFor(p)))
	}

	completedAt := e.clock.Now()
	result.CompletedAt = completedAt
	result.DurationMs = completedAt.Sub(startedAt).Milliseconds()
	result.Summary = summarize(result.Results, len(result.DirectoriesCreated))
	result.Success = result.Summary.Failed == 0

	if !opts.SkipHistory {
		entryID, err := e.recordBatch(result)
		if err != nil {
			// The filesystem mutation is the primary contract; a journal
			// failure must never fail the rename itself.
			fmt.Fprintf(os.Stderr, "warning: failed to record history: %v\n", err)
		} else {
			result.HistoryEntryID = entryID
		}
	}

	return result, nil
}

// renameOne performs the rename for a single actionable proposal,
// provisioning the destination directory when needed.
func (e *Engine) renameOne(p *proposal.RenameProposal, opts ExecuteOptions, createdDirs map[string]bool, batch *BatchRenameResult) FileRenameResult {
	if p.IsMoveOperation && opts.CreateDirectories {
		destDir := filepath.Dir(p.ProposedPath)
		if !createdDirs[destDir] {
			created, err := fsops.ProvisionDir(e.fs, destDir)
			if err != nil {
				// A directory failure is isolated to this file; the batch
				// moves on.
				return failedResult(p, fmt.Sprintf("failed to create directory %s: %v", destDir, err))
			}
			for _, dir := range created {
				if !createdDirs[dir] {
					createdDirs[dir] = true
					batch.DirectoriesCreated = append(batch.DirectoriesCreated, dir)
				}
			}
			createdDirs[destDir] = true
		}
	}

	if err := e.fs.Rename(p.OriginalPath, p.ProposedPath); err != nil {
		return failedResult(p, err.Error())
	}

	newPath := p.ProposedPath
	newName := p.ProposedName
	return FileRenameResult{
		ProposalID:      p.ID,
		OriginalPath:    p.OriginalPath,
		OriginalName:    p.OriginalName,
		NewPath:         &newPath,
		NewName:         &newName,
		Outcome:         OutcomeSuccess,
		IsMoveOperation: p.IsMoveOperation,
	}
}

// recordBatch converts a completed batch into a journal entry and persists
// it, applying the configured prune limits on the way.
func (e *Engine) recordBatch(result *BatchRenameResult) (string, error) {
	entry := newHistoryEntry(result, e.clock.Now())

	doc, err := e.store.Load()
	if err != nil {
		return "", err
	}
	doc.Append(entry)
	doc.Prune(e.limits.MaxEntries, e.limits.MaxAgeDays, entry.Timestamp)

	if err := e.store.Save(doc); err != nil {
		return "", err
	}
	return entry.ID, nil
}

func skippedResult(p *proposal.RenameProposal, reason string) FileRenameResult {
	return FileRenameResult{
		ProposalID:      p.ID,
		OriginalPath:    p.OriginalPath,
		OriginalName:    p.OriginalName,
		Outcome:         OutcomeSkipped,
		Error:           &reason,
		IsMoveOperation: p.IsMoveOperation,
	}
}

func failedResult(p *proposal.RenameProposal, msg string) FileRenameResult {
	return FileRenameResult{
		ProposalID:      p.ID,
		OriginalPath:    p.OriginalPath,
		OriginalName:    p.OriginalName,
		Outcome:         OutcomeFailed,
		Error:           &msg,
		IsMoveOperation: p.IsMoveOperation,
	}
}

// skipReasonFor explains why a non-actionable proposal was not executed.
func skipReasonFor(p *proposal.RenameProposal) string {
	switch {
	case p.Status == proposal.StatusNoChange:
		return "No change needed"
	case p.Status != proposal.StatusReady:
		return fmt.Sprintf("Proposal not ready (status: %s)", p.Status)
	default:
		return "Name unchanged"
	}
}

// summarize computes outcome counts in one pass.
func summarize(results []FileRenameResult, dirsCreated int) history.OperationSummary {
	summary := history.OperationSummary{DirectoriesCreated: dirsCreated}
	for i := range results {
		switch results[i].Outcome {
		case OutcomeSuccess:
			summary.Succeeded++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
		}
	}
	return summary
}
