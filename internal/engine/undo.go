package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/tidyapp/tidy/internal/fsops"
	"github.com/tidyapp/tidy/internal/history"
)

// Undo reverses a previously recorded batch operation.
//
// With an empty EntryID the most recent entry that has not been undone is
// targeted. The entry's undone stamp is checked before any reversal work
// begins, so a second undo of the same entry can never re-mutate the
// filesystem. In dry-run mode every check runs but neither the filesystem
// nor the journal is touched.
func (e *Engine) Undo(ctx context.Context, req UndoRequest) (*UndoResult, error) {
	doc, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	entry, err := resolveEntry(doc, req.EntryID)
	if err != nil {
		return nil, err
	}

	result := &UndoResult{
		EntryID: entry.ID,
		DryRun:  req.DryRun,
	}

	cancelled := false
	restorableSkipped := 0
	for i := range entry.Files {
		record := &entry.Files[i]

		if !cancelled && ctx.Err() != nil {
			cancelled = true
		}

		fileResult := e.undoOne(record, req.DryRun, cancelled)
		result.Files = append(result.Files, fileResult)

		switch {
		case fileResult.Restored:
			result.FilesRestored++
		case fileResult.SkipReason != "":
			result.FilesSkipped++
			if record.Success && record.NewPath != nil {
				restorableSkipped++
			}
		default:
			result.FilesFailed++
		}
	}

	result.DirectoriesRemoved = e.removeCreatedDirs(entry.DirectoriesCreated, req.DryRun)
	// Skipping a record whose original operation failed is expected; skipping
	// a restorable one means the undo is incomplete.
	result.Success = result.FilesFailed == 0 && restorableSkipped == 0
	result.CompletedAt = e.clock.Now()

	// The undone stamp is only earned by actually restoring something, so a
	// fully skipped run (cancellation, files gone) can be retried.
	if !req.DryRun && result.FilesRestored > 0 {
		now := e.clock.Now()
		entry.UndoneAt = &now
		if err := e.store.Save(doc); err != nil {
			return nil, fmt.Errorf("failed to save history: %w", err)
		}
	}

	return result, nil
}

// resolveEntry finds the undo target and enforces the idempotency guard.
func resolveEntry(doc *history.Document, entryID string) (*history.OperationHistoryEntry, error) {
	if entryID == "" {
		entry := doc.LatestNotUndone()
		if entry == nil {
			return nil, ErrEmptyHistory
		}
		return entry, nil
	}

	entry := doc.Find(entryID)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}
	if entry.Undone() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyUndone, entryID)
	}
	return entry, nil
}

// undoOne reverses a single file record.
func (e *Engine) undoOne(record *history.FileHistoryRecord, dryRun, cancelled bool) UndoFileResult {
	fileResult := UndoFileResult{
		OriginalPath: record.OriginalPath,
	}
	if record.NewPath != nil {
		fileResult.CurrentPath = *record.NewPath
	}

	// Only records that represent a real completed mutation are restorable.
	if !record.Success || record.NewPath == nil {
		fileResult.SkipReason = "Original operation failed"
		return fileResult
	}

	if cancelled {
		fileResult.SkipReason = cancelledReason
		return fileResult
	}

	exists, err := e.fs.Exists(*record.NewPath)
	if err != nil {
		fileResult.Error = fmt.Sprintf("failed to check %s: %v", *record.NewPath, err)
		return fileResult
	}
	if !exists {
		fileResult.SkipReason = "File no longer exists"
		return fileResult
	}

	if dryRun {
		fileResult.Restored = true
		return fileResult
	}

	if err := e.fs.Rename(*record.NewPath, record.OriginalPath); err != nil {
		fileResult.Error = err.Error()
		return fileResult
	}

	fileResult.Restored = true
	return fileResult
}

// removeCreatedDirs removes directories that the original operation created
// and that are now empty, deepest first. Removed paths are reported; in
// dry-run mode the same checks run without removing anything.
func (e *Engine) removeCreatedDirs(created []string, dryRun bool) []string {
	if len(created) == 0 {
		return nil
	}

	dirs := append([]string(nil), created...)
	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i]) > len(dirs[j])
	})

	var removed []string
	for _, dir := range dirs {
		exists, err := e.fs.Exists(dir)
		if err != nil || !exists {
			continue
		}
		empty, err := fsops.IsDirEmpty(e.fs, dir)
		if err != nil || !empty {
			continue
		}
		if !dryRun {
			if err := e.fs.Remove(dir); err != nil {
				continue
			}
		}
		removed = append(removed, dir)
	}
	return removed
}
