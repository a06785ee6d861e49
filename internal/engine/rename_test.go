package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidyapp/tidy/internal/history"
	"github.com/tidyapp/tidy/internal/planner"
	"github.com/tidyapp/tidy/internal/proposal"
)

func TestExecuteBatchRename_Success(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	src := filepath.Join(dir, "IMG_0001.jpg")
	dst := filepath.Join(dir, "2025-07-01_beach.jpg")
	seedFile(t, src)

	result := mustExecute(t, eng, []proposal.RenameProposal{
		renameProposal("p1", src, dst),
	}, ExecuteOptions{})

	if !result.Success || result.Aborted {
		t.Errorf("expected clean success, got success=%v aborted=%v", result.Success, result.Aborted)
	}
	if result.Summary.Succeeded != 1 || result.Summary.Failed != 0 {
		t.Errorf("summary = %+v", result.Summary)
	}

	if _, err := os.Stat(dst); err != nil {
		t.Errorf("destination missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source still present: %v", err)
	}

	r := result.Results[0]
	if r.Outcome != OutcomeSuccess || r.NewPath == nil || *r.NewPath != dst {
		t.Errorf("unexpected file result: %+v", r)
	}
	if result.HistoryEntryID == "" {
		t.Error("expected a history entry id")
	}
}

func TestExecuteBatchRename_ValidationAbortsBeforeMutation(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	okSrc := filepath.Join(dir, "ok.txt")
	seedFile(t, okSrc)
	existing := filepath.Join(dir, "taken.txt")
	seedFile(t, existing)

	proposals := []proposal.RenameProposal{
		renameProposal("ok", okSrc, filepath.Join(dir, "fine.txt")),
		renameProposal("bad", okSrc, existing),
	}

	_, err := eng.ExecuteBatchRename(context.Background(), proposals, ExecuteOptions{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	var pferr *PreflightError
	if !errors.As(err, &pferr) {
		t.Fatalf("expected PreflightError, got %T", err)
	}
	if pferr.Errors[0].Code != planner.CodeTargetExists {
		t.Errorf("code = %s, want %s", pferr.Errors[0].Code, planner.CodeTargetExists)
	}

	// Nothing may have been mutated, including the valid proposal.
	if _, err := os.Stat(okSrc); err != nil {
		t.Errorf("valid source was touched: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "fine.txt")); !os.IsNotExist(err) {
		t.Error("valid proposal was executed despite batch rejection")
	}
}

func TestExecuteBatchRename_PerFileFailureIsolation(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	seedFile(t, first)
	seedFile(t, second)

	// The second proposal points at a source that disappears after
	// validation; its failure must not stop the third.
	third := filepath.Join(dir, "third.txt")
	seedFile(t, third)

	doomed := renameProposal("p2", second, filepath.Join(dir, "second-renamed.txt"))

	proposals := []proposal.RenameProposal{
		renameProposal("p1", first, filepath.Join(dir, "first-renamed.txt")),
		doomed,
		renameProposal("p3", third, filepath.Join(dir, "third-renamed.txt")),
	}

	opts := ExecuteOptions{
		OnProgress: func(done, total int, r *FileRenameResult) {
			if done == 1 {
				// Sabotage the second source between files.
				_ = os.Remove(second)
			}
		},
	}

	result := mustExecute(t, eng, proposals, opts)

	if result.Success {
		t.Error("expected success=false with a failed file")
	}
	if result.Summary.Succeeded != 2 || result.Summary.Failed != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if result.Results[1].Outcome != OutcomeFailed || result.Results[1].Error == nil {
		t.Errorf("expected failed result with error, got %+v", result.Results[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "third-renamed.txt")); err != nil {
		t.Errorf("third file was not processed after the failure: %v", err)
	}
}

func TestExecuteBatchRename_Cancellation(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	var proposals []proposal.RenameProposal
	for i := 0; i < 10; i++ {
		src := filepath.Join(dir, fmt.Sprintf("file-%02d.txt", i))
		seedFile(t, src)
		proposals = append(proposals, renameProposal(
			fmt.Sprintf("p%d", i), src, filepath.Join(dir, fmt.Sprintf("renamed-%02d.txt", i)),
		))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := ExecuteOptions{
		OnProgress: func(done, total int, r *FileRenameResult) {
			if done == 3 {
				cancel()
			}
		},
	}

	result, err := eng.ExecuteBatchRename(ctx, proposals, opts)
	if err != nil {
		t.Fatalf("ExecuteBatchRename failed: %v", err)
	}

	if !result.Aborted {
		t.Error("expected aborted=true")
	}
	if result.Summary.Succeeded != 3 {
		t.Errorf("succeeded = %d, want 3", result.Summary.Succeeded)
	}
	if result.Summary.Skipped != 7 {
		t.Errorf("skipped = %d, want 7", result.Summary.Skipped)
	}
	for _, r := range result.Results[3:] {
		if r.Outcome != OutcomeSkipped || r.Error == nil || *r.Error != "Operation cancelled" {
			t.Errorf("expected cancellation skip, got %+v", r)
		}
	}

	// Completed mutations stay; the remainder was never touched.
	if _, err := os.Stat(filepath.Join(dir, "renamed-02.txt")); err != nil {
		t.Errorf("completed rename rolled back: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "file-05.txt")); err != nil {
		t.Errorf("skipped file was mutated: %v", err)
	}
}

func TestExecuteBatchRename_DirectoryCreation(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	src1 := filepath.Join(dir, "a.txt")
	src2 := filepath.Join(dir, "b.txt")
	seedFile(t, src1)
	seedFile(t, src2)

	destDir := filepath.Join(dir, "2025", "07")
	proposals := []proposal.RenameProposal{
		renameProposal("a", src1, filepath.Join(destDir, "a.txt")),
		renameProposal("b", src2, filepath.Join(destDir, "b.txt")),
	}

	result := mustExecute(t, eng, proposals, ExecuteOptions{CreateDirectories: true})

	if !result.Success {
		t.Fatalf("batch failed: %+v", result.Results)
	}

	want := []string{filepath.Join(dir, "2025"), destDir}
	if len(result.DirectoriesCreated) != len(want) {
		t.Fatalf("directoriesCreated = %v, want %v", result.DirectoriesCreated, want)
	}
	for i := range want {
		if result.DirectoriesCreated[i] != want[i] {
			t.Errorf("directoriesCreated[%d] = %q, want %q", i, result.DirectoriesCreated[i], want[i])
		}
	}
	if result.Summary.DirectoriesCreated != 2 {
		t.Errorf("summary.directoriesCreated = %d, want 2", result.Summary.DirectoriesCreated)
	}
}

func TestExecuteBatchRename_NonActionableSkipped(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	src := filepath.Join(dir, "keep.txt")
	seedFile(t, src)

	proposals := []proposal.RenameProposal{
		{
			ID:           "nochange",
			OriginalPath: src,
			OriginalName: "keep.txt",
			ProposedPath: src,
			ProposedName: "keep.txt",
			Status:       proposal.StatusNoChange,
		},
		{
			ID:           "conflicted",
			OriginalPath: src,
			OriginalName: "keep.txt",
			ProposedPath: filepath.Join(dir, "new.txt"),
			ProposedName: "new.txt",
			Status:       proposal.StatusConflict,
		},
	}

	result := mustExecute(t, eng, proposals, ExecuteOptions{})

	if result.Summary.Skipped != 2 || result.Summary.Succeeded != 0 {
		t.Fatalf("summary = %+v", result.Summary)
	}
	if *result.Results[0].Error != "No change needed" {
		t.Errorf("no-change reason = %q", *result.Results[0].Error)
	}
	if *result.Results[1].Error != "Proposal not ready (status: conflict)" {
		t.Errorf("not-ready reason = %q", *result.Results[1].Error)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("non-actionable source was mutated: %v", err)
	}
}

func TestExecuteBatchRename_Progress(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	var calls []int
	var totals []int
	proposals := []proposal.RenameProposal{}
	for i := 0; i < 3; i++ {
		src := filepath.Join(dir, fmt.Sprintf("f%d.txt", i))
		seedFile(t, src)
		proposals = append(proposals, renameProposal(
			fmt.Sprintf("p%d", i), src, filepath.Join(dir, fmt.Sprintf("g%d.txt", i)),
		))
	}

	mustExecute(t, eng, proposals, ExecuteOptions{
		OnProgress: func(done, total int, r *FileRenameResult) {
			calls = append(calls, done)
			totals = append(totals, total)
		},
	})

	if len(calls) != 3 || calls[0] != 1 || calls[2] != 3 {
		t.Errorf("progress calls = %v, want [1 2 3]", calls)
	}
	for _, total := range totals {
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
	}
}

func TestExecuteBatchRename_SkipHistory(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	src := filepath.Join(dir, "a.txt")
	seedFile(t, src)

	result := mustExecute(t, eng, []proposal.RenameProposal{
		renameProposal("a", src, filepath.Join(dir, "b.txt")),
	}, ExecuteOptions{SkipHistory: true})

	if result.HistoryEntryID != "" {
		t.Errorf("expected no history entry id, got %q", result.HistoryEntryID)
	}
	entries, err := eng.History(0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty journal, got %d entries", len(entries))
	}
}

func TestExecuteBatchRename_RecordsMoveType(t *testing.T) {
	eng, dir, _ := newTestEngine(t)

	src := filepath.Join(dir, "a.txt")
	seedFile(t, src)

	mustExecute(t, eng, []proposal.RenameProposal{
		renameProposal("a", src, filepath.Join(dir, "sub", "a.txt")),
	}, ExecuteOptions{CreateDirectories: true})

	entries, err := eng.History(0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].OperationType != history.OpMove {
		t.Errorf("operationType = %s, want %s", entries[0].OperationType, history.OpMove)
	}
	if entries[0].FileCount != 1 || entries[0].Summary.Succeeded != 1 {
		t.Errorf("entry bookkeeping wrong: %+v", entries[0])
	}
}
