package engine

import (
	"time"

	"github.com/tidyapp/tidy/internal/history"
)

// Outcome classifies how a single file fared during batch execution.
const (
	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// ProgressFunc is invoked after every processed file with the number of
// completed actionable files, the actionable total, and the result just
// produced.
type ProgressFunc func(completed, total int, result *FileRenameResult)

// ExecuteOptions controls a batch rename run.
type ExecuteOptions struct {
	// CreateDirectories provisions missing destination directories for
	// move operations
	CreateDirectories bool

	// SkipValidation bypasses the preflight checks
	SkipValidation bool

	// SkipHistory disables journal recording for this batch
	SkipHistory bool

	// OnProgress, when set, is called after every file
	OnProgress ProgressFunc
}

// FileRenameResult is the outcome for one processed proposal.
// Never mutated after creation.
type FileRenameResult struct {
	// ProposalID identifies the proposal this result belongs to
	ProposalID string `json:"proposalId"`

	// OriginalPath is the file's path before the operation
	OriginalPath string `json:"originalPath"`

	// OriginalName is the filename before the operation
	OriginalName string `json:"originalName"`

	// NewPath is the destination path (nil unless the rename succeeded)
	NewPath *string `json:"newPath,omitempty"`

	// NewName is the destination filename (nil unless the rename succeeded)
	NewName *string `json:"newName,omitempty"`

	// Outcome is success, skipped, or failed
	Outcome string `json:"outcome"`

	// Error carries the failure message or skip reason
	Error *string `json:"error,omitempty"`

	// IsMoveOperation indicates the file changed directories
	IsMoveOperation bool `json:"isMoveOperation"`
}

// BatchRenameResult aggregates one batch invocation.
type BatchRenameResult struct {
	// Results holds one entry per processed proposal
	Results []FileRenameResult `json:"results"`

	// Summary counts outcomes in a single pass over Results
	Summary history.OperationSummary `json:"summary"`

	// Success is true iff no result failed
	Success bool `json:"success"`

	// Aborted is true when cancellation stopped the batch early
	Aborted bool `json:"aborted"`

	// StartedAt / CompletedAt bound the execution window
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`

	// DurationMs is the execution time in milliseconds
	DurationMs int64 `json:"durationMs"`

	// DirectoriesCreated lists directories provisioned during the batch
	DirectoriesCreated []string `json:"directoriesCreated,omitempty"`

	// HistoryEntryID is the journal entry id (empty if recording was
	// disabled or failed)
	HistoryEntryID string `json:"historyEntryId,omitempty"`
}

// UndoRequest identifies the entry to reverse.
type UndoRequest struct {
	// EntryID is the journal entry to undo; empty targets the most recent
	// entry that has not been undone
	EntryID string

	// DryRun performs every check without mutating the filesystem or the
	// journal
	DryRun bool
}

// UndoFileResult is the outcome for one file during undo.
type UndoFileResult struct {
	// OriginalPath is where the file is restored to
	OriginalPath string `json:"originalPath"`

	// CurrentPath is where the file was expected to be (the recorded new path)
	CurrentPath string `json:"currentPath"`

	// Restored indicates the file was moved back
	Restored bool `json:"restored"`

	// SkipReason explains why the file was not attempted
	SkipReason string `json:"skipReason,omitempty"`

	// Error holds the failure message when the restore was attempted and failed
	Error string `json:"error,omitempty"`
}

// UndoResult aggregates one undo invocation.
type UndoResult struct {
	// EntryID is the journal entry that was undone
	EntryID string `json:"entryId"`

	// Success is true iff every restorable file actually restored
	Success bool `json:"success"`

	// DryRun indicates nothing was mutated
	DryRun bool `json:"dryRun"`

	// FilesRestored / FilesSkipped / FilesFailed count per-file outcomes
	FilesRestored int `json:"filesRestored"`
	FilesSkipped  int `json:"filesSkipped"`
	FilesFailed   int `json:"filesFailed"`

	// Files lists every per-file outcome
	Files []UndoFileResult `json:"files"`

	// DirectoriesRemoved lists created-by-the-operation directories that
	// were empty and removed
	DirectoriesRemoved []string `json:"directoriesRemoved,omitempty"`

	// CompletedAt is when the undo finished
	CompletedAt time.Time `json:"completedAt"`
}

// FileOperation is one historical operation touching a looked-up file.
type FileOperation struct {
	// OperationID is the journal entry id
	OperationID string `json:"operationId"`

	// OperationType is rename, move, or organize
	OperationType string `json:"operationType"`

	// Timestamp is when the operation ran
	Timestamp time.Time `json:"timestamp"`

	// OriginalPath is the file's path before this operation
	OriginalPath string `json:"originalPath"`

	// NewPath is the file's path after this operation (nil if it failed)
	NewPath *string `json:"newPath,omitempty"`
}

// FileHistoryLookup traces a single file across the whole journal.
type FileHistoryLookup struct {
	// Found indicates at least one journal record matched
	Found bool `json:"found"`

	// SearchedPath is the path the caller asked about
	SearchedPath string `json:"searchedPath"`

	// OriginalPath is the earliest recorded location (nil when not found)
	OriginalPath *string `json:"originalPath,omitempty"`

	// CurrentPath is the latest recorded destination (nil when not found)
	CurrentPath *string `json:"currentPath,omitempty"`

	// IsAtOriginal reports whether a file exists at OriginalPath right now
	IsAtOriginal bool `json:"isAtOriginal"`

	// LastModified is the timestamp of the newest matching operation
	LastModified *time.Time `json:"lastModified,omitempty"`

	// Operations lists every matching operation, newest first
	Operations []FileOperation `json:"operations"`
}
