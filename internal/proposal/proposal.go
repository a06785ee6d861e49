// Package proposal defines the canonical rename proposal model.
//
// Proposals are produced by an external naming engine and handed to this
// module as immutable records. The executor, validator, and detector all
// consume this single shape; upstream variations are normalized before
// they reach any of them.
package proposal

// Status describes the state of a rename proposal.
type Status string

// Proposal status constants.
const (
	StatusReady       Status = "ready"
	StatusConflict    Status = "conflict"
	StatusMissingData Status = "missing-data"
	StatusNoChange    Status = "no-change"
	StatusInvalidName Status = "invalid-name"
)

// Severity describes how serious an issue is.
type Severity string

// Issue severity constants.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// FixStrategy identifies how an auto-fixable issue can be resolved.
// Suggestions are computed on demand by pure functions in the planner
// package; no state is captured in the issue record itself.
type FixStrategy string

// Fix strategy constants.
const (
	FixNone          FixStrategy = ""
	FixAppendCounter FixStrategy = "append-counter"
	FixAppendSuffix  FixStrategy = "append-suffix"
)

// Issue codes detected by the planner or passed through from upstream.
const (
	CodeDuplicateProposed = "DUPLICATE_PROPOSED"
	CodeCaseConflict      = "CASE_CONFLICT"
	CodeFileExists        = "FILE_EXISTS"
	CodeMissingRequired   = "MISSING_REQUIRED"
	CodeInvalidName       = "INVALID_NAME"
)

// Issue describes a problem detected with a proposal.
type Issue struct {
	// Code identifies the issue for programmatic handling
	Code string `json:"code"`

	// Severity is warning or error
	Severity Severity `json:"severity"`

	// Message is a human-readable explanation
	Message string `json:"message"`

	// AutoFixable indicates whether a suggested name can resolve the issue
	AutoFixable bool `json:"autoFixable"`

	// Fix is the strategy that produced the suggestion (empty if none)
	Fix FixStrategy `json:"fix,omitempty"`

	// Suggestion is the computed replacement name (empty if none)
	Suggestion string `json:"suggestion,omitempty"`
}

// RenameProposal is one pending rename/move decision.
// Immutable once handed to the executor.
type RenameProposal struct {
	// ID uniquely identifies the proposal within a batch
	ID string `json:"id"`

	// OriginalPath is the full path to the file today
	OriginalPath string `json:"originalPath"`

	// OriginalName is the current filename (with extension)
	OriginalName string `json:"originalName"`

	// ProposedPath is the full destination path
	ProposedPath string `json:"proposedPath"`

	// ProposedName is the proposed filename (with extension)
	ProposedName string `json:"proposedName"`

	// Status is the proposal state assigned upstream
	Status Status `json:"status"`

	// Issues lists problems attached to this proposal
	Issues []Issue `json:"issues"`

	// IsMoveOperation indicates the destination is in a different directory
	IsMoveOperation bool `json:"isMoveOperation"`
}

// Actionable reports whether executing the proposal would change the
// filesystem: it must be ready, and either the name changes or the file
// moves to another directory.
func (p *RenameProposal) Actionable() bool {
	if p.Status != StatusReady {
		return false
	}
	return p.ProposedName != p.OriginalName || p.IsMoveOperation
}

// HasErrors reports whether any attached issue has error severity.
func (p *RenameProposal) HasErrors() bool {
	for _, issue := range p.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
