package planner

import (
	"fmt"
	"path/filepath"

	"github.com/tidyapp/tidy/internal/fsops"
	"github.com/tidyapp/tidy/internal/proposal"
)

// Validation error codes.
const (
	CodeSourceNotFound     = "SOURCE_NOT_FOUND"
	CodeTargetExists       = "TARGET_EXISTS"
	CodeNoWritePermission  = "NO_WRITE_PERMISSION"
	CodeNoCreatePermission = "NO_PERMISSION_TO_CREATE_DIRECTORY"
)

// ValidateOptions controls batch validation behavior.
type ValidateOptions struct {
	// CreateDirectories indicates missing destination directories will be
	// created during execution, so permission is checked on the nearest
	// existing ancestor instead of the destination directory itself.
	CreateDirectories bool
}

// ValidationError describes one blocking problem found during preflight.
type ValidationError struct {
	// ProposalID identifies the offending proposal
	ProposalID string `json:"proposalId"`

	// Code is the enumerated error code
	Code string `json:"code"`

	// Path is the path the check failed on
	Path string `json:"path"`

	// Message is a human-readable explanation
	Message string `json:"message"`
}

// ValidationResult aggregates preflight findings for a batch.
type ValidationResult struct {
	// Valid is true when no errors were collected
	Valid bool `json:"valid"`

	// Errors lists every blocking problem across the batch
	Errors []ValidationError `json:"errors"`
}

// ValidateBatch runs the preflight checks for every actionable proposal.
// Checks short-circuit per proposal on the first failure but continue across
// the batch, so the caller sees every problem at once. Nothing is mutated.
func ValidateBatch(fs fsops.FS, proposals []proposal.RenameProposal, opts ValidateOptions) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true}

	for i := range proposals {
		p := &proposals[i]
		if !p.Actionable() {
			continue
		}

		verr, err := validateProposal(fs, p, opts)
		if err != nil {
			return nil, err
		}
		if verr != nil {
			result.Errors = append(result.Errors, *verr)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// validateProposal runs the per-proposal checks in order, returning the
// first failure.
func validateProposal(fs fsops.FS, p *proposal.RenameProposal, opts ValidateOptions) (*ValidationError, error) {
	// 1. Source must exist.
	exists, err := fs.Exists(p.OriginalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check source %s: %w", p.OriginalPath, err)
	}
	if !exists {
		return &ValidationError{
			ProposalID: p.ID,
			Code:       CodeSourceNotFound,
			Path:       p.OriginalPath,
			Message:    fmt.Sprintf("Source file not found: %s", p.OriginalPath),
		}, nil
	}

	// 2. Target must not already exist, unless it is the same path.
	if p.ProposedPath != p.OriginalPath {
		exists, err := fs.Exists(p.ProposedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check target %s: %w", p.ProposedPath, err)
		}
		if exists {
			return &ValidationError{
				ProposalID: p.ID,
				Code:       CodeTargetExists,
				Path:       p.ProposedPath,
				Message:    fmt.Sprintf("Target already exists: %s", p.ProposedPath),
			}, nil
		}
	}

	// 3. Source directory must be writable (the rename removes an entry).
	sourceDir := filepath.Dir(p.OriginalPath)
	if !fs.IsDirWritable(sourceDir) {
		return &ValidationError{
			ProposalID: p.ID,
			Code:       CodeNoWritePermission,
			Path:       sourceDir,
			Message:    fmt.Sprintf("No write permission in %s", sourceDir),
		}, nil
	}

	// 4. Destination directory checks, only when it differs from the source.
	targetDir := filepath.Dir(p.ProposedPath)
	if targetDir == sourceDir {
		return nil, nil
	}

	targetExists, err := fs.Exists(targetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check target directory %s: %w", targetDir, err)
	}

	if p.IsMoveOperation && opts.CreateDirectories && !targetExists {
		// The directory will be provisioned at execution time; permission
		// is required on the nearest existing ancestor.
		ancestor, err := fsops.NearestExistingDir(fs, targetDir)
		if err != nil {
			return nil, err
		}
		if !fs.IsDirWritable(ancestor) {
			return &ValidationError{
				ProposalID: p.ID,
				Code:       CodeNoCreatePermission,
				Path:       ancestor,
				Message:    fmt.Sprintf("Cannot create %s: no write permission in %s", targetDir, ancestor),
			}, nil
		}
		return nil, nil
	}

	if !fs.IsDirWritable(targetDir) {
		return &ValidationError{
			ProposalID: p.ID,
			Code:       CodeNoWritePermission,
			Path:       targetDir,
			Message:    fmt.Sprintf("No write permission in %s", targetDir),
		}, nil
	}

	return nil, nil
}
