// Package planner detects conflicts in a proposal batch and validates it
// against the live filesystem before any mutation happens.
//
// Detection is pure: it compares a proposal against its batch siblings and,
// only when asked, against a caller-supplied set of existing files. The
// validator is the only part of the package that touches the disk.
package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidyapp/tidy/internal/proposal"
)

// DetectContext carries the batch context needed to detect issues for a
// single proposal.
type DetectContext struct {
	// Proposals is the full batch, including the proposal under inspection
	Proposals []proposal.RenameProposal

	// CheckFileSystem enables the FILE_EXISTS check
	CheckFileSystem bool

	// ExistingFiles is the set of paths known to exist on disk.
	// Only consulted when CheckFileSystem is true.
	ExistingFiles map[string]bool
}

// DetectIssues returns the issues detected for p within its batch context.
// A single proposal may carry several simultaneous issues. Issues attached
// upstream are not re-derived here; see ConvertUpstreamIssues.
func DetectIssues(p *proposal.RenameProposal, ctx *DetectContext) []proposal.Issue {
	var issues []proposal.Issue

	if dup := detectDuplicate(p, ctx.Proposals); dup != nil {
		issues = append(issues, *dup)
	}

	if cc := detectCaseConflict(p, ctx.Proposals); cc != nil {
		issues = append(issues, *cc)
	}

	if ctx.CheckFileSystem && ctx.ExistingFiles[p.ProposedPath] {
		issues = append(issues, proposal.Issue{
			Code:        proposal.CodeFileExists,
			Severity:    proposal.SeverityError,
			Message:     fmt.Sprintf("A file already exists at %s", p.ProposedPath),
			AutoFixable: true,
			Fix:         proposal.FixAppendSuffix,
			Suggestion:  SuggestSuffixName(p.ProposedName, "_new"),
		})
	}

	return issues
}

// detectDuplicate checks for another proposal in the batch targeting the
// exact same destination path (case-sensitive). Every member of a duplicate
// group gets the issue, with counter suggestions that are pairwise unique
// within the batch: photo.jpg duplicates become photo_2.jpg, photo_3.jpg, …
// in batch order.
func detectDuplicate(p *proposal.RenameProposal, batch []proposal.RenameProposal) *proposal.Issue {
	position := -1
	count := 0
	for _, other := range batch {
		if other.ProposedPath != p.ProposedPath {
			continue
		}
		if other.ID == p.ID {
			position = count
		}
		count++
	}

	if count < 2 || position < 0 {
		return nil
	}

	return &proposal.Issue{
		Code:        proposal.CodeDuplicateProposed,
		Severity:    proposal.SeverityError,
		Message:     fmt.Sprintf("%d proposals target %s", count, p.ProposedPath),
		AutoFixable: true,
		Fix:         proposal.FixAppendCounter,
		Suggestion:  SuggestCounterName(p.ProposedName, position+2),
	}
}

// detectCaseConflict checks for another proposal whose destination differs
// only by letter case. Case-insensitive filesystems would collide; advisory
// only, never blocking.
func detectCaseConflict(p *proposal.RenameProposal, batch []proposal.RenameProposal) *proposal.Issue {
	for _, other := range batch {
		if other.ID == p.ID {
			continue
		}
		if other.ProposedPath != p.ProposedPath && strings.EqualFold(other.ProposedPath, p.ProposedPath) {
			return &proposal.Issue{
				Code:     proposal.CodeCaseConflict,
				Severity: proposal.SeverityWarning,
				Message:  fmt.Sprintf("%s differs only by case from %s", p.ProposedPath, other.ProposedPath),
			}
		}
	}
	return nil
}

// ConvertUpstreamIssues normalizes issues attached by the external naming
// engine. Severity is assigned by code family (warning for missing-data,
// error for invalid-name) and only duplicate-type codes are marked
// auto-fixable. Codes and messages pass through unchanged.
func ConvertUpstreamIssues(upstream []proposal.Issue) []proposal.Issue {
	if len(upstream) == 0 {
		return nil
	}

	converted := make([]proposal.Issue, 0, len(upstream))
	for _, in := range upstream {
		out := proposal.Issue{
			Code:    in.Code,
			Message: in.Message,
		}

		switch {
		case strings.HasPrefix(in.Code, "MISSING_"):
			out.Severity = proposal.SeverityWarning
		case strings.HasPrefix(in.Code, "INVALID_"):
			out.Severity = proposal.SeverityError
		default:
			out.Severity = in.Severity
			if out.Severity == "" {
				out.Severity = proposal.SeverityWarning
			}
		}

		if strings.HasPrefix(in.Code, "DUPLICATE_") {
			out.AutoFixable = true
			out.Fix = proposal.FixAppendCounter
		}

		converted = append(converted, out)
	}
	return converted
}

// SuggestCounterName appends a numeric counter before the extension:
// photo.jpg with counter 2 becomes photo_2.jpg. Names without an extension
// are suffixed directly.
func SuggestCounterName(name string, counter int) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", base, counter, ext)
}

// SuggestSuffixName inserts a literal suffix before the extension:
// report.pdf with suffix "_new" becomes report_new.pdf.
func SuggestSuffixName(name, suffix string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return base + suffix + ext
}
