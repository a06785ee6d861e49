package planner

import (
	"testing"

	"github.com/tidyapp/tidy/internal/proposal"
)

func makeProposal(id, dir, name string) proposal.RenameProposal {
	return proposal.RenameProposal{
		ID:           id,
		OriginalPath: dir + "/orig-" + id + ".jpg",
		OriginalName: "orig-" + id + ".jpg",
		ProposedPath: dir + "/" + name,
		ProposedName: name,
		Status:       proposal.StatusReady,
	}
}

func TestDetectIssues_Duplicates(t *testing.T) {
	t.Run("no issue for unique destinations", func(t *testing.T) {
		batch := []proposal.RenameProposal{
			makeProposal("a", "/pics", "one.jpg"),
			makeProposal("b", "/pics", "two.jpg"),
		}
		ctx := &DetectContext{Proposals: batch}

		issues := DetectIssues(&batch[0], ctx)
		if len(issues) != 0 {
			t.Errorf("expected no issues, got %v", issues)
		}
	})

	t.Run("flags every member of a duplicate group", func(t *testing.T) {
		batch := []proposal.RenameProposal{
			makeProposal("a", "/pics", "photo.jpg"),
			makeProposal("b", "/pics", "photo.jpg"),
			makeProposal("c", "/pics", "photo.jpg"),
		}
		ctx := &DetectContext{Proposals: batch}

		wantSuggestions := []string{"photo_2.jpg", "photo_3.jpg", "photo_4.jpg"}
		for i := range batch {
			issues := DetectIssues(&batch[i], ctx)
			if len(issues) != 1 {
				t.Fatalf("proposal %s: expected 1 issue, got %d", batch[i].ID, len(issues))
			}
			issue := issues[0]
			if issue.Code != proposal.CodeDuplicateProposed {
				t.Errorf("code = %s, want %s", issue.Code, proposal.CodeDuplicateProposed)
			}
			if issue.Severity != proposal.SeverityError {
				t.Errorf("severity = %s, want error", issue.Severity)
			}
			if !issue.AutoFixable || issue.Fix != proposal.FixAppendCounter {
				t.Errorf("expected auto-fixable append-counter issue, got %+v", issue)
			}
			if issue.Suggestion != wantSuggestions[i] {
				t.Errorf("suggestion = %q, want %q", issue.Suggestion, wantSuggestions[i])
			}
		}
	})

	t.Run("counter scoped per destination name", func(t *testing.T) {
		batch := []proposal.RenameProposal{
			makeProposal("a", "/pics", "photo.jpg"),
			makeProposal("b", "/pics", "other.jpg"),
			makeProposal("c", "/pics", "photo.jpg"),
			makeProposal("d", "/pics", "other.jpg"),
		}
		ctx := &DetectContext{Proposals: batch}

		if got := DetectIssues(&batch[2], ctx)[0].Suggestion; got != "photo_3.jpg" {
			t.Errorf("photo duplicate suggestion = %q, want photo_3.jpg", got)
		}
		if got := DetectIssues(&batch[3], ctx)[0].Suggestion; got != "other_3.jpg" {
			t.Errorf("other duplicate suggestion = %q, want other_3.jpg", got)
		}
	})

	t.Run("duplicate detection is case-sensitive", func(t *testing.T) {
		batch := []proposal.RenameProposal{
			makeProposal("a", "/pics", "Photo.jpg"),
			makeProposal("b", "/pics", "photo.jpg"),
		}
		ctx := &DetectContext{Proposals: batch}

		issues := DetectIssues(&batch[0], ctx)
		for _, issue := range issues {
			if issue.Code == proposal.CodeDuplicateProposed {
				t.Errorf("case-differing paths must not be duplicates: %+v", issue)
			}
		}
	})
}

func TestDetectIssues_CaseConflict(t *testing.T) {
	batch := []proposal.RenameProposal{
		makeProposal("a", "/pics", "Photo.jpg"),
		makeProposal("b", "/pics", "photo.jpg"),
	}
	ctx := &DetectContext{Proposals: batch}

	issues := DetectIssues(&batch[0], ctx)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	issue := issues[0]
	if issue.Code != proposal.CodeCaseConflict {
		t.Errorf("code = %s, want %s", issue.Code, proposal.CodeCaseConflict)
	}
	if issue.Severity != proposal.SeverityWarning {
		t.Errorf("severity = %s, want warning", issue.Severity)
	}
	if issue.AutoFixable {
		t.Error("case conflicts must not be auto-fixable")
	}
}

func TestDetectIssues_FileExists(t *testing.T) {
	batch := []proposal.RenameProposal{
		makeProposal("a", "/docs", "report.pdf"),
	}

	t.Run("skipped without filesystem checking", func(t *testing.T) {
		ctx := &DetectContext{
			Proposals:     batch,
			ExistingFiles: map[string]bool{"/docs/report.pdf": true},
		}
		if issues := DetectIssues(&batch[0], ctx); len(issues) != 0 {
			t.Errorf("expected no issues without CheckFileSystem, got %v", issues)
		}
	})

	t.Run("flags existing destination with suffix fix", func(t *testing.T) {
		ctx := &DetectContext{
			Proposals:       batch,
			CheckFileSystem: true,
			ExistingFiles:   map[string]bool{"/docs/report.pdf": true},
		}

		issues := DetectIssues(&batch[0], ctx)
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %d", len(issues))
		}
		issue := issues[0]
		if issue.Code != proposal.CodeFileExists || issue.Severity != proposal.SeverityError {
			t.Errorf("unexpected issue: %+v", issue)
		}
		if issue.Suggestion != "report_new.pdf" || issue.Fix != proposal.FixAppendSuffix {
			t.Errorf("suggestion = %q (fix %s), want report_new.pdf via append-suffix", issue.Suggestion, issue.Fix)
		}
	})
}

func TestDetectIssues_Simultaneous(t *testing.T) {
	// A proposal can be both a duplicate within the batch and collide with a
	// file already on disk.
	batch := []proposal.RenameProposal{
		makeProposal("a", "/pics", "photo.jpg"),
		makeProposal("b", "/pics", "photo.jpg"),
	}
	ctx := &DetectContext{
		Proposals:       batch,
		CheckFileSystem: true,
		ExistingFiles:   map[string]bool{"/pics/photo.jpg": true},
	}

	issues := DetectIssues(&batch[0], ctx)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(issues), issues)
	}

	codes := map[string]bool{}
	for _, issue := range issues {
		codes[issue.Code] = true
	}
	if !codes[proposal.CodeDuplicateProposed] || !codes[proposal.CodeFileExists] {
		t.Errorf("expected duplicate and file-exists issues, got %v", codes)
	}
}

func TestConvertUpstreamIssues(t *testing.T) {
	tests := []struct {
		name        string
		in          proposal.Issue
		wantSev     proposal.Severity
		wantFixable bool
	}{
		{
			name:    "missing data code becomes warning",
			in:      proposal.Issue{Code: "MISSING_REQUIRED", Message: "no date found"},
			wantSev: proposal.SeverityWarning,
		},
		{
			name:    "invalid name code becomes error",
			in:      proposal.Issue{Code: "INVALID_NAME", Message: "illegal characters"},
			wantSev: proposal.SeverityError,
		},
		{
			name:        "duplicate code stays fixable",
			in:          proposal.Issue{Code: "DUPLICATE_PROPOSED", Message: "dup"},
			wantSev:     proposal.SeverityWarning,
			wantFixable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ConvertUpstreamIssues([]proposal.Issue{tt.in})
			if len(out) != 1 {
				t.Fatalf("expected 1 issue, got %d", len(out))
			}
			got := out[0]
			if got.Code != tt.in.Code || got.Message != tt.in.Message {
				t.Errorf("code/message must pass through unchanged, got %+v", got)
			}
			if got.Severity != tt.wantSev {
				t.Errorf("severity = %s, want %s", got.Severity, tt.wantSev)
			}
			if got.AutoFixable != tt.wantFixable {
				t.Errorf("autoFixable = %v, want %v", got.AutoFixable, tt.wantFixable)
			}
		})
	}

	t.Run("empty input", func(t *testing.T) {
		if out := ConvertUpstreamIssues(nil); out != nil {
			t.Errorf("expected nil, got %v", out)
		}
	})
}

func TestSuggestCounterName(t *testing.T) {
	tests := []struct {
		name    string
		counter int
		want    string
	}{
		{"photo.jpg", 2, "photo_2.jpg"},
		{"photo.jpg", 10, "photo_10.jpg"},
		{"archive.tar", 3, "archive_3.tar"},
		{"README", 2, "README_2"},
	}

	for _, tt := range tests {
		if got := SuggestCounterName(tt.name, tt.counter); got != tt.want {
			t.Errorf("SuggestCounterName(%q, %d) = %q, want %q", tt.name, tt.counter, got, tt.want)
		}
	}
}

func TestSuggestSuffixName(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		want   string
	}{
		{"report.pdf", "_new", "report_new.pdf"},
		{"README", "_new", "README_new"},
	}

	for _, tt := range tests {
		if got := SuggestSuffixName(tt.name, tt.suffix); got != tt.want {
			t.Errorf("SuggestSuffixName(%q, %q) = %q, want %q", tt.name, tt.suffix, got, tt.want)
		}
	}
}
