package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/tidyapp/tidy/internal/history"
)

// newHistoryEntry maps a completed batch result to an immutable journal
// entry. The operation type is inferred from the results: any move makes
// the entry a move, otherwise it is a plain rename.
func newHistoryEntry(result *BatchRenameResult, now time.Time) history.OperationHistoryEntry {
	files := make([]history.FileHistoryRecord, 0, len(result.Results))
	anyMove := false

	for i := range result.Results {
		r := &result.Results[i]
		if r.IsMoveOperation {
			anyMove = true
		}

		record := history.FileHistoryRecord{
			OriginalPath:    r.OriginalPath,
			IsMoveOperation: r.IsMoveOperation,
			Success:         r.Outcome == OutcomeSuccess,
		}
		if r.Outcome == OutcomeSuccess && r.NewPath != nil {
			path := *r.NewPath
			record.NewPath = &path
		}
		if r.Error != nil {
			msg := *r.Error
			record.Error = &msg
		}
		files = append(files, record)
	}

	opType := history.OpRename
	if anyMove {
		opType = history.OpMove
	}

	return history.OperationHistoryEntry{
		ID:                 uuid.NewString(),
		Timestamp:          now,
		OperationType:      opType,
		FileCount:          len(files),
		Summary:            result.Summary,
		DurationMs:         result.DurationMs,
		Files:              files,
		DirectoriesCreated: append([]string(nil), result.DirectoriesCreated...),
	}
}
