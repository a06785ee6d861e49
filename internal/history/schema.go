// Package history persists the operation journal that makes undo and
// lineage lookup possible.
//
// The journal is a single versioned JSON document, loaded and saved as a
// whole. Entries are append-mostly: once recorded they are only ever
// modified to stamp the time they were undone.
package history

import "time"

// StoreVersion is the current schema version of the history document.
const StoreVersion = "1.0"

// DefaultMaxEntries caps the journal size; oldest entries beyond the cap
// are pruned.
const DefaultMaxEntries = 500

// Operation types recorded in the journal.
const (
	OpRename   = "rename"
	OpMove     = "move"
	OpOrganize = "organize"
)

// FileHistoryRecord is the durable record of one file within an operation.
type FileHistoryRecord struct {
	// OriginalPath is where the file was before the operation
	OriginalPath string `json:"originalPath"`

	// NewPath is where the file ended up (nil if the attempt failed)
	NewPath *string `json:"newPath,omitempty"`

	// IsMoveOperation indicates the file changed directories
	IsMoveOperation bool `json:"isMoveOperation"`

	// Success indicates the filesystem mutation completed
	Success bool `json:"success"`

	// Error holds the failure message when Success is false
	Error *string `json:"error,omitempty"`
}

// OperationSummary aggregates per-file outcomes for an entry.
type OperationSummary struct {
	Succeeded          int `json:"succeeded"`
	Skipped            int `json:"skipped"`
	Failed             int `json:"failed"`
	DirectoriesCreated int `json:"directoriesCreated"`
}

// OperationHistoryEntry is one batch operation in the journal.
type OperationHistoryEntry struct {
	// ID is the entry's UUID
	ID string `json:"id"`

	// Timestamp is when the operation completed
	Timestamp time.Time `json:"timestamp"`

	// OperationType is rename, move, or organize
	OperationType string `json:"operationType"`

	// FileCount is the number of file records in the entry
	FileCount int `json:"fileCount"`

	// Summary aggregates the per-file outcomes
	Summary OperationSummary `json:"summary"`

	// DurationMs is how long the batch took
	DurationMs int64 `json:"durationMs"`

	// Files lists every processed file
	Files []FileHistoryRecord `json:"files"`

	// DirectoriesCreated lists directories provisioned by the operation
	DirectoriesCreated []string `json:"directoriesCreated,omitempty"`

	// UndoneAt is when the entry was undone (nil = not undone)
	UndoneAt *time.Time `json:"undoneAt,omitempty"`
}

// Undone reports whether the entry has already been reversed.
func (e *OperationHistoryEntry) Undone() bool {
	return e.UndoneAt != nil
}

// Document is the whole persisted history store.
// Entries are ordered newest-first.
type Document struct {
	// Version is the schema version for future migration
	Version string `json:"version"`

	// LastPruned is when pruning last ran (nil = never)
	LastPruned *time.Time `json:"lastPruned,omitempty"`

	// Entries is the journal, newest first
	Entries []OperationHistoryEntry `json:"entries"`
}

// NewDocument creates an empty history document at the current version.
func NewDocument() *Document {
	return &Document{
		Version: StoreVersion,
		Entries: []OperationHistoryEntry{},
	}
}

// Append adds an entry at the newest-first position.
func (d *Document) Append(entry OperationHistoryEntry) {
	d.Entries = append([]OperationHistoryEntry{entry}, d.Entries...)
}

// Find returns the entry with the given id, or nil.
func (d *Document) Find(id string) *OperationHistoryEntry {
	for i := range d.Entries {
		if d.Entries[i].ID == id {
			return &d.Entries[i]
		}
	}
	return nil
}

// LatestNotUndone returns the most recent entry that has not been undone,
// or nil when every entry is undone or the journal is empty.
func (d *Document) LatestNotUndone() *OperationHistoryEntry {
	for i := range d.Entries {
		if !d.Entries[i].Undone() {
			return &d.Entries[i]
		}
	}
	return nil
}

// Prune drops entries beyond maxEntries and entries older than maxAgeDays
// (0 disables either limit), oldest first, and stamps LastPruned.
// It returns the number of entries dropped.
func (d *Document) Prune(maxEntries, maxAgeDays int, now time.Time) int {
	before := len(d.Entries)

	if maxAgeDays > 0 {
		cutoff := now.AddDate(0, 0, -maxAgeDays)
		kept := d.Entries[:0]
		for _, e := range d.Entries {
			if !e.Timestamp.Before(cutoff) {
				kept = append(kept, e)
			}
		}
		d.Entries = kept
	}

	if maxEntries > 0 && len(d.Entries) > maxEntries {
		// Entries are newest-first, so trimming the tail drops the oldest.
		d.Entries = d.Entries[:maxEntries]
	}

	dropped := before - len(d.Entries)
	if dropped > 0 {
		t := now
		d.LastPruned = &t
	}
	return dropped
}
