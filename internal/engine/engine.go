// Package engine executes batch renames, reverses them, and answers
// lineage queries over the journal.
//
// The engine is the only component that mutates the filesystem. Execution
// is strictly sequential: files are processed one at a time, which keeps
// the directory-provisioning bookkeeping correct without locking.
// Cancellation is cooperative via context, polled once per file boundary.
package engine

import (
	"github.com/tidyapp/tidy/internal/clock"
	"github.com/tidyapp/tidy/internal/fsops"
	"github.com/tidyapp/tidy/internal/history"
)

// Limits configures journal pruning.
type Limits struct {
	// MaxEntries caps the journal length (0 disables)
	MaxEntries int

	// MaxAgeDays drops entries older than this many days (0 disables)
	MaxAgeDays int
}

// Engine coordinates validation, execution, recording, undo, and lookup.
type Engine struct {
	fs     fsops.FS
	store  history.Store
	clock  clock.Clock
	limits Limits
}

// New creates an Engine with the given collaborators.
func New(fs fsops.FS, store history.Store, clk clock.Clock, limits Limits) *Engine {
	return &Engine{
		fs:     fs,
		store:  store,
		clock:  clk,
		limits: limits,
	}
}

// History returns the newest journal entries, up to limit (0 = all).
func (e *Engine) History(limit int) ([]history.OperationHistoryEntry, error) {
	doc, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	entries := doc.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// PruneHistory applies the configured limits to the journal and persists
// the result. It returns the number of entries dropped.
func (e *Engine) PruneHistory() (int, error) {
	doc, err := e.store.Load()
	if err != nil {
		return 0, err
	}

	dropped := doc.Prune(e.limits.MaxEntries, e.limits.MaxAgeDays, e.clock.Now())
	if dropped == 0 {
		return 0, nil
	}

	if err := e.store.Save(doc); err != nil {
		return 0, err
	}
	return dropped, nil
}

// ClearHistory resets the journal to an empty document.
func (e *Engine) ClearHistory() error {
	return e.store.Save(history.NewDocument())
}
