package engine

import (
	"fmt"

	"github.com/tidyapp/tidy/internal/history"
)

// LookupFileHistory traces a file path across the whole journal.
//
// A file may be looked up by either its original or its current name;
// every matching operation is collected newest-first. OriginalPath comes
// from the earliest matching record and CurrentPath from the latest one,
// so repeated renames resolve to the true first-and-last state.
func (e *Engine) LookupFileHistory(path string) (*FileHistoryLookup, error) {
	doc, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return e.lookupInDocument(doc, path), nil
}

// LookupMultipleFiles resolves several paths against a single store load.
func (e *Engine) LookupMultipleFiles(paths []string) (map[string]*FileHistoryLookup, error) {
	doc, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	results := make(map[string]*FileHistoryLookup, len(paths))
	for _, path := range paths {
		results[path] = e.lookupInDocument(doc, path)
	}
	return results, nil
}

// HasFileBeenRenamed reports whether any journal record touches the path.
func (e *Engine) HasFileBeenRenamed(path string) (bool, error) {
	lookup, err := e.LookupFileHistory(path)
	if err != nil {
		return false, err
	}
	return lookup.Found, nil
}

// GetOriginalPath returns the earliest recorded location for the path, or
// the path itself when it has no history.
func (e *Engine) GetOriginalPath(path string) (string, error) {
	lookup, err := e.LookupFileHistory(path)
	if err != nil {
		return "", err
	}
	if !lookup.Found || lookup.OriginalPath == nil {
		return path, nil
	}
	return *lookup.OriginalPath, nil
}

// lookupInDocument scans every entry for records whose original or new path
// matches the queried path, following rename chains transitively: a file
// renamed A->B and later B->C is found under any of its three names. The
// matched path set is expanded to a fixpoint, then operations are collected
// in journal order (entries are stored newest-first).
func (e *Engine) lookupInDocument(doc *history.Document, path string) *FileHistoryLookup {
	lookup := &FileHistoryLookup{
		SearchedPath: path,
		Operations:   []FileOperation{},
	}

	paths := map[string]bool{path: true}
	for {
		grew := false
		for i := range doc.Entries {
			for j := range doc.Entries[i].Files {
				record := &doc.Entries[i].Files[j]
				if !matchesRecord(record, paths) {
					continue
				}
				if !paths[record.OriginalPath] {
					paths[record.OriginalPath] = true
					grew = true
				}
				if record.NewPath != nil && !paths[*record.NewPath] {
					paths[*record.NewPath] = true
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	for i := range doc.Entries {
		entry := &doc.Entries[i]
		for j := range entry.Files {
			record := &entry.Files[j]
			if !matchesRecord(record, paths) {
				continue
			}

			op := FileOperation{
				OperationID:   entry.ID,
				OperationType: entry.OperationType,
				Timestamp:     entry.Timestamp,
				OriginalPath:  record.OriginalPath,
			}
			if record.NewPath != nil {
				newPath := *record.NewPath
				op.NewPath = &newPath
			}
			lookup.Operations = append(lookup.Operations, op)
		}
	}

	if len(lookup.Operations) == 0 {
		return lookup
	}

	lookup.Found = true

	newest := lookup.Operations[0]
	earliest := lookup.Operations[len(lookup.Operations)-1]

	originalPath := earliest.OriginalPath
	lookup.OriginalPath = &originalPath

	// When the newest operation failed, the file never left its source.
	currentPath := newest.OriginalPath
	if newest.NewPath != nil {
		currentPath = *newest.NewPath
	}
	lookup.CurrentPath = &currentPath

	lastModified := newest.Timestamp
	lookup.LastModified = &lastModified

	// Trust the filesystem, not the journal: the file may have moved again
	// outside this tool.
	if exists, err := e.fs.Exists(originalPath); err == nil {
		lookup.IsAtOriginal = exists
	}

	return lookup
}

// matchesRecord reports whether the record touches any path in the set.
func matchesRecord(record *history.FileHistoryRecord, paths map[string]bool) bool {
	if paths[record.OriginalPath] {
		return true
	}
	return record.NewPath != nil && paths[*record.NewPath]
}
