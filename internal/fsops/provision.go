package fsops

import (
	"fmt"
	"path/filepath"
)

// NearestExistingDir walks upward from path to the closest ancestor directory
// that exists on disk. It is used for permission checks when the destination
// directory itself has not been created yet.
func NearestExistingDir(fs FS, path string) (string, error) {
	dir := filepath.Clean(path)
	for {
		exists, err := fs.Exists(dir)
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", dir, err)
		}
		if exists {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the filesystem root without finding anything.
			return dir, nil
		}
		dir = parent
	}
}

// ProvisionDir ensures the directory at path exists, creating missing levels
// as needed. It returns the directories it newly created, shallowest first,
// so the caller can attribute ownership and remove them again on undo.
func ProvisionDir(fs FS, path string) ([]string, error) {
	dir := filepath.Clean(path)

	exists, err := fs.Exists(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check directory %s: %w", dir, err)
	}
	if exists {
		return nil, nil
	}

	// Collect the missing levels before creating anything.
	var missing []string
	cur := dir
	for {
		exists, err := fs.Exists(cur)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", cur, err)
		}
		if exists {
			break
		}
		missing = append(missing, cur)

		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}

	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Reverse into shallowest-first order.
	created := make([]string, 0, len(missing))
	for i := len(missing) - 1; i >= 0; i-- {
		created = append(created, missing[i])
	}
	return created, nil
}

// IsDirEmpty reports whether the directory at path contains no entries.
func IsDirEmpty(fs FS, path string) (bool, error) {
	entries, err := fs.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	return len(entries) == 0, nil
}
