package environ

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pyswitch/pkg/types"
)

// PathEntry describes one directory of a PATH value
type PathEntry struct {
	Value       string `json:"value" yaml:"value"`
	Index       int    `json:"index" yaml:"index"`
	Exists      bool   `json:"exists" yaml:"exists"`
	IsDuplicate bool   `json:"isDuplicate,omitempty" yaml:"isDuplicate,omitempty"`
	DuplicateOf int    `json:"duplicateOf,omitempty" yaml:"duplicateOf,omitempty"`
}

// AnalyzePath inspects every PATH entry. Duplicates are compared after
// cleaning and point at the index of the first occurrence.
func AnalyzePath(value string, fsys types.FS) []PathEntry {
	raw := SplitPath(value)
	entries := make([]PathEntry, len(raw))
	seen := make(map[string]int, len(raw))

	for i, dir := range raw {
		entries[i] = PathEntry{Value: dir, Index: i}
		if fsys != nil {
			if info, err := fsys.Stat(dir); err == nil && info.IsDir() {
				entries[i].Exists = true
			}
		}

		key := filepath.Clean(dir)
		if first, ok := seen[key]; ok {
			entries[i].IsDuplicate = true
			entries[i].DuplicateOf = first
			continue
		}
		seen[key] = i
	}
	return entries
}

// MatchEntries returns the entries containing any of the substrings
func MatchEntries(entries []PathEntry, substrings ...string) []PathEntry {
	var matched []PathEntry
	for _, e := range entries {
		for _, s := range substrings {
			if s != "" && strings.Contains(e.Value, s) {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched
}

// Duplicates returns only the duplicate entries
func Duplicates(entries []PathEntry) []PathEntry {
	var dups []PathEntry
	for _, e := range entries {
		if e.IsDuplicate {
			dups = append(dups, e)
		}
	}
	return dups
}
