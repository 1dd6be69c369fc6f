// Package conflict builds the file→task index and answers file-touch
// conflict queries (component C2 of SPEC_FULL.md). File comparison is
// case-sensitive path equality (§4.2); any normalization is the caller's
// responsibility.
package conflict

import (
	"sort"

	"github.com/vanderheijden86/beadwork/pkg/model"
)

// Index maps files to the tasks that touch them and answers
// pairwise-conflict queries.
type Index struct {
	fileTasks map[string][]string // file -> task ids touching it
	taskFiles map[string][]string // task id -> files it touches
}

// Build indexes the given tasks by affected file.
func Build(tasks []model.Task) *Index {
	idx := &Index{
		fileTasks: make(map[string][]string),
		taskFiles: make(map[string][]string, len(tasks)),
	}
	for _, t := range tasks {
		idx.taskFiles[t.ID] = append([]string(nil), t.AffectedFiles...)
		for _, f := range t.AffectedFiles {
			idx.fileTasks[f] = append(idx.fileTasks[f], t.ID)
		}
	}
	return idx
}

// Conflicts returns the set of task ids that share at least one file
// with id, excluding id itself.
func (idx *Index) Conflicts(id string) model.StringSet {
	out := model.NewStringSet()
	for _, f := range idx.taskFiles[id] {
		for _, other := range idx.fileTasks[f] {
			if other != id {
				out.Add(other)
			}
		}
	}
	return out
}

// ConflictFree reports whether every pair of tasks in batch has
// disjoint affected-file sets.
func (idx *Index) ConflictFree(batch []string) bool {
	seen := make(map[string]string, 16)
	for _, id := range batch {
		for _, f := range idx.taskFiles[id] {
			if owner, ok := seen[f]; ok && owner != id {
				return false
			}
			seen[f] = id
		}
	}
	return true
}

// Files returns the files task id touches, in deterministic order.
func (idx *Index) Files(id string) []string {
	out := append([]string(nil), idx.taskFiles[id]...)
	sort.Strings(out)
	return out
}
