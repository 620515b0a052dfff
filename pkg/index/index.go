// Package index persists the mapping between local task identities and
// their Todoist counterparts, together with the content fingerprint each
// pair had at its last successful sync.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// Entry is the sync state of one local task.
type Entry struct {
	TodoistID    string    `json:"todoist_id"`
	LastModified time.Time `json:"last_modified"`
	LastSyncHash string    `json:"last_sync_hash"`
}

// SyncIndex maps local task IDs to Todoist IDs. At most one entry exists
// per local ID; SetMapping keeps the remote side unique as well, so the
// mapping stays a bijection.
type SyncIndex struct {
	LastSync time.Time        `json:"last_sync"`
	Mappings map[string]Entry `json:"task_mappings"`

	path  string
	dirty bool
}

// Load reads the index file. A missing file yields an empty index; corrupt
// content is an error, never a silent reset, because discarding mappings
// would re-create every mapped task on the next pass.
func Load(path string) (*SyncIndex, error) {
	idx := &SyncIndex{
		LastSync: time.Now().UTC(),
		Mappings: make(map[string]Entry),
		path:     path,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("cannot read sync index %s: %w", path, err)
	}
	if err := json.Unmarshal(content, idx); err != nil {
		return nil, fmt.Errorf("corrupt sync index %s: %w", path, err)
	}
	if idx.Mappings == nil {
		idx.Mappings = make(map[string]Entry)
	}
	return idx, nil
}

// Save writes the index back atomically. It is a no-op when nothing
// changed since the last save.
func (idx *SyncIndex) Save() error {
	if !idx.dirty {
		return nil
	}
	if dir := filepath.Dir(idx.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	content, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(idx.path, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("cannot write sync index %s: %w", idx.path, err)
	}
	idx.dirty = false
	return nil
}

// TodoistID returns the remote ID mapped to a local task.
func (idx *SyncIndex) TodoistID(localID string) (string, bool) {
	e, ok := idx.Mappings[localID]
	return e.TodoistID, ok
}

// LocalID returns the local ID mapped to a remote task, scanning the
// mapping in reverse.
func (idx *SyncIndex) LocalID(todoistID string) (string, bool) {
	for localID, e := range idx.Mappings {
		if e.TodoistID == todoistID {
			return localID, true
		}
	}
	return "", false
}

// Hash returns the content fingerprint stored at the last successful sync.
func (idx *SyncIndex) Hash(localID string) (string, bool) {
	e, ok := idx.Mappings[localID]
	return e.LastSyncHash, ok
}

// SetMapping records the sync state for a local task. Any stale entry
// already holding the same Todoist ID is removed first; two local tasks
// must never share a remote counterpart.
func (idx *SyncIndex) SetMapping(localID string, e Entry) {
	for other, existing := range idx.Mappings {
		if other != localID && existing.TodoistID == e.TodoistID {
			delete(idx.Mappings, other)
		}
	}
	idx.Mappings[localID] = e
	idx.dirty = true
}

// RemoveMapping drops the entry for a local task.
func (idx *SyncIndex) RemoveMapping(localID string) {
	if _, ok := idx.Mappings[localID]; ok {
		delete(idx.Mappings, localID)
		idx.dirty = true
	}
}

// RemoveByTodoistID drops whichever entry points at the given remote task.
func (idx *SyncIndex) RemoveByTodoistID(todoistID string) {
	for localID, e := range idx.Mappings {
		if e.TodoistID == todoistID {
			delete(idx.Mappings, localID)
			idx.dirty = true
		}
	}
}

// TouchLastSync advances the last-sync timestamp to now.
func (idx *SyncIndex) TouchLastSync() {
	idx.LastSync = time.Now().UTC()
	idx.dirty = true
}
