// Package ratelimit provides a model.RateLimitView backed by a JSON
// file on disk, reloaded on change via pkg/watcher the way the
// teacher's CLI reloads its issue/workspace caches off the same
// debounced-fsnotify-plus-polling watcher.
package ratelimit

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/beadwork/pkg/debug"
	"github.com/vanderheijden86/beadwork/pkg/model"
	"github.com/vanderheijden86/beadwork/pkg/watcher"
)

// fileRecord is the on-disk shape of one rate-limit entry, matching the
// persistent format in SPEC_FULL.md §6: camelCase fields, with session
// id/detection metadata carried through but unused by the core.
type fileRecord struct {
	Model           string `json:"model"`
	Account         string `json:"account"`
	IsLimited       bool   `json:"isLimited"`
	AvailableAtUnix int64  `json:"availableAtUnix"`
	SessionID       string `json:"sessionId,omitempty"`
	DetectedAt      string `json:"detectedAt,omitempty"`
	Source          string `json:"source,omitempty"`
}

// normalizeModel lowercases model and keeps only alphanumerics and '-',
// per §6's key-normalization rule.
func normalizeModel(s string) string {
	return normalize(s, func(r rune) bool {
		return isAlphanumeric(r) || r == '-'
	})
}

// normalizeAccount lowercases account and keeps alphanumerics plus
// '@', '.', '-', per §6's key-normalization rule.
func normalizeAccount(s string) string {
	return normalize(s, func(r rune) bool {
		return isAlphanumeric(r) || r == '@' || r == '.' || r == '-'
	})
}

func normalize(s string, keep func(rune) bool) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// recordKey builds the "ratelimit:current:<model>:<account>" key named
// by §6, using the normalized forms of both components.
func recordKey(modelName, account string) string {
	return "ratelimit:current:" + normalizeModel(modelName) + ":" + normalizeAccount(account)
}

// FileRateLimitView implements model.RateLimitView by reading a JSON
// object keyed by the §6 "ratelimit:current:<model>:<account>" pattern
// from path, caching it in memory, and transparently reloading whenever
// the file changes.
type FileRateLimitView struct {
	path string
	w    *watcher.Watcher

	mu      sync.RWMutex
	records map[string]model.RateLimitRecord
	loadErr error
}

// NewFileRateLimitView loads path once and starts watching it for
// subsequent changes. The caller should call Close when done.
func NewFileRateLimitView(path string) (*FileRateLimitView, error) {
	v := &FileRateLimitView{path: path, records: make(map[string]model.RateLimitRecord)}

	if err := v.reload(); err != nil {
		return nil, fmt.Errorf("ratelimit: initial load of %s: %w", path, err)
	}

	w, err := watcher.NewWatcher(path, watcher.WithOnChange(func() {
		start := time.Now()
		err := v.reload() // surfaced to callers via Get's error return, not dropped
		debug.Log("ratelimit: reloaded %s (err=%v)", path, err)
		debug.LogTiming("ratelimit.reload", time.Since(start))
	}))
	if err != nil {
		return nil, fmt.Errorf("ratelimit: watching %s: %w", path, err)
	}
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("ratelimit: starting watch on %s: %w", path, err)
	}
	v.w = w

	return v, nil
}

func (v *FileRateLimitView) reload() error {
	raw, err := os.ReadFile(v.path)
	if err != nil {
		v.mu.Lock()
		v.loadErr = err
		v.mu.Unlock()
		return err
	}

	var entries map[string]fileRecord
	if err := json.Unmarshal(raw, &entries); err != nil {
		v.mu.Lock()
		v.loadErr = err
		v.mu.Unlock()
		return err
	}

	next := make(map[string]model.RateLimitRecord, len(entries))
	for _, e := range entries {
		next[recordKey(e.Model, e.Account)] = model.RateLimitRecord{
			Model:             e.Model,
			Account:           e.Account,
			IsLimited:         e.IsLimited,
			AvailableAtUnixMs: e.AvailableAtUnix,
		}
	}

	v.mu.Lock()
	v.records = next
	v.loadErr = nil
	v.mu.Unlock()
	return nil
}

// Get implements model.RateLimitView. A stale load error from the last
// reload attempt is returned so the caller's availability check can
// apply §4.7's "assume available" degradation.
func (v *FileRateLimitView) Get(modelName, account string) (model.RateLimitRecord, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.loadErr != nil {
		return model.RateLimitRecord{}, false, v.loadErr
	}
	rec, ok := v.records[recordKey(modelName, account)]
	return rec, ok, nil
}

// Close stops the background watch.
func (v *FileRateLimitView) Close() {
	if v.w != nil {
		v.w.Stop()
	}
}
