package nlp

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/pkg/filesystem"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// FileCache stores interpretation responses as JSON blobs addressed by hash key.
type FileCache struct {
	dir        string
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
}

// NewFileCache returns a cache rooted under ~/.cadvoice/cache/interpretations.
func NewFileCache() *FileCache {
	return &FileCache{
		dir:        filepath.Join(filesystem.SettingsDir(), "cache", "interpretations"),
		maxEntries: domain.DefaultMaxCacheEntries,
		ttl:        time.Hour,
	}
}

// CacheKey hashes the inputs that determine an interpretation.
func CacheKey(model, contextSummary, utterance string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + contextSummary + "\x00" + utterance))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a cache entry.
func (c *FileCache) Get(key string) (domain.InterpretationCacheEntry, bool, error) {
	if key == "" {
		return domain.InterpretationCacheEntry{}, false, nil
	}
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.InterpretationCacheEntry{}, false, nil
		}
		return domain.InterpretationCacheEntry{}, false, err
	}
	var entry domain.InterpretationCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.InterpretationCacheEntry{}, false, err
	}
	if c.ttl > 0 && time.Since(entry.CreatedAt) > c.ttl {
		_ = os.Remove(c.pathFor(key))
		return domain.InterpretationCacheEntry{}, false, nil
	}
	return entry, true, nil
}

// Set stores a cache entry.
func (c *FileCache) Set(entry domain.InterpretationCacheEntry) error {
	if entry.Key == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.pathFor(entry.Key), data, 0o644); err != nil {
		return err
	}
	return c.evictIfNeeded()
}

// Clear removes all cached entries.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

func (c *FileCache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) evictIfNeeded() error {
	files, err := os.ReadDir(c.dir)
	if err != nil || len(files) <= c.maxEntries {
		return nil
	}
	type aged struct {
		name string
		mod  time.Time
	}
	entries := make([]aged, 0, len(files))
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			continue
		}
		entries = append(entries, aged{name: f.Name(), mod: info.ModTime()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].mod.Before(entries[j].mod) })
	for _, e := range entries[:len(entries)-c.maxEntries] {
		_ = os.Remove(filepath.Join(c.dir, e.name))
	}
	return nil
}

var _ ports.InterpretationCache = (*FileCache)(nil)
