package infra

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DiskCache stores law detail payloads as JSON files under a cache
// directory. Validity is judged by file mtime against the TTL; expired
// files are removed on read. Write failures are logged and swallowed —
// the cache is an optimization, never a dependency.
type DiskCache struct {
	dir    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewDiskCache creates a disk cache rooted at dir. The directory is created
// lazily on first write.
func NewDiskCache(dir string, ttl time.Duration, logger *slog.Logger) *DiskCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiskCache{dir: dir, ttl: ttl, logger: logger}
}

// diskEntry is the on-disk JSON layout.
type diskEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Key derives the cache file name from an entity ID and section.
func Key(id, section string) string {
	if section == "" {
		section = "all"
	}
	sum := md5.Sum([]byte(id + "_" + section))
	return hex.EncodeToString(sum[:])
}

// Get loads a cached payload. The second return is false on miss, expiry,
// or any read error.
func (d *DiskCache) Get(key string) (json.RawMessage, bool) {
	path := d.path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > d.ttl {
		_ = os.Remove(path)
		return nil, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		d.logger.Warn("Disk cache read failed", "key", key, "error", err)
		return nil, false
	}
	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		d.logger.Warn("Disk cache entry corrupt, removing", "key", key, "error", err)
		_ = os.Remove(path)
		return nil, false
	}
	return entry.Data, true
}

// Set writes a payload to disk. Errors are non-fatal.
func (d *DiskCache) Set(key string, data json.RawMessage) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		d.logger.Warn("Disk cache directory unavailable, skipping write", "dir", d.dir, "error", err)
		return
	}

	entry := diskEntry{Timestamp: time.Now(), Data: data}
	raw, err := json.Marshal(entry)
	if err != nil {
		d.logger.Warn("Disk cache marshal failed", "key", key, "error", err)
		return
	}
	if err := os.WriteFile(d.path(key), raw, 0o644); err != nil {
		d.logger.Warn("Disk cache write failed", "key", key, "error", err)
	}
}

// Purge removes every expired entry and reports how many were deleted.
func (d *DiskCache) Purge() int {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > d.ttl {
			if os.Remove(filepath.Join(d.dir, e.Name())) == nil {
				removed++
			}
		}
	}
	return removed
}

func (d *DiskCache) path(key string) string {
	return filepath.Join(d.dir, key+".json")
}
